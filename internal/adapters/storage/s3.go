package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"lending_docs/internal/ports"
)

type S3Putter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Store writes objects to one bucket.
type S3Store struct {
	client S3Putter
	bucket string
}

func NewS3Store(client S3Putter, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) Bucket() string { return s.bucket }

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ports.ObjectInfo, error) {
	if s.client == nil || s.bucket == "" {
		return ports.ObjectInfo{}, errors.New("s3 store not configured")
	}
	if size <= 0 {
		size = -1
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return ports.ObjectInfo{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return ports.ObjectInfo{Bucket: s.bucket, Key: key, Size: info.Size}, nil
}

func URI(info ports.ObjectInfo) string {
	return fmt.Sprintf("s3://%s/%s", info.Bucket, info.Key)
}
