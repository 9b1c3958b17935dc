package opener

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"lending_docs/internal/ports"
)

// ObjectReader is the subset of *minio.Client the S3 opener needs.
type ObjectReader interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

type S3Opener struct {
	Client ObjectReader
	log    *zap.Logger
}

func NewS3Opener(cli ObjectReader, log *zap.Logger) *S3Opener {
	if log == nil {
		log = zap.NewNop()
	}
	return &S3Opener{Client: cli, log: log}
}

// Open stats the object first so a missing key fails before any body is
// handed to the importer.
func (s *S3Opener) Open(ctx context.Context, bucket, key string) (io.ReadCloser, ports.SourceMeta, error) {
	info, err := s.Client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		s.log.Error("[OPENER][S3] stat failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return nil, ports.SourceMeta{}, fmt.Errorf("stat s3://%s/%s: %w", bucket, key, err)
	}
	obj, err := s.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ports.SourceMeta{}, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}

	s.log.Debug("[OPENER][S3][OK]", zap.String("key", key), zap.String("content_type", info.ContentType), zap.Int64("size", info.Size))
	return obj, ports.SourceMeta{
		Source:      "s3",
		Name:        path.Base(key),
		ContentType: info.ContentType,
		Size:        info.Size,
		Bucket:      bucket,
		Key:         key,
	}, nil
}
