package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"lending_docs/internal/config/connections"
)

type ConnectionInfo struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
}

type S3 struct {
	Client *minio.Client
	Bucket string
	Region string
}

// splitEndpoint accepts AWS_ENDPOINT with or without a scheme; minio wants
// host[:port] plus a TLS flag.
func splitEndpoint(endpoint string) (host string, tls bool) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, false
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, false
	}
	return u.Host, u.Scheme == "https"
}

func NewConnection(info ConnectionInfo) (*S3, error) {
	host, tls := splitEndpoint(info.Endpoint)
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(info.AccessKey, info.SecretKey, ""),
		Secure: info.UseSSL || tls,
		Region: info.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client for %s: %w", host, err)
	}
	return &S3{Client: client, Bucket: info.Bucket, Region: info.Region}, nil
}

// Ping checks the configured bucket exists.
func (s *S3) Ping(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return connections.ErrNotInitialized
	}
	ok, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return fmt.Errorf("bucket check failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("bucket %q not found", s.Bucket)
	}
	return nil
}

// EnsureBucket creates the bucket on first start.
func (s *S3) EnsureBucket(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return connections.ErrNotInitialized
	}
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil || exists {
		return err
	}
	return s.Client.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{Region: s.Region})
}
