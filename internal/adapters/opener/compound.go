package opener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"lending_docs/internal/ports"
)

var ErrNotConfigured = errors.New("opener not configured")

// CompoundOpener picks a backend by scheme. Locations without a scheme are
// object keys in DefaultBucket.
type CompoundOpener struct {
	HTTP  *HTTPOpener
	S3    *S3Opener
	Local *LocalOpener

	DefaultBucket string
}

func NewCompoundOpener(httpOp *HTTPOpener, s3Op *S3Opener, defaultBucket string) *CompoundOpener {
	return &CompoundOpener{HTTP: httpOp, S3: s3Op, DefaultBucket: defaultBucket}
}

// WithLocal enables file:// locations.
func (c *CompoundOpener) WithLocal(l *LocalOpener) *CompoundOpener {
	c.Local = l
	return c
}

func (c *CompoundOpener) Open(ctx context.Context, location string) (io.ReadCloser, ports.SourceMeta, error) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return nil, ports.SourceMeta{}, errors.New("empty location")
	}

	scheme := ""
	if i := strings.Index(loc, "://"); i > 0 {
		scheme = strings.ToLower(loc[:i])
	}

	switch scheme {
	case "http", "https":
		if c.HTTP == nil {
			return nil, ports.SourceMeta{}, fmt.Errorf("%s: %w", scheme, ErrNotConfigured)
		}
		return c.HTTP.Open(ctx, loc)
	case "s3":
		if c.S3 == nil {
			return nil, ports.SourceMeta{}, fmt.Errorf("s3: %w", ErrNotConfigured)
		}
		bucket, key, err := splitObjectURI(loc)
		if err != nil {
			return nil, ports.SourceMeta{}, err
		}
		return c.S3.Open(ctx, bucket, key)
	case "file":
		if c.Local == nil {
			return nil, ports.SourceMeta{}, fmt.Errorf("file: %w", ErrNotConfigured)
		}
		return c.Local.Open(ctx, strings.TrimPrefix(loc[len("file://"):], "/"))
	case "":
		if c.S3 == nil || c.DefaultBucket == "" {
			return nil, ports.SourceMeta{}, errors.New("bare key needs a default bucket; pass s3://bucket/key or a url")
		}
		return c.S3.Open(ctx, c.DefaultBucket, strings.TrimPrefix(loc, "/"))
	default:
		return nil, ports.SourceMeta{}, fmt.Errorf("unsupported scheme %q", scheme)
	}
}

func splitObjectURI(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 uri: %s", raw)
	}
	key = path.Clean(strings.TrimPrefix(u.Path, "/"))
	if u.Host == "" || key == "." || key == "/" {
		return "", "", fmt.Errorf("s3 uri needs bucket and key: %s", raw)
	}
	return u.Host, key, nil
}
