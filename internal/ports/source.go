package ports

import (
	"context"
	"io"
)

// SourceMeta describes an opened import source. Size is -1 when the
// source did not report a length.
type SourceMeta struct {
	Source      string
	Name        string
	ContentType string
	Size        int64
	Bucket      string
	Key         string
}

// SourceOpener resolves an import location (URL, s3:// URI, bare key or
// file:// path) to a readable stream.
type SourceOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, SourceMeta, error)
}
