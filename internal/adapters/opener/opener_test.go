package opener

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitObjectURI(t *testing.T) {
	b, k, err := splitObjectURI("s3://lending-docs/imports/deals.csv")
	require.NoError(t, err)
	assert.Equal(t, "lending-docs", b)
	assert.Equal(t, "imports/deals.csv", k)

	_, _, err = splitObjectURI("s3://bucket-only")
	assert.Error(t, err)
	_, _, err = splitObjectURI("https://x/y")
	assert.Error(t, err)
}

func TestCompoundOpenerHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "id,name\nsba_7a,SBA 7(a)\n")
	}))
	defer srv.Close()

	c := NewCompoundOpener(NewHTTPOpener(srv.Client(), nil), nil, "")

	rc, meta, err := c.Open(context.Background(), srv.URL+"/programs.csv")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "http", meta.Source)
	assert.Equal(t, "programs.csv", meta.Name)
	assert.Equal(t, "text/csv", meta.ContentType)
	assert.Contains(t, string(body), "sba_7a")

	_, _, err = c.Open(context.Background(), srv.URL+"/missing.csv")
	assert.ErrorContains(t, err, "404")
}

func TestCompoundOpenerUnconfigured(t *testing.T) {
	c := NewCompoundOpener(nil, nil, "")
	_, _, err := c.Open(context.Background(), "imports/deals.csv")
	assert.ErrorContains(t, err, "default bucket")

	for _, loc := range []string{"s3://b/k", "https://example.com/x.csv", "file:///deals.csv"} {
		_, _, err = c.Open(context.Background(), loc)
		assert.True(t, errors.Is(err, ErrNotConfigured), loc)
	}

	_, _, err = c.Open(context.Background(), "ftp://host/x.csv")
	assert.ErrorContains(t, err, "unsupported scheme")
	_, _, err = c.Open(context.Background(), "  ")
	assert.ErrorContains(t, err, "empty")
}

func TestLocalOpener(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deals.csv"), []byte("program_id\nsba_7a\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	c := NewCompoundOpener(nil, nil, "").WithLocal(NewLocalOpener(dir, nil))

	rc, meta, err := c.Open(context.Background(), "file:///deals.csv")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "program_id\nsba_7a\n", string(body))
	assert.Equal(t, "file", meta.Source)
	assert.Equal(t, "deals.csv", meta.Name)
	assert.Equal(t, int64(18), meta.Size)

	_, _, err = c.Open(context.Background(), "file://../etc/passwd")
	assert.ErrorContains(t, err, "outside import dir")
	_, _, err = c.Open(context.Background(), "file://nested")
	assert.ErrorContains(t, err, "directory")
	_, _, err = c.Open(context.Background(), "file://nope.csv")
	assert.Error(t, err)
}
