package opener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"go.uber.org/zap"

	"lending_docs/internal/ports"
)

// HTTPOpener downloads import files with a GET. Non-2xx responses are errors.
type HTTPOpener struct {
	Client *http.Client
	log    *zap.Logger
}

func NewHTTPOpener(cli *http.Client, log *zap.Logger) *HTTPOpener {
	if cli == nil {
		cli = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPOpener{Client: cli, log: log}
}

func (h *HTTPOpener) Open(ctx context.Context, rawURL string) (io.ReadCloser, ports.SourceMeta, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ports.SourceMeta{}, fmt.Errorf("parse url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ports.SourceMeta{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		h.log.Error("[OPENER][HTTP] request failed", zap.String("host", u.Host), zap.Error(err))
		return nil, ports.SourceMeta{}, err
	}
	if resp.StatusCode/100 != 2 {
		_ = resp.Body.Close()
		h.log.Error("[OPENER][HTTP] unexpected status", zap.String("host", u.Host), zap.Int("status", resp.StatusCode))
		return nil, ports.SourceMeta{}, fmt.Errorf("GET %s: http status %d", u.Path, resp.StatusCode)
	}

	meta := ports.SourceMeta{
		Source:      u.Scheme,
		Name:        path.Base(u.Path),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}
	h.log.Debug("[OPENER][HTTP][OK]", zap.String("name", meta.Name), zap.String("content_type", meta.ContentType), zap.Int64("size", meta.Size))
	return resp.Body, meta, nil
}
