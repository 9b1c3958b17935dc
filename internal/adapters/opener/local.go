package opener

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"lending_docs/internal/ports"
)

// LocalOpener serves files under Root. Paths escaping Root are rejected.
type LocalOpener struct {
	Root string
	log  *zap.Logger
}

func NewLocalOpener(root string, log *zap.Logger) *LocalOpener {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalOpener{Root: root, log: log}
}

func (l *LocalOpener) Open(_ context.Context, rel string) (io.ReadCloser, ports.SourceMeta, error) {
	full := filepath.Join(l.Root, filepath.FromSlash(rel))
	back, err := filepath.Rel(l.Root, full)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return nil, ports.SourceMeta{}, fmt.Errorf("path %q outside import dir", rel)
	}

	f, err := os.Open(full)
	if err != nil {
		l.log.Error("[OPENER][FILE] open failed", zap.String("path", full), zap.Error(err))
		return nil, ports.SourceMeta{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ports.SourceMeta{}, err
	}
	if st.IsDir() {
		f.Close()
		return nil, ports.SourceMeta{}, fmt.Errorf("%s is a directory", rel)
	}

	l.log.Debug("[OPENER][FILE][OK]", zap.String("path", full), zap.Int64("size", st.Size()))
	return f, ports.SourceMeta{
		Source:      "file",
		Name:        st.Name(),
		ContentType: mime.TypeByExtension(filepath.Ext(full)),
		Size:        st.Size(),
	}, nil
}
