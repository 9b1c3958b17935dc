package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lending_docs/internal/handlers"
	"lending_docs/internal/metrics"
	auth "lending_docs/internal/transport/auth"
)

const (
	AbilityDocuments = "documents"
	AbilityImport    = "import"
)

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// Routes builds the mux. When tokens is non-nil, document, import and upload
// routes require a bearer token carrying the route's ability.
func Routes(h *handlers.Handlers, tokens auth.TokenRepo, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if h == nil {
		return mux
	}

	route := func(path string, fn http.HandlerFunc, ability string) {
		var next http.Handler = fn
		if ability != "" && tokens != nil {
			next = auth.BearerMiddleware(tokens, log)(auth.RequireAbility(ability, log)(next))
		}
		mux.Handle(path, metrics.Middleware(path, next))
	}

	route("/health", h.Health, "")
	route("/disclosures", h.Disclosures, "")
	route("/compliance/evaluate", h.Evaluate, "")
	route("/compliance/evaluations", h.ListEvaluations, "")
	route("/programs", h.ListPrograms, "")
	route("/documents", h.CreateDocument, AbilityDocuments)
	route("/import", h.Import, AbilityImport)
	route("/upload", h.Upload, AbilityImport)
	route("/imports", h.ImportRecords, AbilityImport)
	return mux
}

func NewServer(port string, handler http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log: log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("[HTTP] listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("[HTTP] shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
