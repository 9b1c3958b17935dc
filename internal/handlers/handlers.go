package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lending_docs/internal/config/connections/mongo"
	"lending_docs/internal/config/connections/postgres"
	"lending_docs/internal/config/connections/redis"
	"lending_docs/internal/config/connections/s3"
	"lending_docs/internal/ports"
	"lending_docs/internal/repository/audit"
	"lending_docs/internal/repository/database"
	importitems "lending_docs/internal/repository/imports"
	"lending_docs/internal/repository/programs"
	"lending_docs/internal/services/documents"
	"lending_docs/internal/services/evaluations"
	"lending_docs/internal/services/importer"
)

const maxJSONBody = 1 << 20

// ImportRecords is the import_records collection as the handlers use it.
type ImportRecords interface {
	Insert(ctx context.Context, rec importitems.Record) (string, error)
	Finish(ctx context.Context, id, status string, count int, errMsg string) error
	FindByID(ctx context.Context, id string) (importitems.Record, error)
	List(ctx context.Context, f importitems.RecordFilter, limit, skip int64) ([]importitems.Record, int64, error)
}

type Deps struct {
	Postgres *postgres.Postgres
	Mongo    *mongo.Mongo
	S3       *s3.S3
	Redis    *redis.Redis

	Programs    *programs.Registry
	Evaluations *evaluations.Service
	Documents   *documents.Service
	Importer    *importer.Service
	Records     ImportRecords
	Uploads     ports.ObjectStore

	Logger *zap.Logger
}

type Handlers struct {
	Deps

	validator *Validator
	// async runs background imports; tests swap it for a synchronous call.
	async func(func())
}

func New(d Deps) *Handlers {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Handlers{
		Deps:      d,
		validator: NewValidator(),
		async:     func(f func()) { go f() },
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps service errors onto status codes.
func (h *Handlers) Error(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.JSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": verr.Fields})
		return
	case errors.Is(err, programs.ErrProgramNotFound),
		errors.Is(err, database.ErrDealNotFound),
		errors.Is(err, audit.ErrEvaluationNotFound),
		errors.Is(err, importitems.ErrRecordNotFound):
		code = http.StatusNotFound
	case errors.Is(err, documents.ErrUnknownDocumentType),
		errors.Is(err, importer.ErrNoProcessor):
		code = http.StatusBadRequest
	case errors.Is(err, evaluations.ErrNoDealStore),
		errors.Is(err, evaluations.ErrNoAuditStore):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		h.Logger.Error("[HTTP] request failed", zap.Error(err))
	}
	h.JSON(w, code, map[string]string{"error": err.Error()})
}

func (h *Handlers) methodNotAllowed(w http.ResponseWriter, method string) {
	w.Header().Set("Allow", method)
	h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use " + method})
}

// decode reads a JSON body into v and validates it.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad JSON: " + err.Error()})
		return false
	}
	if err := h.validator.Validate(v); err != nil {
		h.Error(w, err)
		return false
	}
	return true
}
