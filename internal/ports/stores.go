package ports

import (
	"context"
	"io"
	"time"

	"lending_docs/internal/models"
)

type ProgramStore interface {
	List(ctx context.Context) ([]models.LoanProgram, error)
	Upsert(ctx context.Context, p models.LoanProgram) error
}

type DealStore interface {
	Get(ctx context.Context, id string) (models.Deal, error)
	Upsert(ctx context.Context, d models.Deal) (string, error)
}

type EvaluationFilter struct {
	DealID    string
	ProgramID string
	State     string
}

type EvaluationStore interface {
	Insert(ctx context.Context, ev models.ComplianceEvaluation) error
	FindByID(ctx context.Context, id string) (models.ComplianceEvaluation, error)
	List(ctx context.Context, f EvaluationFilter, limit, skip int64) ([]models.ComplianceEvaluation, int64, error)
}

type DocumentLog interface {
	InsertDocument(ctx context.Context, doc models.DocumentRecord) error
}

type ObjectInfo struct {
	Bucket string
	Key    string
	Size   int64
}

type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
