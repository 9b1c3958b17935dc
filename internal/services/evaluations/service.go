// Package evaluations runs the compliance evaluator against deals and keeps
// the audit trail.
package evaluations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lending_docs/internal/metrics"
	"lending_docs/internal/models"
	"lending_docs/internal/ports"
	"lending_docs/internal/services/compliance"
)

var (
	ErrNoDealStore  = errors.New("deal store not configured")
	ErrNoAuditStore = errors.New("evaluation store not configured")
)

type Service struct {
	evaluator *compliance.Evaluator
	deals     ports.DealStore
	audit     ports.EvaluationStore
	log       *zap.Logger
	now       func() time.Time
}

// NewService accepts nil stores; evaluation still works, persistence is
// skipped.
func NewService(ev *compliance.Evaluator, deals ports.DealStore, audit ports.EvaluationStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{evaluator: ev, deals: deals, audit: audit, log: log, now: time.Now}
}

func (s *Service) Evaluator() *compliance.Evaluator { return s.evaluator }

// Evaluate runs the deal's program checks and records the outcome. Audit
// write failures are logged and do not fail the evaluation.
func (s *Service) Evaluate(ctx context.Context, deal models.Deal) models.ComplianceEvaluation {
	results := s.evaluator.Evaluate(deal)
	ev := models.ComplianceEvaluation{
		ID:        uuid.NewString(),
		DealID:    deal.ID,
		ProgramID: deal.ProgramID,
		State:     strings.ToUpper(deal.State),
		Results:   results,
		Summary:   models.Summarize(results),
		CreatedAt: s.now().UTC(),
	}
	metrics.ObserveEvaluation(deal.ProgramID, results)

	s.log.Info("[EVAL] deal evaluated",
		zap.String("evaluation_id", ev.ID),
		zap.String("deal_id", deal.ID),
		zap.String("program_id", deal.ProgramID),
		zap.Int("critical", ev.Summary.CriticalFailures),
		zap.Int("warnings", ev.Summary.Warnings))

	if s.audit != nil {
		if err := s.audit.Insert(ctx, ev); err != nil {
			s.log.Error("[EVAL][AUDIT] insert failed", zap.String("evaluation_id", ev.ID), zap.Error(err))
		}
	}
	return ev
}

func (s *Service) EvaluateByID(ctx context.Context, dealID string) (models.ComplianceEvaluation, error) {
	if s.deals == nil {
		return models.ComplianceEvaluation{}, ErrNoDealStore
	}
	deal, err := s.deals.Get(ctx, dealID)
	if err != nil {
		return models.ComplianceEvaluation{}, err
	}
	return s.Evaluate(ctx, deal), nil
}

func (s *Service) SaveDeal(ctx context.Context, deal models.Deal) (string, error) {
	if s.deals == nil {
		return "", ErrNoDealStore
	}
	id, err := s.deals.Upsert(ctx, deal)
	if err != nil {
		return "", fmt.Errorf("save deal: %w", err)
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.ComplianceEvaluation, error) {
	if s.audit == nil {
		return models.ComplianceEvaluation{}, ErrNoAuditStore
	}
	return s.audit.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ports.EvaluationFilter, limit, skip int64) ([]models.ComplianceEvaluation, int64, error) {
	if s.audit == nil {
		return nil, 0, ErrNoAuditStore
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.audit.List(ctx, f, limit, skip)
}
