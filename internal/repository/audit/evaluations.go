// Package audit persists compliance evaluations and generated document
// records in Mongo.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mg "lending_docs/internal/config/connections/mongo"
	"lending_docs/internal/models"
	"lending_docs/internal/ports"
)

const (
	EvaluationsCollection = "compliance_evaluations"
	DocumentsCollection   = "documents"
)

var ErrEvaluationNotFound = errors.New("evaluation not found")

type evaluationDoc struct {
	ID               string                         `bson:"_id"`
	DealID           string                         `bson:"deal_id,omitempty"`
	ProgramID        string                         `bson:"program_id"`
	State            string                         `bson:"state"`
	Results          []models.ComplianceCheckResult `bson:"results"`
	Total            int                            `bson:"total"`
	Passed           int                            `bson:"passed"`
	CriticalFailures int                            `bson:"critical_failures"`
	Warnings         int                            `bson:"warnings"`
	Enforceable      bool                           `bson:"enforceable"`
	CreatedAt        time.Time                      `bson:"created_at"`
}

func toDoc(ev models.ComplianceEvaluation) evaluationDoc {
	return evaluationDoc{
		ID:               ev.ID,
		DealID:           ev.DealID,
		ProgramID:        ev.ProgramID,
		State:            ev.State,
		Results:          ev.Results,
		Total:            ev.Summary.Total,
		Passed:           ev.Summary.Passed,
		CriticalFailures: ev.Summary.CriticalFailures,
		Warnings:         ev.Summary.Warnings,
		Enforceable:      ev.Summary.Enforceable,
		CreatedAt:        ev.CreatedAt,
	}
}

func (d evaluationDoc) model() models.ComplianceEvaluation {
	return models.ComplianceEvaluation{
		ID:        d.ID,
		DealID:    d.DealID,
		ProgramID: d.ProgramID,
		State:     d.State,
		Results:   d.Results,
		Summary: models.ComplianceSummary{
			Total:            d.Total,
			Passed:           d.Passed,
			CriticalFailures: d.CriticalFailures,
			Warnings:         d.Warnings,
			Enforceable:      d.Enforceable,
		},
		CreatedAt: d.CreatedAt,
	}
}

// filterDoc turns a filter into a Mongo query; empty fields match anything.
func filterDoc(f ports.EvaluationFilter) bson.M {
	q := bson.M{}
	if f.DealID != "" {
		q["deal_id"] = f.DealID
	}
	if f.ProgramID != "" {
		q["program_id"] = f.ProgramID
	}
	if f.State != "" {
		q["state"] = f.State
	}
	return q
}

type Store struct {
	m *mg.Mongo
}

func NewStore(m *mg.Mongo) *Store { return &Store{m: m} }

func (s *Store) collection(name string) (*mongo.Collection, error) {
	if !s.m.Available() {
		return nil, mongo.ErrClientDisconnected
	}
	return s.m.Database.Collection(name), nil
}

func (s *Store) Insert(ctx context.Context, ev models.ComplianceEvaluation) error {
	coll, err := s.collection(EvaluationsCollection)
	if err != nil {
		return err
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	if _, err := coll.InsertOne(ctx, toDoc(ev)); err != nil {
		return fmt.Errorf("insert evaluation %s: %w", ev.ID, err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (models.ComplianceEvaluation, error) {
	coll, err := s.collection(EvaluationsCollection)
	if err != nil {
		return models.ComplianceEvaluation{}, err
	}
	var doc evaluationDoc
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ComplianceEvaluation{}, fmt.Errorf("%w: %s", ErrEvaluationNotFound, id)
	}
	if err != nil {
		return models.ComplianceEvaluation{}, err
	}
	return doc.model(), nil
}

func (s *Store) List(ctx context.Context, f ports.EvaluationFilter, limit, skip int64) ([]models.ComplianceEvaluation, int64, error) {
	coll, err := s.collection(EvaluationsCollection)
	if err != nil {
		return nil, 0, err
	}
	q := filterDoc(f)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := coll.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []evaluationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	out := make([]models.ComplianceEvaluation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}

	total, err := coll.CountDocuments(ctx, q)
	if err != nil {
		total = int64(len(out))
	}
	return out, total, nil
}

func (s *Store) InsertDocument(ctx context.Context, doc models.DocumentRecord) error {
	coll, err := s.collection(DocumentsCollection)
	if err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err = coll.InsertOne(ctx, doc)
	return err
}
