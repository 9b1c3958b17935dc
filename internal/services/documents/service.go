// Package documents renders loan documents as xlsx workbooks, stores them and
// records where they went.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lending_docs/internal/metrics"
	"lending_docs/internal/models"
	"lending_docs/internal/ports"
	"lending_docs/internal/services/compliance"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrUnknownDocumentType = errors.New("unknown document type")

type Request struct {
	Type      string      `json:"type" validate:"required,oneof=loan_estimate compliance_report term_sheet"`
	Deal      models.Deal `json:"deal" validate:"required"`
	CreatedBy string      `json:"-"`
}

type Document struct {
	models.DocumentRecord
	Content []byte `json:"-"`
}

// builder writes the document's main sheet into f and returns the narrative
// request for the Narrative sheet.
type builder func(s *Service, w *sheetWriter, deal models.Deal) (ports.ProseRequest, error)

var builders = map[string]builder{
	models.DocumentLoanEstimate:     buildLoanEstimate,
	models.DocumentComplianceReport: buildComplianceReport,
	models.DocumentTermSheet:        buildTermSheet,
}

var sheetNames = map[string]string{
	models.DocumentLoanEstimate:     "Loan Estimate",
	models.DocumentComplianceReport: "Compliance Report",
	models.DocumentTermSheet:        "Term Sheet",
}

// Types lists the document types Generate accepts.
func Types() []string {
	return []string{models.DocumentLoanEstimate, models.DocumentComplianceReport, models.DocumentTermSheet}
}

type Service struct {
	evaluator *compliance.Evaluator
	programs  compliance.ProgramLookup
	prose     ports.ProseGenerator
	store     ports.ObjectStore
	records   ports.DocumentLog
	log       *zap.Logger
	now       func() time.Time
}

// NewService accepts a nil store and records log; the document is then
// returned in memory only.
func NewService(ev *compliance.Evaluator, programs compliance.ProgramLookup, prose ports.ProseGenerator, store ports.ObjectStore, records ports.DocumentLog, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		evaluator: ev,
		programs:  programs,
		prose:     prose,
		store:     store,
		records:   records,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) Generate(ctx context.Context, req Request) (Document, error) {
	build, ok := builders[req.Type]
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, req.Type)
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return Document{}, fmt.Errorf("styles: %w", err)
	}
	sheet := sheetNames[req.Type]
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return Document{}, err
	}
	if err := f.SetColWidth(sheet, "A", "A", 34); err != nil {
		return Document{}, err
	}
	if err := f.SetColWidth(sheet, "B", "E", 22); err != nil {
		return Document{}, err
	}

	w := &sheetWriter{f: f, sheet: sheet, styles: st}
	proseReq, err := build(s, w, req.Deal)
	if err != nil {
		return Document{}, fmt.Errorf("build %s: %w", req.Type, err)
	}

	var narrative ports.Prose
	if s.prose != nil {
		narrative, err = s.prose.Generate(ctx, proseReq)
		if err != nil {
			return Document{}, fmt.Errorf("prose: %w", err)
		}
		if err := writeProse(f, st, narrative); err != nil {
			return Document{}, fmt.Errorf("narrative sheet: %w", err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Document{}, fmt.Errorf("write workbook: %w", err)
	}

	doc := Document{
		DocumentRecord: models.DocumentRecord{
			ID:          uuid.NewString(),
			Type:        req.Type,
			DealID:      req.Deal.ID,
			ProgramID:   req.Deal.ProgramID,
			SizeBytes:   int64(buf.Len()),
			ProseSource: narrative.Source,
			CreatedBy:   req.CreatedBy,
			CreatedAt:   s.now().UTC(),
		},
		Content: buf.Bytes(),
	}

	if s.store != nil {
		key := fmt.Sprintf("documents/%s/%s.xlsx", req.Type, doc.ID)
		info, err := s.store.Put(ctx, key, bytes.NewReader(doc.Content), doc.SizeBytes, contentTypeXLSX)
		if err != nil {
			return Document{}, err
		}
		doc.Bucket = info.Bucket
		doc.Key = info.Key
		doc.Path = fmt.Sprintf("s3://%s/%s", info.Bucket, info.Key)
	}

	if s.records != nil {
		if err := s.records.InsertDocument(ctx, doc.DocumentRecord); err != nil {
			s.log.Warn("[DOC] document record not saved", zap.String("id", doc.ID), zap.Error(err))
		}
	}

	metrics.DocumentsGenerated.WithLabelValues(req.Type, narrative.Source).Inc()
	s.log.Info("[DOC] generated",
		zap.String("id", doc.ID),
		zap.String("type", doc.Type),
		zap.String("program", doc.ProgramID),
		zap.Int64("bytes", doc.SizeBytes),
		zap.String("path", doc.Path),
	)
	return doc, nil
}

func (s *Service) programName(id string) (models.LoanProgram, string) {
	if s.programs != nil {
		if p, ok := s.programs.Lookup(id); ok {
			return p, p.Name
		}
	}
	return models.LoanProgram{ID: id}, id
}

func subject(deal models.Deal) string {
	if deal.BorrowerName != "" {
		return deal.BorrowerName
	}
	if deal.ID != "" {
		return "Deal " + deal.ID
	}
	return "Borrower"
}
