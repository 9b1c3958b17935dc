package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lending_docs/internal/ports"
)

var ErrNoProcessor = errors.New("no processor for type")

type Request struct {
	Type           string `json:"type" validate:"required"`
	FilePath       string `json:"file_path" validate:"required"`
	BatchSize      int    `json:"batch_size" validate:"gte=0"`
	ImportRecordID string `json:"import_record_id"`
}

type Result struct {
	Source        string `json:"source"`
	FilePath      string `json:"file_path"`
	Format        string `json:"format"`
	RowsProcessed int    `json:"rows_processed"`
	SHA256        string `json:"sha256"`
	ContentType   string `json:"content_type"`
	Bucket        string `json:"bucket,omitempty"`
	Key           string `json:"key,omitempty"`
	SizeBytes     int64  `json:"size_bytes"`
}

type Service struct {
	Opener     ports.SourceOpener
	Processors map[string]ports.Processor
	DefaultBS  int
	log        *zap.Logger
}

func NewService(opener ports.SourceOpener, registry map[string]ports.Processor, defaultBatch int, log *zap.Logger) *Service {
	if defaultBatch <= 0 {
		defaultBatch = 500
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Opener: opener, Processors: registry, DefaultBS: defaultBatch, log: log}
}

// Types lists the registered processor types.
func (s *Service) Types() []string {
	out := make([]string, 0, len(s.Processors))
	for t := range s.Processors {
		out = append(out, t)
	}
	return out
}

func (s *Service) Import(ctx context.Context, req Request) (Result, error) {
	t0 := time.Now()
	ctx = context.WithValue(ctx, ports.CtxImportRecordID, req.ImportRecordID)
	log := s.log.With(zap.String("type", req.Type), zap.String("import_record_id", req.ImportRecordID))
	log.Info("[IMP][START]", zap.String("path", req.FilePath), zap.Int("batch_size", req.BatchSize))

	proc, ok := s.Processors[req.Type]
	if !ok {
		log.Error("[IMP][ERR] no processor")
		return Result{}, fmt.Errorf("%w: %s", ErrNoProcessor, req.Type)
	}

	rc, meta, err := s.Opener.Open(ctx, req.FilePath)
	if err != nil {
		log.Error("[IMP][ERR] open", zap.Error(err))
		return Result{}, err
	}
	defer rc.Close()

	// Whole body is held so a failed format guess can be retried from the start.
	hasher := sha256.New()
	data, err := io.ReadAll(io.TeeReader(rc, hasher))
	if err != nil {
		log.Error("[IMP][ERR] read", zap.Error(err))
		return Result{}, fmt.Errorf("read %s: %w", req.FilePath, err)
	}

	format := detectFormat(req.FilePath, meta.ContentType)
	if format == "" && meta.Name != "" {
		format = detectFormat(meta.Name, "")
	}
	log.Info("[IMP] opened",
		zap.String("source", meta.Source),
		zap.String("name", meta.Name),
		zap.String("content_type", meta.ContentType),
		zap.Int("bytes", len(data)),
		zap.String("detected_format", format))

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = s.DefaultBS
	}

	readers := map[string]func(context.Context, io.Reader, ports.Processor, int) (int, error){
		"xlsx": s.streamXLSXFirstSheet,
		"csv":  s.streamCSV,
	}
	order := []string{"xlsx", "csv"}
	if format == "csv" {
		order = []string{"csv", "xlsx"}
	}

	var total int
	var readErr error
	for i, f := range order {
		total, readErr = readers[f](ctx, bytes.NewReader(data), proc, batchSize)
		if readErr == nil {
			format = f
			break
		}
		// rows already handed to the processor cannot be replayed in another format
		var be batchError
		if total > 0 || errors.As(readErr, &be) || i == len(order)-1 {
			break
		}
		log.Warn("[IMP] reader failed, trying next format", zap.String("format", f), zap.Error(readErr))
	}
	if readErr != nil {
		log.Error("[IMP][ERR] read pipeline", zap.Error(readErr))
		return Result{}, readErr
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	log.Info("[IMP][DONE]",
		zap.String("format", format),
		zap.Int("rows", total),
		zap.String("sha256", sum),
		zap.Duration("duration", time.Since(t0)))

	size := meta.Size
	if size <= 0 {
		size = int64(len(data))
	}
	return Result{
		Source:        meta.Source,
		FilePath:      req.FilePath,
		Format:        format,
		RowsProcessed: total,
		SHA256:        sum,
		ContentType:   meta.ContentType,
		Bucket:        meta.Bucket,
		Key:           meta.Key,
		SizeBytes:     size,
	}, nil
}

// batchError marks a processor failure, as opposed to a reader failure.
type batchError struct{ err error }

func (e batchError) Error() string { return "process batch: " + e.err.Error() }
func (e batchError) Unwrap() error { return e.err }

// batcher accumulates rows and flushes them to the processor.
type batcher struct {
	ctx     context.Context
	proc    ports.Processor
	size    int
	rows    []map[string]string
	total   int
	batches int
}

func (b *batcher) add(row map[string]string) error {
	b.rows = append(b.rows, row)
	if len(b.rows) >= b.size {
		return b.flush()
	}
	return nil
}

func (b *batcher) flush() error {
	if len(b.rows) == 0 {
		return nil
	}
	if err := b.proc.ProcessBatch(b.ctx, b.rows); err != nil {
		return batchError{err}
	}
	b.total += len(b.rows)
	b.batches++
	b.rows = make([]map[string]string, 0, b.size)
	return nil
}

func (s *Service) streamCSV(ctx context.Context, r io.Reader, proc ports.Processor, batchSize int) (int, error) {
	start := time.Now()
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, err
	}
	if !looksLikeText(header) {
		return 0, errors.New("csv header is not text")
	}
	s.log.Debug("[IMP][CSV] header", zap.Strings("header", header))

	b := &batcher{ctx: ctx, proc: proc, size: batchSize}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Warn("[IMP][CSV] read row", zap.Error(err))
			continue
		}
		if isBlank(record) {
			continue
		}
		if err := b.add(toMap(header, record)); err != nil {
			return b.total, err
		}
	}
	if err := b.flush(); err != nil {
		return b.total, err
	}
	s.log.Info("[IMP][CSV][DONE]", zap.Int("rows", b.total), zap.Int("batches", b.batches), zap.Duration("duration", time.Since(start)))
	return b.total, nil
}

func (s *Service) streamXLSXFirstSheet(ctx context.Context, r io.Reader, proc ports.Processor, batchSize int) (int, error) {
	start := time.Now()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, errors.New("xlsx has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, rows.Error()
	}
	header, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	s.log.Debug("[IMP][XLSX] header", zap.String("sheet", sheet), zap.Strings("header", header))

	b := &batcher{ctx: ctx, proc: proc, size: batchSize}
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			s.log.Warn("[IMP][XLSX] read row", zap.Error(err))
			continue
		}
		if isBlank(cols) {
			continue
		}
		if err := b.add(toMap(header, cols)); err != nil {
			return b.total, err
		}
	}
	if err := rows.Error(); err != nil {
		return b.total, err
	}
	if err := b.flush(); err != nil {
		return b.total, err
	}
	s.log.Info("[IMP][XLSX][DONE]", zap.Int("rows", b.total), zap.Int("batches", b.batches), zap.Duration("duration", time.Since(start)))
	return b.total, nil
}

func toMap(header []string, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, key := range header {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		val := ""
		if i < len(row) {
			val = row[i]
		}
		m[key] = strings.TrimSpace(val)
	}
	return m
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// looksLikeText rejects binary input (a zip read as csv) before any row is
// handed to a processor.
func looksLikeText(header []string) bool {
	for _, h := range header {
		for _, r := range h {
			if r == 0 || r == utf8.RuneError {
				return false
			}
		}
	}
	return true
}

func detectFormat(filePath, contentType string) string {
	p := filePath
	if u, err := url.Parse(filePath); err == nil && u != nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(strings.TrimPrefix(path.Ext(p), ".")) {
	case "xlsx":
		return "xlsx"
	case "csv":
		return "csv"
	}
	med, _, _ := mime.ParseMediaType(contentType)
	switch med {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return "xlsx"
	case "text/csv", "application/csv", "text/plain":
		return "csv"
	}
	return ""
}
