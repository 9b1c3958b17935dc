package processors

import (
	"context"

	"go.uber.org/zap"

	"lending_docs/internal/metrics"
	"lending_docs/internal/ports"
)

const (
	statusDone   = "done"
	statusFailed = "failed"
)

// BaseProcessor carries what every processor needs to report row outcomes.
type BaseProcessor struct {
	Items ports.ItemLog
	Log   *zap.Logger
}

func NewBaseProcessor(items ports.ItemLog, log *zap.Logger) *BaseProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &BaseProcessor{Items: items, Log: log}
}

func (b *BaseProcessor) logger() *zap.Logger {
	if b == nil || b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

func (b *BaseProcessor) record(ctx context.Context, modelType, modelID string, row map[string]string, status, msg string) {
	metrics.ImportRows.WithLabelValues(modelType, status).Inc()
	if b == nil || b.Items == nil {
		return
	}
	b.Items.LogItem(ctx, ports.ImportItem{
		ImportRecordID: ports.ImportRecordID(ctx),
		ModelType:      modelType,
		ModelID:        modelID,
		Payload:        row,
		Status:         status,
		Errors:         msg,
	})
}

func (b *BaseProcessor) fail(ctx context.Context, modelType, modelID string, row map[string]string, msg string) {
	b.logger().Warn("[PROC] row rejected",
		zap.String("type", modelType),
		zap.String("model_id", modelID),
		zap.String("reason", msg))
	b.record(ctx, modelType, modelID, row, statusFailed, msg)
}

func (b *BaseProcessor) done(ctx context.Context, modelType, modelID string, row map[string]string, note string) {
	b.record(ctx, modelType, modelID, row, statusDone, note)
}
