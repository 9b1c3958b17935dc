package ports

import "context"

type ctxKey string

const CtxImportRecordID ctxKey = "import_record_id"

// ImportRecordID returns the import record id carried by ctx, or "".
func ImportRecordID(ctx context.Context) string {
	if v, ok := ctx.Value(CtxImportRecordID).(string); ok {
		return v
	}
	return ""
}

type Processor interface {
	Type() string
	ProcessBatch(ctx context.Context, batch []map[string]string) error
}

// ItemLog receives one entry per imported row.
type ItemLog interface {
	LogItem(ctx context.Context, item ImportItem)
}

type ImportItem struct {
	ImportRecordID string
	ModelType      string
	ModelID        string
	Payload        map[string]string
	Status         string
	Errors         string
}
