package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	importitems "lending_docs/internal/repository/imports"
	"lending_docs/internal/services/importer"
)

type importRequest struct {
	Type           string `json:"type" validate:"required"`
	FilePath       string `json:"file_path" validate:"required"`
	BatchSize      int    `json:"batch_size" validate:"gte=0,lte=10000"`
	TimeoutMin     int    `json:"timeout_minutes,omitempty" validate:"gte=0,lte=120"`
	ImportRecordID string `json:"import_record_id"`
}

// Import starts a background import and answers 202 straight away. The
// import record, when given, is finished with the outcome.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}
	if h.Importer == nil {
		h.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "importer not configured"})
		return
	}

	var req importRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, ok := h.Importer.Processors[req.Type]; !ok {
		h.JSON(w, http.StatusBadRequest, map[string]any{"error": "unknown import type", "types": h.Importer.Types()})
		return
	}

	reqCopy := req
	h.async(func() {
		start := time.Now()
		timeout := 15 * time.Minute
		if reqCopy.TimeoutMin > 0 {
			timeout = time.Duration(reqCopy.TimeoutMin) * time.Minute
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := h.Importer.Import(ctx, importer.Request{
			Type:           reqCopy.Type,
			FilePath:       reqCopy.FilePath,
			BatchSize:      reqCopy.BatchSize,
			ImportRecordID: reqCopy.ImportRecordID,
		})
		log := h.Logger.With(zap.String("type", reqCopy.Type), zap.String("path", reqCopy.FilePath), zap.Duration("took", time.Since(start)))
		if err != nil {
			log.Error("[IMPORT][ERR][BG]", zap.Error(err))
			h.finishRecord(ctx, reqCopy.ImportRecordID, importitems.StatusFailed, 0, err.Error())
			return
		}
		log.Info("[IMPORT][OK][BG]",
			zap.String("source", res.Source),
			zap.String("format", res.Format),
			zap.Int("rows", res.RowsProcessed),
			zap.Int64("size", res.SizeBytes))
		h.finishRecord(ctx, reqCopy.ImportRecordID, importitems.StatusDone, res.RowsProcessed, "")
	})

	h.JSON(w, http.StatusAccepted, map[string]any{
		"status":           "started",
		"type":             req.Type,
		"file_path":        req.FilePath,
		"batch_size":       req.BatchSize,
		"import_record_id": req.ImportRecordID,
	})
}

func (h *Handlers) finishRecord(ctx context.Context, id, status string, count int, errMsg string) {
	if id == "" || h.Records == nil {
		return
	}
	if err := h.Records.Finish(ctx, id, status, count, errMsg); err != nil {
		h.Logger.Error("[IMPORT] finish record", zap.String("import_record_id", id), zap.Error(err))
	}
}

// ImportRecords returns one import record (?id=) or a page filtered by
// ?type= and ?status=, so clients can poll a background import.
func (h *Handlers) ImportRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	if h.Records == nil {
		h.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "import records not configured"})
		return
	}
	q := r.URL.Query()
	if id := strings.TrimSpace(q.Get("id")); id != "" {
		rec, err := h.Records.FindByID(r.Context(), id)
		if err != nil {
			h.Error(w, err)
			return
		}
		h.JSON(w, http.StatusOK, rec)
		return
	}

	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad limit"})
		return
	}
	skip, err := queryInt(q.Get("skip"))
	if err != nil {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad skip"})
		return
	}
	if limit == 0 {
		limit = 50
	}

	recs, total, err := h.Records.List(r.Context(), importitems.RecordFilter{
		Type:   q.Get("type"),
		Status: q.Get("status"),
	}, limit, skip)
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"items": recs, "total": total, "limit": limit, "skip": skip})
}
