package handlers

import (
	"fmt"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"

	importitems "lending_docs/internal/repository/imports"
	auth "lending_docs/internal/transport/auth"
)

// Upload accepts multipart/form-data with `file` and `type` fields, stores the
// file and creates an import record pointing at it.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}
	if h.Uploads == nil {
		h.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "object storage not configured"})
		return
	}

	if err := r.ParseMultipartForm(128 << 20); err != nil {
		h.Logger.Warn("[UPLOAD][ERR] parse multipart", zap.Error(err))
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad multipart: " + err.Error()})
		return
	}

	kind := r.FormValue("type")
	if kind == "" {
		kind = r.FormValue("action")
	}
	if kind == "" {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "type is required"})
		return
	}

	f, fh, err := r.FormFile("file")
	if err != nil {
		h.JSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer f.Close()

	key := fmt.Sprintf("imports/%d-%s", time.Now().UnixNano(), path.Base(fh.Filename))
	info, err := h.Uploads.Put(r.Context(), key, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.Error("[UPLOAD][ERR] store", zap.String("key", key), zap.Error(err))
		h.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store file: " + err.Error()})
		return
	}
	s3path := fmt.Sprintf("s3://%s/%s", info.Bucket, info.Key)

	resp := map[string]any{"path": s3path, "type": kind}
	if h.Records != nil {
		rec := importitems.Record{
			Status:    importitems.StatusParsed,
			Type:      kind,
			Path:      &s3path,
			Bucket:    &info.Bucket,
			Key:       &info.Key,
			SizeBytes: &info.Size,
		}
		if client, errGet := auth.GetClient(r.Context()); errGet == nil {
			rec.UserID = &client
		}
		id, err := h.Records.Insert(r.Context(), rec)
		if err != nil {
			h.Logger.Error("[UPLOAD][ERR] record insert", zap.Error(err))
			h.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp["id"] = id
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	h.JSON(w, http.StatusCreated, resp)
}
