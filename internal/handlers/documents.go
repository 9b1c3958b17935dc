package handlers

import (
	"net/http"
	"strconv"

	"lending_docs/internal/services/documents"
	auth "lending_docs/internal/transport/auth"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CreateDocument renders a workbook. With ?download=1 the file itself is
// returned instead of its record.
func (h *Handlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}
	var req documents.Request
	if !h.decode(w, r, &req) {
		return
	}
	if client, err := auth.GetClient(r.Context()); err == nil {
		req.CreatedBy = client
	}

	doc, err := h.Documents.Generate(r.Context(), req)
	if err != nil {
		h.Error(w, err)
		return
	}

	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Type+"-"+doc.ID+`.xlsx"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(doc.Content)
		return
	}
	h.JSON(w, http.StatusCreated, doc)
}
