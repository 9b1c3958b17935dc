package handlers

import (
	"net/http"
	"strings"
)

// ListPrograms lists the catalog, or returns one program for ?id=.
func (h *Handlers) ListPrograms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		p, err := h.Programs.Get(id)
		if err != nil {
			h.Error(w, err)
			return
		}
		h.JSON(w, http.StatusOK, p)
		return
	}
	all := h.Programs.All()
	h.JSON(w, http.StatusOK, map[string]any{"items": all, "total": len(all)})
}
