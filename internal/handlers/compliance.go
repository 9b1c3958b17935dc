package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"lending_docs/internal/models"
	"lending_docs/internal/ports"
	"lending_docs/internal/services/evaluations"
)

type evaluateRequest struct {
	DealID string       `json:"deal_id"`
	Deal   *models.Deal `json:"deal" validate:"required_without=DealID"`
	// Save upserts the inline deal before evaluating it.
	Save bool `json:"save"`
}

// Evaluate runs the compliance checks for an inline deal or a stored deal_id.
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}
	var req evaluateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Deal == nil {
		ev, err := h.Evaluations.EvaluateByID(r.Context(), req.DealID)
		if err != nil {
			h.Error(w, err)
			return
		}
		h.JSON(w, http.StatusOK, ev)
		return
	}

	deal := *req.Deal
	if req.Save {
		id, err := h.Evaluations.SaveDeal(r.Context(), deal)
		switch {
		case err == nil:
			deal.ID = id
		case errors.Is(err, evaluations.ErrNoDealStore):
			h.Logger.Warn("[EVAL][HTTP] save requested without deal store")
		default:
			h.Error(w, err)
			return
		}
	}
	h.JSON(w, http.StatusOK, h.Evaluations.Evaluate(r.Context(), deal))
}

// ListEvaluations returns one audit entry (?id=) or a filtered page of them.
func (h *Handlers) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	if id := strings.TrimSpace(q.Get("id")); id != "" {
		ev, err := h.Evaluations.Get(r.Context(), id)
		if err != nil {
			h.Error(w, err)
			return
		}
		h.JSON(w, http.StatusOK, ev)
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

	filter := ports.EvaluationFilter{
		DealID:    q.Get("deal_id"),
		ProgramID: q.Get("program_id"),
		State:     strings.ToUpper(q.Get("state")),
	}
	items, total, err := h.Evaluations.List(r.Context(), filter, limit, skip)
	if err != nil {
		h.Error(w, err)
		return
	}
	h.Logger.Debug("[EVAL][HTTP] list", zap.Int("items", len(items)), zap.Int64("total", total))
	h.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func queryInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.New("bad integer")
	}
	return n, nil
}
