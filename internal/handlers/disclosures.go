package handlers

import (
	"net/http"
	"time"

	"lending_docs/internal/models"
	"lending_docs/internal/services/disclosure"
)

type disclosureRequest struct {
	Terms            models.LoanTerms `json:"terms"`
	FundingDate      *time.Time       `json:"funding_date,omitempty"`
	FirstPaymentDate *time.Time       `json:"first_payment_date,omitempty"`
}

// Disclosures computes Loan Estimate numbers for the posted terms.
func (h *Handlers) Disclosures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}
	var req disclosureRequest
	if !h.decode(w, r, &req) {
		return
	}

	var funding, first time.Time
	if req.FundingDate != nil {
		funding = *req.FundingDate
	}
	if req.FirstPaymentDate != nil {
		first = *req.FirstPaymentDate
	}
	h.JSON(w, http.StatusOK, disclosure.Compute(req.Terms, funding, first))
}
