package documents

import (
	"strconv"
	"strings"

	"lending_docs/internal/models"
	"lending_docs/internal/ports"
	"lending_docs/internal/services/disclosure"
)

func buildTermSheet(s *Service, w *sheetWriter, deal models.Deal) (ports.ProseRequest, error) {
	t := deal.Terms
	program, programName := s.programName(deal.ProgramID)
	payment := disclosure.ScheduledPayment(t)

	amortization := t.AmortizationMonths
	if amortization == 0 {
		amortization = t.TermMonths
	}

	if err := w.title("Summary of Terms"); err != nil {
		return ports.ProseRequest{}, err
	}
	if err := w.header("Provision", "Detail"); err != nil {
		return ports.ProseRequest{}, err
	}

	rows := [][]any{
		{"Borrower", subject(deal)},
		{"Facility", programName},
		{"Amount", money(t.ApprovedAmount)},
		{"Interest Rate", rate(t.InterestRate)},
	}
	if t.BaseRateType != "" {
		rows = append(rows, []any{"Index", t.BaseRateType + " " + rate(t.BaseRateValue) + " + " + rate(t.Spread)})
	}
	term := strconv.Itoa(t.TermMonths) + " months"
	if t.TermMonths == 0 {
		term = "Revolving"
	}
	rows = append(rows,
		[]any{"Term", term},
		[]any{"Amortization", strconv.Itoa(amortization) + " months"},
		[]any{"Scheduled Payment", money(payment)},
		[]any{"Interest Only", yesNo(t.InterestOnly)},
		[]any{"Balloon at Maturity", yesNo(t.HasBalloon())},
		[]any{"Prepayment Penalty", yesNo(t.PrepaymentPenalty)},
	)
	if t.LTV != nil {
		rows = append(rows, []any{"Loan to Value", rate(*t.LTV)})
	}
	if program.StructuringRules.MaxLTV > 0 {
		rows = append(rows, []any{"Program Max LTV", rate(program.StructuringRules.MaxLTV)})
	}
	if program.StructuringRules.MaxAmount > 0 {
		rows = append(rows, []any{"Program Max Amount", wholeMoney(program.StructuringRules.MaxAmount)})
	}
	collateral := "general business assets"
	if len(deal.CollateralTypes) > 0 {
		collateral = strings.Join(deal.CollateralTypes, ", ")
	}
	rows = append(rows, []any{"Collateral", collateral})
	if deal.LoanPurpose != "" {
		rows = append(rows, []any{"Use of Proceeds", deal.LoanPurpose})
	}
	for _, r := range rows {
		if err := w.values(r...); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	if len(t.Fees) > 0 {
		w.blank()
		if err := w.header("Fee", "Amount", "Description"); err != nil {
			return ports.ProseRequest{}, err
		}
		for _, fee := range t.Fees {
			if err := w.values(fee.Name, money(fee.Amount), fee.Description); err != nil {
				return ports.ProseRequest{}, err
			}
		}
	}

	if len(t.Covenants) > 0 {
		w.blank()
		if err := w.header("Covenant", "Frequency", "Description"); err != nil {
			return ports.ProseRequest{}, err
		}
		for _, c := range t.Covenants {
			if err := w.values(c.Type, c.Frequency, c.Description); err != nil {
				return ports.ProseRequest{}, err
			}
		}
	}

	if len(t.Conditions) > 0 {
		w.blank()
		if err := w.header("Conditions Precedent"); err != nil {
			return ports.ProseRequest{}, err
		}
		for _, c := range t.Conditions {
			if err := w.values(c); err != nil {
				return ports.ProseRequest{}, err
			}
		}
	}

	sections := []string{"Facility", "Repayment", "Security"}
	if len(t.Covenants) > 0 {
		sections = append(sections, "Covenants")
	}
	return ports.ProseRequest{
		Kind:    models.DocumentTermSheet,
		Subject: subject(deal),
		Facts: map[string]string{
			"program":             programName,
			"principal":           money(t.ApprovedAmount),
			"rate":                rate(t.InterestRate),
			"term_months":         strconv.Itoa(t.TermMonths),
			"amortization_months": strconv.Itoa(amortization),
			"payment":             money(payment),
			"collateral":          collateral,
		},
		Sections: sections,
	}, nil
}
