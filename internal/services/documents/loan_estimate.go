package documents

import (
	"fmt"
	"strconv"
	"time"

	"lending_docs/internal/models"
	"lending_docs/internal/ports"
	"lending_docs/internal/services/disclosure"
)

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func feeRows(w *sheetWriter, section string, fees []models.Fee, total float64) error {
	for _, fee := range fees {
		if err := w.values(section, fee.Name, money(fee.Amount)); err != nil {
			return err
		}
	}
	return w.values(section, "Subtotal", money(total))
}

func buildLoanEstimate(s *Service, w *sheetWriter, deal models.Deal) (ports.ProseRequest, error) {
	d := disclosure.Compute(deal.Terms, dateOrZero(deal.FundingDate), dateOrZero(deal.FirstPaymentDate))
	_, programName := s.programName(deal.ProgramID)

	if err := w.title("Loan Estimate"); err != nil {
		return ports.ProseRequest{}, err
	}
	rows := [][]any{
		{"Borrower", subject(deal)},
		{"Program", programName},
		{"State", deal.State},
	}
	if deal.FundingDate != nil {
		rows = append(rows, []any{"Funding Date", deal.FundingDate.UTC().Format("2006-01-02")})
	}
	for _, r := range rows {
		if err := w.values(r...); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	w.blank()
	if err := w.header("Loan Terms", "Value"); err != nil {
		return ports.ProseRequest{}, err
	}
	terms := [][]any{
		{"Loan Amount", money(d.LoanAmount)},
		{"Interest Rate", percent(d.InterestRatePercent)},
		{"Monthly Payment", money(d.FirstPayment.Payment)},
		{"Term (months)", d.TermMonths},
		{"Amortization (months)", d.AmortizationMonths},
		{"Interest Only", yesNo(d.InterestOnly)},
		{"Prepayment Penalty", yesNo(deal.Terms.PrepaymentPenalty)},
		{"Balloon Payment", money(d.BalloonPayment)},
	}
	for _, r := range terms {
		if err := w.values(r...); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	w.blank()
	if err := w.header("Projected First Payment", "Amount"); err != nil {
		return ports.ProseRequest{}, err
	}
	for _, r := range [][]any{
		{"Principal", money(d.FirstPayment.Principal)},
		{"Interest", money(d.FirstPayment.Interest)},
		{"Total", money(d.FirstPayment.Payment)},
	} {
		if err := w.values(r...); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	w.blank()
	if err := w.header("Closing Cost Section", "Fee", "Amount"); err != nil {
		return ports.ProseRequest{}, err
	}
	if err := feeRows(w, "A. Origination Charges", d.Fees.Origination, d.Fees.OriginationTotal); err != nil {
		return ports.ProseRequest{}, err
	}
	if err := feeRows(w, "B. Services You Cannot Shop For", d.Fees.NotShopped, d.Fees.NotShoppedTotal); err != nil {
		return ports.ProseRequest{}, err
	}
	if err := feeRows(w, "C. Services You Can Shop For", d.Fees.ShoppedFor, d.Fees.ShoppedForTotal); err != nil {
		return ports.ProseRequest{}, err
	}
	for _, r := range [][]any{
		{"Total Loan Costs", "", money(d.Fees.Total)},
		{"Prepaid Interest", fmt.Sprintf("%s per day for %d days", money(d.PerDiemInterest), d.PrepaidInterestDays), money(d.PrepaidInterest)},
		{"Estimated Cash to Close", "", money(d.CashToClose)},
	} {
		if err := w.values(r...); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	w.blank()
	if err := w.header("Comparisons", "Value"); err != nil {
		return ports.ProseRequest{}, err
	}
	for _, r := range [][]any{
		{"Total of Payments", money(d.TotalOfPayments)},
		{"Finance Charge", money(d.FinanceCharge)},
		{"Amount Financed", money(d.AmountFinanced)},
		{"Annual Percentage Rate (APR)", percent(d.APR)},
		{"Total Interest Percentage (TIP)", percent(d.TIP)},
	} {
		if err := w.values(r...); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	if deal.Terms.LateFeePercent > 0 {
		w.blank()
		if err := w.header("Other Considerations", "Value"); err != nil {
			return ports.ProseRequest{}, err
		}
		late := fmt.Sprintf("%s of the payment if more than %d days late", rate(deal.Terms.LateFeePercent), deal.Terms.LateFeeGraceDays)
		if err := w.values("Late Payment", late); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	sections := []string{"Loan Overview", "Cost of Credit", "Closing Costs"}
	if d.BalloonPayment > 0 {
		sections = append(sections, "Balloon Payment")
	}
	return ports.ProseRequest{
		Kind:    models.DocumentLoanEstimate,
		Subject: subject(deal),
		Facts: map[string]string{
			"program":           programName,
			"principal":         money(d.LoanAmount),
			"rate":              percent(d.InterestRatePercent),
			"term_months":       strconv.Itoa(d.TermMonths),
			"payment":           money(d.FirstPayment.Payment),
			"apr":               percent(d.APR),
			"finance_charge":    money(d.FinanceCharge),
			"total_of_payments": money(d.TotalOfPayments),
			"closing_costs":     money(d.Fees.Total),
			"prepaid_interest":  money(d.PrepaidInterest),
			"balloon":           money(d.BalloonPayment),
		},
		Sections: sections,
	}, nil
}
