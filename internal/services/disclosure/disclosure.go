// Package disclosure computes the numeric fields of a Loan Estimate: payment
// split, prepaid interest, balloon, finance charge, APR and TIP. It formats
// nothing and trusts its input.
package disclosure

import (
	"time"

	"lending_docs/internal/models"
	"lending_docs/internal/utils"
)

type Totals struct {
	TotalOfPayments float64 `json:"total_of_payments"`
	TotalInterest   float64 `json:"total_interest"`
	FinanceCharge   float64 `json:"finance_charge"`
	AmountFinanced  float64 `json:"amount_financed"`
	TIP             float64 `json:"tip"`
}

func ComputeTotals(principal, payment float64, termMonths int, balloon, prepaidFinanceCharges float64) Totals {
	totalOfPayments := payment*float64(termMonths) + balloon
	totalInterest := totalOfPayments - principal

	t := Totals{
		TotalOfPayments: totalOfPayments,
		TotalInterest:   totalInterest,
		FinanceCharge:   totalOfPayments - principal + prepaidFinanceCharges,
		AmountFinanced:  principal - prepaidFinanceCharges,
	}
	if principal != 0 {
		t.TIP = totalInterest / principal * 100
	}
	return t
}

// ScheduledPayment returns the stated payment, or derives one when upstream
// left it at zero.
func ScheduledPayment(terms models.LoanTerms) float64 {
	if terms.MonthlyPayment > 0 {
		return terms.MonthlyPayment
	}
	if terms.InterestOnly {
		return terms.ApprovedAmount * terms.InterestRate / 12
	}
	months := terms.AmortizationMonths
	if months == 0 {
		months = terms.TermMonths
	}
	return AmortizedPayment(terms.ApprovedAmount, terms.InterestRate, months)
}

type Disclosure struct {
	LoanAmount          float64          `json:"loan_amount"`
	InterestRatePercent float64          `json:"interest_rate_percent"`
	TermMonths          int              `json:"term_months"`
	AmortizationMonths  int              `json:"amortization_months"`
	InterestOnly        bool             `json:"interest_only"`
	FirstPayment        PaymentBreakdown `json:"first_payment"`
	PerDiemInterest     float64          `json:"per_diem_interest"`
	PrepaidInterestDays int              `json:"prepaid_interest_days"`
	PrepaidInterest     float64          `json:"prepaid_interest"`
	BalloonPayment      float64          `json:"balloon_payment"`
	TotalOfPayments     float64          `json:"total_of_payments"`
	TotalInterest       float64          `json:"total_interest"`
	FinanceCharge       float64          `json:"finance_charge"`
	AmountFinanced      float64          `json:"amount_financed"`
	APR                 float64          `json:"apr"`
	TIP                 float64          `json:"tip"`
	Fees                FeeBreakdown     `json:"fees"`
	CashToClose         float64          `json:"cash_to_close"`
}

// Compute derives every Loan Estimate number from terms. Zero dates mean no
// prepaid interest period.
func Compute(terms models.LoanTerms, funding, firstPayment time.Time) Disclosure {
	principal := terms.ApprovedAmount
	payment := ScheduledPayment(terms)

	amortization := terms.AmortizationMonths
	if amortization == 0 {
		amortization = terms.TermMonths
	}

	fees := CategorizeFees(terms.Fees)
	perDiem := PerDiemInterest(principal, terms.InterestRate)
	prepaid, days := PrepaidInterest(principal, terms.InterestRate, funding, firstPayment)
	balloon := BalloonBalance(principal, terms.InterestRate, payment, terms.TermMonths, amortization, terms.InterestOnly)

	prepaidFinanceCharges := fees.OriginationTotal + prepaid
	totals := ComputeTotals(principal, payment, terms.TermMonths, balloon, prepaidFinanceCharges)
	apr := CalculateAPRWithBalloon(totals.AmountFinanced, payment, terms.TermMonths, balloon)

	first := FirstPaymentBreakdown(principal, terms.InterestRate, payment, terms.InterestOnly)

	return Disclosure{
		LoanAmount:          utils.RoundCents(principal),
		InterestRatePercent: utils.Round(terms.InterestRate*100, 3),
		TermMonths:          terms.TermMonths,
		AmortizationMonths:  amortization,
		InterestOnly:        terms.InterestOnly,
		FirstPayment: PaymentBreakdown{
			Payment:   utils.RoundCents(first.Payment),
			Principal: utils.RoundCents(first.Principal),
			Interest:  utils.RoundCents(first.Interest),
		},
		PerDiemInterest:     utils.RoundCents(perDiem),
		PrepaidInterestDays: days,
		PrepaidInterest:     utils.RoundCents(prepaid),
		BalloonPayment:      utils.RoundCents(balloon),
		TotalOfPayments:     utils.RoundCents(totals.TotalOfPayments),
		TotalInterest:       utils.RoundCents(totals.TotalInterest),
		FinanceCharge:       utils.RoundCents(totals.FinanceCharge),
		AmountFinanced:      utils.RoundCents(totals.AmountFinanced),
		APR:                 utils.Round(apr, 3),
		TIP:                 utils.Round(totals.TIP, 3),
		Fees:                fees,
		CashToClose:         utils.SumCents(fees.Total, prepaid),
	}
}
