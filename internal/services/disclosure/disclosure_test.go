package disclosure

import (
	"math"
	"testing"
	"time"

	"lending_docs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerDiemInterest(t *testing.T) {
	assert.InDelta(t, 100.0, PerDiemInterest(365_000, 0.10), 1e-9)
	assert.Equal(t, 0.0, PerDiemInterest(0, 0.10))
}

func TestDaysBetween(t *testing.T) {
	jan15 := time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)
	feb1 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 17, DaysBetween(jan15, feb1))
	assert.Equal(t, 0, DaysBetween(feb1, jan15), "reversed dates never go negative")
	assert.Equal(t, 0, DaysBetween(time.Time{}, feb1))

	// Wall-clock hours differ but calendar days do not.
	east := time.FixedZone("EST", -5*3600)
	late := time.Date(2024, time.March, 9, 23, 0, 0, 0, east)
	early := time.Date(2024, time.March, 11, 1, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	assert.Equal(t, 2, DaysBetween(late, early))
}

func TestPrepaidInterest(t *testing.T) {
	funding := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	first := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	amount, days := PrepaidInterest(365_000, 0.10, funding, first)
	assert.Equal(t, 21, days)
	assert.InDelta(t, 2100.0, amount, 1e-9)
}

func TestBalloonBalance_NoBalloonWhenTermMatchesAmortization(t *testing.T) {
	cases := []struct {
		principal float64
		rate      float64
		months    int
	}{
		{250_000, 0.065, 360},
		{1_000_000, 0.0725, 120},
		{50_000, 0, 60},
		{5_500_000, 0.11, 300},
	}
	for _, c := range cases {
		payment := AmortizedPayment(c.principal, c.rate, c.months)
		assert.Equal(t, 0.0, BalloonBalance(c.principal, c.rate, payment, c.months, c.months, false))
	}
}

func TestBalloonBalance_InterestOnlyReturnsPrincipal(t *testing.T) {
	assert.Equal(t, 750_000.0, BalloonBalance(750_000, 0.09, 5625, 24, 24, true))
}

func TestBalloonBalance_MatchesRemainingPresentValue(t *testing.T) {
	principal, rate := 1_000_000.0, 0.06
	payment := AmortizedPayment(principal, rate, 300)

	got := BalloonBalance(principal, rate, payment, 120, 300, false)

	r := rate / 12
	want := payment * (1 - math.Pow(1+r, -180)) / r
	assert.InDelta(t, want, got, 0.01)
	assert.Greater(t, got, 0.0)
}

func TestCalculateAPR_ConvergesToNominalRate(t *testing.T) {
	cases := []struct {
		principal float64
		rate      float64
		months    int
	}{
		{200_000, 0.06, 360},
		{350_000, 0.0475, 180},
		{25_000, 0.1299, 60},
		{5_000_000, 0.0825, 300},
		{10_000, 0.18, 12},
	}
	for _, c := range cases {
		payment := AmortizedPayment(c.principal, c.rate, c.months)
		apr := CalculateAPR(c.principal, payment, c.months)
		assert.InDelta(t, c.rate*100, apr, 1e-6, "principal=%v rate=%v n=%d", c.principal, c.rate, c.months)
	}
}

func TestCalculateAPR_DegenerateInputsReturnZero(t *testing.T) {
	assert.Equal(t, 0.0, CalculateAPR(0, 1000, 360))
	assert.Equal(t, 0.0, CalculateAPR(200_000, 1000, 0))
	assert.Equal(t, 0.0, CalculateAPR(200_000, 0, 360))
	assert.Equal(t, 0.0, CalculateAPR(12_000, 1000, 12), "zero-interest schedule")
}

func TestCalculateAPR_FeesRaiseAPR(t *testing.T) {
	payment := AmortizedPayment(300_000, 0.065, 360)
	apr := CalculateAPR(300_000-6_000, payment, 360)
	assert.Greater(t, apr, 6.5)
	assert.Less(t, apr, 7.0)
}

func TestCalculateAPRWithBalloon_InterestOnly(t *testing.T) {
	principal, rate := 2_000_000.0, 0.09
	payment := principal * rate / 12
	apr := CalculateAPRWithBalloon(principal, payment, 24, principal)
	assert.InDelta(t, 9.0, apr, 1e-6)
}

func TestCategorizeFees(t *testing.T) {
	fees := []models.Fee{
		{Name: "Origination Fee", Amount: 5000},
		{Name: "Appraisal Fee", Amount: 650},
		{Name: "CREDIT REPORT", Amount: 45.5},
		{Name: "Title Insurance", Amount: 1800},
		{Name: "Survey", Amount: 400},
		{Name: "Underwriting / Processing", Amount: 995},
	}

	got := CategorizeFees(fees)

	require.Len(t, got.Origination, 2)
	assert.Equal(t, "Origination Fee", got.Origination[0].Name)
	require.Len(t, got.NotShopped, 2)
	assert.Equal(t, "Appraisal Fee", got.NotShopped[0].Name)
	require.Len(t, got.ShoppedFor, 2)
	assert.Equal(t, "Title Insurance", got.ShoppedFor[0].Name)

	assert.Equal(t, 5995.0, got.OriginationTotal)
	assert.Equal(t, 695.5, got.NotShoppedTotal)
	assert.Equal(t, 2200.0, got.ShoppedForTotal)
	assert.Equal(t, 8890.5, got.Total)
}

func TestCategorizeFees_OriginationWinsTies(t *testing.T) {
	got := CategorizeFees([]models.Fee{{Name: "Appraisal processing fee", Amount: 100}})
	assert.Len(t, got.Origination, 1)
	assert.Empty(t, got.NotShopped)
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals(100_000, 1_000, 120, 10_000, 2_000)
	assert.Equal(t, 130_000.0, totals.TotalOfPayments)
	assert.Equal(t, 30_000.0, totals.TotalInterest)
	assert.Equal(t, 32_000.0, totals.FinanceCharge)
	assert.Equal(t, 98_000.0, totals.AmountFinanced)
	assert.InDelta(t, 30.0, totals.TIP, 1e-9)

	assert.Equal(t, 0.0, ComputeTotals(0, 0, 0, 0, 0).TIP)
}

func TestCompute_BalloonLoan(t *testing.T) {
	terms := models.LoanTerms{
		ApprovedAmount:     1_000_000,
		InterestRate:       0.0725,
		TermMonths:         120,
		AmortizationMonths: 300,
		Fees: []models.Fee{
			{Name: "Origination Fee", Amount: 10_000},
			{Name: "Appraisal Fee", Amount: 3_500},
			{Name: "Title Insurance", Amount: 4_200},
		},
	}
	funding := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	first := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	d := Compute(terms, funding, first)

	assert.InDelta(t, AmortizedPayment(1_000_000, 0.0725, 300), d.FirstPayment.Payment, 0.01)
	assert.Greater(t, d.BalloonPayment, 0.0)
	assert.Less(t, d.BalloonPayment, terms.ApprovedAmount)
	assert.Equal(t, 42, d.PrepaidInterestDays)
	assert.Greater(t, d.APR, 7.25)
	assert.Equal(t, 7.25, d.InterestRatePercent)
	assert.Equal(t, 17_700.0, d.Fees.Total)
	assert.InDelta(t, d.AmountFinanced, terms.ApprovedAmount-10_000-d.PrepaidInterest, 0.01)
}

func TestCompute_DerivesInterestOnlyPayment(t *testing.T) {
	d := Compute(models.LoanTerms{
		ApprovedAmount: 500_000,
		InterestRate:   0.12,
		TermMonths:     12,
		InterestOnly:   true,
	}, time.Time{}, time.Time{})

	assert.Equal(t, 5_000.0, d.FirstPayment.Payment)
	assert.Equal(t, 0.0, d.FirstPayment.Principal)
	assert.Equal(t, 500_000.0, d.BalloonPayment)
	assert.InDelta(t, 12.0, d.APR, 1e-3)
	assert.Equal(t, 0, d.PrepaidInterestDays)
}
