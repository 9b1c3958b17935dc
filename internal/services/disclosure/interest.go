package disclosure

import (
	"math"
	"time"
)

const daysPerYear = 365

func PerDiemInterest(principal, annualRate float64) float64 {
	return principal * annualRate / daysPerYear
}

// DaysBetween counts calendar days from one date to another. Both dates are
// pinned to UTC midnight first so DST shifts never add or drop a day.
func DaysBetween(from, to time.Time) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	days := math.Ceil(t.Sub(f).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

func PrepaidInterest(principal, annualRate float64, funding, firstPayment time.Time) (float64, int) {
	days := DaysBetween(funding, firstPayment)
	return PerDiemInterest(principal, annualRate) * float64(days), days
}

// AmortizedPayment is the level monthly payment that retires principal over
// the given number of months.
func AmortizedPayment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	if annualRate == 0 {
		return principal / float64(months)
	}
	r := annualRate / 12
	return principal * (r / (1 - math.Pow(1+r, -float64(months))))
}

type PaymentBreakdown struct {
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
}

// FirstPaymentBreakdown splits the first scheduled payment into interest and
// principal.
func FirstPaymentBreakdown(principal, annualRate, payment float64, interestOnly bool) PaymentBreakdown {
	interest := principal * annualRate / 12
	if interestOnly {
		return PaymentBreakdown{Payment: payment, Interest: interest}
	}
	toPrincipal := payment - interest
	if toPrincipal < 0 {
		toPrincipal = 0
	}
	return PaymentBreakdown{Payment: payment, Principal: toPrincipal, Interest: interest}
}
