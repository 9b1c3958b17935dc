package disclosure

import "math"

// The N-ratio shortcut drifts 20-40bps on long terms, outside the 12.5bps
// Regulation Z tolerance, so APR is solved actuarially.
const (
	aprMaxIterations = 100
	aprTolerance     = 1e-10
)

// CalculateAPR solves loanAmount = payment * (1 - (1+r)^-n) / r for the
// monthly rate r and returns the annual percentage rate (r * 12 * 100).
func CalculateAPR(loanAmount, payment float64, termMonths int) float64 {
	return CalculateAPRWithBalloon(loanAmount, payment, termMonths, 0)
}

// CalculateAPRWithBalloon adds a final lump sum discounted at the same rate,
// which balloon and interest-only loans need.
func CalculateAPRWithBalloon(loanAmount, payment float64, termMonths int, balloon float64) float64 {
	if loanAmount == 0 || termMonths == 0 || payment == 0 {
		return 0
	}
	n := float64(termMonths)
	if payment*n+balloon <= loanAmount {
		return 0
	}

	r := payment / loanAmount
	for i := 0; i < aprMaxIterations; i++ {
		f, df := presentValueGap(r, loanAmount, payment, n, balloon)
		if df == 0 || math.IsNaN(df) || math.IsInf(df, 0) {
			break
		}
		next := r - f/df
		if next <= 0 {
			next = r / 2
		}
		if math.Abs(next-r) < aprTolerance {
			r = next
			break
		}
		r = next
	}
	return r * 12 * 100
}

// presentValueGap returns f(r) = PV(payments) + PV(balloon) - loanAmount and
// its derivative.
func presentValueGap(r, loanAmount, payment, n, balloon float64) (float64, float64) {
	discount := math.Pow(1+r, -n)
	annuity := (1 - discount) / r
	dAnnuity := (n*math.Pow(1+r, -n-1)*r - (1 - discount)) / (r * r)

	f := payment*annuity + balloon*discount - loanAmount
	df := payment*dAnnuity - balloon*n*math.Pow(1+r, -n-1)
	return f, df
}
