package disclosure

// BalloonBalance simulates the amortization schedule for termMonths and
// returns the balance still owed at maturity.
func BalloonBalance(principal, annualRate, payment float64, termMonths, amortizationMonths int, interestOnly bool) float64 {
	if interestOnly {
		return principal
	}
	if termMonths <= 0 || termMonths >= amortizationMonths {
		return 0
	}

	monthlyRate := annualRate / 12
	balance := principal
	for month := 0; month < termMonths; month++ {
		interest := balance * monthlyRate
		balance -= payment - interest
		if balance <= 0 {
			return 0
		}
	}
	return balance
}
