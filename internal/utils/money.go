package utils

import "github.com/shopspring/decimal"

func RoundCents(v float64) float64 {
	return Round(v, 2)
}

func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// SumCents adds amounts in decimal so long fee lists do not drift.
func SumCents(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}
