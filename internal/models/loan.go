package models

type Fee struct {
	Name        string  `json:"name" yaml:"name"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

type Covenant struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Frequency   string `json:"frequency,omitempty"`
}

// LoanTerms is the structured output of upstream underwriting. Engines read it
// and never modify it.
type LoanTerms struct {
	ApprovedAmount     float64    `json:"approved_amount" validate:"gte=0"`
	InterestRate       float64    `json:"interest_rate" validate:"gte=0"`
	BaseRateType       string     `json:"base_rate_type,omitempty"`
	BaseRateValue      float64    `json:"base_rate_value,omitempty"`
	Spread             float64    `json:"spread,omitempty"`
	TermMonths         int        `json:"term_months" validate:"gte=0"`
	AmortizationMonths int        `json:"amortization_months" validate:"gte=0"`
	MonthlyPayment     float64    `json:"monthly_payment"`
	InterestOnly       bool       `json:"interest_only"`
	PrepaymentPenalty  bool       `json:"prepayment_penalty"`
	LateFeePercent     float64    `json:"late_fee_percent"`
	LateFeeGraceDays   int        `json:"late_fee_grace_days"`
	LTV                *float64   `json:"ltv,omitempty"`
	Fees               []Fee      `json:"fees,omitempty" validate:"dive"`
	Covenants          []Covenant `json:"covenants,omitempty"`
	Conditions         []string   `json:"conditions,omitempty"`
}

func (t LoanTerms) HasBalloon() bool {
	return t.InterestOnly || (t.AmortizationMonths > t.TermMonths && t.TermMonths > 0)
}
