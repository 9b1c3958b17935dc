package models

import "time"

// Deal bundles loan terms with borrower, collateral and transaction attributes
// needed by the compliance checks.
type Deal struct {
	ID              string    `json:"id,omitempty"`
	ProgramID       string    `json:"program_id"`
	BorrowerName    string    `json:"borrower_name,omitempty"`
	State           string    `json:"state"`
	Terms           LoanTerms `json:"terms"`
	CollateralTypes []string  `json:"collateral_types,omitempty"`
	LoanPurpose     string    `json:"loan_purpose,omitempty"`
	Industry        string    `json:"industry,omitempty"`
	NAICSCode       string    `json:"naics_code,omitempty"`

	AnnualRevenue    float64  `json:"annual_revenue,omitempty"`
	EmployeeCount    int      `json:"employee_count,omitempty"`
	TangibleNetWorth float64  `json:"tangible_net_worth,omitempty"`
	AvgNetIncome     float64  `json:"avg_net_income,omitempty"`
	JobsCreated      int      `json:"jobs_created,omitempty"`
	DTI              *float64 `json:"dti,omitempty"`

	TransactionValue float64 `json:"transaction_value,omitempty"`
	AcquirerSize     float64 `json:"acquirer_size,omitempty"`
	TargetSize       float64 `json:"target_size,omitempty"`

	FundingDate      *time.Time `json:"funding_date,omitempty"`
	FirstPaymentDate *time.Time `json:"first_payment_date,omitempty"`
}
