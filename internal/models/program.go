package models

type StructuringRules struct {
	MaxLTV    float64 `json:"max_ltv" yaml:"max_ltv"`
	MaxTerm   int     `json:"max_term" yaml:"max_term"`
	MinAmount float64 `json:"min_amount,omitempty" yaml:"min_amount,omitempty"`
	MaxAmount float64 `json:"max_amount,omitempty" yaml:"max_amount,omitempty"`
}

// LoanProgram is a catalog entry. MaxTerm == 0 marks a revolving or
// interest-only facility that has no fixed-term limit.
type LoanProgram struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	Category         string           `json:"category,omitempty" yaml:"category,omitempty"`
	StructuringRules StructuringRules `json:"structuring_rules" yaml:"structuring_rules"`
	ComplianceChecks []string         `json:"compliance_checks" yaml:"compliance_checks"`
}
