package models

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

type ComplianceCheckResult struct {
	Name        string   `json:"name" bson:"name"`
	Passed      bool     `json:"passed" bson:"passed"`
	Regulation  string   `json:"regulation" bson:"regulation"`
	Description string   `json:"description" bson:"description"`
	Severity    Severity `json:"severity" bson:"severity"`
}

type ComplianceSummary struct {
	Total            int  `json:"total"`
	Passed           int  `json:"passed"`
	CriticalFailures int  `json:"critical_failures"`
	Warnings         int  `json:"warnings"`
	Enforceable      bool `json:"enforceable"`
}

func Summarize(results []ComplianceCheckResult) ComplianceSummary {
	s := ComplianceSummary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else if r.Severity == SeverityCritical {
			s.CriticalFailures++
		}
		if r.Severity == SeverityWarning {
			s.Warnings++
		}
	}
	s.Enforceable = s.CriticalFailures == 0
	return s
}

type ComplianceEvaluation struct {
	ID        string                  `json:"id"`
	DealID    string                  `json:"deal_id,omitempty"`
	ProgramID string                  `json:"program_id"`
	State     string                  `json:"state"`
	Results   []ComplianceCheckResult `json:"results"`
	Summary   ComplianceSummary       `json:"summary"`
	CreatedAt time.Time               `json:"created_at"`
}
