package compliance

import (
	"fmt"

	"lending_docs/internal/models"
)

func checkLTVLimit(in CheckInput) models.ComplianceCheckResult {
	const name = "LTV Limit"
	ltv := in.Deal.Terms.LTV
	maxLTV := in.Program.StructuringRules.MaxLTV
	regulation := fmt.Sprintf("%s structuring rules", in.Program.Name)

	if ltv == nil {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No LTV provided; not applicable to unsecured or cash-flow facilities",
			Severity:    models.SeverityInfo,
		}
	}
	if maxLTV <= 0 {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: fmt.Sprintf("LTV %s; program sets no maximum", pct(*ltv)),
			Severity:    models.SeverityInfo,
		}
	}
	if *ltv > maxLTV {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  regulation,
			Description: fmt.Sprintf("LTV %s exceeds program maximum of %s", pct(*ltv), pct(maxLTV)),
			Severity:    models.SeverityCritical,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: fmt.Sprintf("LTV %s is within program maximum of %s", pct(*ltv), pct(maxLTV)),
		Severity:    models.SeverityInfo,
	}
}

func checkTermLimit(in CheckInput) models.ComplianceCheckResult {
	const name = "Term Limit"
	term := in.Deal.Terms.TermMonths
	maxTerm := in.Program.StructuringRules.MaxTerm
	regulation := fmt.Sprintf("%s structuring rules", in.Program.Name)

	if maxTerm == 0 {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "Revolving or interest-only facility; no fixed term limit applies",
			Severity:    models.SeverityInfo,
		}
	}
	if term > maxTerm {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  regulation,
			Description: fmt.Sprintf("Term of %d months exceeds program maximum of %d months", term, maxTerm),
			Severity:    models.SeverityCritical,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: fmt.Sprintf("Term of %d months is within program maximum of %d months", term, maxTerm),
		Severity:    models.SeverityInfo,
	}
}
