package compliance

import (
	"fmt"
	"time"

	"lending_docs/internal/models"
	"lending_docs/internal/services/disclosure"
)

const (
	hpmlFirstLienSpread   = 0.015
	hpmlJumboSpread       = 0.025
	hpmlSubordinateSpread = 0.035
	conformingLoanLimit   = 806_500.0
	atrDTIAdvisory        = 0.43
)

// Non-QM programs qualify on documentation rather than ratio tests.
var nonQMDocumentation = map[string]string{
	"non_qm_bank_statement": "Income qualified from 12-24 months of personal or business bank statements with expense factor; ATR satisfied by documented cash flow under 12 CFR § 1026.43(c)(4)",
	"dscr_rental":           "Qualification based on subject property cash flow (DSCR of at least 1.0x from lease or market rent); business-purpose loan, borrower income not used",
}

func (e *Evaluator) checkHPML(in CheckInput) models.ComplianceCheckResult {
	const name = "Higher-Priced Mortgage Loan"
	const regulation = "12 CFR § 1026.35"
	terms := in.Deal.Terms

	spread, lien := hpmlFirstLienSpread, "first-lien"
	switch {
	case hasAnyKeyword(in.Deal.CollateralTypes, "second lien", "subordinate", "junior"):
		spread, lien = hpmlSubordinateSpread, "subordinate-lien"
	case terms.ApprovedAmount > conformingLoanLimit:
		spread, lien = hpmlJumboSpread, "jumbo first-lien"
	}

	apr := disclosure.Compute(terms, timeOrZero(in.Deal.FundingDate), timeOrZero(in.Deal.FirstPaymentDate)).APR / 100
	apor := e.apor.AveragePrimeOfferRate(terms.TermMonths)
	threshold := apor + spread

	if apr >= threshold {
		return models.ComplianceCheckResult{
			Name:       name,
			Passed:     true,
			Regulation: regulation,
			Description: fmt.Sprintf("APR %s meets or exceeds the estimated %s HPML threshold of %s (APOR estimate %s + %s); escrow and appraisal requirements likely apply. APOR is a conservative estimate; confirm against the current FFIEC table",
				pct(apr), lien, pct(threshold), pct(apor), pct(spread)),
			Severity: models.SeverityWarning,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: fmt.Sprintf("APR %s is below the estimated %s HPML threshold of %s (APOR estimate %s)", pct(apr), lien, pct(threshold), pct(apor)),
		Severity:    models.SeverityInfo,
	}
}

func checkATR(in CheckInput) models.ComplianceCheckResult {
	const name = "Ability to Repay"
	const regulation = "12 CFR § 1026.43(c)"

	if doc, ok := nonQMDocumentation[in.Program.ID]; ok {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: doc,
			Severity:    models.SeverityWarning,
		}
	}

	ltv := in.Deal.Terms.LTV
	maxLTV := in.Program.StructuringRules.MaxLTV
	if ltv == nil {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No LTV provided; verify collateral valuation before consummation",
			Severity:    models.SeverityWarning,
		}
	}
	if maxLTV > 0 && *ltv > maxLTV {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  regulation,
			Description: fmt.Sprintf("LTV %s exceeds the program maximum of %s; ability to repay cannot be established on program terms", pct(*ltv), pct(maxLTV)),
			Severity:    models.SeverityCritical,
		}
	}
	if dti := in.Deal.DTI; dti != nil && *dti > atrDTIAdvisory {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: fmt.Sprintf("DTI %s exceeds %s; document compensating factors for the ATR determination", pct(*dti), pct(atrDTIAdvisory)),
			Severity:    models.SeverityWarning,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: fmt.Sprintf("LTV %s within program limits; ATR underwriting factors verified", pct(*ltv)),
		Severity:    models.SeverityInfo,
	}
}

func checkPrepaymentPenalty(in CheckInput) models.ComplianceCheckResult {
	const name = "Prepayment Penalty"
	const regulation = "12 CFR § 1026.43(g)"

	if !in.Deal.Terms.PrepaymentPenalty {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No prepayment penalty",
			Severity:    models.SeverityInfo,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: "Prepayment penalty present; permitted only on fixed-rate QM loans that are not HPML, limited to 3 years and 2%/2%/1% of the prepaid balance",
		Severity:    models.SeverityWarning,
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
