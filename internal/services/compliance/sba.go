package compliance

import (
	"fmt"
	"math"
	"strings"

	"lending_docs/internal/models"
)

// Current SOP 50 10 8 limits.
const (
	sba7aMaxLoan             = 5_000_000.0
	sbaExpressMaxLoan        = 500_000.0
	sba504MaxDebenture       = 5_000_000.0
	sba504MaxDebentureMfgNRG = 5_500_000.0
	sbaAltNetWorthCap        = 20_000_000.0
	sbaAltNetIncomeCap       = 6_500_000.0
	sba504JobCreationRatio   = 95_000.0
)

var sba504EligibleUses = []string{
	"real estate", "land", "building", "construction", "renovation",
	"equipment", "machinery", "fixed asset",
}

var sba504IneligibleUses = []string{
	"working capital", "inventory", "receivable", "revolving", "goodwill", "franchise fee",
}

var sbaIneligibleIndustries = []string{
	"gambling", "casino", "payday", "pawn", "lending", "speculat", "passive",
	"pyramid", "lobbying", "cannabis", "marijuana", "adult entertainment", "political",
}

func is504(p models.LoanProgram) bool {
	return strings.Contains(p.ID, "504") || strings.Contains(p.Category, "504")
}

func isExpress(p models.LoanProgram) bool {
	return strings.Contains(strings.ToLower(p.ID), "express")
}

func isManufacturingOrEnergy(d models.Deal) bool {
	if hasAnyKeyword([]string{d.Industry}, "manufactur", "energy", "renewable", "solar") {
		return true
	}
	code := strings.TrimSpace(d.NAICSCode)
	return strings.HasPrefix(code, "31") || strings.HasPrefix(code, "32") || strings.HasPrefix(code, "33")
}

func checkSBASizeStandard(in CheckInput) models.ComplianceCheckResult {
	const name = "SBA Size Standard"
	amount := in.Deal.Terms.ApprovedAmount

	limit, label, regulation := sba7aMaxLoan, "SBA 7(a)", "13 CFR § 120.151; 13 CFR § 121.301"
	switch {
	case is504(in.Program):
		limit, label, regulation = sba504MaxDebenture, "SBA 504", "13 CFR § 120.931; 13 CFR § 121.301"
		if isManufacturingOrEnergy(in.Deal) {
			limit, label = sba504MaxDebentureMfgNRG, "SBA 504 manufacturing/energy"
		}
	case isExpress(in.Program):
		limit, label = sbaExpressMaxLoan, "SBA Express"
	}

	if amount > limit {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  regulation,
			Description: fmt.Sprintf("Requested %s exceeds the %s maximum of %s", usd(amount), label, usd(limit)),
			Severity:    models.SeverityCritical,
		}
	}

	if in.Deal.TangibleNetWorth > sbaAltNetWorthCap || in.Deal.AvgNetIncome > sbaAltNetIncomeCap {
		return models.ComplianceCheckResult{
			Name:       name,
			Passed:     false,
			Regulation: regulation,
			Description: fmt.Sprintf("Borrower exceeds the alternative size standard (tangible net worth %s / cap %s, average net income %s / cap %s); confirm eligibility under the NAICS industry standard",
				usd(in.Deal.TangibleNetWorth), usd(sbaAltNetWorthCap), usd(in.Deal.AvgNetIncome), usd(sbaAltNetIncomeCap)),
			Severity: models.SeverityWarning,
		}
	}

	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: fmt.Sprintf("Requested %s is within the %s maximum of %s", usd(amount), label, usd(limit)),
		Severity:    models.SeverityInfo,
	}
}

func checkSBA504Eligibility(in CheckInput) models.ComplianceCheckResult {
	const name = "SBA 504 Eligible Use of Proceeds"
	const regulation = "13 CFR § 120.882"
	uses := append([]string{in.Deal.LoanPurpose}, in.Deal.CollateralTypes...)

	var bad []string
	for _, u := range uses {
		if hasAnyKeyword([]string{u}, sba504IneligibleUses...) {
			bad = append(bad, u)
		}
	}
	if len(bad) > 0 {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  regulation,
			Description: "504 proceeds are limited to long-term fixed assets; ineligible use: " + strings.Join(bad, ", "),
			Severity:    models.SeverityCritical,
		}
	}
	if !hasAnyKeyword(uses, sba504EligibleUses...) {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  regulation,
			Description: "Could not confirm a fixed-asset use of proceeds (real estate, construction or long-life equipment); manual review required",
			Severity:    models.SeverityWarning,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: "Proceeds finance eligible long-term fixed assets",
		Severity:    models.SeverityInfo,
	}
}

func checkSBAJobCreation(in CheckInput) models.ComplianceCheckResult {
	const name = "SBA 504 Job Creation"
	const regulation = "13 CFR § 120.861; 13 CFR § 120.862"
	amount := in.Deal.Terms.ApprovedAmount

	if amount <= 0 {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No debenture amount; job creation goal not applicable",
			Severity:    models.SeverityInfo,
		}
	}

	required := int(math.Ceil(amount / sba504JobCreationRatio))
	if in.Deal.JobsCreated >= required {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: fmt.Sprintf("%d jobs created or retained meets the goal of %d (one per %s of debenture)", in.Deal.JobsCreated, required, usd(sba504JobCreationRatio)),
			Severity:    models.SeverityInfo,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      false,
		Regulation:  regulation,
		Description: fmt.Sprintf("%d jobs created or retained is below the goal of %d (one per %s of debenture); project must qualify under a community development or public policy goal", in.Deal.JobsCreated, required, usd(sba504JobCreationRatio)),
		Severity:    models.SeverityWarning,
	}
}

func checkSBACreditElsewhere(CheckInput) models.ComplianceCheckResult {
	return models.ComplianceCheckResult{
		Name:        "SBA Credit Elsewhere",
		Passed:      true,
		Regulation:  "13 CFR § 120.101",
		Description: "Lender must certify that credit is not available elsewhere on reasonable terms and document the basis in the credit memorandum",
		Severity:    models.SeverityWarning,
	}
}

func checkSBAEligibleBusiness(in CheckInput) models.ComplianceCheckResult {
	const name = "SBA Eligible Business"
	const regulation = "13 CFR § 120.110"
	fields := []string{in.Deal.Industry, in.Deal.LoanPurpose}

	for _, kw := range sbaIneligibleIndustries {
		if hasAnyKeyword(fields, kw) {
			return models.ComplianceCheckResult{
				Name:        name,
				Passed:      false,
				Regulation:  regulation,
				Description: fmt.Sprintf("Business type matches an ineligible category (%s)", kw),
				Severity:    models.SeverityCritical,
			}
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: "Business type is not in an ineligible category",
		Severity:    models.SeverityInfo,
	}
}
