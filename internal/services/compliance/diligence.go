package compliance

import (
	"fmt"

	"lending_docs/internal/models"
)

const lateFeeAdvisoryCap = 0.05

var realEstateCollateral = []string{"real estate", "property", "building", "land", "mortgage", "deed"}

var phaseIIIndustries = []string{"gas station", "dry clean", "auto repair", "fuel", "chemical"}

var blanketLienCollateral = []string{"equipment", "inventory", "receivable", "blanket", "all assets", "general intangible", "vehicle"}

var digitalAssetCollateral = []string{"stablecoin", "digital asset", "crypto", "token", "usdc", "usdt", "bitcoin", "ether"}

func checkEnvironmentalPhase1(in CheckInput) models.ComplianceCheckResult {
	const name = "Environmental Due Diligence"
	const regulation = "ASTM E1527-21; 40 CFR Part 312 (AAI)"

	if !hasAnyKeyword(in.Deal.CollateralTypes, realEstateCollateral...) {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No real estate collateral; environmental review not required",
			Severity:    models.SeverityInfo,
		}
	}
	desc := "Phase I Environmental Site Assessment required for real estate collateral"
	if hasAnyKeyword([]string{in.Deal.Industry, in.Deal.LoanPurpose}, phaseIIIndustries...) {
		desc += "; high-risk use, Phase II sampling likely required"
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: desc,
		Severity:    models.SeverityWarning,
	}
}

func checkFloodInsurance(in CheckInput) models.ComplianceCheckResult {
	const name = "Flood Insurance Determination"
	const regulation = "42 U.S.C. § 4012a; 12 CFR Part 339"

	if !hasAnyKeyword(in.Deal.CollateralTypes, realEstateCollateral...) {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No improved real estate collateral",
			Severity:    models.SeverityInfo,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: "Standard Flood Hazard Determination required; flood insurance mandatory if improvements lie in a special flood hazard area",
		Severity:    models.SeverityWarning,
	}
}

func checkBSAAML(CheckInput) models.ComplianceCheckResult {
	return models.ComplianceCheckResult{
		Name:        "BSA/AML Customer Due Diligence",
		Passed:      true,
		Regulation:  "31 CFR § 1010.230; 31 CFR § 1020.220",
		Description: "Verify customer identity and beneficial owners (25% ownership and control prong) before closing",
		Severity:    models.SeverityWarning,
	}
}

func checkOFAC(CheckInput) models.ComplianceCheckResult {
	return models.ComplianceCheckResult{
		Name:        "OFAC Screening",
		Passed:      true,
		Regulation:  "31 CFR Chapter V",
		Description: "Screen borrower, guarantors and beneficial owners against the SDN list before funding",
		Severity:    models.SeverityWarning,
	}
}

func checkUCCLienSearch(in CheckInput) models.ComplianceCheckResult {
	const name = "UCC Lien Search"
	const regulation = "UCC Article 9"

	if !hasAnyKeyword(in.Deal.CollateralTypes, blanketLienCollateral...) {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No personal property collateral requiring a UCC search",
			Severity:    models.SeverityInfo,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: "Order UCC lien search in the debtor's state of organization and file UCC-1 to perfect the security interest",
		Severity:    models.SeverityWarning,
	}
}

func checkGeniusAct(in CheckInput) models.ComplianceCheckResult {
	const name = "GENIUS Act Stablecoin Collateral"
	const regulation = "GENIUS Act, Pub. L. 119-27 (2025)"

	if !hasAnyKeyword(in.Deal.CollateralTypes, digitalAssetCollateral...) {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: "No digital asset collateral",
			Severity:    models.SeverityInfo,
		}
	}
	if hasAnyKeyword(in.Deal.CollateralTypes, "algorithmic") {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  regulation,
			Description: "Algorithmic stablecoins are not permitted payment stablecoins and are not acceptable collateral",
			Severity:    models.SeverityCritical,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: "Verify the issuer is a permitted payment stablecoin issuer holding 1:1 reserves with monthly attestation; apply custody and haircut requirements",
		Severity:    models.SeverityWarning,
	}
}

func checkLateFeeLimit(in CheckInput) models.ComplianceCheckResult {
	const name = "Late Fee Limit"
	const regulation = "State late charge statutes"
	fee := in.Deal.Terms.LateFeePercent

	if fee > lateFeeAdvisoryCap {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  regulation,
			Description: fmt.Sprintf("Late fee %s exceeds the common %s cap; verify against %s law", pct(fee), pct(lateFeeAdvisoryCap), quote(in.Deal.State)),
			Severity:    models.SeverityWarning,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  regulation,
		Description: fmt.Sprintf("Late fee %s after %d-day grace period", pct(fee), in.Deal.Terms.LateFeeGraceDays),
		Severity:    models.SeverityInfo,
	}
}
