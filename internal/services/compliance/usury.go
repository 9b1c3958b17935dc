package compliance

import (
	"fmt"
	"strings"

	"lending_docs/internal/models"
)

// NoRateCap marks states where freely negotiated commercial rates have no
// statutory ceiling.
const NoRateCap = 999.0

// UsuryRule is one row of the state usury table. Optional fields are nil when
// the state has no such provision.
type UsuryRule struct {
	Rate                            float64
	Statute                         string
	CommercialExemptAbove           *float64
	CommercialCeiling               *float64
	CriminalUsuryCap                *float64
	CriminalUsuryExemptionThreshold *float64
}

func amt(v float64) *float64 { return &v }

var usuryTable = map[string]UsuryRule{
	"AL": {Rate: 0.08, Statute: "Ala. Code § 8-8-1", CommercialExemptAbove: amt(2_000)},
	"AK": {Rate: 0.105, Statute: "Alaska Stat. § 45.45.010", CommercialExemptAbove: amt(25_000)},
	"AZ": {Rate: NoRateCap, Statute: "A.R.S. § 44-1201"},
	"AR": {Rate: 0.17, Statute: "Ark. Const. amend. 89, § 3"},
	"CA": {Rate: 0.10, Statute: "Cal. Const. art. XV, § 1", CommercialExemptAbove: amt(300_000)},
	"CO": {Rate: 0.45, Statute: "C.R.S. § 5-12-103"},
	"CT": {Rate: 0.12, Statute: "Conn. Gen. Stat. § 37-4", CommercialExemptAbove: amt(10_000)},
	"DE": {Rate: NoRateCap, Statute: "6 Del. C. § 2301"},
	"DC": {Rate: 0.24, Statute: "D.C. Code § 28-3301"},
	"FL": {Rate: 0.18, Statute: "Fla. Stat. § 687.02", CommercialExemptAbove: amt(500_000), CommercialCeiling: amt(0.25)},
	"GA": {Rate: 0.16, Statute: "O.C.G.A. § 7-4-2; O.C.G.A. § 7-4-18", CommercialExemptAbove: amt(3_000), CriminalUsuryCap: amt(0.60), CriminalUsuryExemptionThreshold: amt(250_000)},
	"HI": {Rate: 0.12, Statute: "HRS § 478-4"},
	"ID": {Rate: NoRateCap, Statute: "Idaho Code § 28-22-104"},
	"IL": {Rate: 0.09, Statute: "815 ILCS 205/4", CommercialExemptAbove: amt(0)},
	"IN": {Rate: 0.25, Statute: "Ind. Code § 24-4.6-1-102"},
	"IA": {Rate: 0.05, Statute: "Iowa Code § 535.2", CommercialExemptAbove: amt(0)},
	"KS": {Rate: 0.15, Statute: "K.S.A. § 16-207", CommercialExemptAbove: amt(0)},
	"KY": {Rate: 0.08, Statute: "KRS § 360.010", CommercialExemptAbove: amt(15_000)},
	"LA": {Rate: 0.12, Statute: "La. R.S. 9:3500", CommercialExemptAbove: amt(0)},
	"ME": {Rate: NoRateCap, Statute: "9-B M.R.S. § 432"},
	"MD": {Rate: 0.24, Statute: "Md. Code, Com. Law § 12-103", CommercialExemptAbove: amt(75_000)},
	"MA": {Rate: 0.20, Statute: "M.G.L. c. 271, § 49"},
	"MI": {Rate: 0.07, Statute: "MCL § 438.31; MCL § 438.41", CommercialExemptAbove: amt(0), CriminalUsuryCap: amt(0.25)},
	"MN": {Rate: 0.08, Statute: "Minn. Stat. § 334.01", CommercialExemptAbove: amt(100_000)},
	"MS": {Rate: 0.10, Statute: "Miss. Code § 75-17-1", CommercialExemptAbove: amt(5_000)},
	"MO": {Rate: 0.10, Statute: "Mo. Rev. Stat. § 408.030", CommercialExemptAbove: amt(0)},
	"MT": {Rate: 0.15, Statute: "Mont. Code § 31-1-107"},
	"NE": {Rate: 0.16, Statute: "Neb. Rev. Stat. § 45-101.03", CommercialExemptAbove: amt(25_000)},
	"NV": {Rate: NoRateCap, Statute: "NRS 99.050"},
	"NH": {Rate: NoRateCap, Statute: "RSA 336:1"},
	"NJ": {Rate: 0.16, Statute: "N.J.S.A. 31:1-1; N.J.S.A. 2C:21-19", CommercialExemptAbove: amt(50_000), CriminalUsuryCap: amt(0.50)},
	"NM": {Rate: NoRateCap, Statute: "N.M. Stat. § 56-8-9"},
	"NY": {Rate: 0.16, Statute: "N.Y. Gen. Oblig. Law § 5-501; N.Y. Penal Law § 190.40", CommercialExemptAbove: amt(250_000), CriminalUsuryCap: amt(0.25), CriminalUsuryExemptionThreshold: amt(2_500_000)},
	"NC": {Rate: 0.16, Statute: "N.C.G.S. § 24-1.1", CommercialExemptAbove: amt(25_000)},
	"ND": {Rate: 0.10, Statute: "N.D.C.C. § 47-14-09", CommercialExemptAbove: amt(35_000)},
	"OH": {Rate: 0.08, Statute: "Ohio Rev. Code § 1343.01", CommercialExemptAbove: amt(100_000)},
	"OK": {Rate: 0.10, Statute: "Okla. Stat. tit. 14A, § 2-201"},
	"OR": {Rate: 0.12, Statute: "ORS 82.010", CommercialExemptAbove: amt(50_000)},
	"PA": {Rate: 0.06, Statute: "41 P.S. § 201", CommercialExemptAbove: amt(50_000)},
	"RI": {Rate: 0.21, Statute: "R.I. Gen. Laws § 6-26-2"},
	"SC": {Rate: NoRateCap, Statute: "S.C. Code § 34-31-30"},
	"SD": {Rate: NoRateCap, Statute: "SDCL § 54-3-1.1"},
	"TN": {Rate: 0.24, Statute: "Tenn. Code § 47-14-103"},
	"TX": {Rate: 0.18, Statute: "Tex. Fin. Code § 303.009", CommercialExemptAbove: amt(250_000), CommercialCeiling: amt(0.28)},
	"UT": {Rate: NoRateCap, Statute: "Utah Code § 15-1-1"},
	"VT": {Rate: 0.12, Statute: "9 V.S.A. § 41a"},
	"VA": {Rate: 0.12, Statute: "Va. Code § 6.2-303", CommercialExemptAbove: amt(5_000)},
	"WA": {Rate: 0.12, Statute: "RCW 19.52.020", CommercialExemptAbove: amt(0)},
	"WV": {Rate: 0.08, Statute: "W. Va. Code § 47-6-5", CommercialExemptAbove: amt(0)},
	"WI": {Rate: NoRateCap, Statute: "Wis. Stat. § 138.05"},
	"WY": {Rate: 0.10, Statute: "Wyo. Stat. § 40-14-106"},
}

func UsuryRuleFor(state string) (UsuryRule, bool) {
	r, ok := usuryTable[strings.ToUpper(strings.TrimSpace(state))]
	return r, ok
}

func UsuryStates() int { return len(usuryTable) }

// checkUsury walks the state rule in order: elevated commercial ceiling,
// criminal cap that survives civil exemption, full commercial exemption, and
// finally the general rate cap.
func checkUsury(in CheckInput) models.ComplianceCheckResult {
	const name = "Usury Limit"
	state := strings.ToUpper(strings.TrimSpace(in.Deal.State))
	rate := in.Deal.Terms.InterestRate
	principal := in.Deal.Terms.ApprovedAmount

	rule, ok := usuryTable[state]
	if !ok {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  "State usury law",
			Description: fmt.Sprintf("State %q not found in usury table; manual review required to confirm the applicable rate cap", in.Deal.State),
			Severity:    models.SeverityWarning,
		}
	}

	if rule.CommercialExemptAbove != nil && principal >= *rule.CommercialExemptAbove {
		if rule.CommercialCeiling != nil {
			ceiling := *rule.CommercialCeiling
			if rate > ceiling {
				return models.ComplianceCheckResult{
					Name:        name,
					Passed:      false,
					Regulation:  rule.Statute,
					Description: fmt.Sprintf("Rate %s exceeds the %s commercial ceiling for %s loans of %s or more", pct(rate), pct(ceiling), state, usd(*rule.CommercialExemptAbove)),
					Severity:    models.SeverityCritical,
				}
			}
			return models.ComplianceCheckResult{
				Name:        name,
				Passed:      true,
				Regulation:  rule.Statute,
				Description: fmt.Sprintf("Rate %s is within the %s commercial ceiling for %s loans of %s or more", pct(rate), pct(ceiling), state, usd(*rule.CommercialExemptAbove)),
				Severity:    models.SeverityInfo,
			}
		}

		if rule.CriminalUsuryCap != nil && (rule.CriminalUsuryExemptionThreshold == nil || principal < *rule.CriminalUsuryExemptionThreshold) {
			limit := *rule.CriminalUsuryCap
			if rate > limit {
				return models.ComplianceCheckResult{
					Name:        name,
					Passed:      false,
					Regulation:  rule.Statute,
					Description: fmt.Sprintf("Civil usury exempt above %s, but rate %s exceeds the %s criminal usury cap", usd(*rule.CommercialExemptAbove), pct(rate), pct(limit)),
					Severity:    models.SeverityCritical,
				}
			}
			return models.ComplianceCheckResult{
				Name:        name,
				Passed:      true,
				Regulation:  rule.Statute,
				Description: fmt.Sprintf("Civil usury exempt above %s; note the %s criminal usury cap still applies (rate %s)%s", usd(*rule.CommercialExemptAbove), pct(limit), pct(rate), criminalThresholdNote(rule)),
				Severity:    models.SeverityWarning,
			}
		}

		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  rule.Statute,
			Description: fmt.Sprintf("Commercial loan of %s is exempt from the %s general usury cap (threshold %s)", usd(principal), state, usd(*rule.CommercialExemptAbove)),
			Severity:    models.SeverityInfo,
		}
	}

	if rule.Rate >= NoRateCap {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  rule.Statute,
			Description: fmt.Sprintf("%s imposes no statutory cap on freely negotiated commercial rates", state),
			Severity:    models.SeverityInfo,
		}
	}

	if rate > rule.Rate {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      false,
			Regulation:  rule.Statute,
			Description: fmt.Sprintf("Rate %s exceeds the %s usury cap of %s", pct(rate), state, pct(rule.Rate)),
			Severity:    models.SeverityCritical,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  rule.Statute,
		Description: fmt.Sprintf("Rate %s is within the %s usury cap of %s", pct(rate), state, pct(rule.Rate)),
		Severity:    models.SeverityInfo,
	}
}

func criminalThresholdNote(rule UsuryRule) string {
	if rule.CriminalUsuryExemptionThreshold == nil {
		return ""
	}
	return fmt.Sprintf("; criminal cap lifts at %s", usd(*rule.CriminalUsuryExemptionThreshold))
}
