package compliance

import (
	"fmt"
	"sort"
	"strings"

	"lending_docs/internal/models"
)

type disclosureLaw struct {
	Statute   string
	Threshold float64
}

// State commercial financing disclosure statutes. Transactions above the
// threshold are exempt.
var commercialDisclosureLaws = map[string]disclosureLaw{
	"CA": {"Cal. Fin. Code § 22800 et seq. (SB 1235)", 500_000},
	"NY": {"N.Y. Fin. Serv. Law § 801 et seq. (CFDL)", 2_500_000},
	"UT": {"Utah Code § 7-27-101 et seq.", 1_000_000},
	"VA": {"Va. Code § 6.2-2228 et seq.", 500_000},
	"GA": {"O.C.G.A. § 10-1-393.18", 500_000},
	"FL": {"Fla. Stat. § 559.961 et seq.", 500_000},
	"CT": {"Conn. Gen. Stat. § 36a-861 et seq.", 250_000},
	"KS": {"K.S.A. § 16a-2-301a", 500_000},
	"TX": {"Tex. Fin. Code ch. 398", 1_000_000},
	"MO": {"Mo. Rev. Stat. § 427.300", 500_000},
	"LA": {"La. R.S. 9:3580.1 et seq.", 500_000},
}

// CommercialDisclosureStates lists the states with a disclosure statute, sorted.
func CommercialDisclosureStates() []string {
	out := make([]string, 0, len(commercialDisclosureLaws))
	for st := range commercialDisclosureLaws {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

func checkCommercialDisclosure(in CheckInput) models.ComplianceCheckResult {
	const name = "Commercial Financing Disclosure"
	state := strings.ToUpper(strings.TrimSpace(in.Deal.State))
	amount := in.Deal.Terms.ApprovedAmount

	law, ok := commercialDisclosureLaws[state]
	if !ok {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  "N/A",
			Description: fmt.Sprintf("No commercial financing disclosure statute mapped for %s", quote(state)),
			Severity:    models.SeverityInfo,
		}
	}
	if amount > law.Threshold {
		return models.ComplianceCheckResult{
			Name:        name,
			Passed:      true,
			Regulation:  law.Statute,
			Description: fmt.Sprintf("Amount %s exceeds the %s threshold of %s; exempt from disclosure", usd(amount), state, usd(law.Threshold)),
			Severity:    models.SeverityInfo,
		}
	}
	return models.ComplianceCheckResult{
		Name:        name,
		Passed:      true,
		Regulation:  law.Statute,
		Description: fmt.Sprintf("%s disclosure required at time of offer for amounts up to %s (total cost, APR estimate, payment schedule, prepayment terms)", state, usd(law.Threshold)),
		Severity:    models.SeverityWarning,
	}
}
