package prose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"lending_docs/internal/metrics"
	"lending_docs/internal/ports"
)

const SourceTemplate = "template"

// FallbackGenerator renders fixed boilerplate from the facts. It never fails.
type FallbackGenerator struct{}

var templates = map[string]map[string]string{
	"loan_estimate": {
		"Loan Overview":   "This estimate covers a loan of {principal} at an interest rate of {rate} over {term_months} months, with a scheduled payment of {payment}.",
		"Cost of Credit":  "The annual percentage rate is {apr}. Over the term you will pay {finance_charge} in finance charges, and total payments will be {total_of_payments}.",
		"Closing Costs":   "Estimated closing costs are {closing_costs}, including prepaid interest of {prepaid_interest}.",
		"Balloon Payment": "A final balloon payment of {balloon} is due at maturity.",
	},
	"compliance_report": {
		"Summary":         "{subject} was evaluated under the {program} program. {passed} of {total} checks passed, with {critical} critical failures and {warnings} advisory items.",
		"Critical Issues": "The following items must be resolved before the loan is enforceable: {critical_items}.",
		"Next Steps":      "Advisory items should be documented in the credit file before closing.",
	},
	"term_sheet": {
		"Facility":  "{program} facility of {principal} to {subject} for a term of {term_months} months at {rate}.",
		"Repayment": "Scheduled payment of {payment}, amortizing over {amortization_months} months.",
		"Security":  "Secured by {collateral}.",
	},
}

var defaultSections = map[string][]string{
	"loan_estimate":     {"Loan Overview", "Cost of Credit", "Closing Costs"},
	"compliance_report": {"Summary", "Next Steps"},
	"term_sheet":        {"Facility", "Repayment", "Security"},
}

func fill(tmpl string, facts map[string]string) string {
	pairs := make([]string, 0, len(facts)*2)
	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", facts[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func (FallbackGenerator) Generate(_ context.Context, req ports.ProseRequest) (ports.Prose, error) {
	sections := req.Sections
	if len(sections) == 0 {
		sections = defaultSections[req.Kind]
	}
	facts := make(map[string]string, len(req.Facts)+1)
	for k, v := range req.Facts {
		facts[k] = v
	}
	if _, ok := facts["subject"]; !ok {
		facts["subject"] = req.Subject
	}

	out := ports.Prose{Source: SourceTemplate}
	for _, s := range sections {
		tmpl, ok := templates[req.Kind][s]
		if !ok {
			tmpl = fmt.Sprintf("See the %s tables in this workbook.", strings.ToLower(s))
		}
		out.Paragraphs = append(out.Paragraphs, ports.Paragraph{Heading: s, Body: fill(tmpl, facts)})
	}
	return out, nil
}

// WithFallback returns primary's prose, or fallback's when primary is nil
// or fails.
type WithFallback struct {
	Primary  ports.ProseGenerator
	Fallback ports.ProseGenerator
	Log      *zap.Logger
}

func (w WithFallback) Generate(ctx context.Context, req ports.ProseRequest) (ports.Prose, error) {
	if w.Primary != nil {
		out, err := w.Primary.Generate(ctx, req)
		if err == nil {
			metrics.ProseRequests.WithLabelValues("primary").Inc()
			return out, nil
		}
		if w.Log != nil {
			w.Log.Warn("[PROSE] primary generator failed, using fallback", zap.String("kind", req.Kind), zap.Error(err))
		}
	}
	metrics.ProseRequests.WithLabelValues("fallback").Inc()
	return w.Fallback.Generate(ctx, req)
}
