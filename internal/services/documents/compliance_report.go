package documents

import (
	"strconv"
	"strings"

	"lending_docs/internal/models"
	"lending_docs/internal/ports"
)

func buildComplianceReport(s *Service, w *sheetWriter, deal models.Deal) (ports.ProseRequest, error) {
	results := s.evaluator.Evaluate(deal)
	sum := models.Summarize(results)
	_, programName := s.programName(deal.ProgramID)

	if err := w.title("Compliance Report"); err != nil {
		return ports.ProseRequest{}, err
	}
	status := "Enforceable"
	if !sum.Enforceable {
		status = "Not enforceable"
	}
	for _, r := range [][]any{
		{"Borrower", subject(deal)},
		{"Program", programName},
		{"State", strings.ToUpper(deal.State)},
		{"Loan Amount", money(deal.Terms.ApprovedAmount)},
		{"Checks Run", sum.Total},
		{"Passed", sum.Passed},
		{"Critical Failures", sum.CriticalFailures},
		{"Warnings", sum.Warnings},
		{"Status", status},
	} {
		if err := w.values(r...); err != nil {
			return ports.ProseRequest{}, err
		}
	}

	w.blank()
	if err := w.header("Check", "Result", "Severity", "Regulation", "Description"); err != nil {
		return ports.ProseRequest{}, err
	}
	if err := w.f.SetColWidth(w.sheet, "E", "E", 80); err != nil {
		return ports.ProseRequest{}, err
	}

	var critical []string
	for _, r := range results {
		result := "Pass"
		if !r.Passed {
			result = "Fail"
		}
		if err := w.values(r.Name, result, string(r.Severity), r.Regulation, r.Description); err != nil {
			return ports.ProseRequest{}, err
		}
		switch {
		case !r.Passed && r.Severity == models.SeverityCritical:
			critical = append(critical, r.Name)
			if err := w.styleRow(5, w.styles.critical); err != nil {
				return ports.ProseRequest{}, err
			}
		case r.Severity == models.SeverityWarning:
			if err := w.styleRow(5, w.styles.warning); err != nil {
				return ports.ProseRequest{}, err
			}
		}
	}

	sections := []string{"Summary"}
	if len(critical) > 0 {
		sections = append(sections, "Critical Issues")
	}
	sections = append(sections, "Next Steps")

	return ports.ProseRequest{
		Kind:    models.DocumentComplianceReport,
		Subject: subject(deal),
		Facts: map[string]string{
			"program":        programName,
			"state":          strings.ToUpper(deal.State),
			"total":          strconv.Itoa(sum.Total),
			"passed":         strconv.Itoa(sum.Passed),
			"critical":       strconv.Itoa(sum.CriticalFailures),
			"warnings":       strconv.Itoa(sum.Warnings),
			"critical_items": strings.Join(critical, "; "),
			"status":         status,
		},
		Sections: sections,
	}, nil
}
