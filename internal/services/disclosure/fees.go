package disclosure

import (
	"strings"

	"lending_docs/internal/models"
	"lending_docs/internal/utils"
)

var originationKeywords = []string{
	"origination",
	"underwriting",
	"processing",
	"application",
	"commitment",
	"broker",
	"discount point",
	"points",
}

var notShoppedKeywords = []string{
	"appraisal",
	"credit report",
	"flood",
	"tax service",
	"verification",
	"mers",
	"guarantee fee",
	"guaranty fee",
}

type FeeBreakdown struct {
	Origination      []models.Fee `json:"origination"`
	NotShopped       []models.Fee `json:"not_shopped"`
	ShoppedFor       []models.Fee `json:"shopped_for"`
	OriginationTotal float64      `json:"origination_total"`
	NotShoppedTotal  float64      `json:"not_shopped_total"`
	ShoppedForTotal  float64      `json:"shopped_for_total"`
	Total            float64      `json:"total"`
}

// CategorizeFees buckets fees by keyword. Origination is matched first, so a
// fee that hits both lists stays in origination.
func CategorizeFees(fees []models.Fee) FeeBreakdown {
	out := FeeBreakdown{
		Origination: []models.Fee{},
		NotShopped:  []models.Fee{},
		ShoppedFor:  []models.Fee{},
	}
	var orig, notShopped, shopped []float64

	for _, fee := range fees {
		name := strings.ToLower(fee.Name)
		switch {
		case containsAny(name, originationKeywords):
			out.Origination = append(out.Origination, fee)
			orig = append(orig, fee.Amount)
		case containsAny(name, notShoppedKeywords):
			out.NotShopped = append(out.NotShopped, fee)
			notShopped = append(notShopped, fee.Amount)
		default:
			out.ShoppedFor = append(out.ShoppedFor, fee)
			shopped = append(shopped, fee.Amount)
		}
	}

	out.OriginationTotal = utils.SumCents(orig...)
	out.NotShoppedTotal = utils.SumCents(notShopped...)
	out.ShoppedForTotal = utils.SumCents(shopped...)
	out.Total = utils.SumCents(out.OriginationTotal, out.NotShoppedTotal, out.ShoppedForTotal)
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
