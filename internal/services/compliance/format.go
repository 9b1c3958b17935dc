package compliance

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

func pct(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 2, 64) + "%"
}

func usd(v float64) string {
	return "$" + humanize.Commaf(math.Round(v))
}

func quote(s string) string {
	return strconv.Quote(s)
}

// hasAnyKeyword reports whether any of values contains any keyword,
// case-insensitively.
func hasAnyKeyword(values []string, keywords ...string) bool {
	for _, v := range values {
		lv := strings.ToLower(v)
		for _, k := range keywords {
			if strings.Contains(lv, k) {
				return true
			}
		}
	}
	return false
}
