package metrics

import (
	"strings"

	"github.com/bobmcallan/piewatch/internal/models"
)

// FlowRule maps a transaction type marker to the sign it contributes to cash flow.
type FlowRule struct {
	Marker string
	Sign   float64
}

// FlowClassifier is an ordered rule table. The first rule whose marker is
// contained in the upper-cased type decides the sign.
type FlowClassifier []FlowRule

// DefaultFlowClassifier counts deposits in and withdrawals out.
var DefaultFlowClassifier = FlowClassifier{
	{Marker: "DEPOSIT", Sign: 1},
	{Marker: "WITHDRAW", Sign: -1},
}

// Sign returns +1, -1 or 0 (ignored) for a transaction type.
func (c FlowClassifier) Sign(txType string) float64 {
	upper := strings.ToUpper(txType)
	for _, rule := range c {
		if rule.Marker != "" && strings.Contains(upper, strings.ToUpper(rule.Marker)) {
			return rule.Sign
		}
	}
	return 0
}

// PieMatcher holds the keywords that select the two tracked pies by display name.
type PieMatcher struct {
	AIKeyword          string
	OuterLimitsKeyword string
}

// DefaultPieMatcher matches "AI" and "OUTER".
func DefaultPieMatcher() PieMatcher {
	return PieMatcher{AIKeyword: "AI", OuterLimitsKeyword: "OUTER"}
}

// FindPie returns the first pie whose name contains keyword, ignoring case.
func FindPie(pies []models.Pie, keyword string) (models.Pie, bool) {
	if keyword == "" {
		return models.Pie{}, false
	}
	needle := strings.ToUpper(keyword)
	for _, p := range pies {
		if strings.Contains(strings.ToUpper(p.Name), needle) {
			return p, true
		}
	}
	return models.Pie{}, false
}
