// Package advisor maps derived metrics to advisory suggestions and alerts
package advisor

import (
	"fmt"
	"math"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

// BufferAdvice is appended to every recommendation list.
const BufferAdvice = "Keep a cash buffer in free funds before adding to either pie."

// Config is the fixed rule configuration for a run.
type Config struct {
	Thresholds     models.Thresholds
	Labels         models.PieLabels
	CurrencySymbol string
}

// DefaultConfig returns the stock thresholds and labels with a pound symbol.
func DefaultConfig() Config {
	return Config{
		Thresholds:     models.DefaultThresholds(),
		Labels:         models.DefaultPieLabels(),
		CurrencySymbol: "£",
	}
}

// Input is the subset of metrics the rules read.
type Input struct {
	AIPct         float64
	OLPct         float64
	AIMove        *float64
	OLMove        *float64
	Flow          float64
	LookbackHours float64
}

// InputFromMetrics extracts the rule input from derived metrics.
func InputFromMetrics(m *models.Metrics) Input {
	if m == nil {
		return Input{}
	}
	return Input{
		AIPct:         m.AI.AllocationPct,
		OLPct:         m.OuterLimits.AllocationPct,
		AIMove:        m.AI.DailyMovePct,
		OLMove:        m.OuterLimits.DailyMovePct,
		Flow:          m.CashFlow,
		LookbackHours: m.LookbackHours,
	}
}

type pieInput struct {
	label string
	other string
	pct   float64
	move  *float64
}

// pies returns the tracked pies in rule evaluation order.
func (in Input) pies(labels models.PieLabels) []pieInput {
	return []pieInput{
		{label: labels.AI, other: labels.OuterLimits, pct: in.AIPct, move: in.AIMove},
		{label: labels.OuterLimits, other: labels.AI, pct: in.OLPct, move: in.OLMove},
	}
}

// Evaluate runs the recommendation rules then the alert pass.
// Wording and order are stable so that reports are reproducible.
func Evaluate(in Input, cfg Config) models.RecommendationSet {
	return models.RecommendationSet{
		Recommendations: Recommendations(in, cfg),
		Alerts:          Alerts(in, cfg),
	}
}

// Recommendations returns the ordered advisory list. It is never empty.
func Recommendations(in Input, cfg Config) []string {
	th := cfg.Thresholds
	pies := in.pies(cfg.Labels)
	var recs []string

	if breach, ok := allocationBreach(pies, th.DriftMaxPct); ok {
		recs = append(recs, fmt.Sprintf("Rebalance: %s is %s of invested (cap %s). Direct new contributions to %s.",
			breach.label, common.FormatPct(breach.pct), common.FormatPct(th.DriftMaxPct), breach.other))
	} else {
		recs = append(recs, fmt.Sprintf("Allocation healthy: %s %s / %s %s (cap %s).",
			pies[0].label, common.FormatPct(pies[0].pct), pies[1].label, common.FormatPct(pies[1].pct), common.FormatPct(th.DriftMaxPct)))
	}

	for _, p := range pies {
		if p.move != nil && *p.move <= th.BuyDipPct {
			recs = append(recs, fmt.Sprintf("Top-up candidate: %s moved %s today (dip threshold %s).",
				p.label, common.FormatMove(p.move), signedPct(th.BuyDipPct)))
		}
	}

	for _, p := range pies {
		if p.move != nil && *p.move >= th.ConsiderSkimPct {
			recs = append(recs, fmt.Sprintf("Optional skim: %s moved %s today (skim threshold %s). Consider taking some profit.",
				p.label, common.FormatMove(p.move), signedPct(th.ConsiderSkimPct)))
		}
	}

	if math.Abs(in.Flow) > th.CashFlowAbsLimit {
		recs = append(recs, fmt.Sprintf("Review cash flow: net %s in the last %s (limit %s).",
			common.FormatSignedMoney(cfg.CurrencySymbol, in.Flow), window(in, th), common.FormatMoney(cfg.CurrencySymbol, th.CashFlowAbsLimit)))
	}

	return append(recs, BufferAdvice)
}

// Alerts returns zero or more alert lines. Each condition is independent.
func Alerts(in Input, cfg Config) []string {
	th := cfg.Thresholds
	pies := in.pies(cfg.Labels)
	alerts := []string{}

	if breach, ok := allocationBreach(pies, th.DriftMaxPct); ok {
		alerts = append(alerts, fmt.Sprintf("Allocation drift: %s at %s exceeds the %s cap.",
			breach.label, common.FormatPct(breach.pct), common.FormatPct(th.DriftMaxPct)))
	}

	if math.Abs(in.Flow) > th.CashFlowAbsLimit {
		alerts = append(alerts, fmt.Sprintf("Large cash flow: net %s in the last %s.",
			common.FormatSignedMoney(cfg.CurrencySymbol, in.Flow), window(in, th)))
	}

	for _, p := range pies {
		if p.move != nil && math.Abs(*p.move) >= th.MoveAlertPct {
			alerts = append(alerts, fmt.Sprintf("Big move: %s %s today.", p.label, common.FormatMove(p.move)))
		}
	}

	return alerts
}

// allocationBreach returns the first pie over the cap. Only one can win.
func allocationBreach(pies []pieInput, capPct float64) (pieInput, bool) {
	for _, p := range pies {
		if p.pct > capPct {
			return p, true
		}
	}
	return pieInput{}, false
}

func signedPct(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

func window(in Input, th models.Thresholds) string {
	hours := in.LookbackHours
	if hours <= 0 {
		hours = th.Lookback.Hours()
	}
	return fmt.Sprintf("%gh", hours)
}
