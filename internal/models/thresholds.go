package models

import "time"

// Thresholds is the immutable rule configuration for one run.
type Thresholds struct {
	DriftMaxPct      float64
	MoveAlertPct     float64
	BuyDipPct        float64
	ConsiderSkimPct  float64
	CashFlowAbsLimit float64
	Lookback         time.Duration
}

// DefaultThresholds returns the stock cap values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DriftMaxPct:      60,
		MoveAlertPct:     2,
		BuyDipPct:        -3,
		ConsiderSkimPct:  5,
		CashFlowAbsLimit: 200,
		Lookback:         24 * time.Hour,
	}
}

// PieLabels are the display names of the two tracked pies.
type PieLabels struct {
	AI          string
	OuterLimits string
}

// DefaultPieLabels returns the stock labels.
func DefaultPieLabels() PieLabels {
	return PieLabels{AI: "AI", OuterLimits: "OuterLimits"}
}
