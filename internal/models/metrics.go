package models

import "time"

// AccountSnapshot is the account-level view used by the report.
type AccountSnapshot struct {
	Total    float64 `json:"total"`
	FreeCash float64 `json:"freeCash"`
}

// PieMetric describes one tracked pie. DailyMovePct is nil when the upstream
// coefficient is absent, which is distinct from a flat day.
type PieMetric struct {
	Found         bool     `json:"found"`
	Name          string   `json:"name,omitempty"`
	Value         float64  `json:"value"`
	AllocationPct float64  `json:"allocationPct"`
	DailyMovePct  *float64 `json:"dailyMovePct"`
}

// Metrics is everything derived from one set of upstream payloads.
type Metrics struct {
	AsOf          time.Time       `json:"asOf"`
	Account       AccountSnapshot `json:"account"`
	InvestedValue float64         `json:"investedValue"`
	AI            PieMetric       `json:"ai"`
	OuterLimits   PieMetric       `json:"outerLimits"`
	CashFlow      float64         `json:"cashFlow"`
	LookbackHours float64         `json:"lookbackHours"`
	Transactions  []Transaction   `json:"-"`
}
