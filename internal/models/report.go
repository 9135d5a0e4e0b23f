package models

import "time"

// Report classifications
const (
	ClassificationDaily = "Daily"
	ClassificationAlert = "ALERT"
)

// RecommendationSet is the advisor output. Recommendations is never empty.
type RecommendationSet struct {
	Recommendations []string `json:"recommendations"`
	Alerts          []string `json:"alerts"`
}

// Classification returns ALERT when any alert fired, Daily otherwise.
func (r RecommendationSet) Classification() string {
	if len(r.Alerts) > 0 {
		return ClassificationAlert
	}
	return ClassificationDaily
}

// LedgerSummary is the realised-profit view shown in a report.
type LedgerSummary struct {
	AddedToday    float64 `json:"addedToday"`
	RealisedTotal float64 `json:"realisedTotal"`
	Entries       int     `json:"entries"`
}

// Report is one digest ready for delivery.
type Report struct {
	Subject        string            `json:"subject"`
	Classification string            `json:"classification"`
	GeneratedAt    time.Time         `json:"generatedAt"`
	Markdown       string            `json:"-"`
	Failed         bool              `json:"failed,omitempty"`
	Metrics        *Metrics          `json:"metrics,omitempty"`
	Advice         RecommendationSet `json:"advice"`
	Ledger         *LedgerSummary    `json:"ledger,omitempty"`
	Weekly         *WeeklyWrap       `json:"weekly,omitempty"`
	History        []DailySnapshot   `json:"-"`
}
