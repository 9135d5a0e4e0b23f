// Package models defines data structures for piewatch
package models

import "time"

// AccountCash is the coerced cash endpoint payload.
type AccountCash struct {
	Free     float64 `json:"free"`
	Total    float64 `json:"total"`
	Invested float64 `json:"invested"`
	PPL      float64 `json:"ppl"`
	Result   float64 `json:"result"`
}

// Pie is a sub-portfolio as reported by the upstream pies endpoint.
// ResultCoef is the day's result coefficient (0.01 == +1%) and is nil when absent.
type Pie struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Value      float64  `json:"value"`
	ResultCoef *float64 `json:"resultCoef,omitempty"`
}

// RawTransaction is one upstream history item with its fields left untyped,
// since field names and types drift between API versions.
type RawTransaction map[string]interface{}

// Transaction is a normalised upstream history item.
// Timestamp is zero when RawTimestamp could not be parsed.
type Transaction struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	RawTimestamp string    `json:"timestamp"`
	Timestamp    time.Time `json:"-"`
}

// HasTimestamp reports whether the upstream timestamp was parsable.
func (t Transaction) HasTimestamp() bool {
	return !t.Timestamp.IsZero()
}
