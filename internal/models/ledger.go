package models

// LedgerEntry is one realised cash-out event. Amount is never negative.
type LedgerEntry struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

// Ledger is the persisted realised-profit document.
// RealisedTotal is cumulative and is not reduced when Entries is trimmed.
type Ledger struct {
	RealisedTotal float64       `json:"realisedTotal"`
	Entries       []LedgerEntry `json:"entries"`
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Entries: []LedgerEntry{}}
}
