// Package ledger accumulates realised cash-out events into a deduplicated ledger
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

// DefaultMaxEntries is the retained entry window.
const DefaultMaxEntries = 500

// Classifier decides which transaction types are realisations.
// A type matches when its upper-cased form contains any marker.
type Classifier struct {
	Markers []string
}

// DefaultClassifier uses the stock marker allow-list.
func DefaultClassifier() Classifier {
	return Classifier{Markers: common.DefaultRealisationMarkers}
}

// IsRealisationType reports whether txType denotes an outflow from invested assets to cash.
func (c Classifier) IsRealisationType(txType string) bool {
	upper := strings.ToUpper(txType)
	if upper == "" {
		return false
	}
	for _, marker := range c.Markers {
		m := strings.ToUpper(strings.TrimSpace(marker))
		if m != "" && strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// Upsert appends every unseen realisation in txs to the ledger and returns the
// amount added by this call. Replaying an overlapping batch adds nothing.
// The retained entries are trimmed to maxEntries; RealisedTotal is not.
func Upsert(l *models.Ledger, txs []models.Transaction, c Classifier, maxEntries int) (*models.Ledger, float64) {
	if l == nil {
		l = models.NewLedger()
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	seen := make(map[string]struct{}, len(l.Entries))
	for _, e := range l.Entries {
		seen[e.ID] = struct{}{}
	}

	total := decimal.NewFromFloat(l.RealisedTotal)
	added := decimal.Zero
	for _, tx := range txs {
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		if !c.IsRealisationType(tx.Type) {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount).Abs()
		l.Entries = append(l.Entries, models.LedgerEntry{
			ID:        tx.ID,
			Type:      tx.Type,
			Amount:    amount.InexactFloat64(),
			Timestamp: tx.RawTimestamp,
		})
		seen[tx.ID] = struct{}{}
		added = added.Add(amount)
	}

	l.RealisedTotal = total.Add(added).InexactFloat64()
	if len(l.Entries) > maxEntries {
		l.Entries = append([]models.LedgerEntry(nil), l.Entries[len(l.Entries)-maxEntries:]...)
	}

	return l, added.InexactFloat64()
}

// Summary returns the report view of the ledger after an upsert.
func Summary(l *models.Ledger, addedToday float64) *models.LedgerSummary {
	if l == nil {
		return &models.LedgerSummary{AddedToday: addedToday}
	}
	return &models.LedgerSummary{
		AddedToday:    addedToday,
		RealisedTotal: l.RealisedTotal,
		Entries:       len(l.Entries),
	}
}
