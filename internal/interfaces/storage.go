// Package interfaces defines service contracts for piewatch
package interfaces

import (
	"context"

	"github.com/bobmcallan/piewatch/internal/models"
)

// StorageManager coordinates the persisted state documents
type StorageManager interface {
	LedgerStore() LedgerStore
	SnapshotStore() SnapshotStore

	// Lifecycle
	Close() error
}

// LedgerStore persists the realised-profit ledger.
// LoadLedger returns an empty ledger when nothing has been saved yet.
type LedgerStore interface {
	LoadLedger(ctx context.Context) (*models.Ledger, error)
	SaveLedger(ctx context.Context, ledger *models.Ledger) error
}

// SnapshotStore persists the daily snapshot history.
// LoadSnapshots returns an empty history when nothing has been saved yet.
type SnapshotStore interface {
	LoadSnapshots(ctx context.Context) (*models.SnapshotHistory, error)
	SaveSnapshots(ctx context.Context, history *models.SnapshotHistory) error
}
