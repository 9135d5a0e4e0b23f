// Package badger provides a BadgerHold-backed store for the ledger and snapshot documents.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

// Document keys.
const (
	LedgerKey    = "ledger"
	SnapshotsKey = "snapshots"
)

// DocEntry holds one JSON document under a fixed key.
type DocEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

// Store wraps a BadgerHold database connection.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadLedger returns the stored ledger, or an empty one.
func (s *Store) LoadLedger(_ context.Context) (*models.Ledger, error) {
	ledger := models.NewLedger()
	if err := s.get(LedgerKey, ledger); err != nil {
		return nil, err
	}
	if ledger.Entries == nil {
		ledger.Entries = []models.LedgerEntry{}
	}
	return ledger, nil
}

// SaveLedger replaces the stored ledger.
func (s *Store) SaveLedger(_ context.Context, ledger *models.Ledger) error {
	return s.put(LedgerKey, ledger)
}

// LoadSnapshots returns the stored snapshot history, or an empty one.
func (s *Store) LoadSnapshots(_ context.Context) (*models.SnapshotHistory, error) {
	history := models.NewSnapshotHistory()
	if err := s.get(SnapshotsKey, history); err != nil {
		return nil, err
	}
	if history.Days == nil {
		history.Days = []models.DailySnapshot{}
	}
	return history, nil
}

// SaveSnapshots replaces the stored snapshot history.
func (s *Store) SaveSnapshots(_ context.Context, history *models.SnapshotHistory) error {
	return s.put(SnapshotsKey, history)
}

func (s *Store) get(key string, dest interface{}) error {
	var entry DocEntry
	if err := s.db.Get(key, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), dest); err != nil {
		return fmt.Errorf("failed to parse '%s': %w", key, err)
	}
	return nil
}

func (s *Store) put(key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal '%s': %w", key, err)
	}
	entry := DocEntry{Key: key, Value: string(data)}
	if err := s.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}
