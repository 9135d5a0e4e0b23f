package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/interfaces"
	"github.com/bobmcallan/piewatch/internal/storage/badger"
)

// Backend type constants.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// documentStore is satisfied by every backend.
type documentStore interface {
	interfaces.LedgerStore
	interfaces.SnapshotStore
	Close() error
}

// Manager implements interfaces.StorageManager over a single backend.
type Manager struct {
	store  documentStore
	logger *common.Logger
}

// NewStorageManager opens the backend named in config.Storage.
// Supported backends: "file" (default), "badger".
func NewStorageManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	backend := strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if backend == "" {
		backend = BackendFile
	}

	var (
		store documentStore
		err   error
	)
	switch backend {
	case BackendFile:
		store, err = NewFileStore(logger, config.Storage.Path, config.Storage.Versions)
	case BackendBadger:
		store, err = badger.NewStore(logger, filepath.Join(config.Storage.Path, "badger"))
	default:
		return nil, fmt.Errorf("%w: unknown storage backend: %s (supported: file, badger)", common.ErrConfig, backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().Str("backend", backend).Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{store: store, logger: logger}, nil
}

func (m *Manager) LedgerStore() interfaces.LedgerStore {
	return m.store
}

func (m *Manager) SnapshotStore() interfaces.SnapshotStore {
	return m.store
}

// Close closes the backend.
func (m *Manager) Close() error {
	return m.store.Close()
}

var _ interfaces.StorageManager = (*Manager)(nil)
