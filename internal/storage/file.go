// Package storage persists the ledger and snapshot documents with pluggable backends.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/interfaces"
	"github.com/bobmcallan/piewatch/internal/models"
)

const (
	ledgerFile    = "ledger.json"
	snapshotsFile = "snapshots.json"
)

// FileStore keeps each document as an indented JSON file under basePath.
type FileStore struct {
	basePath string
	versions int
	logger   *common.Logger
}

// NewFileStore creates a new FileStore and ensures the directory exists.
func NewFileStore(logger *common.Logger, path string, versions int) (*FileStore, error) {
	if versions < 0 {
		versions = 0
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Int("versions", versions).Msg("FileStore opened")
	return &FileStore{basePath: path, versions: versions, logger: logger}, nil
}

// LoadLedger reads ledger.json, returning an empty ledger when it does not exist.
func (fs *FileStore) LoadLedger(_ context.Context) (*models.Ledger, error) {
	ledger := models.NewLedger()
	found, err := fs.readJSON(ledgerFile, ledger)
	if err != nil {
		return nil, err
	}
	if !found {
		fs.logger.Debug().Msg("No ledger on disk, starting empty")
	}
	if ledger.Entries == nil {
		ledger.Entries = []models.LedgerEntry{}
	}
	return ledger, nil
}

// SaveLedger writes ledger.json atomically.
func (fs *FileStore) SaveLedger(_ context.Context, ledger *models.Ledger) error {
	return fs.writeJSON(ledgerFile, ledger)
}

// LoadSnapshots reads snapshots.json, returning an empty history when it does not exist.
func (fs *FileStore) LoadSnapshots(_ context.Context) (*models.SnapshotHistory, error) {
	history := models.NewSnapshotHistory()
	if _, err := fs.readJSON(snapshotsFile, history); err != nil {
		return nil, err
	}
	if history.Days == nil {
		history.Days = []models.DailySnapshot{}
	}
	return history, nil
}

// SaveSnapshots writes snapshots.json atomically.
func (fs *FileStore) SaveSnapshots(_ context.Context, history *models.SnapshotHistory) error {
	return fs.writeJSON(snapshotsFile, history)
}

// readJSON reads and unmarshals a JSON file. A missing or empty file is not an error.
func (fs *FileStore) readJSON(name string, dest interface{}) (bool, error) {
	path := filepath.Join(fs.basePath, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// writeJSON marshals data to indented JSON and writes it atomically,
// rotating previous versions first when versions > 0.
func (fs *FileStore) writeJSON(name string, data interface{}) error {
	target := filepath.Join(fs.basePath, name)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	// Atomic write: write to temp file in the same directory, then rename
	tmpFile, err := os.CreateTemp(fs.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if fs.versions > 0 {
		fs.rotateVersions(target)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// rotateVersions shifts existing versions up and moves current to v1.
// v{N} -> deleted, v{N-1} -> v{N}, ..., v1 -> v2, current -> v1
func (fs *FileStore) rotateVersions(target string) {
	os.Remove(fmt.Sprintf("%s.v%d", target, fs.versions))

	for i := fs.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // Ignore errors (file may not exist yet)
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error { return nil }

var (
	_ interfaces.LedgerStore   = (*FileStore)(nil)
	_ interfaces.SnapshotStore = (*FileStore)(nil)
)
