package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

func newTestFileStore(t *testing.T, versions int) (*FileStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	fs, err := NewFileStore(common.NewSilentLogger(), dir, versions)
	require.NoError(t, err)
	return fs, dir
}

func TestFileStore_EmptyDocuments(t *testing.T) {
	fs, _ := newTestFileStore(t, 0)
	ctx := context.Background()

	ledger, err := fs.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ledger.RealisedTotal)
	assert.NotNil(t, ledger.Entries)

	history, err := fs.LoadSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, history.Days)
}

func TestFileStore_RoundTrip(t *testing.T) {
	fs, dir := newTestFileStore(t, 0)
	ctx := context.Background()

	ledger := &models.Ledger{
		RealisedTotal: 150.5,
		Entries:       []models.LedgerEntry{{ID: "a", Type: "PIE_WITHDRAW", Amount: 150.5, Timestamp: "2024-05-03T10:00:00Z"}},
	}
	require.NoError(t, fs.SaveLedger(ctx, ledger))

	history := &models.SnapshotHistory{Days: []models.DailySnapshot{{Date: "2024-05-03", Total: 1050, AIValue: 600, OLValue: 400}}}
	require.NoError(t, fs.SaveSnapshots(ctx, history))

	gotLedger, err := fs.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger, gotLedger)

	gotHistory, err := fs.LoadSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, history, gotHistory)

	raw, err := os.ReadFile(filepath.Join(dir, "ledger.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"realisedTotal": 150.5`)

	raw, err = os.ReadFile(filepath.Join(dir, "snapshots.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"aiValue": 600`)
}

func TestFileStore_CorruptFileIsError(t *testing.T) {
	fs, dir := newTestFileStore(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger.json"), []byte("{not json"), 0644))

	_, err := fs.LoadLedger(context.Background())
	assert.Error(t, err)
}

func TestFileStore_VersionRotation(t *testing.T) {
	fs, dir := newTestFileStore(t, 2)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, fs.SaveLedger(ctx, &models.Ledger{RealisedTotal: float64(i)}))
	}

	current, err := fs.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.0, current.RealisedTotal)

	_, err = os.Stat(filepath.Join(dir, "ledger.json.v1"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ledger.json.v2"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ledger.json.v3"))
	assert.True(t, os.IsNotExist(err))

	v1, err := os.ReadFile(filepath.Join(dir, "ledger.json.v1"))
	require.NoError(t, err)
	assert.Contains(t, string(v1), `"realisedTotal": 3`)
}
