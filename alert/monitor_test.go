package alert

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simas/config"
	"simas/database"
	"simas/loader"
	"simas/model"
)

func newMonitorDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))
	return db
}

// newMonitorSettings returns a store carrying the defaults (threshold 5).
func newMonitorSettings(t *testing.T) *config.Store {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "tidak-ada.yaml"))
	require.NoError(t, err)
	return config.NewStore(cfg, "")
}

func TestScanRaisesDeduplicatedAlerts(t *testing.T) {
	db := newMonitorDB(t)
	ctx := context.Background()

	for _, p := range []model.Product{
		{SKU: "HABIS", Name: "Splitter", Stock: 0, MinStock: 10},
		{SKU: "TIPIS", Name: "Patchcord", Stock: 2, MinStock: 10},
		{SKU: "TANPA-MIN", Name: "Konektor", Stock: 3, MinStock: 0},
		{SKU: "SEHAT", Name: "ONT", Stock: 50, MinStock: 10},
	} {
		p := p
		require.NoError(t, database.InsertProduct(ctx, db, &p))
	}

	m := NewMonitor(db, NewDeduplicator(time.Minute), newMonitorSettings(t), time.Minute, nil)
	require.NoError(t, m.Scan(ctx))

	alerts := m.Alerts()
	// HABIS -> out_of_stock, TIPIS -> low_stock,
	// TANPA-MIN -> low_stock + needs_threshold_setup.
	require.Len(t, alerts, 4)

	byType := map[model.AlertType]int{}
	for _, a := range alerts {
		byType[a.Type]++
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Message)
	}
	assert.Equal(t, 1, byType[model.AlertOutOfStock])
	assert.Equal(t, 2, byType[model.AlertLowStock])
	assert.Equal(t, 1, byType[model.AlertThresholdSetup])

	// A second scan inside the dedup window raises nothing new.
	require.NoError(t, m.Scan(ctx))
	assert.Len(t, m.Alerts(), 4)
}

func TestDismissRemovesAlertButKeepsDedup(t *testing.T) {
	db := newMonitorDB(t)
	ctx := context.Background()

	p := model.Product{SKU: "HABIS", Name: "Splitter", Stock: 0, MinStock: 10}
	require.NoError(t, database.InsertProduct(ctx, db, &p))

	m := NewMonitor(db, NewDeduplicator(time.Minute), newMonitorSettings(t), time.Minute, nil)
	require.NoError(t, m.Scan(ctx))
	alerts := m.Alerts()
	require.Len(t, alerts, 1)

	assert.True(t, m.Dismiss(alerts[0].ID))
	assert.Empty(t, m.Alerts())
	assert.False(t, m.Dismiss(alerts[0].ID))

	// The condition stays suppressed until the window expires.
	require.NoError(t, m.Scan(ctx))
	assert.Empty(t, m.Alerts())
}
