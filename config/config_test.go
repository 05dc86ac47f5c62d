package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tidak-ada.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Stock.EmergencyThreshold)
	// Historical constant: 500s, not the 5 minutes the old comment claimed.
	assert.Equal(t, 500*time.Second, cfg.Analytics.CacheTTL)
	assert.Equal(t, 600*time.Second, cfg.Alert.DedupWindow)
	assert.Equal(t, 100*time.Millisecond, cfg.Connection.Debounce)
	assert.Equal(t, 90, cfg.Reorder.PeriodDays)
	assert.Equal(t, 1.5, cfg.Reorder.SafetyCoefficient)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simas.yaml")
	content := `
server:
  addr: ":9090"
stock:
  emergency_threshold: 8
analytics:
  cache_ttl: 2m
  upstream_url: http://psb.internal/api/analytics
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Stock.EmergencyThreshold)
	assert.Equal(t, 2*time.Minute, cfg.Analytics.CacheTTL)
	assert.Equal(t, "http://psb.internal/api/analytics", cfg.Analytics.UpstreamURL)
	// Untouched keys keep their defaults.
	assert.Equal(t, 600*time.Second, cfg.Alert.DedupWindow)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tidak-ada.yaml"))
	require.NoError(t, err)

	cfg.Analytics.CacheTTL = 0
	assert.Error(t, cfg.Validate())

	cfg, _ = Load(filepath.Join(t.TempDir(), "tidak-ada.yaml"))
	cfg.Stock.EmergencyThreshold = -1
	assert.Error(t, cfg.Validate())
}
