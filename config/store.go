package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrPersist marks an update that validated but could not be written to
// disk, so callers can tell a bad request from a server-side failure.
var ErrPersist = errors.New("config persist failed")

// Store guards runtime access to the mutable settings. Handlers read a copy
// per request; updates validate and persist before they become visible.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// NewStore wraps the loaded config. An empty path skips persistence (tests).
func NewStore(cfg *Config, path string) *Store {
	return &Store{cfg: *cfg, path: path}
}

// Get returns a copy of the current config.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update applies fn to a copy, validates it, writes it to disk, and only
// then commits. An invalid or unwritable update leaves the store untouched.
func (s *Store) Update(apply func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	apply(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	if s.path != "" {
		if err := Save(s.path, &next); err != nil {
			return errors.Join(ErrPersist, err)
		}
	}
	s.cfg = next
	return nil
}

// Save writes the config as YAML using the same keys Load reads. Durations
// are written in their string form so the file stays hand-editable.
func Save(path string, cfg *Config) error {
	out := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"log_level": cfg.App.LogLevel,
		},
		"server": map[string]any{
			"addr": cfg.Server.Addr,
		},
		"database": map[string]any{
			"path": cfg.Database.Path,
		},
		"auth": map[string]any{
			"token": cfg.Auth.Token,
		},
		"stock": map[string]any{
			"emergency_threshold": cfg.Stock.EmergencyThreshold,
		},
		"analytics": map[string]any{
			"cache_ttl":       cfg.Analytics.CacheTTL.String(),
			"upstream_url":    cfg.Analytics.UpstreamURL,
			"request_timeout": cfg.Analytics.RequestTimeout.String(),
		},
		"alert": map[string]any{
			"dedup_window":     cfg.Alert.DedupWindow.String(),
			"monitor_interval": cfg.Alert.MonitorInterval.String(),
		},
		"connection": map[string]any{
			"debounce": cfg.Connection.Debounce.String(),
		},
		"reorder": map[string]any{
			"period_days":        cfg.Reorder.PeriodDays,
			"lead_time_days":     cfg.Reorder.LeadTimeDays,
			"safety_coefficient": cfg.Reorder.SafetyCoefficient,
		},
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal config failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config failed: %w", err)
	}
	return nil
}
