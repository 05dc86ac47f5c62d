package alert

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"simas/config"
	"simas/database"
	"simas/model"
	"simas/stockstatus"
)

const maxRetainedAlerts = 200

// Monitor periodically scans the product table, classifies every product and
// raises deduplicated alerts for critical conditions.
type Monitor struct {
	db       *sqlx.DB
	dedup    *Deduplicator
	settings *config.Store
	interval time.Duration
	log      *zap.SugaredLogger
	printer  *message.Printer

	mu     sync.RWMutex
	alerts []model.Alert
}

func NewMonitor(db *sqlx.DB, dedup *Deduplicator, settings *config.Store, interval time.Duration, log *zap.SugaredLogger) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Monitor{
		db:       db,
		dedup:    dedup,
		settings: settings,
		interval: interval,
		log:      log,
		printer:  message.NewPrinter(language.Indonesian),
		alerts:   []model.Alert{},
	}
}

// Run scans immediately, then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	if err := m.Scan(ctx); err != nil {
		m.log.Warnw("alert scan failed", "error", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Scan(ctx); err != nil {
				m.log.Warnw("alert scan failed", "error", err)
			}
		}
	}
}

// Scan classifies all products once and records new alerts. The threshold
// is read per scan so a saved config change applies on the next pass.
func (m *Monitor) Scan(ctx context.Context) error {
	products, err := database.GetAllProducts(ctx, m.db, database.ProductFilters{})
	if err != nil {
		return err
	}

	threshold := m.settings.Get().Stock.EmergencyThreshold
	now := time.Now().Format("2006-01-02 15:04:05")
	for _, p := range products {
		status := stockstatus.Classify(p, threshold)

		switch status {
		case model.StatusOutOfStock:
			m.raise(model.Alert{
				Key:         string(model.AlertOutOfStock) + "|" + p.SKU,
				Type:        model.AlertOutOfStock,
				Severity:    model.SeverityCritical,
				SKU:         p.SKU,
				ProductName: p.Name,
				Message:     m.printer.Sprintf("Stok %s habis.", p.Name),
				CreatedAt:   now,
			})
		case model.StatusLowStock:
			m.raise(model.Alert{
				Key:         string(model.AlertLowStock) + "|" + p.SKU,
				Type:        model.AlertLowStock,
				Severity:    model.SeverityWarning,
				SKU:         p.SKU,
				ProductName: p.Name,
				Message:     m.printer.Sprintf("Stok %s tersisa %d, minimum %d.", p.Name, p.Stock, p.MinStock),
				CreatedAt:   now,
			})
		}

		if p.Stock > 0 && stockstatus.NeedsThresholdSetup(p, threshold) {
			m.raise(model.Alert{
				Key:         string(model.AlertThresholdSetup) + "|" + p.SKU,
				Type:        model.AlertThresholdSetup,
				Severity:    model.SeverityInfo,
				SKU:         p.SKU,
				ProductName: p.Name,
				Message:     m.printer.Sprintf("%s belum memiliki stok minimum, ambang darurat %d dipakai.", p.Name, threshold),
				CreatedAt:   now,
			})
		}
	}
	return nil
}

func (m *Monitor) raise(a model.Alert) {
	if !m.dedup.ShouldProcess(a.Key) {
		return
	}
	m.dedup.MarkProcessed(a.Key)

	a.ID = uuid.NewString()

	m.mu.Lock()
	m.alerts = append(m.alerts, a)
	if len(m.alerts) > maxRetainedAlerts {
		m.alerts = m.alerts[len(m.alerts)-maxRetainedAlerts:]
	}
	m.mu.Unlock()

	m.log.Infow("alert raised", "type", a.Type, "sku", a.SKU)
}

// Alerts returns the retained alerts, newest last.
func (m *Monitor) Alerts() []model.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Dismiss removes an alert by id. The dedup key stays recorded, so the same
// condition will not re-alert until its window expires.
func (m *Monitor) Dismiss(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.alerts {
		if a.ID == id {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return true
		}
	}
	return false
}
