// Package alert generates stock alerts and suppresses repeats of the same
// logical alert within a cooldown window.
package alert

import (
	"sync"
	"time"
)

// DefaultDedupWindow is the per-key cooldown.
const DefaultDedupWindow = 600 * time.Second

// Deduplicator tracks "already notified" keys. State is in-memory only: a
// restart clears everything, which is accepted because alerts are re-derived
// from live data on the next scan.
type Deduplicator struct {
	mu     sync.Mutex
	window time.Duration
	timers map[string]*time.Timer
	closed bool
}

func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

// ShouldProcess reports whether key is not currently recorded. Read-only:
// it does not extend any pending expiry.
func (d *Deduplicator) ShouldProcess(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, exists := d.timers[key]
	return !exists
}

// MarkProcessed records key and schedules its removal after the window,
// replacing any pending removal for the same key (refresh-on-record).
func (d *Deduplicator) MarkProcessed(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	// Stop does not cancel a callback that already fired and is waiting on
	// the mutex, so the callback must only remove its own timer: a stale
	// expiry must never drop a fresher recording of the same key.
	var t *time.Timer
	t = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
	})
	d.timers[key] = t
}

// Forget drops a key immediately so the next occurrence alerts again.
func (d *Deduplicator) Forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// Close stops all pending expiry timers.
func (d *Deduplicator) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
