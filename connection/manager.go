// Package connection tracks a single authoritative online/offline + health
// signal for the whole process, replacing per-consumer polling.
package connection

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is how long change notifications are held back so bursts
// of identical events collapse into one.
const DefaultDebounce = 100 * time.Millisecond

// State is mutated only by the manager itself. Consumers read copies.
type State struct {
	Online              bool       `json:"isOnline"`
	LastCheck           *time.Time `json:"lastCheck"`
	Err                 string     `json:"error,omitempty"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
}

type Manager struct {
	log      *zap.SugaredLogger
	debounce time.Duration

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
	timer   *time.Timer
	closed  bool
}

func NewManager(debounce time.Duration, log *zap.SugaredLogger) *Manager {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		log:      log,
		debounce: debounce,
		state:    State{Online: true},
		subs:     make(map[int]func(State)),
	}
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetOnline forces the state without running a probe (e.g. from an auth flow
// that just saw a definitive success or failure). Going online resets the
// failure counter; going offline increments it.
func (m *Manager) SetOnline(online bool, reason string) {
	m.update(online, reason)
}

// TestConnection runs the supplied probe and maps its outcome through the
// same state-update path. Returns whether the probe succeeded.
func (m *Manager) TestConnection(ctx context.Context, probe func(context.Context) error) bool {
	if err := probe(ctx); err != nil {
		m.update(false, err.Error())
		return false
	}
	m.update(true, "")
	return true
}

func (m *Manager) update(online bool, reason string) {
	now := time.Now()

	m.mu.Lock()
	prev := m.state
	m.state.Online = online
	m.state.LastCheck = &now
	if online {
		m.state.ConsecutiveFailures = 0
		m.state.Err = ""
	} else {
		m.state.ConsecutiveFailures++
		if reason == "" {
			reason = "koneksi terputus"
		}
		m.state.Err = reason
	}

	// Identical online flag and error mean nothing a consumer renders has
	// changed; skip the notification entirely.
	changed := prev.Online != m.state.Online || prev.Err != m.state.Err
	if changed && !m.closed {
		m.scheduleNotifyLocked()
	}
	m.mu.Unlock()

	if changed {
		m.log.Infow("connection state changed", "online", online, "reason", reason)
	}
}

// scheduleNotifyLocked arms (or re-arms) the debounce timer. Caller holds mu.
func (m *Manager) scheduleNotifyLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.notify)
}

func (m *Manager) notify() {
	m.mu.Lock()
	state := m.state
	cbs := make([]func(State), 0, len(m.subs))
	for _, cb := range m.subs {
		cbs = append(cbs, cb)
	}
	m.mu.Unlock()

	for _, cb := range cbs {
		cb(state)
	}
}

// Subscribe registers a callback for debounced state changes and returns its
// unsubscribe function.
func (m *Manager) Subscribe(cb func(State)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = cb
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Close stops the pending debounce timer; further changes are not notified.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
