// Package analytics holds the shared PSB analytics cache: one aggregate,
// many consumers, at most one source call in flight at a time.
package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"simas/model"
)

// Manager caches the PSB analytics aggregate with a TTL and coalesces
// concurrent fetches into a single source call. Construct it once in the
// composition root and pass it to whoever needs it; there is no package
// global.
type Manager struct {
	source Source
	ttl    time.Duration
	log    *zap.SugaredLogger

	flight singleflight.Group

	mu        sync.RWMutex
	data      *model.PSBAnalytics
	lastFetch time.Time
	state     State
	lastErr   error
	gen       uint64
	subs      map[int]func(Event)
	nextSub   int

	now func() time.Time
}

func NewManager(source Source, ttl time.Duration, log *zap.SugaredLogger) *Manager {
	if ttl <= 0 {
		// Nominally "5 menit"; the shipped constant has always been 500s.
		ttl = 500 * time.Second
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		source: source,
		ttl:    ttl,
		log:    log,
		state:  StateIdle,
		subs:   make(map[int]func(Event)),
		now:    time.Now,
	}
}

// Fetch returns the aggregate, from cache when it is fresh and force is
// unset. Concurrent callers during one outstanding request window share a
// single source call and all observe the same result. Caller cancellation
// abandons the wait; the shared flight keeps running for the other waiters.
func (m *Manager) Fetch(ctx context.Context, force bool) (*model.PSBAnalytics, error) {
	if !force {
		m.mu.RLock()
		if m.data != nil && m.now().Sub(m.lastFetch) < m.ttl {
			data, err := m.data, m.lastErr
			m.mu.RUnlock()
			return data, err
		}
		m.mu.RUnlock()
	}

	m.transition(StateLoading, nil, nil)

	ch := m.flight.DoChan("psb-analytics", func() (any, error) {
		return m.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			// refresh never returns a bare error; this is defensive.
			return model.EmptyPSBAnalytics(), res.Err
		}
		out := res.Val.(result)
		return out.data, out.err
	}
}

type result struct {
	data *model.PSBAnalytics
	err  error
}

// refresh performs the single shared source call and stores the outcome.
// Every failure path still caches a zeroed, well-formed aggregate so
// consumers never receive nil. A ClearCache during the source call wins:
// the stale outcome is returned to the waiters but never cached.
func (m *Manager) refresh(ctx context.Context) (result, error) {
	m.mu.RLock()
	startGen := m.gen
	m.mu.RUnlock()

	data, err := m.source.FetchAnalytics(ctx)
	switch {
	case err == nil && data.Empty():
		err = ErrNoData
		data = model.EmptyPSBAnalytics()
	case err != nil:
		if IsUnreachable(err) && !errors.Is(err, ErrUnreachable) {
			err = errors.Join(ErrUnreachable, err)
		}
		data = model.EmptyPSBAnalytics()
	}

	m.mu.Lock()
	if m.gen != startGen {
		m.mu.Unlock()
		return result{data: data, err: err}, nil
	}
	m.data = data
	m.lastFetch = m.now()
	m.lastErr = err
	m.mu.Unlock()

	switch {
	case err == nil:
		m.transition(StateReady, data, nil)
	case errors.Is(err, ErrNoData):
		// Valid-but-empty: no toast-worthy failure happened.
		m.transition(StateError, data, err)
	default:
		m.log.Warnw("psb analytics fetch failed", "error", err)
		m.transition(StateError, data, err)
	}

	return result{data: data, err: err}, nil
}

// Subscribe registers a callback for state transitions and returns its
// unsubscribe function. Fan-out is synchronous, in no particular order.
func (m *Manager) Subscribe(cb func(Event)) func() {
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

// State returns the current cache state and last error.
func (m *Manager) State() (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, m.lastErr
}

// ClearCache drops the cached aggregate; the next Fetch hits the source.
// A refresh in flight when ClearCache is called will not repopulate the
// cache with its stale result.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	m.data = nil
	m.lastFetch = time.Time{}
	m.lastErr = nil
	m.state = StateIdle
	m.gen++
	m.mu.Unlock()

	m.flight.Forget("psb-analytics")
}

func (m *Manager) transition(state State, data *model.PSBAnalytics, err error) {
	m.mu.Lock()
	m.state = state
	cbs := make([]func(Event), 0, len(m.subs))
	for _, cb := range m.subs {
		cbs = append(cbs, cb)
	}
	m.mu.Unlock()

	ev := Event{Type: EventStateChanged, State: state, Data: data, Err: err}
	for _, cb := range cbs {
		cb(ev)
	}
}
