package analytics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simas/model"
)

type fakeSource struct {
	calls int32
	data  *model.PSBAnalytics
	err   error
	block chan struct{}
}

func (f *fakeSource) FetchAnalytics(ctx context.Context) (*model.PSBAnalytics, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block != nil {
		<-f.block
	}
	return f.data, f.err
}

func someAnalytics() *model.PSBAnalytics {
	a := model.EmptyPSBAnalytics()
	a.Summary = model.PSBSummary{TotalOrders: 40, CompletedOrders: 30, PendingOrders: 6, InProgressOrders: 4, CompletionRate: 75}
	return a
}

func TestFetchCoalescesConcurrentCallers(t *testing.T) {
	src := &fakeSource{data: someAnalytics(), block: make(chan struct{})}
	m := NewManager(src, time.Minute, nil)

	const callers = 5
	results := make([]*model.PSBAnalytics, callers)
	errs := make([]error, callers)

	var started, done sync.WaitGroup
	for i := 0; i < callers; i++ {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			started.Done()
			results[i], errs[i] = m.Fetch(context.Background(), false)
			done.Done()
		}(i)
	}

	started.Wait()
	time.Sleep(50 * time.Millisecond) // let every caller join the flight
	close(src.block)
	done.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
}

func TestFetchUsesCacheWithinTTL(t *testing.T) {
	src := &fakeSource{data: someAnalytics()}
	m := NewManager(src, 500*time.Second, nil)

	current := time.Now()
	m.now = func() time.Time { return current }

	_, err := m.Fetch(context.Background(), false)
	require.NoError(t, err)
	_, err = m.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls), "second fetch within TTL must not hit the source")

	current = current.Add(500*time.Second + time.Second)
	_, err = m.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls), "fetch after TTL must hit the source")
}

func TestFetchForceBypassesCache(t *testing.T) {
	src := &fakeSource{data: someAnalytics()}
	m := NewManager(src, time.Hour, nil)

	_, err := m.Fetch(context.Background(), false)
	require.NoError(t, err)
	_, err = m.Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestFetchEmptyAggregateYieldsNoDataSentinel(t *testing.T) {
	src := &fakeSource{data: model.EmptyPSBAnalytics()}
	m := NewManager(src, time.Minute, nil)

	data, err := m.Fetch(context.Background(), false)
	require.ErrorIs(t, err, ErrNoData)
	require.NotNil(t, data)
	assert.Equal(t, 0, data.Summary.TotalOrders)
	assert.NotNil(t, data.ClusterStats)

	state, lastErr := m.State()
	assert.Equal(t, StateError, state)
	assert.ErrorIs(t, lastErr, ErrNoData)
}

func TestFetchFailureCachesZeroedFallback(t *testing.T) {
	src := &fakeSource{err: errors.New("dial tcp: network is unreachable")}
	m := NewManager(src, time.Minute, nil)

	data, err := m.Fetch(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	require.NotNil(t, data, "failure must still produce a well-formed aggregate")
	assert.NotNil(t, data.ClusterStats)
	assert.NotNil(t, data.StoStats)
	assert.NotNil(t, data.MonthlyTrends)

	// The error is sticky: a fresh fetch within the TTL serves the fallback.
	_, err = m.Fetch(context.Background(), false)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestSubscribeReceivesStateTransitions(t *testing.T) {
	src := &fakeSource{data: someAnalytics()}
	m := NewManager(src, time.Minute, nil)

	var mu sync.Mutex
	var states []State
	unsubscribe := m.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, EventStateChanged, ev.Type)
		states = append(states, ev.State)
	})

	_, err := m.Fetch(context.Background(), false)
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []State{StateLoading, StateReady}, states)
	mu.Unlock()

	unsubscribe()
	m.ClearCache()
	_, err = m.Fetch(context.Background(), false)
	require.NoError(t, err)

	mu.Lock()
	assert.Len(t, states, 2, "unsubscribed callback must not fire again")
	mu.Unlock()
}

func TestClearCacheWhileRefreshInFlight(t *testing.T) {
	src := &fakeSource{data: someAnalytics(), block: make(chan struct{})}
	m := NewManager(src, time.Hour, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		data, err := m.Fetch(context.Background(), false)
		assert.NoError(t, err)
		assert.NotNil(t, data, "in-flight waiters still get the result")
	}()

	// Wait until the refresh is inside the source call, then clear.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&src.calls) == 1
	}, time.Second, 5*time.Millisecond)
	m.ClearCache()
	close(src.block)
	<-done

	state, lastErr := m.State()
	assert.Equal(t, StateIdle, state, "completed stale refresh must not resurrect the cache")
	assert.NoError(t, lastErr)

	// Nothing was cached, so the next fetch hits the source again.
	_, err := m.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestClearCacheForcesRefetch(t *testing.T) {
	src := &fakeSource{data: someAnalytics()}
	m := NewManager(src, time.Hour, nil)

	_, err := m.Fetch(context.Background(), false)
	require.NoError(t, err)
	m.ClearCache()

	state, lastErr := m.State()
	assert.Equal(t, StateIdle, state)
	assert.NoError(t, lastErr)

	_, err = m.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}
