package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeGrindAPI/internal/analytics"
	"codeGrindAPI/internal/goal"
	"codeGrindAPI/internal/stats"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestResourceCachesWithinTTL(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32

	r := NewResource(func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, DefaultTTL, clock.Now)

	v, err := r.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(4 * time.Minute)
	v, err = r.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v, "within TTL the cached value is served")
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(2 * time.Minute)
	v, err = r.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v, "past TTL a fresh fetch happens")
}

func TestResourceCoalescesConcurrentFetches(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})
	var calls atomic.Int32

	r := NewResource(func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "loaded", nil
	}, DefaultTTL, clock.Now)

	const n = 10
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := r.Get(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Wait for the first goroutine to start its fetch, then let everyone
	// pile on before releasing.
	require.Eventually(t, r.Loading, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent gets share one fetch")
	for _, v := range results {
		assert.Equal(t, "loaded", v)
	}
	assert.False(t, r.Loading())
}

func TestResourceInvalidate(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32

	r := NewResource(func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, DefaultTTL, clock.Now)

	v, _ := r.Get(context.Background())
	assert.Equal(t, 1, v)

	r.Invalidate()
	_, ok := r.Peek()
	assert.False(t, ok)

	v, err := r.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestResourceErrorKeepsStaleValue(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	fetchErr := errors.New("backend down")

	r := NewResource(func(ctx context.Context) (int, error) {
		if calls.Add(1) > 1 {
			return 0, fetchErr
		}
		return 42, nil
	}, DefaultTTL, clock.Now)

	v, err := r.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	clock.Advance(DefaultTTL + time.Minute)
	_, err = r.Get(context.Background())
	assert.ErrorIs(t, err, fetchErr)

	stale, ok := r.Peek()
	assert.True(t, ok, "failed refresh does not evict the old value")
	assert.Equal(t, 42, stale)
}

func TestResourceInvalidateSupersedesInflightFetch(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})

	r := NewResource(func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	}, DefaultTTL, clock.Now)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Get(context.Background())
	}()

	require.Eventually(t, r.Loading, time.Second, time.Millisecond)
	r.Invalidate()
	close(release)
	<-done

	_, ok := r.Peek()
	assert.False(t, ok, "a fetch that predates the invalidation must not land")
}

func TestResourceGetRespectsContextWhileWaiting(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})
	defer close(release)

	r := NewResource(func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	}, DefaultTTL, clock.Now)

	go r.Get(context.Background())
	require.Eventually(t, r.Loading, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestCache(clock *fakeClock, progressFetches *atomic.Int32, statsFetches *atomic.Int32) *Cache {
	return NewCache(Fetchers{
		Stats: func(ctx context.Context) (*stats.UserStats, error) {
			if statsFetches != nil {
				statsFetches.Add(1)
			}
			return stats.Default(), nil
		},
		Goals: func(ctx context.Context) ([]goal.Goal, error) {
			return []goal.Goal{}, nil
		},
		Progress: func(ctx context.Context) (map[string]bool, error) {
			if progressFetches != nil {
				progressFetches.Add(1)
			}
			return map[string]bool{"prob-1": true}, nil
		},
		Analytics: func(ctx context.Context) (*analytics.Analytics, error) {
			return &analytics.Analytics{}, nil
		},
	}, DefaultTTL, clock.Now)
}

func TestCacheKindsAreIndependent(t *testing.T) {
	clock := newFakeClock()
	var progressFetches, statsFetches atomic.Int32
	c := newTestCache(clock, &progressFetches, &statsFetches)

	_, err := c.Progress.Get(context.Background())
	require.NoError(t, err)
	_, err = c.Stats.Get(context.Background())
	require.NoError(t, err)

	c.Stats.Invalidate()

	_, err = c.Progress.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), progressFetches.Load(), "invalidating stats must not evict progress")

	_, err = c.Stats.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), statsFetches.Load())
}

func TestToggleProblemOptimisticConfirm(t *testing.T) {
	clock := newFakeClock()
	var statsFetches atomic.Int32
	c := newTestCache(clock, nil, &statsFetches)

	ctx := context.Background()
	_, err := c.Stats.Get(ctx)
	require.NoError(t, err)

	err = c.ToggleProblem(ctx, "prob-2", true, func(ctx context.Context, id string, solved bool) error {
		// While the request is on the wire the view already shows the flip.
		view, _ := c.ProgressView(ctx)
		assert.True(t, view["prob-2"])
		return nil
	})
	require.NoError(t, err)

	view, err := c.ProgressView(ctx)
	require.NoError(t, err)
	assert.True(t, view["prob-2"], "confirmed toggle persists in the base map")
	assert.True(t, view["prob-1"])

	_, ok := c.Stats.Peek()
	assert.False(t, ok, "stats are invalidated after a confirmed toggle")
	_, ok = c.Analytics.Peek()
	assert.False(t, ok)
}

func TestToggleProblemRollsBackOnError(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, nil, nil)

	ctx := context.Background()
	sendErr := errors.New("toggle rejected")

	err := c.ToggleProblem(ctx, "prob-2", true, func(ctx context.Context, id string, solved bool) error {
		return sendErr
	})
	assert.ErrorIs(t, err, sendErr)

	view, err := c.ProgressView(ctx)
	require.NoError(t, err)
	_, present := view["prob-2"]
	assert.False(t, present, "failed toggle leaves no trace in the view")
	assert.True(t, view["prob-1"])
}

func TestInvalidateAll(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, nil, nil)

	ctx := context.Background()
	c.Stats.Get(ctx)
	c.Goals.Get(ctx)
	c.Progress.Get(ctx)
	c.Analytics.Get(ctx)

	c.InvalidateAll()

	_, ok := c.Stats.Peek()
	assert.False(t, ok)
	_, ok = c.Goals.Peek()
	assert.False(t, ok)
	_, ok = c.Progress.Peek()
	assert.False(t, ok)
	_, ok = c.Analytics.Peek()
	assert.False(t, ok)
}
