// Package client is the consumer-side companion to the API: a typed HTTP
// client plus a small cache that keeps dashboard data warm between screens.
package client

import (
	"context"
	"sync"
	"time"

	"codeGrindAPI/internal/analytics"
	"codeGrindAPI/internal/goal"
	"codeGrindAPI/internal/stats"
)

// DefaultTTL is how long a fetched resource stays fresh.
const DefaultTTL = 5 * time.Minute

// Clock is injectable so tests can control freshness.
type Clock func() time.Time

type call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Resource caches one fetchable value. Concurrent Gets while a fetch is in
// flight share that single fetch instead of stacking requests. Invalidate
// bumps a generation counter so a fetch that was already running when the
// invalidation happened cannot write its stale result back.
type Resource[T any] struct {
	fetch func(context.Context) (T, error)
	ttl   time.Duration
	clock Clock

	mu        sync.Mutex
	value     T
	hasValue  bool
	fetchedAt time.Time
	gen       uint64
	inflight  *call[T]
}

func NewResource[T any](fetch func(context.Context) (T, error), ttl time.Duration, clock Clock) *Resource[T] {
	if clock == nil {
		clock = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resource[T]{fetch: fetch, ttl: ttl, clock: clock}
}

// Get returns the cached value when fresh, otherwise fetches. On fetch error
// the previously cached value is left untouched (still visible via Peek) and
// the error is returned.
func (r *Resource[T]) Get(ctx context.Context) (T, error) {
	r.mu.Lock()
	if r.hasValue && r.clock().Sub(r.fetchedAt) < r.ttl {
		v := r.value
		r.mu.Unlock()
		return v, nil
	}

	if c := r.inflight; c != nil {
		r.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}

	c := &call[T]{done: make(chan struct{})}
	r.inflight = c
	gen := r.gen
	r.mu.Unlock()

	val, err := r.fetch(ctx)

	r.mu.Lock()
	if r.inflight == c {
		r.inflight = nil
	}
	// A completed fetch only lands if nothing invalidated it while it ran.
	if err == nil && gen == r.gen {
		r.value = val
		r.hasValue = true
		r.fetchedAt = r.clock()
	}
	r.mu.Unlock()

	c.val, c.err = val, err
	close(c.done)
	return val, err
}

// Peek returns the cached value without fetching, fresh or not.
func (r *Resource[T]) Peek() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.hasValue
}

// Loading reports whether a fetch is currently in flight.
func (r *Resource[T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inflight != nil
}

// Invalidate drops the cached value and supersedes any in-flight fetch.
func (r *Resource[T]) Invalidate() {
	r.mu.Lock()
	r.gen++
	r.hasValue = false
	var zero T
	r.value = zero
	r.mu.Unlock()
}

// Update patches the cached value in place without touching freshness. No-op
// when nothing is cached.
func (r *Resource[T]) Update(fn func(T) T) {
	r.mu.Lock()
	if r.hasValue {
		r.value = fn(r.value)
	}
	r.mu.Unlock()
}

// Cache groups the four dashboard resources. Each resource is independent:
// invalidating one never disturbs the others.
type Cache struct {
	Stats     *Resource[*stats.UserStats]
	Goals     *Resource[[]goal.Goal]
	Progress  *Resource[map[string]bool]
	Analytics *Resource[*analytics.Analytics]

	mu      sync.Mutex
	pending map[string]bool
}

// Fetchers supplies the four loaders, usually bound to an APIClient.
type Fetchers struct {
	Stats     func(context.Context) (*stats.UserStats, error)
	Goals     func(context.Context) ([]goal.Goal, error)
	Progress  func(context.Context) (map[string]bool, error)
	Analytics func(context.Context) (*analytics.Analytics, error)
}

func NewCache(f Fetchers, ttl time.Duration, clock Clock) *Cache {
	return &Cache{
		Stats:     NewResource(f.Stats, ttl, clock),
		Goals:     NewResource(f.Goals, ttl, clock),
		Progress:  NewResource(f.Progress, ttl, clock),
		Analytics: NewResource(f.Analytics, ttl, clock),
		pending:   make(map[string]bool),
	}
}

// InvalidateAll drops every cached resource, e.g. after a manual refresh.
func (c *Cache) InvalidateAll() {
	c.Stats.Invalidate()
	c.Goals.Invalidate()
	c.Progress.Invalidate()
	c.Analytics.Invalidate()
}

// ProgressView merges the cached progress map with any optimistic toggles
// still awaiting server confirmation. The fetch error, if any, is returned
// alongside the best view available.
func (c *Cache) ProgressView(ctx context.Context) (map[string]bool, error) {
	base, err := c.Progress.Get(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	merged := make(map[string]bool, len(base)+len(c.pending))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range c.pending {
		merged[k] = v
	}
	return merged, err
}

// ToggleProblem applies an optimistic toggle: the view flips immediately,
// send carries it to the server, and on failure the overlay rolls back. On
// success stats and analytics are invalidated because the toggle's side
// effects (XP, streak, mastery) changed them server-side.
func (c *Cache) ToggleProblem(ctx context.Context, problemID string, solved bool, send func(context.Context, string, bool) error) error {
	c.mu.Lock()
	c.pending[problemID] = solved
	c.mu.Unlock()

	if err := send(ctx, problemID, solved); err != nil {
		c.mu.Lock()
		delete(c.pending, problemID)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	delete(c.pending, problemID)
	c.mu.Unlock()

	c.Progress.Update(func(m map[string]bool) map[string]bool {
		next := make(map[string]bool, len(m)+1)
		for k, v := range m {
			next[k] = v
		}
		next[problemID] = solved
		return next
	})

	c.Stats.Invalidate()
	c.Analytics.Invalidate()
	return nil
}
