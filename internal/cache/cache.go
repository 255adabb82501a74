// Package cache provides the single-slot, TTL-bounded snapshot cache that
// sits between the HTTP layer and the collection pipeline. Reads are
// lock-free and never stall behind an in-flight recollection.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/agbru/hostmon/internal/stats"
)

// CollectFunc produces one freshly-collected snapshot. The cache invokes it
// on demand when its slot is empty or expired.
type CollectFunc func(ctx context.Context) (stats.Snapshot, error)

// StatsCache holds the latest snapshot together with the instant it was
// installed. The snapshot pointer and the timestamp are separate atomics:
// writers publish the payload first and the freshness marker second, so a
// reader that observes a fresh timestamp always observes a fully-constructed
// snapshot (that one, or a later one).
//
// Under racing updates the last timestamp writer wins, independently of
// which update's payload ends up visible. The cache favors availability
// over strict recency: the visible snapshot is always some successfully
// installed one, not necessarily the most recently initiated. Concurrent
// refreshes on an expired slot are likewise allowed to run redundantly
// rather than being serialized.
type StatsCache struct {
	current    atomic.Pointer[stats.Snapshot]
	lastUpdate atomic.Int64 // UnixNano of the last Update; 0 means never
	ttl        time.Duration
	collect    CollectFunc
}

// New creates an empty cache with the given TTL. The collect function backs
// GetOrRefresh; it may be nil for caches that are only fed via Update.
func New(ttl time.Duration, collect CollectFunc) *StatsCache {
	return &StatsCache{ttl: ttl, collect: collect}
}

// TTL returns the staleness threshold the cache was built with.
func (c *StatsCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached snapshot if one is installed and younger than the
// TTL. The timestamp is checked before the payload is loaded, mirroring the
// writer's inverse publication order.
//
// The read path takes no locks and performs no allocation: snapshots are
// immutable once installed, so the returned value may share the per-core
// slice with the slot. Callers that mutate must Clone first.
func (c *StatsCache) Get() (stats.Snapshot, bool) {
	last := c.lastUpdate.Load()
	if last == 0 {
		return stats.Snapshot{}, false
	}
	if time.Since(time.Unix(0, last)) > c.ttl {
		return stats.Snapshot{}, false
	}
	p := c.current.Load()
	if p == nil {
		return stats.Snapshot{}, false
	}
	return *p, true
}

// Update unconditionally installs snap as the current snapshot and then
// publishes a fresh timestamp. The previous snapshot becomes unreachable
// once all in-flight readers drop it; reclamation is the garbage
// collector's, so no reader can ever observe freed memory.
func (c *StatsCache) Update(snap stats.Snapshot) {
	c.current.Store(&snap)
	c.lastUpdate.Store(time.Now().UnixNano())
}

// GetOrRefresh returns the cached snapshot when fresh, and otherwise runs
// one full collection, installs the result, and returns it. Many callers
// may collect concurrently on a cold or expired cache; every successful
// collection is installed and returned to its caller. A failed or canceled
// collection installs nothing, so the previous (possibly stale) snapshot
// stays visible to Get until some collection succeeds.
func (c *StatsCache) GetOrRefresh(ctx context.Context) (stats.Snapshot, error) {
	if snap, ok := c.Get(); ok {
		return snap, nil
	}
	snap, err := c.collect(ctx)
	if err != nil {
		return stats.Snapshot{}, err
	}
	c.Update(snap)
	return snap, nil
}
