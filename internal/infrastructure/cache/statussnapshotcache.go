package cache

import (
	"context"
	"sync"
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
)

type snapshotEntry struct {
	snap      *subscription.StatusSnapshot
	expiresAt time.Time
}

// StatusSnapshotCache keeps one StatusSnapshot per tenant for a fixed TTL.
// Each tenant carries a generation counter that Invalidate bumps, so a
// recompute that read the store before an invalidation is refused by Set.
type StatusSnapshotCache struct {
	mu          sync.RWMutex
	ttl         time.Duration
	clock       clock.Clock
	entries     map[uint]snapshotEntry
	generations map[uint]uint64
}

func NewStatusSnapshotCache(ttl time.Duration, clk clock.Clock) *StatusSnapshotCache {
	return &StatusSnapshotCache{
		ttl:         ttl,
		clock:       clk,
		entries:     make(map[uint]snapshotEntry),
		generations: make(map[uint]uint64),
	}
}

func (c *StatusSnapshotCache) Get(companyID uint) (*subscription.StatusSnapshot, bool) {
	c.mu.RLock()
	e, ok := c.entries[companyID]
	c.mu.RUnlock()
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.snap, true
}

func (c *StatusSnapshotCache) Generation(companyID uint) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[companyID]
}

func (c *StatusSnapshotCache) Set(companyID uint, snap *subscription.StatusSnapshot, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[companyID] != gen {
		return false
	}
	c.entries[companyID] = snapshotEntry{snap: snap, expiresAt: c.clock.Now().Add(c.ttl)}
	return true
}

func (c *StatusSnapshotCache) Invalidate(companyID uint) {
	c.mu.Lock()
	delete(c.entries, companyID)
	c.generations[companyID]++
	c.mu.Unlock()
}

// InvalidateStatus lets the cache serve as the invalidator when no
// cross-instance bus is configured.
func (c *StatusSnapshotCache) InvalidateStatus(_ context.Context, companyID uint) {
	c.Invalidate(companyID)
}

// Purge drops expired entries. Generations are kept.
func (c *StatusSnapshotCache) Purge() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func (c *StatusSnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
