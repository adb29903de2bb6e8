// Package cache holds the read-through board cache: one snapshot of the full
// board per tenant, consulted before any fetch and patched after every
// committed mutation.
package cache

import (
	"sync"

	"github.com/thenoetrevino/etapa/internal/metrics"
	"github.com/thenoetrevino/etapa/internal/models"
)

// BoardCache maps tenant ids to board snapshots. Entries never expire; every
// mutation path is expected to Patch. Snapshots are copied on the way in and
// on the way out so callers never share memory with the cache.
type BoardCache struct {
	mu      sync.RWMutex
	boards  map[string]*models.Board
	metrics *metrics.Metrics
}

// New creates an empty cache. m may be nil.
func New(m *metrics.Metrics) *BoardCache {
	return &BoardCache{
		boards:  make(map[string]*models.Board),
		metrics: m,
	}
}

// Get returns a copy of the tenant's snapshot
func (c *BoardCache) Get(tenantID string) (*models.Board, bool) {
	c.mu.RLock()
	b, ok := c.boards[tenantID]
	if ok {
		b = b.Clone()
	}
	c.mu.RUnlock()

	c.metrics.ObserveCacheLookup(ok)
	return b, ok
}

// Put replaces the tenant's entry wholesale
func (c *BoardCache) Put(tenantID string, board *models.Board) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards[tenantID] = board.Clone()
}

// Patch applies fn to the cached snapshot in place. It reports false, without
// calling fn, when the tenant has no entry.
func (c *BoardCache) Patch(tenantID string, fn func(*models.Board)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.boards[tenantID]
	if !ok {
		return false
	}
	fn(b)
	return true
}

// Discard drops the tenant's entry
func (c *BoardCache) Discard(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.boards, tenantID)
}

// Len returns the number of cached tenants
func (c *BoardCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.boards)
}
