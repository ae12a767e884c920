// Package modcache holds the per-worker module cache: an insertion-ordered
// mapping from module identifier to Record.
package modcache

import (
	"fmt"
	"sync"

	"github.com/atlanticdynamic/lynxrun/internal/fancy"
)

// Cache is an ordered, concurrency-safe mapping from identifier to Record.
// Iteration follows insertion order.
type Cache struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*Record
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		records: make(map[string]*Record),
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Get returns the record stored under id.
func (c *Cache) Get(id string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	return rec, ok
}

// GetOrCreate returns the record stored under id, creating an absent one when
// none exists. The second return value reports whether the record was created.
func (c *Cache) GetOrCreate(id string) (*Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec, ok := c.records[id]; ok {
		return rec, false
	}
	rec := NewRecord(id)
	c.insert(rec)
	return rec, true
}

func (c *Cache) insert(rec *Record) {
	c.records[rec.ID()] = rec
	c.order = append(c.order, rec.ID())
}

// Records returns a snapshot of all records in insertion order.
func (c *Cache) Records() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id])
	}
	return out
}

// Range calls fn for every record of a snapshot, in insertion order, until fn
// returns false. fn may mutate the cache.
func (c *Cache) Range(fn func(*Record) bool) {
	for _, rec := range c.Records() {
		if !fn(rec) {
			return
		}
	}
}

// Invalidate resets the record stored under id so that the next import
// re-executes it. Invalidating an absent or already reset entry is a no-op.
func (c *Cache) Invalidate(id string) bool {
	c.mu.RLock()
	rec, ok := c.records[id]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	rec.reset()
	return true
}

// InvalidateUnless resets every record whose identifier is not kept by keep,
// holding the cache lock for the whole sweep. It returns the identifiers that
// were invalidated, in insertion order.
func (c *Cache) InvalidateUnless(keep func(id string) bool) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var invalidated []string
	for _, id := range c.order {
		if keep(id) {
			continue
		}
		c.records[id].reset()
		invalidated = append(invalidated, id)
	}
	return invalidated
}

// String renders the cache as a tree.
func (c *Cache) String() string {
	t := fancy.Tree()
	records := c.Records()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Module Cache (%d)", len(records))))
	for _, rec := range records {
		status := rec.Status().String()
		if rec.Compiled() != nil {
			status += ", compiled"
		}
		t.Child(fancy.ModuleText(rec.ID(), status))
	}
	return t.String()
}
