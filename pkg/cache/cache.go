// Package cache provides bounded memoisation of parsed shape specifications.
// Parsing is deterministic, so a cache entry never goes stale: the bound
// exists purely to keep memory proportional to the working set of distinct
// spec strings.
package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/EPronovost/eincheck/pkg/spec"
)

// DefaultCapacity is the capacity of a cache constructed without an explicit
// size, and of the process-wide default cache.
const DefaultCapacity = 128

// Stats reports the accounting counters of a SpecCache.
type Stats struct {
	// Number of lookups served from the cache.
	Hits uint64
	// Number of lookups which had to invoke the parser.
	Misses uint64
	// Number of entries currently held.
	Size int
	// Maximum number of entries which can be held.
	MaxSize int
}

func (s Stats) String() string {
	return fmt.Sprintf("hits=%d misses=%d size=%d maxsize=%d", s.Hits, s.Misses, s.Size, s.MaxSize)
}

// SpecCache memoises spec.Parse over a bounded, least-recently-used set of
// source strings.  It is safe for concurrent use.  The zero value is not
// usable; construct instances with New.
type SpecCache struct {
	mu       sync.Mutex
	entries  *lru.Cache[string, spec.ShapeSpec]
	capacity int
	hits     uint64
	misses   uint64
}

// New constructs an empty cache with the given capacity, which must be
// positive.
func New(capacity int) *SpecCache {
	entries, err := lru.New[string, spec.ShapeSpec](capacity)
	if err != nil {
		panic(fmt.Sprintf("invalid cache capacity %d", capacity))
	}

	return &SpecCache{entries: entries, capacity: capacity}
}

// defaultCache is the process-wide instance used by Parse.
var defaultCache = New(DefaultCapacity)

// Default returns the process-wide cache instance.
func Default() *SpecCache {
	return defaultCache
}

// Parse is shorthand for Default().Parse.
func Parse(source string) (spec.ShapeSpec, error) {
	return defaultCache.Parse(source)
}

// Parse a source string into a ShapeSpec, consulting the cache first.  Only
// successful parses are cached: a malformed spec fails afresh on every call.
func (c *SpecCache) Parse(source string) (spec.ShapeSpec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	if s, ok := c.entries.Get(source); ok {
		c.hits++
		return s, nil
	}

	c.misses++

	s, err := spec.Parse(source)
	if err != nil {
		return spec.ShapeSpec{}, err
	}

	c.entries.Add(source, s)
	//
	return s, nil
}

// Stats returns a snapshot of the cache counters.
func (c *SpecCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    c.entries.Len(),
		MaxSize: c.capacity,
	}
}

// Clear evicts all entries and resets all counters.
func (c *SpecCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	c.entries.Purge()
	c.hits = 0
	c.misses = 0
}

// Resize replaces the cache with an empty one of the given capacity, which
// must be positive.  All entries and counters are reset.
func (c *SpecCache) Resize(capacity int) {
	entries, err := lru.New[string, spec.ShapeSpec](capacity)
	if err != nil {
		panic(fmt.Sprintf("invalid cache capacity %d", capacity))
	}
	//
	c.mu.Lock()
	defer c.mu.Unlock()
	//
	c.entries = entries
	c.capacity = capacity
	c.hits = 0
	c.misses = 0
}
