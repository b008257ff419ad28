package evexml

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// identityCache stores resolved field sets for one entity kind, keyed by
// numeric id. Merges never overwrite fields already present, so the first
// successful resolution of a fact wins for the cache's lifetime.
type identityCache struct {
	mu      sync.Mutex
	entries map[int64]fieldSet
}

func newIdentityCache() *identityCache {
	return &identityCache{entries: make(map[int64]fieldSet)}
}

// get returns a copy of the entry for id. The copy keeps callers from
// mutating shared state through the returned map.
func (c *identityCache) get(id int64) (fieldSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fs, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return fs.clone(), true
}

// field returns one field of the entry for id without copying the rest.
func (c *identityCache) field(id int64, name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fs, ok := c.entries[id]
	if !ok {
		return "", false
	}
	v, ok := fs[name]
	return v, ok
}

// merge folds fields into the entry for id, creating it when absent. Fields
// already present keep their value.
func (c *identityCache) merge(id int64, fields fieldSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		entry = make(fieldSet, len(fields))
		c.entries[id] = entry
	}
	entry.merge(fields)
}

// has reports whether an entry exists for id.
func (c *identityCache) has(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

// cacheStore owns one identity cache per entity kind. Tables are created
// lazily on first use and shared by every entity the owning Client hands
// out.
type cacheStore struct {
	mu     sync.Mutex
	tables map[Kind]*identityCache
}

func newCacheStore() *cacheStore {
	return &cacheStore{tables: make(map[Kind]*identityCache)}
}

// table returns the cache for kind, creating it on first use.
func (s *cacheStore) table(kind Kind) *identityCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[kind]
	if !ok {
		t = newIdentityCache()
		s.tables[kind] = t
	}
	return t
}

// collection tracks the one-shot load of a lookup-table kind. The loaded
// ids are kept in ascending order; the field sets themselves live in the
// kind's identity cache.
type collection struct {
	mu     sync.Mutex
	loaded bool
	ids    []int64
}

// ensure runs load at most once for the collection's lifetime. Concurrent
// callers block until the first load completes. A load failure leaves the
// collection unloaded so a later call can retry.
func (c *collection) ensure(ctx context.Context, load func(context.Context) ([]int64, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	ids, err := load(ctx)
	if err != nil {
		return err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	c.ids = ids
	c.loaded = true
	return nil
}

// snapshot returns the loaded ids in ascending order, empty until ensure
// has succeeded. The returned slice is shared and must not be modified by
// callers.
func (c *collection) snapshot() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ids
}

// findByName scans a loaded collection for a case-insensitive name match.
// Ids are scanned in ascending order, so a duplicated name always resolves
// to the lowest id.
func findByName(col *collection, cache *identityCache, name string) (int64, bool) {
	for _, id := range col.snapshot() {
		if v, ok := cache.field(id, "name"); ok && strings.EqualFold(v, name) {
			return id, true
		}
	}
	return 0, false
}

// adoptFromCollection resolves an entity against a loaded lookup-table
// collection, by id when known, else by name. An id or name matching
// nothing yields an empty field set, not an error.
func adoptFromCollection(col *collection, cache *identityCache, id int64, name string) (int64, fieldSet, error) {
	if id == 0 && name != "" {
		found, ok := findByName(col, cache, name)
		if !ok {
			return 0, nil, nil
		}
		id = found
	}
	if id == 0 {
		return 0, nil, nil
	}
	fields, _ := cache.get(id)
	return id, fields, nil
}
