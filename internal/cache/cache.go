// Package cache persists computed pair distances between runs.
//
// Every backend loads the whole mapping once, serves lookups from memory
// and writes back only the entries added since the load.
package cache

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

// Key identifies a cached distance by raw stop ids and method tag
type Key struct {
	Origin      string
	Destination string
	Method      string
}

// String renders the key as "<origin>_<destination>_<method>"
func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%s", k.Origin, k.Destination, k.Method)
}

// Store is a distance memo with an explicit load/save lifecycle
type Store interface {
	Load(ctx context.Context) error
	Get(key Key) (float64, bool)
	Put(key Key, distance float64)
	Save(ctx context.Context) error
	Len() int
	Close() error
}

// memo is the in-memory half shared by all backends
type memo struct {
	mu      sync.RWMutex
	entries map[string]float64
	dirty   map[string]struct{}
}

func newMemo() memo {
	return memo{
		entries: make(map[string]float64),
		dirty:   make(map[string]struct{}),
	}
}

func (m *memo) Get(key Key) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.entries[key.String()]
	return d, ok
}

func (m *memo) Put(key Key, distance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key.String()
	if old, ok := m.entries[k]; ok && old == distance {
		return
	}
	m.entries[k] = distance
	m.dirty[k] = struct{}{}
}

func (m *memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// replace swaps in freshly loaded entries, keeping unsaved puts
func (m *memo) replace(loaded map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.dirty {
		loaded[k] = m.entries[k]
	}
	m.entries = loaded
}

// pending returns a copy of the unsaved entries, sorted by key
func (m *memo) pending() ([]string, []float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.dirty))
	for k := range m.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = m.entries[k]
	}
	return keys, values
}

func (m *memo) snapshot() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

func (m *memo) markClean(keys []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.dirty, k)
	}
}

// Open picks a backend from the location:
// redis:// and rediss:// use Redis, postgres:// and postgresql:// use
// Postgres, *.db/*.sqlite/*.sqlite3 use SQLite, and anything else is a
// flat JSON file.
func Open(ctx context.Context, location string) (Store, error) {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "redis://"), strings.HasPrefix(lower, "rediss://"):
		log.Printf("[CACHE] Using Redis distance cache")
		return NewRedisStore(location)
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		log.Printf("[CACHE] Using Postgres distance cache")
		return OpenPostgres(ctx, location)
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		log.Printf("[CACHE] Using SQLite distance cache: %s", location)
		return OpenSQLite(ctx, location)
	default:
		log.Printf("[CACHE] Using distance cache file: %s", location)
		return NewFileStore(location), nil
	}
}
