package testutil

import (
	"context"
	"sync"

	"route-verifier/internal/cache"
)

// MockStore is an in-memory cache.Store that records lifecycle calls
type MockStore struct {
	mu      sync.Mutex
	Entries map[string]float64
	Gets    int
	Puts    int
	Loads   int
	Saves   int
	Closed  bool
	LoadErr error
	SaveErr error
}

func NewMockStore() *MockStore {
	return &MockStore{Entries: make(map[string]float64)}
}

func (m *MockStore) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	return m.LoadErr
}

func (m *MockStore) Get(key cache.Key) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	d, ok := m.Entries[key.String()]
	return d, ok
}

func (m *MockStore) Put(key cache.Key, distance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Puts++
	m.Entries[key.String()] = distance
}

func (m *MockStore) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	return m.SaveErr
}

func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
