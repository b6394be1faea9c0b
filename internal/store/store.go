// Package store persists best-time records.
package store

import (
	"errors"
	"sync"
)

// BestTimeKey is the record name the game reads and writes.
const BestTimeKey = "bestTime"

// ErrCorrupt is returned when a backing file cannot be decoded.
var ErrCorrupt = errors.New("corrupt record store")

// Store reads and writes named numeric records.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (value float64, ok bool, err error)
	// Set stores value under key.
	Set(key string, value float64) error
}

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records map[string]float64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]float64)}
}

// Get implements Store.
func (m *Memory) Get(key string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.records[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
	return nil
}

// namespaced prefixes every key with a fixed namespace.
type namespaced struct {
	inner Store
	ns    string
}

// WithNamespace returns a Store whose keys live under ns in s.
// An empty namespace returns s unchanged.
func WithNamespace(s Store, ns string) Store {
	if ns == "" {
		return s
	}
	return &namespaced{inner: s, ns: ns}
}

func (n *namespaced) key(k string) string {
	return n.ns + "." + k
}

func (n *namespaced) Get(key string) (float64, bool, error) {
	return n.inner.Get(n.key(key))
}

func (n *namespaced) Set(key string, value float64) error {
	return n.inner.Set(n.key(key), value)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*namespaced)(nil)
)
