// Package backend defines the persistence boundary of the document store:
// a small key/value contract that loads and overwrites whole snapshots.
package backend

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Fixed keys of the three persisted documents.
const (
	KeyPages      = "pages"
	KeyTrash      = "trash"
	KeyActivePage = "active_page"
)

// Keys lists every persisted key.
var Keys = []string{KeyPages, KeyTrash, KeyActivePage}

// ErrNotFound is returned by Load for a key that was never saved.
var ErrNotFound = errors.New("key not found")

// Backend is the interface every snapshot store must implement.
// Save overwrites all given keys; stores that can do so apply them atomically.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, values map[string][]byte) error
	Close() error
}

// Pinger is implemented by backends that can report whether their storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Namer is implemented by backends that describe themselves for health output.
type Namer interface {
	Name() string
}

// Name returns the backend's self-reported name, or "custom".
func Name(b Backend) string {
	if n, ok := b.(Namer); ok {
		return n.Name()
	}
	return "custom"
}

// Ping checks a backend when it supports it.
func Ping(ctx context.Context, b Backend) error {
	if p, ok := b.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Memory is an in-process Backend. Values are copied on the way in and out.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	saves  int
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Save(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = append([]byte(nil), v...)
	}
	m.saves++
	return nil
}

func (m *Memory) Close() error { return nil }

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// StoredKeys returns the saved keys in sorted order.
func (m *Memory) StoredKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
