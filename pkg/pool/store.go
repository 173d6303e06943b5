package pool

import (
	"context"
	"sync"
)

// Store persists a whole pool.
type Store interface {
	// Name identifies the backend in logs ("file", "sqlite", ...).
	Name() string

	// Load returns the persisted pool. A pool that was never saved loads empty.
	Load(ctx context.Context) (Stock, error)

	// Save replaces the persisted pool with stock, atomically.
	Save(ctx context.Context, stock Stock) error

	// Close releases the store's resources.
	Close() error
}

// MemoryStore keeps the pool in memory.
type MemoryStore struct {
	mu    sync.Mutex
	stock Stock
	saves int
}

// NewMemoryStore creates a memory store seeded with initial (copied).
func NewMemoryStore(initial Stock) *MemoryStore {
	return &MemoryStore{stock: initial.Clone()}
}

func (m *MemoryStore) Name() string { return "memory" }

// Load returns a copy of the stored pool.
func (m *MemoryStore) Load(context.Context) (Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock.Clone(), nil
}

// Save stores a copy of stock.
func (m *MemoryStore) Save(_ context.Context, stock Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock = stock.Clone()
	m.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
