package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/cartsync/internal/port"
)

type memorySnapshotRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySnapshot() port.SnapshotStore {
	return &memorySnapshotRepository{
		values: make(map[string][]byte),
	}
}

func (r *memorySnapshotRepository) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return nil, port.ErrNotFound
	}

	return slices.Clone(value), nil
}

func (r *memorySnapshotRepository) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = slices.Clone(value)

	return nil
}
