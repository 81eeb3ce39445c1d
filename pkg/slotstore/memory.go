package slotstore

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps slots in process memory.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
	puts  int
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return slices.Clone(value), nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = slices.Clone(value)
	m.puts++
	return nil
}

// Puts returns how many writes the store has accepted.
func (m *Memory) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}
