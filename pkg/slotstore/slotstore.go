// Package slotstore provides durable named slots: one opaque value per key,
// replaced wholesale on every write.
package slotstore

import (
	"context"
	"errors"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrEmptyKey     = errors.New("slot key is empty")
)

// Store reads and writes named slots.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
