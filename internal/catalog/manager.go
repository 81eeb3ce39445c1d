// internal/catalog/manager.go
package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager holds the live view-model and replaces it wholesale on reload.
type Manager struct {
	source Source
	logger *zap.Logger

	mu         sync.RWMutex
	current    *ViewModel
	generation uint64
}

// NewManager starts the first acquisition. The view-model outlives ctx's cancellation.
func NewManager(ctx context.Context, source Source, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{source: source, logger: logger, generation: 1}
	m.current = NewViewModel(context.WithoutCancel(ctx), source, logger.With(zap.Uint64("generation", 1)))
	return m
}

// Current returns the live view-model.
func (m *Manager) Current() *ViewModel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Source returns the catalog source backing every generation.
func (m *Manager) Source() Source {
	return m.source
}

// Reload closes the live view-model and starts a fresh acquisition with default filters.
func (m *Manager) Reload(ctx context.Context) *ViewModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current.Close()
	m.generation++
	m.logger.Info("reloading catalog", zap.Uint64("generation", m.generation))
	m.current = NewViewModel(context.WithoutCancel(ctx), m.source, m.logger.With(zap.Uint64("generation", m.generation)))
	return m.current
}

// Close detaches the live view-model.
func (m *Manager) Close() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.current.Close()
}
