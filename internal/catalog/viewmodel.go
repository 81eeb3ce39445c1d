// internal/catalog/viewmodel.go
package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Wait when the view-model was closed before its catalog arrived.
var ErrClosed = errors.New("catalog view closed before acquisition finished")

// ViewModel owns one catalog snapshot and one set of filter criteria, and keeps the
// filtered projection in sync with both. Acquisition starts at construction and runs once.
type ViewModel struct {
	source Source
	logger *zap.Logger
	done   chan struct{}

	mu         sync.RWMutex
	snapshot   Snapshot
	criteria   Criteria
	projection []Item
	loading    bool
	err        error
	closed     bool
}

// NewViewModel creates a view-model and starts acquiring items and categories concurrently.
func NewViewModel(ctx context.Context, source Source, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	vm := &ViewModel{
		source:     source,
		logger:     logger,
		done:       make(chan struct{}),
		criteria:   DefaultCriteria(),
		projection: []Item{},
		loading:    true,
	}
	go vm.acquire(ctx)
	return vm
}

func (vm *ViewModel) acquire(ctx context.Context) {
	defer close(vm.done)

	var (
		items      []Item
		categories []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = vm.source.FetchItems(gctx)
		return err
	})
	g.Go(func() error {
		categories = vm.source.FetchCategories(gctx)
		return nil
	})
	err := g.Wait()

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		vm.logger.Debug("discarding catalog acquired after close", zap.Bool("failed", err != nil))
		return
	}

	vm.loading = false
	if err != nil {
		vm.logger.Error("catalog acquisition failed", zap.Error(err))
		vm.err = err
		return
	}

	vm.snapshot = Snapshot{Items: items, Categories: categories}
	vm.recomputeLocked()
	vm.logger.Info("catalog acquired",
		zap.Int("items", len(items)),
		zap.Int("categories", len(categories)),
	)
}

func (vm *ViewModel) recomputeLocked() {
	vm.projection = Project(vm.snapshot.Items, vm.criteria)
}

// Wait blocks until acquisition finishes or ctx is done, and returns the acquisition error.
// A view-model closed before its result landed returns ErrClosed.
func (vm *ViewModel) Wait(ctx context.Context) error {
	select {
	case <-vm.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.closed && vm.loading {
		return ErrClosed
	}
	return vm.err
}

// Done is closed once acquisition has finished.
func (vm *ViewModel) Done() <-chan struct{} {
	return vm.done
}

// Close detaches the view-model. A pending acquisition still completes but its result is dropped.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.closed = true
}

// Loading reports whether acquisition is still pending.
func (vm *ViewModel) Loading() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loading
}

// Err returns the acquisition failure, if any.
func (vm *ViewModel) Err() error {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.err
}

// Filters returns the current criteria.
func (vm *ViewModel) Filters() Criteria {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.criteria
}

// Products returns the filtered projection.
func (vm *ViewModel) Products() []Item {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.projection)
}

// AllProducts returns the unfiltered snapshot items.
func (vm *ViewModel) AllProducts() []Item {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.snapshot.Items)
}

// Categories returns the snapshot's category labels.
func (vm *ViewModel) Categories() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.snapshot.Categories)
}

// UpdateFilters merges u into the criteria and recomputes the projection.
func (vm *ViewModel) UpdateFilters(u CriteriaUpdate) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.criteria = vm.criteria.Merge(u)
	vm.recomputeLocked()
}

// ResetFilters restores the default criteria and recomputes the projection.
func (vm *ViewModel) ResetFilters() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.criteria = DefaultCriteria()
	vm.recomputeLocked()
}

// ProductsByCategory narrows the current projection, not the raw snapshot, to category.
func (vm *ViewModel) ProductsByCategory(category string) []Item {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return FilterByCategory(vm.projection, category)
}

// ProductByID looks id up in the raw snapshot.
func (vm *ViewModel) ProductByID(id int) (Item, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, item := range vm.snapshot.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}
