// internal/cart/implementation.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"storefront/pkg/slotstore"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Cart is the persisted set of line items. It is the only writer of its slot.
type Cart struct {
	slot      slotstore.Store
	key       string
	logger    *zap.Logger
	mutations metric.Int64Counter

	mu    sync.RWMutex
	lines []LineItem
}

var _ Service = (*Cart)(nil)

// Open hydrates a cart from slot. A missing or undecodable slot yields an empty cart;
// the bad content is overwritten on the next mutation. Other read failures are returned
// so an unreachable store is never mistaken for an empty one.
func Open(ctx context.Context, slot slotstore.Store, key string, logger *zap.Logger) (*Cart, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = DefaultStorageKey
	}

	mutations, err := otel.Meter("storefront/cart").Int64Counter(
		"cart.mutations",
		metric.WithDescription("Cart mutations applied"),
	)
	if err != nil {
		logger.Warn("failed to create mutation counter", zap.Error(err))
	}

	c := &Cart{
		slot:      slot,
		key:       key,
		logger:    logger.With(zap.String("slot", key)),
		mutations: mutations,
		lines:     []LineItem{},
	}

	data, err := slot.Get(ctx, key)
	switch {
	case errors.Is(err, slotstore.ErrSlotNotFound):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []LineItem
	if err := json.Unmarshal(data, &lines); err != nil {
		c.logger.Error("failed to load cart from storage", zap.Error(err))
		return c, nil
	}
	if lines != nil {
		c.lines = lines
	}
	return c, nil
}

// AddItem merges line into an existing (id, size) line by adding quantities, or appends it.
// On merge only the quantity changes; the incoming display fields are discarded.
func (c *Cart) AddItem(ctx context.Context, line LineItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(line.ID, line.Size); i >= 0 {
		c.lines[i].Quantity += line.Quantity
	} else {
		c.lines = append(c.lines, line)
	}
	return c.persistLocked(ctx, "add")
}

// RemoveItem deletes the (id, size) line if present.
func (c *Cart) RemoveItem(ctx context.Context, id int, size string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(id, size)
	return c.persistLocked(ctx, "remove")
}

// UpdateQuantity overwrites the (id, size) line's quantity. A quantity of zero or less
// removes the line; an unknown line is left alone.
func (c *Cart) UpdateQuantity(ctx context.Context, id int, size string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(id, size)
		return c.persistLocked(ctx, "remove")
	}

	if i := c.indexLocked(id, size); i >= 0 {
		c.lines[i].Quantity = quantity
	}
	return c.persistLocked(ctx, "update_quantity")
}

// ClearCart empties the cart.
func (c *Cart) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = []LineItem{}
	return c.persistLocked(ctx, "clear")
}

// Lines returns the line items in insertion order.
func (c *Cart) Lines() []LineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.lines)
}

// TotalItems sums the quantities of every line.
func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums price times quantity. No rounding or tax is applied.
func (c *Cart) TotalPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total float64
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ItemCount returns the quantity of the (id, size) line, or 0.
func (c *Cart) ItemCount(id int, size string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id, size); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) indexLocked(id int, size string) int {
	return slices.IndexFunc(c.lines, func(l LineItem) bool {
		return l.ID == id && l.Size == size
	})
}

func (c *Cart) removeLocked(id int, size string) {
	c.lines = slices.DeleteFunc(c.lines, func(l LineItem) bool {
		return l.ID == id && l.Size == size
	})
}

// persistLocked writes the full line sequence. The in-memory state stands even if the
// write fails; the error is logged and returned.
func (c *Cart) persistLocked(ctx context.Context, op string) error {
	if c.mutations != nil {
		c.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.op", op)))
	}

	data, err := json.Marshal(c.lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := c.slot.Put(ctx, c.key, data); err != nil {
		c.logger.Error("failed to save cart to storage", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
