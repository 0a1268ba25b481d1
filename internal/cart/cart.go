package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/catalog"
)

// Line is one (product, quantity) pair in a cart. Quantity is always >= 1;
// a line that would drop to zero is removed instead.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart holds the shopping cart for a single browsing session. Lines keep
// insertion order, which is the display order. Every mutation writes through
// to the session's storage synchronously, so all consumers observe the same
// state. Invalid inputs (unknown product ids, non-positive quantities,
// out-of-stock products on add) are defensive no-ops, never errors.
type Cart struct {
	sessionID string
	lines     []Line
	storage   Storage
}

// Open loads the cart for a session, creating an empty one on first visit.
func Open(ctx context.Context, sessionID string, storage Storage) (*Cart, error) {
	lines, err := storage.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart %q: %w", sessionID, err)
	}
	return &Cart{
		sessionID: sessionID,
		lines:     lines,
		storage:   storage,
	}, nil
}

// SessionID returns the owning session id.
func (c *Cart) SessionID() string {
	return c.sessionID
}

func (c *Cart) find(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges quantity into an existing line for the product, or appends
// a new line at the end. Out-of-stock products and non-positive quantities
// are no-ops.
func (c *Cart) AddItem(ctx context.Context, product catalog.Product, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if !product.InStock {
		return nil
	}

	if i := c.find(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		c.lines[i].Product = product
	} else {
		c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
	}

	return c.persist(ctx)
}

// UpdateQuantity sets a line's quantity exactly. A quantity <= 0 removes the
// line; an unknown product id is a no-op.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	i := c.find(productID)
	if i < 0 {
		return nil
	}

	if quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	} else {
		c.lines[i].Quantity = quantity
	}

	return c.persist(ctx)
}

// RemoveItem deletes the line for the product, if present.
func (c *Cart) RemoveItem(ctx context.Context, productID string) error {
	i := c.find(productID)
	if i < 0 {
		return nil
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return c.persist(ctx)
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear(ctx context.Context) error {
	c.lines = nil
	if err := c.storage.Delete(ctx, c.sessionID); err != nil {
		return fmt.Errorf("clear cart %q: %w", c.sessionID, err)
	}
	return nil
}

// Lines returns the cart lines in display order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalPrice sums unit price times quantity over all lines, using the price
// on the product reference held by each line.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// TotalItemCount sums quantities across lines (not the line count).
func (c *Cart) TotalItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) persist(ctx context.Context) error {
	if err := c.storage.Save(ctx, c.sessionID, c.lines); err != nil {
		return fmt.Errorf("persist cart %q: %w", c.sessionID, err)
	}
	return nil
}
