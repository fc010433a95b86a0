// Package cart implements the shopping cart: an ordered set of lines keyed
// by product id, with quantity and total aggregation.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/shopview/internal/domain/product"
)

// Line is a single cart entry. Quantity is always positive; a line that
// would reach quantity <= 0 is removed from the cart instead. UnitPrice is
// the catalog price snapshotted when the line was created, used by the
// checkout totals path.
type Line struct {
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
}

// Cart holds at most one line per product id, in insertion order.
type Cart struct {
	lines []Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add increments the quantity for p's line, creating the line with quantity 1
// and p's current price when absent.
func (c *Cart) Add(p product.Product) {
	if l := c.find(p.ID); l != nil {
		l.Quantity++
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Quantity:  1,
		UnitPrice: p.Price,
	})
}

// SetQuantity sets the line quantity to an absolute value. A quantity <= 0
// removes the line. When no line exists for the id, the call is a no-op.
func (c *Cart) SetQuantity(productID, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if l := c.find(productID); l != nil {
		l.Quantity = quantity
	}
}

// Remove deletes the line for the given product id, reporting whether a line
// was present.
func (c *Cart) Remove(productID int) bool {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear resets the cart to empty.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the cart lines in insertion order. Callers must not mutate
// the returned slice.
func (c *Cart) Lines() []Line {
	return c.lines
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the sum of all line quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Total sums current catalog price times quantity across all lines, using
// resolve to look prices up. Lines whose product cannot be resolved are
// skipped.
func (c *Cart) Total(resolve func(id int) (product.Product, bool)) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		p, ok := resolve(l.ProductID)
		if !ok {
			continue
		}
		sum = sum.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// SnapshotTotal sums the stored unit price times quantity across all lines.
// This is the checkout totals path; it does not consult the catalog.
func (c *Cart) SnapshotTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func (c *Cart) find(productID int) *Line {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return &c.lines[i]
		}
	}
	return nil
}
