// Package cart holds the session-scoped shopping cart: a value object of
// line items keyed by product, serialized into the session row between
// requests. It never talks to the catalog itself; handlers resolve products
// and pass them in.
package cart

import (
	"encoding/json"

	"github.com/ozhegovsv/storefront/internal/models"
)

// Line is one cart entry. UnitPrice is captured when the product is first
// added and survives later catalog price changes, so the checkout snapshot
// matches what the buyer saw.
type Line struct {
	ProductID uint    `json:"product_id"`
	Quantity  uint    `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (l Line) TotalPrice() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// Cart keeps lines in insertion order. At most one line exists per product.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Decode restores a cart from its serialized session form. Empty or nil
// data yields an empty cart.
func Decode(data []byte) (*Cart, error) {
	c := New()
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.lines); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cart) Encode() ([]byte, error) {
	return json.Marshal(c.lines)
}

// Add inserts or adjusts the line for p. Quantity must already be
// sanitized to >= 1 by the caller. When the product is present, override
// replaces the stored quantity, otherwise the quantities merge; both keep
// the unit price captured at first insert.
func (c *Cart) Add(p models.Product, quantity uint, override bool) {
	for i := range c.lines {
		if c.lines[i].ProductID != p.ID {
			continue
		}
		if override {
			c.lines[i].Quantity = quantity
		} else {
			c.lines[i].Quantity += quantity
		}
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Quantity:  quantity,
		UnitPrice: p.Price,
	})
}

// Remove drops the line for productID. Removing an absent product is a
// no-op, not an error.
func (c *Cart) Remove(productID uint) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Len counts distinct line items, not summed quantities. The checkout
// empty-cart gate relies on this semantic.
func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) TotalQuantity() uint {
	var n uint
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalCost() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.TotalPrice()
	}
	return total
}

// Lines returns a copy in insertion order; mutating it does not touch the
// cart.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ProductIDs lists referenced products in line order, for catalog lookups.
func (c *Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.lines))
	for _, l := range c.lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}
