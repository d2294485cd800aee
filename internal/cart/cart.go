// Package cart is the shopping cart state model.
//
// A Cart holds at most one line per product id, in the order products were
// first added. Quantities never drop below one through UpdateQuantity; a line
// only leaves the cart through Remove. Listeners registered with Subscribe run
// after every mutation that changed the cart.
package cart

import (
	"math"

	"lumina-store/internal/models"
)

// ChangeKind names a cart mutation
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeQuantity ChangeKind = "quantity"
)

// Change describes a mutation that was applied to the cart
type Change struct {
	Kind      ChangeKind
	ProductID string
	Quantity  int

	// Reveal asks the presentation layer to show the cart
	Reveal bool
}

// Listener is notified after a mutation. It must not mutate the cart.
type Listener func(c *Cart, ch Change)

// Cart is an insertion-ordered collection of cart items keyed by product id
type Cart struct {
	items     []models.CartItem
	listeners []Listener
}

// New creates a cart holding items. Items are normalized: lines without an id
// are dropped, duplicate ids are merged into the first line and quantities
// below one are raised to one.
func New(items []models.CartItem) *Cart {
	return &Cart{items: normalize(items)}
}

// Subscribe registers a listener for subsequent mutations
func (c *Cart) Subscribe(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Add puts one unit of product into the cart
func (c *Cart) Add(product models.Product) Change {
	quantity := 1
	if idx := c.index(product.ID); idx >= 0 {
		if c.items[idx].Quantity < math.MaxInt {
			c.items[idx].Quantity++
		}
		quantity = c.items[idx].Quantity
	} else {
		c.items = append(c.items, models.CartItem{Product: product, Quantity: 1})
	}

	ch := Change{Kind: ChangeAdded, ProductID: product.ID, Quantity: quantity, Reveal: true}
	c.notify(ch)
	return ch
}

// Remove deletes the line for id. It reports whether a line was removed.
func (c *Cart) Remove(id string) bool {
	idx := c.index(id)
	if idx < 0 {
		return false
	}

	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.notify(Change{Kind: ChangeRemoved, ProductID: id})
	return true
}

// UpdateQuantity adds delta to the quantity of id, never going below one.
// It reports whether the cart holds a line for id.
func (c *Cart) UpdateQuantity(id string, delta int) bool {
	idx := c.index(id)
	if idx < 0 {
		return false
	}

	quantity := addSaturating(c.items[idx].Quantity, delta)
	if quantity < 1 {
		quantity = 1
	}
	if quantity == c.items[idx].Quantity {
		return true
	}

	c.items[idx].Quantity = quantity
	c.notify(Change{Kind: ChangeQuantity, ProductID: id, Quantity: quantity})
	return true
}

// Items returns a copy of the cart lines in insertion order
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the line for id
func (c *Cart) Get(id string) (models.CartItem, bool) {
	idx := c.index(id)
	if idx < 0 {
		return models.CartItem{}, false
	}
	return c.items[idx], true
}

// Total sums effective price times quantity
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.LineTotal()
	}
	return total
}

// ItemCount sums quantities
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Len returns the number of distinct products
func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) notify(ch Change) {
	for _, l := range c.listeners {
		l(c, ch)
	}
}

// addSaturating returns q+delta clamped to the int range
func addSaturating(q, delta int) int {
	switch {
	case delta > 0 && q > math.MaxInt-delta:
		return math.MaxInt
	case delta < 0 && q < math.MinInt-delta:
		return math.MinInt
	}
	return q + delta
}

func normalize(src []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(src))
	seen := make(map[string]int, len(src))

	for _, item := range src {
		if item.ID == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if idx, ok := seen[item.ID]; ok {
			out[idx].Quantity += item.Quantity
			continue
		}
		seen[item.ID] = len(out)
		out = append(out, item)
	}

	return out
}
