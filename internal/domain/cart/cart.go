package cart

import (
	"github.com/shopspring/decimal"

	"github.com/example/shopfront/internal/domain/catalog"
)

const AggregateType = "Cart"

// Item is one cart line: a product reference with the name and unit price
// copied at add time, and a quantity that is always >= 1 while the item is
// in the cart.
type Item struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Line is the read-only projection of an Item for rendering.
type Line struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart is an ordered collection of items. Insertion order is add order and
// is not changed by quantity updates. At most one item per product code.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(code string) int {
	for i := range c.items {
		if c.items[i].Code == code {
			return i
		}
	}
	return -1
}

// Add puts the product in the cart: if a line with the same code exists its
// quantity grows by one, otherwise a new line is appended with quantity 1.
// It returns the resulting line.
func (c *Cart) Add(p catalog.Product) Item {
	if i := c.find(p.Code); i >= 0 {
		c.items[i].Quantity++
		return c.items[i]
	}
	item := Item{Code: p.Code, Name: p.Name, Price: p.Price, Quantity: 1}
	c.items = append(c.items, item)
	return item
}

// Remove deletes the line with the given code. It reports whether a line was
// removed; removing an absent code is a no-op.
func (c *Cart) Remove(code string) bool {
	i := c.find(code)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Increment raises the quantity of the line by one. Absent codes are a
// no-op.
func (c *Cart) Increment(code string) (Item, bool) {
	i := c.find(code)
	if i < 0 {
		return Item{}, false
	}
	c.items[i].Quantity++
	return c.items[i], true
}

// Decrement lowers the quantity of the line by one, removing the line
// entirely when the quantity would drop below 1. The returned item has
// Quantity 0 when the line was removed. Absent codes are a no-op.
func (c *Cart) Decrement(code string) (Item, bool) {
	i := c.find(code)
	if i < 0 {
		return Item{}, false
	}
	c.items[i].Quantity--
	if c.items[i].Quantity <= 0 {
		item := c.items[i]
		item.Quantity = 0
		c.items = append(c.items[:i], c.items[i+1:]...)
		return item, true
	}
	return c.items[i], true
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.items = nil
}

// Find returns the line with the given code.
func (c *Cart) Find(code string) (Item, bool) {
	if i := c.find(code); i >= 0 {
		return c.items[i], true
	}
	return Item{}, false
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Total sums price * quantity over all lines in full precision.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Lines returns the rendering projection in insertion order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.items))
	for _, item := range c.items {
		lines = append(lines, Line{
			Code:      item.Code,
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return lines
}
