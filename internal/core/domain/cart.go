package domain

import "github.com/shopspring/decimal"

// MaxInstructionsLength caps a cart line's special instructions.
const MaxInstructionsLength = 100

// CartLine is one distinct menu item in a customer's in-progress order.
type CartLine struct {
	ItemID              int64           `json:"itemId"`
	Name                string          `json:"itemName"`
	UnitPrice           decimal.Decimal `json:"price"`
	Quantity            int             `json:"quantity"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	PrepTimeMinutes     *int            `json:"preparationTime,omitempty"`
	ImageURL            string          `json:"imageUrl,omitempty"`
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines keyed by item id. The zero value is an
// empty cart.
type Cart struct {
	Lines []CartLine `json:"items"`
}

func (c *Cart) index(itemID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem appends a line for item, or increments the quantity of the existing
// line. Quantities below 1 are clamped to 1. Instructions replace the existing
// ones only when non-empty.
func (c *Cart) AddItem(item MenuItem, quantity int, instructions string) {
	if quantity < 1 {
		quantity = 1
	}
	instructions = truncate(instructions, MaxInstructionsLength)

	if i := c.index(item.ID); i >= 0 {
		c.Lines[i].Quantity += quantity
		if instructions != "" {
			c.Lines[i].SpecialInstructions = instructions
		}
		return
	}
	c.Lines = append(c.Lines, CartLine{
		ItemID:              item.ID,
		Name:                item.Name,
		UnitPrice:           item.Price,
		Quantity:            quantity,
		SpecialInstructions: instructions,
		PrepTimeMinutes:     item.PreparationTime,
		ImageURL:            item.ImageURL,
	})
}

// UpdateQuantity sets the quantity of a line; n <= 0 removes it.
func (c *Cart) UpdateQuantity(itemID int64, n int) {
	if n <= 0 {
		c.RemoveItem(itemID)
		return
	}
	if i := c.index(itemID); i >= 0 {
		c.Lines[i].Quantity = n
	}
}

// UpdateInstructions replaces a line's special instructions.
func (c *Cart) UpdateInstructions(itemID int64, instructions string) {
	if i := c.index(itemID); i >= 0 {
		c.Lines[i].SpecialInstructions = truncate(instructions, MaxInstructionsLength)
	}
}

// RemoveItem drops a line. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(itemID int64) {
	i := c.index(itemID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() { c.Lines = nil }

// Contains reports whether itemID has a line in the cart.
func (c Cart) Contains(itemID int64) bool { return c.index(itemID) >= 0 }

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// TotalPrice is the sum of unit price times quantity, unrounded.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// TotalItems is the sum of quantities.
func (c Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalPreparationTime sums each line's prep time once, regardless of
// quantity.
func (c Cart) TotalPreparationTime() int {
	minutes := 0
	for _, l := range c.Lines {
		if l.PrepTimeMinutes != nil {
			minutes += *l.PrepTimeMinutes
		}
	}
	return minutes
}

// Clone returns a deep copy safe to hand outside a lock.
func (c Cart) Clone() Cart {
	if c.Lines == nil {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
