package cart

import (
	"fmt"

	"github.com/marlowpress/storefront-backend/pkg/enums"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

// CartItem is the purchasable snapshot of one edition plus quantity. Fields
// other than Quantity are fixed at add time so a later catalog change cannot
// silently reprice a cart.
type CartItem struct {
	EditionID    string
	DocumentID   string
	EditionType  enums.EditionType
	Quantity     int
	PrintSize    enums.PrintSize
	NumPages     []int
	Title        string
	Author       string
	DisplayTitle string
}

// Key returns the item's identity. An edition id is unique on its own; when a
// caller only has the document reference, the edition-type tag disambiguates
// the editions of that document.
func (i CartItem) Key() string {
	if i.EditionID != "" {
		return i.EditionID
	}
	return fmt.Sprintf("%s/%s", i.DocumentID, i.EditionType)
}

// Cart aggregates cart items with the contact and delivery details collected
// during checkout. Item order is preserved for display; totals are always
// derived from the items, never stored.
type Cart struct {
	Items   []CartItem
	Email   string
	Address *types.Address
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem merges by identity: an already-present edition has its quantity
// increased, anything else is appended. The cart never holds two entries with
// the same identity.
func (c *Cart) AddItem(item CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for idx := range c.Items {
		if c.Items[idx].Key() == item.Key() {
			c.Items[idx].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem deletes the entry with the given identity. Removing an absent
// identity is a no-op.
func (c *Cart) RemoveItem(key string) {
	for idx := range c.Items {
		if c.Items[idx].Key() == key {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return
		}
	}
}

// SetQuantity sets the entry's quantity exactly; a quantity below one removes
// the entry.
func (c *Cart) SetQuantity(key string, qty int) {
	if qty < 1 {
		c.RemoveItem(key)
		return
	}
	for idx := range c.Items {
		if c.Items[idx].Key() == key {
			c.Items[idx].Quantity = qty
			return
		}
	}
}

// Item returns the entry with the given identity, if present.
func (c *Cart) Item(key string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.Key() == key {
			return item, true
		}
	}
	return CartItem{}, false
}

// Clear empties the cart and forgets contact details.
func (c *Cart) Clear() {
	c.Items = nil
	c.Email = ""
	c.Address = nil
}

// Totals holds the derived money/count summary for a cart.
type Totals struct {
	SubtotalCents int
	ItemCount     int
}

// Totals computes the subtotal and item count from the current items using
// the default price table. Pure; safe to call any number of times.
func (c *Cart) Totals() Totals {
	return c.TotalsWith(DefaultPriceTable)
}

// TotalsWith computes totals against an explicit price table.
func (c *Cart) TotalsWith(table PriceTable) Totals {
	var totals Totals
	for _, item := range c.Items {
		totals.SubtotalCents += table.PriceCents(item) * item.Quantity
		totals.ItemCount += item.Quantity
	}
	return totals
}

// Clone returns a deep copy so a snapshot handed to another goroutine cannot
// alias live state.
func (c *Cart) Clone() *Cart {
	clone := &Cart{Email: c.Email}
	if c.Address != nil {
		addr := *c.Address
		clone.Address = &addr
	}
	clone.Items = make([]CartItem, len(c.Items))
	copy(clone.Items, c.Items)
	for idx := range clone.Items {
		pages := make([]int, len(c.Items[idx].NumPages))
		copy(pages, c.Items[idx].NumPages)
		clone.Items[idx].NumPages = pages
	}
	return clone
}
