package models

import (
	"github.com/google/uuid"
)

// CartItem is one line in a cart. Saved-for-later items are excluded from
// the total and from checkout but survive cart clears.
type CartItem struct {
	BaseModel
	CartID          uuid.UUID `gorm:"type:uuid;index" json:"cart_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product         *Product  `json:"product,omitempty"`
	Quantity        int       `json:"quantity"`
	IsSavedForLater bool      `json:"is_saved_for_later"`
}

// Cart holds the mutable line items for one user. Total is derived from
// current catalog prices on every persisted mutation.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []CartItem `json:"items,omitempty"`
	Total  float64    `json:"total"`
}

// FindItem returns a pointer to the item with the given id.
func (c *Cart) FindItem(itemID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindByProduct returns a pointer to the item referencing productID,
// whether active or saved for later.
func (c *Cart) FindByProduct(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// ActiveItems returns items not saved for later.
func (c *Cart) ActiveItems() []CartItem {
	var out []CartItem
	for _, item := range c.Items {
		if !item.IsSavedForLater {
			out = append(out, item)
		}
	}
	return out
}

// SavedItems returns the saved-for-later items.
func (c *Cart) SavedItems() []CartItem {
	var out []CartItem
	for _, item := range c.Items {
		if item.IsSavedForLater {
			out = append(out, item)
		}
	}
	return out
}

// RecalculateTotal recomputes the derived total from the loaded products'
// current effective prices. Items without a loaded product row contribute
// nothing, matching an inactive or removed catalog entry.
func (c *Cart) RecalculateTotal() {
	var total float64
	for _, item := range c.Items {
		if item.IsSavedForLater || item.Product == nil {
			continue
		}
		total += item.Product.EffectivePrice() * float64(item.Quantity)
	}
	c.Total = total
}

// SaveForLater flags the item as saved. Saving an already saved item fails.
func (c *Cart) SaveForLater(itemID uuid.UUID) error {
	item := c.FindItem(itemID)
	if item == nil {
		return ErrItemNotFound
	}
	if item.IsSavedForLater {
		return ErrAlreadySaved
	}
	item.IsSavedForLater = true
	return nil
}

// MoveToCart returns a saved item to the active set.
func (c *Cart) MoveToCart(itemID uuid.UUID) error {
	item := c.FindItem(itemID)
	if item == nil {
		return ErrItemNotFound
	}
	if !item.IsSavedForLater {
		return ErrAlreadyActive
	}
	item.IsSavedForLater = false
	return nil
}
