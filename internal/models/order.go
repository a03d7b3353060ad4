package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Transitions are monotonic: ordered may become cancelled
// or delivered; cancelled and delivered are terminal.
const (
	OrderStatusOrdered   = "ordered"
	OrderStatusCancelled = "cancelled"
	OrderStatusDelivered = "delivered"
)

// OrderItem is an immutable snapshot of a cart line at placement time.
// Name and unit price are frozen and never recomputed from the catalog.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"price"`
}

// Order is an append-only ledger record created by checkout. After creation
// only the status transition operations touch it.
type Order struct {
	BaseModel
	UserID      uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User        *User       `json:"user,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`
	Total       float64     `json:"total"`
	Address     Address     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Phone       string      `json:"phone"`
	Status      string      `gorm:"index" json:"status"`
	OrderDate   time.Time   `gorm:"index" json:"order_date"`
	DeliveredAt *time.Time  `json:"delivered_at"`
}

// IsTerminal reports whether no further transitions are permitted.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCancelled || o.Status == OrderStatusDelivered
}

// CanCancel reports whether the owner may still cancel at the given time.
func (o *Order) CanCancel(now time.Time, window time.Duration) bool {
	return o.Status == OrderStatusOrdered && now.Sub(o.OrderDate) <= window
}

// CancelByOwner cancels the order on behalf of its owner. Terminal orders
// are rejected outright; an ordered order past the window fails with
// ErrCancelWindowExpired.
func (o *Order) CancelByOwner(now time.Time, window time.Duration) error {
	if o.IsTerminal() {
		return ErrOrderTerminal
	}
	if now.Sub(o.OrderDate) > window {
		return ErrCancelWindowExpired
	}
	o.Status = OrderStatusCancelled
	return nil
}

// CancelByAdmin cancels without a time bound. Already-cancelled orders are
// rejected; whether a delivered order may still be cancelled is a policy
// decision passed in by the caller.
func (o *Order) CancelByAdmin(allowDelivered bool) error {
	if o.Status == OrderStatusCancelled {
		return ErrOrderTerminal
	}
	if o.Status == OrderStatusDelivered && !allowDelivered {
		return ErrOrderTerminal
	}
	o.Status = OrderStatusCancelled
	return nil
}

// MarkDelivered transitions the order to delivered and records the time.
func (o *Order) MarkDelivered(now time.Time) error {
	if o.IsTerminal() {
		return ErrOrderTerminal
	}
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	return nil
}

// BuildOrderItems snapshots the active cart lines against their loaded
// products. The order total is computed from the snapshot alone.
func BuildOrderItems(cart *Cart) ([]OrderItem, float64, error) {
	var items []OrderItem
	var total float64
	for _, line := range cart.Items {
		if line.IsSavedForLater || line.Product == nil {
			continue
		}
		price := line.Product.EffectivePrice()
		items = append(items, OrderItem{
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
		total += price * float64(line.Quantity)
	}
	if len(items) == 0 {
		return nil, 0, ErrEmptyCart
	}
	return items, total, nil
}
