package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

const cancelWindow = 30 * time.Minute

func TestBuildOrderItems(t *testing.T) {
	t.Run("snapshots active items at current prices", func(t *testing.T) {
		cart, _, _ := testCart()
		items, total, err := BuildOrderItems(cart)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Name != "Turmeric Powder" || items[0].Quantity != 2 || items[0].UnitPrice != 50 {
			t.Fatalf("unexpected snapshot %+v", items[0])
		}
		if total != 100 {
			t.Fatalf("expected total 100, got %v", total)
		}
	})

	t.Run("uses discount price when set", func(t *testing.T) {
		cart, _, _ := testCart()
		cart.Items[1].IsSavedForLater = false
		_, total, err := BuildOrderItems(cart)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 350 {
			t.Fatalf("expected total 350, got %v", total)
		}
	})

	t.Run("empty active set rejected", func(t *testing.T) {
		cart, activeID, _ := testCart()
		cart.SaveForLater(activeID)
		if _, _, err := BuildOrderItems(cart); err != ErrEmptyCart {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("snapshot frozen against later price changes", func(t *testing.T) {
		cart, _, _ := testCart()
		items, total, err := BuildOrderItems(cart)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cart.Items[0].Product.Price = 999
		if items[0].UnitPrice != 50 || total != 100 {
			t.Fatalf("expected frozen snapshot, got price %v total %v", items[0].UnitPrice, total)
		}
	})
}

func orderedAt(placed time.Time) *Order {
	return &Order{
		UserID:    uuid.New(),
		Status:    OrderStatusOrdered,
		OrderDate: placed,
	}
}

func TestCancelByOwner(t *testing.T) {
	now := time.Now()

	t.Run("inside the window", func(t *testing.T) {
		order := orderedAt(now.Add(-10 * time.Minute))
		if err := order.CancelByOwner(now, cancelWindow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %s", order.Status)
		}
	})

	t.Run("31 minutes later rejected", func(t *testing.T) {
		order := orderedAt(now.Add(-31 * time.Minute))
		if err := order.CancelByOwner(now, cancelWindow); err != ErrCancelWindowExpired {
			t.Fatalf("expected ErrCancelWindowExpired, got %v", err)
		}
		if order.Status != OrderStatusOrdered {
			t.Fatalf("expected status untouched, got %s", order.Status)
		}
	})

	t.Run("terminal states rejected regardless of time", func(t *testing.T) {
		for _, status := range []string{OrderStatusCancelled, OrderStatusDelivered} {
			order := orderedAt(now.Add(-time.Minute))
			order.Status = status
			if err := order.CancelByOwner(now, cancelWindow); err != ErrOrderTerminal {
				t.Fatalf("status %s: expected ErrOrderTerminal, got %v", status, err)
			}
		}
	})
}

func TestCancelByAdmin(t *testing.T) {
	now := time.Now()

	t.Run("ignores the time window", func(t *testing.T) {
		order := orderedAt(now.Add(-48 * time.Hour))
		if err := order.CancelByAdmin(true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("already cancelled rejected", func(t *testing.T) {
		order := orderedAt(now)
		order.Status = OrderStatusCancelled
		if err := order.CancelByAdmin(true); err != ErrOrderTerminal {
			t.Fatalf("expected ErrOrderTerminal, got %v", err)
		}
	})

	t.Run("delivered follows the configured policy", func(t *testing.T) {
		order := orderedAt(now)
		order.Status = OrderStatusDelivered
		if err := order.CancelByAdmin(false); err != ErrOrderTerminal {
			t.Fatalf("expected ErrOrderTerminal, got %v", err)
		}

		order.Status = OrderStatusDelivered
		if err := order.CancelByAdmin(true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %s", order.Status)
		}
	})
}

func TestMarkDelivered(t *testing.T) {
	now := time.Now()

	t.Run("records the delivery time", func(t *testing.T) {
		order := orderedAt(now.Add(-time.Hour))
		if err := order.MarkDelivered(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != OrderStatusDelivered || order.DeliveredAt == nil {
			t.Fatalf("expected delivered with timestamp, got %+v", order)
		}
	})

	t.Run("cancelled order rejected", func(t *testing.T) {
		order := orderedAt(now)
		order.Status = OrderStatusCancelled
		if err := order.MarkDelivered(now); err != ErrOrderTerminal {
			t.Fatalf("expected ErrOrderTerminal, got %v", err)
		}
	})

	t.Run("delivering twice rejected", func(t *testing.T) {
		order := orderedAt(now)
		if err := order.MarkDelivered(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := order.MarkDelivered(now); err != ErrOrderTerminal {
			t.Fatalf("expected ErrOrderTerminal, got %v", err)
		}
	})
}

func TestCanCancel(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name   string
		status string
		age    time.Duration
		want   bool
	}{
		{"fresh ordered", OrderStatusOrdered, 5 * time.Minute, true},
		{"at the boundary", OrderStatusOrdered, 30 * time.Minute, true},
		{"expired", OrderStatusOrdered, 31 * time.Minute, false},
		{"cancelled", OrderStatusCancelled, time.Minute, false},
		{"delivered", OrderStatusDelivered, time.Minute, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := orderedAt(now.Add(-tc.age))
			order.Status = tc.status
			if got := order.CanCancel(now, cancelWindow); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
