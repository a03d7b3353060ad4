package models

import (
	"testing"

	"github.com/google/uuid"
)

func testCart() (*Cart, uuid.UUID, uuid.UUID) {
	activeID := uuid.New()
	savedID := uuid.New()
	cart := &Cart{
		UserID: uuid.New(),
		Items: []CartItem{
			{
				BaseModel: BaseModel{ID: activeID},
				ProductID: uuid.New(),
				Product:   &Product{Name: "Turmeric Powder", Price: 50},
				Quantity:  2,
			},
			{
				BaseModel:       BaseModel{ID: savedID},
				ProductID:       uuid.New(),
				Product:         &Product{Name: "Ghee", Price: 300, DiscountPrice: 250},
				Quantity:        1,
				IsSavedForLater: true,
			},
		},
	}
	return cart, activeID, savedID
}

func TestCartRecalculateTotal(t *testing.T) {
	t.Run("saved items excluded", func(t *testing.T) {
		cart, _, _ := testCart()
		cart.RecalculateTotal()
		if cart.Total != 100 {
			t.Fatalf("expected total 100, got %v", cart.Total)
		}
	})

	t.Run("discount price wins when set", func(t *testing.T) {
		cart, _, _ := testCart()
		cart.Items[1].IsSavedForLater = false
		cart.RecalculateTotal()
		if cart.Total != 350 {
			t.Fatalf("expected total 350, got %v", cart.Total)
		}
	})

	t.Run("price change moves the total without a cart mutation", func(t *testing.T) {
		cart, _, _ := testCart()
		cart.RecalculateTotal()
		before := cart.Total

		cart.Items[0].Product.Price = 60
		cart.RecalculateTotal()
		if cart.Total == before {
			t.Fatalf("expected total to follow the catalog price")
		}
		if cart.Total != 120 {
			t.Fatalf("expected total 120, got %v", cart.Total)
		}
	})

	t.Run("missing product contributes nothing", func(t *testing.T) {
		cart, _, _ := testCart()
		cart.Items[0].Product = nil
		cart.RecalculateTotal()
		if cart.Total != 0 {
			t.Fatalf("expected total 0, got %v", cart.Total)
		}
	})
}

func TestCartFindByProduct(t *testing.T) {
	cart, _, savedID := testCart()

	found := cart.FindByProduct(cart.Items[1].ProductID)
	if found == nil || found.ID != savedID {
		t.Fatalf("expected saved item matched by product id")
	}

	if cart.FindByProduct(uuid.New()) != nil {
		t.Fatalf("expected nil for unknown product")
	}
}

func TestCartSaveForLater(t *testing.T) {
	t.Run("unknown item", func(t *testing.T) {
		cart, _, _ := testCart()
		if err := cart.SaveForLater(uuid.New()); err != ErrItemNotFound {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("already saved", func(t *testing.T) {
		cart, _, savedID := testCart()
		if err := cart.SaveForLater(savedID); err != ErrAlreadySaved {
			t.Fatalf("expected ErrAlreadySaved, got %v", err)
		}
	})

	t.Run("flags the item", func(t *testing.T) {
		cart, activeID, _ := testCart()
		if err := cart.SaveForLater(activeID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cart.FindItem(activeID).IsSavedForLater {
			t.Fatalf("expected item saved for later")
		}
		if len(cart.ActiveItems()) != 0 {
			t.Fatalf("expected no active items left")
		}
	})
}

func TestCartMoveToCart(t *testing.T) {
	t.Run("already active", func(t *testing.T) {
		cart, activeID, _ := testCart()
		if err := cart.MoveToCart(activeID); err != ErrAlreadyActive {
			t.Fatalf("expected ErrAlreadyActive, got %v", err)
		}
	})

	t.Run("moves the item back", func(t *testing.T) {
		cart, _, savedID := testCart()
		if err := cart.MoveToCart(savedID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cart.SavedItems()) != 0 {
			t.Fatalf("expected no saved items left")
		}
	})
}
