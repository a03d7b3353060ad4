package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/models"
)

func openOrderDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// Every pooled :memory: connection gets its own database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:    uuid.New(),
		Total:     100,
		Status:    status,
		OrderDate: time.Now(),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("commits while the status is unchanged", func(t *testing.T) {
		db := openOrderDB(t)
		order := seedOrder(t, db, models.OrderStatusOrdered)

		err := updateOrderStatus(db, order.ID, models.OrderStatusOrdered,
			map[string]interface{}{"status": models.OrderStatusCancelled})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var stored models.Order
		if err := db.First(&stored, "id = ?", order.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.Status != models.OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %q", stored.Status)
		}
	})

	t.Run("stale cancel loses to a delivery committed in between", func(t *testing.T) {
		db := openOrderDB(t)
		order := seedOrder(t, db, models.OrderStatusOrdered)

		// The order was loaded as ordered, but another transition commits
		// before the cancel write lands.
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusDelivered).Error; err != nil {
			t.Fatalf("concurrent delivery: %v", err)
		}

		err := updateOrderStatus(db, order.ID, models.OrderStatusOrdered,
			map[string]interface{}{"status": models.OrderStatusCancelled})

		var fiberErr *fiber.Error
		if !errors.As(err, &fiberErr) || fiberErr.Code != fiber.StatusBadRequest {
			t.Fatalf("expected a 400, got %v", err)
		}

		var stored models.Order
		if err := db.First(&stored, "id = ?", order.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.Status != models.OrderStatusDelivered {
			t.Fatalf("expected delivered to survive, got %q", stored.Status)
		}
	})

	t.Run("stale delivery loses to a cancel committed in between", func(t *testing.T) {
		db := openOrderDB(t)
		order := seedOrder(t, db, models.OrderStatusOrdered)

		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusCancelled).Error; err != nil {
			t.Fatalf("concurrent cancel: %v", err)
		}

		now := time.Now()
		err := updateOrderStatus(db, order.ID, models.OrderStatusOrdered,
			map[string]interface{}{
				"status":       models.OrderStatusDelivered,
				"delivered_at": &now,
			})

		var fiberErr *fiber.Error
		if !errors.As(err, &fiberErr) || fiberErr.Code != fiber.StatusBadRequest {
			t.Fatalf("expected a 400, got %v", err)
		}

		var stored models.Order
		if err := db.First(&stored, "id = ?", order.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.Status != models.OrderStatusCancelled {
			t.Fatalf("expected cancelled to survive, got %q", stored.Status)
		}
		if stored.DeliveredAt != nil {
			t.Fatalf("expected no delivery timestamp on the lost write")
		}
	})
}
