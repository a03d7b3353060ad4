package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/config"
	"github.com/example/sampoornam/internal/locks"
	"github.com/example/sampoornam/internal/middleware"
	"github.com/example/sampoornam/internal/models"
	"github.com/example/sampoornam/internal/services"
	"github.com/example/sampoornam/internal/utils"
)

// OrderHandler manages order placement, the status transitions, and the
// order history views.
type OrderHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	locks    *locks.Keyed
	notifier services.OrderNotifier
}

// NewOrderHandler constructs OrderHandler. notifier may be nil.
func NewOrderHandler(db *gorm.DB, cfg *config.Config, locks *locks.Keyed, notifier services.OrderNotifier) *OrderHandler {
	return &OrderHandler{db: db, cfg: cfg, locks: locks, notifier: notifier}
}

// PlaceOrder converts the active cart items into an immutable order. The
// order insert and the cart truncation commit together: a reader can never
// see the new order while the cart still shows the ordered items as active.
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", principal.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	unlock := h.locks.Lock(principal.UserID, "cart")
	defer unlock()

	var order models.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items").Preload("Items.Product").
			Where("user_id = ?", principal.UserID).
			First(&cart).Error
		if err == gorm.ErrRecordNotFound {
			return domainError(models.ErrEmptyCart)
		} else if err != nil {
			return err
		}

		items, total, err := models.BuildOrderItems(&cart)
		if err != nil {
			return domainError(err)
		}

		address := req.toAddress()
		if address.Country == "" {
			address.Country = "India"
		}

		order = models.Order{
			UserID:    principal.UserID,
			Items:     items,
			Total:     total,
			Address:   address,
			Phone:     user.Phone,
			Status:    models.OrderStatusOrdered,
			OrderDate: time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.CartItem{},
			"cart_id = ? AND is_saved_for_later = false", cart.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).
			Update("total", 0).Error
	})
	if err != nil {
		return err
	}

	if h.notifier != nil {
		notifItems := make([]services.OrderItemNotification, 0, len(order.Items))
		for _, item := range order.Items {
			notifItems = append(notifItems, services.OrderItemNotification{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.UnitPrice,
			})
		}
		h.notifier.NotifyOrderPlaced(services.OrderNotification{
			OrderID:   order.ID.String(),
			UserID:    order.UserID.String(),
			Items:     notifItems,
			Total:     order.Total,
			OrderDate: order.OrderDate,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "order placed successfully",
		"data":    order,
	})
}

// updateOrderStatus commits a status transition only while the row still
// holds the status the handler validated against. A zero-row update means
// a concurrent transition committed in between, so the loaded copy is
// stale and the order is treated as terminal rather than overwritten.
func updateOrderStatus(db *gorm.DB, orderID uuid.UUID, prior string, updates map[string]interface{}) error {
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, prior).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainError(models.ErrOrderTerminal)
	}
	return nil
}

// CancelOrder cancels the caller's own order within the allowed window.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ? AND user_id = ?", orderID, principal.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := order.CancelByOwner(time.Now(), h.cfg.CancelWindow); err != nil {
		return domainError(err)
	}

	if err := updateOrderStatus(h.db, order.ID, models.OrderStatusOrdered,
		map[string]interface{}{"status": order.Status}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "order cancelled successfully",
		"data":    order,
	})
}

type orderWithCancel struct {
	models.Order
	CanCancel bool `json:"can_cancel"`
}

// ListOrders returns the caller's orders newest first, each annotated with
// whether the owner may still cancel it.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", principal.UserID).
		Order("order_date desc").
		Find(&orders).Error; err != nil {
		return err
	}

	now := time.Now()
	annotated := make([]orderWithCancel, 0, len(orders))
	for _, order := range orders {
		annotated = append(annotated, orderWithCancel{
			Order:     order,
			CanCancel: order.CanCancel(now, h.cfg.CancelWindow),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(annotated),
		"data":    annotated,
	})
}

// GetOrder returns a single order owned by the caller.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", orderID, principal.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListAllOrders returns every order newest first with the owner attached.
func (h *OrderHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("Items").Preload("User").
		Order("order_date desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrderByAdmin returns any order by id with the owner attached.
func (h *OrderHandler) GetOrderByAdmin(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("User").
		First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// CancelOrderByAdmin cancels any order without a time bound. Whether a
// delivered order can still be cancelled is a configuration decision.
func (h *OrderHandler) CancelOrderByAdmin(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	prior := order.Status
	if err := order.CancelByAdmin(h.cfg.AdminCancelDelivered); err != nil {
		return domainError(err)
	}

	if err := updateOrderStatus(h.db, order.ID, prior,
		map[string]interface{}{"status": order.Status}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "order cancelled successfully by admin",
		"data":    order,
	})
}

// MarkDelivered transitions an order to delivered and records the time.
func (h *OrderHandler) MarkDelivered(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := order.MarkDelivered(time.Now()); err != nil {
		return domainError(err)
	}

	if err := updateOrderStatus(h.db, order.ID, models.OrderStatusOrdered,
		map[string]interface{}{
			"status":       order.Status,
			"delivered_at": order.DeliveredAt,
		}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "order marked as delivered",
		"data":    order,
	})
}
