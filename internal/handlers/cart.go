package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/locks"
	"github.com/example/sampoornam/internal/middleware"
	"github.com/example/sampoornam/internal/models"
)

// CartHandler manages cart endpoints. Every mutation runs under the
// per-user cart lock and inside a transaction, and finishes by recomputing
// the derived total from current catalog prices.
type CartHandler struct {
	db    *gorm.DB
	locks *locks.Keyed
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB, locks *locks.Keyed) *CartHandler {
	return &CartHandler{db: db, locks: locks}
}

func (h *CartHandler) loadCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at asc")
	}).Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// refreshTotal reloads the cart lines with their products and persists the
// recomputed total.
func (h *CartHandler) refreshTotal(tx *gorm.DB, cart *models.Cart) error {
	reloaded, err := h.loadCart(tx, cart.UserID)
	if err != nil {
		return err
	}
	reloaded.RecalculateTotal()
	if err := tx.Model(&models.Cart{}).Where("id = ?", reloaded.ID).
		Update("total", reloaded.Total).Error; err != nil {
		return err
	}
	*cart = *reloaded
	return nil
}

func cartPayload(cart *models.Cart) fiber.Map {
	items := cart.ActiveItems()
	saved := cart.SavedItems()
	if items == nil {
		items = []models.CartItem{}
	}
	if saved == nil {
		saved = []models.CartItem{}
	}
	return fiber.Map{
		"id":              cart.ID,
		"items":           items,
		"saved_for_later": saved,
		"total":           cart.Total,
	}
}

func emptyCartPayload() fiber.Map {
	return fiber.Map{
		"items":           []models.CartItem{},
		"saved_for_later": []models.CartItem{},
		"total":           0,
	}
}

// GetCart returns the user's cart. An absent cart is the empty zero state,
// not an error. The total is recomputed from current prices so a catalog
// price change is visible without any cart mutation.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.loadCart(h.db, principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{"success": true, "data": emptyCartPayload()})
		}
		return err
	}

	cart.RecalculateTotal()
	return c.JSON(fiber.Map{"success": true, "data": cartPayload(cart)})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product to the cart, merging with an existing line for the
// same product whether active or saved for later.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be at least 1")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ? AND is_active = true", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	unlock := h.locks.Lock(principal.UserID, "cart")
	defer unlock()

	var cart *models.Cart
	err = h.db.Transaction(func(tx *gorm.DB) error {
		loaded, err := h.loadCart(tx, principal.UserID)
		if err == gorm.ErrRecordNotFound {
			loaded = &models.Cart{UserID: principal.UserID}
			if err := tx.Create(loaded).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if item := loaded.FindByProduct(productID); item != nil {
			if err := tx.Model(&models.CartItem{}).Where("id = ?", item.ID).
				Update("quantity", item.Quantity+quantity).Error; err != nil {
				return err
			}
		} else {
			newItem := models.CartItem{
				CartID:    loaded.ID,
				ProductID: productID,
				Quantity:  quantity,
			}
			if err := tx.Create(&newItem).Error; err != nil {
				return err
			}
		}

		cart = loaded
		return h.refreshTotal(tx, cart)
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "item added to cart",
		"data":    cartPayload(cart),
	})
}

type updateItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// UpdateItem sets the quantity on an existing cart line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	if req.Quantity < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be at least 1")
	}

	unlock := h.locks.Lock(principal.UserID, "cart")
	defer unlock()

	var cart *models.Cart
	err = h.db.Transaction(func(tx *gorm.DB) error {
		loaded, err := h.loadCart(tx, principal.UserID)
		if err == gorm.ErrRecordNotFound {
			return domainError(models.ErrItemNotFound)
		} else if err != nil {
			return err
		}

		item := loaded.FindItem(itemID)
		if item == nil {
			return domainError(models.ErrItemNotFound)
		}

		if err := tx.Model(&models.CartItem{}).Where("id = ?", item.ID).
			Update("quantity", req.Quantity).Error; err != nil {
			return err
		}

		cart = loaded
		return h.refreshTotal(tx, cart)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "cart updated",
		"data":    cartPayload(cart),
	})
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	unlock := h.locks.Lock(principal.UserID, "cart")
	defer unlock()

	var cart *models.Cart
	err = h.db.Transaction(func(tx *gorm.DB) error {
		loaded, err := h.loadCart(tx, principal.UserID)
		if err == gorm.ErrRecordNotFound {
			return domainError(models.ErrItemNotFound)
		} else if err != nil {
			return err
		}

		item := loaded.FindItem(itemID)
		if item == nil {
			return domainError(models.ErrItemNotFound)
		}

		if err := tx.Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
			return err
		}

		cart = loaded
		return h.refreshTotal(tx, cart)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "item removed from cart",
		"data":    cartPayload(cart),
	})
}

// SaveForLater flags an active item as saved. The item drops out of the
// total and out of checkout until moved back.
func (h *CartHandler) SaveForLater(c *fiber.Ctx) error {
	return h.toggleSaved(c, true)
}

// MoveToCart returns a saved item to the active set.
func (h *CartHandler) MoveToCart(c *fiber.Ctx) error {
	return h.toggleSaved(c, false)
}

func (h *CartHandler) toggleSaved(c *fiber.Ctx, save bool) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	unlock := h.locks.Lock(principal.UserID, "cart")
	defer unlock()

	var cart *models.Cart
	err = h.db.Transaction(func(tx *gorm.DB) error {
		loaded, err := h.loadCart(tx, principal.UserID)
		if err == gorm.ErrRecordNotFound {
			return domainError(models.ErrItemNotFound)
		} else if err != nil {
			return err
		}

		if save {
			err = loaded.SaveForLater(itemID)
		} else {
			err = loaded.MoveToCart(itemID)
		}
		if err != nil {
			return domainError(err)
		}

		if err := tx.Model(&models.CartItem{}).Where("id = ?", itemID).
			Update("is_saved_for_later", save).Error; err != nil {
			return err
		}

		cart = loaded
		return h.refreshTotal(tx, cart)
	})
	if err != nil {
		return err
	}

	message := "item moved to cart"
	if save {
		message = "item saved for later"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    cartPayload(cart),
	})
}

// Clear removes active items only; saved-for-later items survive.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	unlock := h.locks.Lock(principal.UserID, "cart")
	defer unlock()

	var cart *models.Cart
	err := h.db.Transaction(func(tx *gorm.DB) error {
		loaded, err := h.loadCart(tx, principal.UserID)
		if err == gorm.ErrRecordNotFound {
			return nil
		} else if err != nil {
			return err
		}

		if err := tx.Delete(&models.CartItem{},
			"cart_id = ? AND is_saved_for_later = false", loaded.ID).Error; err != nil {
			return err
		}

		cart = loaded
		return h.refreshTotal(tx, cart)
	})
	if err != nil {
		return err
	}

	if cart == nil {
		return c.JSON(fiber.Map{"success": true, "message": "cart cleared", "data": emptyCartPayload()})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "cart cleared",
		"data":    cartPayload(cart),
	})
}
