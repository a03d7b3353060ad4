package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/locks"
	"github.com/example/sampoornam/internal/middleware"
	"github.com/example/sampoornam/internal/models"
)

// AddressHandler manages the per-user address book. The book is one row,
// so each operation mutates the in-memory entries and persists a single
// write under the per-user address lock.
type AddressHandler struct {
	db    *gorm.DB
	locks *locks.Keyed
}

// NewAddressHandler constructs AddressHandler.
func NewAddressHandler(db *gorm.DB, locks *locks.Keyed) *AddressHandler {
	return &AddressHandler{db: db, locks: locks}
}

func (h *AddressHandler) loadBook(userID uuid.UUID) (*models.AddressBook, error) {
	var book models.AddressBook
	if err := h.db.Where("user_id = ?", userID).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func parseIndex(c *fiber.Ctx) (int, error) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid address index")
	}
	return index, nil
}

// ListAddresses returns the user's addresses sorted default-first. An empty
// book is a well-formed empty list.
func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	book, err := h.loadBook(principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{
				"success":               true,
				"message":               "please add an address",
				"data":                  []models.Address{},
				"default_address_index": 0,
			})
		}
		return err
	}

	payload := fiber.Map{
		"success":               true,
		"data":                  book.SortedDefaultFirst(),
		"default_address_index": book.DefaultIndex,
	}
	if entry, ok := book.Default(); ok {
		payload["default_address"] = entry
	}
	return c.JSON(payload)
}

type addressRequest struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

func (r *addressRequest) validate() error {
	if r.Name == "" || r.AddressLine1 == "" || r.City == "" ||
		r.State == "" || r.Pincode == "" || r.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required address fields")
	}
	return nil
}

func (r *addressRequest) toAddress() models.Address {
	return models.Address{
		Name:         r.Name,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		Pincode:      r.Pincode,
		Country:      r.Country,
		Phone:        r.Phone,
	}
}

// AddAddress appends a new address as the default. The book is created
// lazily on first write and holds at most three entries.
func (h *AddressHandler) AddAddress(c *fiber.Ctx) error {
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

	unlock := h.locks.Lock(principal.UserID, "address")
	defer unlock()

	book, err := h.loadBook(principal.UserID)
	if err == gorm.ErrRecordNotFound {
		book = &models.AddressBook{UserID: principal.UserID, Entries: models.AddressList{}}
	} else if err != nil {
		return err
	}

	if err := book.Add(req.toAddress()); err != nil {
		return domainError(err)
	}

	if err := h.db.Save(book).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":               true,
		"message":               "address added successfully",
		"data":                  book.Entries,
		"default_address_index": book.DefaultIndex,
	})
}

// UpdateAddress merges provided fields over the entry at the given index.
// The entry becomes the default unless set_as_default is explicitly false.
func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	var update models.AddressUpdate
	if err := c.BodyParser(&update); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	unlock := h.locks.Lock(principal.UserID, "address")
	defer unlock()

	book, err := h.loadBook(principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "no addresses found for this user")
		}
		return err
	}

	if err := book.Update(index, update); err != nil {
		return domainError(err)
	}

	if err := h.db.Save(book).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"message":               "address updated successfully",
		"data":                  book.Entries,
		"default_address_index": book.DefaultIndex,
	})
}

// DeleteAddress removes the entry at the given index. Deleting the last
// entry removes the whole book.
func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	unlock := h.locks.Lock(principal.UserID, "address")
	defer unlock()

	book, err := h.loadBook(principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "no addresses found for this user")
		}
		return err
	}

	bookEmpty, err := book.Delete(index)
	if err != nil {
		return domainError(err)
	}

	if bookEmpty {
		if err := h.db.Delete(&models.AddressBook{}, "id = ?", book.ID).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":               true,
			"message":               "address deleted successfully",
			"data":                  []models.Address{},
			"default_address_index": 0,
		})
	}

	if err := h.db.Save(book).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"message":               "address deleted successfully",
		"data":                  book.Entries,
		"default_address_index": book.DefaultIndex,
	})
}

// SetDefaultAddress marks the entry at the given index as the default.
func (h *AddressHandler) SetDefaultAddress(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	unlock := h.locks.Lock(principal.UserID, "address")
	defer unlock()

	book, err := h.loadBook(principal.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "no addresses found for this user")
		}
		return err
	}

	if err := book.SetDefault(index); err != nil {
		return domainError(err)
	}

	if err := h.db.Save(book).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"message":               "default address updated successfully",
		"data":                  book.Entries,
		"default_address_index": book.DefaultIndex,
	})
}
