package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/models"
	"github.com/example/sampoornam/internal/storage"
	"github.com/example/sampoornam/internal/utils"
)

const maxProductImages = 6

// ProductHandler manages catalog CRUD and product images.
type ProductHandler struct {
	db    *gorm.DB
	store *storage.Store
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, store *storage.Store) *ProductHandler {
	return &ProductHandler{db: db, store: store}
}

// ListProducts returns paginated active products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Where("is_active = true")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", q, q)
	}

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if c.Query("featured") == "true" {
		query = query.Where("featured = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Images").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct loads a single product with its images.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Name          string  `json:"name" form:"name"`
	Description   string  `json:"description" form:"description"`
	Price         float64 `json:"price" form:"price"`
	DiscountPrice float64 `json:"discount_price" form:"discount_price"`
	Category      string  `json:"category" form:"category"`
	Unit          string  `json:"unit" form:"unit"`
	Size          float64 `json:"size" form:"size"`
	Stock         int     `json:"stock" form:"stock"`
	Featured      bool    `json:"featured" form:"featured"`
}

// CreateProduct creates a catalog entry with up to six images.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Description == "" || req.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Category:      req.Category,
		Unit:          req.Unit,
		Size:          req.Size,
		Stock:         req.Stock,
		Featured:      req.Featured,
		IsActive:      true,
	}
	if product.Unit == "" {
		product.Unit = "kg"
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	if err := h.attachImages(c, &product); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct merges provided fields over a product and appends any
// uploaded images, keeping the six-image cap.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.DiscountPrice >= 0 {
		updates["discount_price"] = req.DiscountPrice
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.Size > 0 {
		updates["size"] = req.Size
	}
	if req.Stock >= 0 {
		updates["stock"] = req.Stock
	}
	updates["featured"] = req.Featured
	if v := c.FormValue("is_active"); v != "" {
		updates["is_active"] = v == "true"
	}

	if err := h.db.Model(&product).Updates(updates).Error; err != nil {
		return err
	}

	if err := h.attachImages(c, &product); err != nil {
		return err
	}

	if err := h.db.Preload("Images").First(&product, "id = ?", product.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product, its image records, and the stored files.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	for _, image := range product.Images {
		if err := h.store.Delete(image.FileID); err != nil {
			return err
		}
	}

	if err := h.db.Delete(&models.ProductImage{}, "product_id = ?", product.ID).Error; err != nil {
		return err
	}
	if err := h.db.Delete(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

// GetProductImage streams a stored image by file id.
func (h *ProductHandler) GetProductImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	file, err := h.store.Get(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "image not found")
		}
		return err
	}

	if file.ContentType != "" {
		c.Set(fiber.HeaderContentType, file.ContentType)
	}
	return c.Send(file.Data)
}

func (h *ProductHandler) attachImages(c *fiber.Ctx, product *models.Product) error {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}

	files := form.File["images"]
	if len(files) == 0 {
		return nil
	}

	var existing int64
	if err := h.db.Model(&models.ProductImage{}).
		Where("product_id = ?", product.ID).Count(&existing).Error; err != nil {
		return err
	}
	if int(existing)+len(files) > maxProductImages {
		return fiber.NewError(fiber.StatusBadRequest, "a product can have at most 6 images")
	}

	for i, header := range files {
		src, err := header.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return err
		}

		fileID, err := h.store.Put(header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			return err
		}

		image := models.ProductImage{
			ProductID: product.ID,
			FileID:    fileID,
			Filename:  header.Filename,
			IsMain:    existing == 0 && i == 0,
		}
		if err := h.db.Create(&image).Error; err != nil {
			return err
		}
		product.Images = append(product.Images, image)
	}

	return nil
}
