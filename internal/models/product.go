package models

import (
	"github.com/google/uuid"
)

// Product is a catalog entry. Cart totals and order snapshots price against
// the current row, not against any value captured at add-to-cart time.
type Product struct {
	BaseModel
	Name          string         `gorm:"index" json:"name"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	DiscountPrice float64        `json:"discount_price"`
	Category      string         `gorm:"index" json:"category"`
	Unit          string         `json:"unit"`
	Size          float64        `json:"size"`
	Stock         int            `json:"stock"`
	Featured      bool           `json:"featured"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	Images        []ProductImage `json:"images,omitempty"`
}

// EffectivePrice returns the discount price when one is set, else the price.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

// ProductImage references a stored image file for a product.
type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	FileID    uuid.UUID `gorm:"type:uuid" json:"file_id"`
	Filename  string    `json:"filename"`
	IsMain    bool      `json:"is_main"`
}

// StoredFile holds binary content for uploaded product images.
type StoredFile struct {
	BaseModel
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `gorm:"type:bytea" json:"-"`
}
