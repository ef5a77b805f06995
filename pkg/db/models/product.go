package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. A product with variants is never orderable
// directly; order items must reference one of its variants.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string           `gorm:"column:name;not null" json:"name"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Description *string          `gorm:"column:description" json:"description,omitempty"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// HasVariants reports whether an order item for this product must carry a variant.
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}
