package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one product line inside an order. Name, variant name and
// price are copied at order time so later catalog edits do not rewrite history.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	ProductID   *uuid.UUID      `gorm:"column:product_id;type:uuid" json:"product_id,omitempty"`
	VariantID   *uuid.UUID      `gorm:"column:variant_id;type:uuid" json:"variant_id,omitempty"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	VariantName *string         `gorm:"column:variant_name" json:"variant_name,omitempty"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	IsPaid      bool            `gorm:"column:is_paid;not null;default:false" json:"is_paid"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// DisplayName is the label used for grouping and lists: the variant name when
// present, the product name otherwise.
func (i OrderItem) DisplayName() string {
	if i.VariantName != nil && *i.VariantName != "" {
		return i.Name + " " + *i.VariantName
	}
	return i.Name
}

// LineTotal recomputes price*quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
