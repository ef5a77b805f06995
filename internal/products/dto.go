package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
)

// VariantInput defines one variant supplied on create/update.
type VariantInput struct {
	Name  string
	Price decimal.Decimal
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description *string
	Variants    []VariantInput
}

// UpdateProductInput holds optional mutation values. A non-nil Variants
// slice replaces the full variant set.
type UpdateProductInput struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	Variants    *[]VariantInput
}

// VariantDTO is the variant shape returned to the API layer.
type VariantDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductDTO is the product shape returned to the API layer.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	Variants    []VariantDTO    `json:"variants"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProductDTO maps the persisted model into the API shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	variants := make([]VariantDTO, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, VariantDTO{ID: v.ID, Name: v.Name, Price: v.Price})
	}
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Variants:    variants,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
