package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	pkgerrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog management operations.
type Service struct {
	repo     *Repository
	txRunner txRunner
}

func NewService(repo *Repository, txRunner txRunner) *Service {
	return &Service{repo: repo, txRunner: txRunner}
}

func (s *Service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}
	if err := validateVariants(input.Variants); err != nil {
		return nil, err
	}

	productID := uuid.New()
	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			ID:          productID,
			Name:        name,
			Price:       input.Price,
			Description: input.Description,
		}
		if _, err := txRepo.Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if err := txRepo.ReplaceVariants(ctx, productID, buildVariantRows(productID, input.Variants)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variants")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.Get(ctx, productID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Variants != nil {
		if err := validateVariants(*input.Variants); err != nil {
			return nil, err
		}
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Update(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if input.Variants != nil {
			if err := txRepo.ReplaceVariants(ctx, id, buildVariantRows(id, *input.Variants)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *Service) List(ctx context.Context, limit int) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out, nil
}

// ListProducts feeds the analysis prompt context.
func (s *Service) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return products, nil
}

// FindModel loads the raw model, for collaborators that reconcile drafts.
func (s *Service) FindModel(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.findProduct(ctx, id)
}

// FindVariant loads one variant and checks it belongs to the product.
func (s *Service) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	variant, err := s.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
	}
	if variant.ProductID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
	}
	return variant, nil
}

func (s *Service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func validateVariants(variants []VariantInput) error {
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant name is required")
		}
		if v.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant price cannot be negative")
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate variant name: "+name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func buildVariantRows(productID uuid.UUID, variants []VariantInput) []models.ProductVariant {
	rows := make([]models.ProductVariant, 0, len(variants))
	for _, v := range variants {
		rows = append(rows, models.ProductVariant{
			ID:        uuid.New(),
			ProductID: productID,
			Name:      strings.TrimSpace(v.Name),
			Price:     v.Price,
		})
	}
	return rows
}
