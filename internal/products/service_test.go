package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := setupProductsTestDB(t)
	return NewService(NewRepository(db), gormTxRunner{db: db})
}

func TestServiceCreateWithVariants(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateProductInput{
		Name:  "Pañales",
		Price: decimal.NewFromFloat(8.50),
		Variants: []VariantInput{
			{Name: "Talla 3", Price: decimal.NewFromFloat(8.50)},
			{Name: "Talla M", Price: decimal.NewFromFloat(9.00)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pañales", dto.Name)
	assert.Len(t, dto.Variants, 2)
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: " ", Price: decimal.NewFromFloat(1)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateProductInput{Name: "Leche", Price: decimal.NewFromFloat(-1)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateProductInput{
		Name:  "Pañales",
		Price: decimal.NewFromFloat(8),
		Variants: []VariantInput{
			{Name: "Talla 3", Price: decimal.NewFromFloat(8)},
			{Name: "talla 3", Price: decimal.NewFromFloat(9)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceUpdateReplacesVariants(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateProductInput{
		Name:     "Pañales",
		Price:    decimal.NewFromFloat(8),
		Variants: []VariantInput{{Name: "Talla 3", Price: decimal.NewFromFloat(8)}},
	})
	require.NoError(t, err)

	newVariants := []VariantInput{
		{Name: "Talla M", Price: decimal.NewFromFloat(9)},
		{Name: "Talla L", Price: decimal.NewFromFloat(10)},
	}
	updated, err := svc.Update(ctx, dto.ID, UpdateProductInput{Variants: &newVariants})
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)
	assert.Equal(t, "Talla M", updated.Variants[0].Name)
}

func TestServiceFindVariantOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	diapers, err := svc.Create(ctx, CreateProductInput{
		Name:     "Pañales",
		Price:    decimal.NewFromFloat(8),
		Variants: []VariantInput{{Name: "Talla 3", Price: decimal.NewFromFloat(8)}},
	})
	require.NoError(t, err)

	milk, err := svc.Create(ctx, CreateProductInput{Name: "Leche", Price: decimal.NewFromFloat(1.20)})
	require.NoError(t, err)

	variant, err := svc.FindVariant(ctx, diapers.ID, diapers.Variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Talla 3", variant.Name)

	_, err = svc.FindVariant(ctx, milk.ID, diapers.Variants[0].ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.FindVariant(ctx, diapers.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceDeleteNotFound(t *testing.T) {
	svc := newTestService(t)
	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
