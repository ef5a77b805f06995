package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	pkgerrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/pagination"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
}

func (s *stubCatalog) FindModel(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubCatalog) FindVariant(_ context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	v, ok := s.variants[variantID]
	if !ok || v.ProductID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return v, nil
}

type stubClients struct {
	clients map[uuid.UUID]*models.Client
}

func (s *stubClients) FindModel(_ context.Context, id uuid.UUID) (*models.Client, error) {
	if c, ok := s.clients[id]; ok {
		return c, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
}

type serviceFixture struct {
	db      *gorm.DB
	svc     *Service
	anaID   uuid.UUID
	milkID  uuid.UUID
	breadID uuid.UUID
	// diapers carry size variants
	diapersID uuid.UUID
	talla3ID  uuid.UUID
	tallaMID  uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db := setupOrdersTestDB(t)
	f := &serviceFixture{
		db:        db,
		anaID:     seedClient(t, db, "Ana"),
		milkID:    uuid.New(),
		breadID:   uuid.New(),
		diapersID: uuid.New(),
		talla3ID:  uuid.New(),
		tallaMID:  uuid.New(),
	}

	catalog := &stubCatalog{
		products: map[uuid.UUID]*models.Product{
			f.milkID:  {ID: f.milkID, Name: "Leche", Price: decimal.NewFromFloat(1.50)},
			f.breadID: {ID: f.breadID, Name: "Pan", Price: decimal.NewFromFloat(0.80)},
			f.diapersID: {ID: f.diapersID, Name: "Pañales", Price: decimal.NewFromFloat(8), Variants: []models.ProductVariant{
				{ID: f.talla3ID, ProductID: f.diapersID, Name: "Talla 3", Price: decimal.NewFromFloat(8.50)},
				{ID: f.tallaMID, ProductID: f.diapersID, Name: "Talla M", Price: decimal.NewFromFloat(9)},
			}},
		},
		variants: map[uuid.UUID]*models.ProductVariant{
			f.talla3ID: {ID: f.talla3ID, ProductID: f.diapersID, Name: "Talla 3", Price: decimal.NewFromFloat(8.50)},
			f.tallaMID: {ID: f.tallaMID, ProductID: f.diapersID, Name: "Talla M", Price: decimal.NewFromFloat(9)},
		},
	}
	clients := &stubClients{clients: map[uuid.UUID]*models.Client{
		f.anaID: {ID: f.anaID, Name: "Ana"},
	}}

	f.svc = NewService(NewRepository(db), gormTxRunner{db: db}, catalog, clients)
	return f
}

func TestServiceCreateSnapshotsCatalog(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items: []CreateOrderItemInput{
			{ProductID: f.milkID, Quantity: 2},
			{ProductID: f.diapersID, VariantID: &f.talla3ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, dto.Items, 2)
	byName := make(map[string]OrderItemDTO, len(dto.Items))
	for _, item := range dto.Items {
		byName[item.Name] = item
	}
	milk := byName["Leche"]
	assert.True(t, milk.Price.Equal(decimal.NewFromFloat(1.50)))
	diapers := byName["Pañales"]
	require.NotNil(t, diapers.VariantName)
	assert.Equal(t, "Talla 3", *diapers.VariantName)
	assert.True(t, diapers.Price.Equal(decimal.NewFromFloat(8.50)), "variant price wins over product price")

	assert.True(t, dto.Total.Equal(decimal.NewFromFloat(11.50)), dto.Total.String())
	assert.True(t, dto.Balance.Equal(dto.Total))
	assert.Equal(t, "Ana", dto.ClientName)
}

func TestServiceCreateValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateOrderInput{ClientID: f.anaID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items:    []CreateOrderItemInput{{ProductID: f.milkID, Quantity: 0}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// variant products cannot be ordered without picking a variant
	_, err = f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items:    []CreateOrderItemInput{{ProductID: f.diapersID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = f.svc.Create(ctx, CreateOrderInput{
		ClientID: uuid.New(),
		Items:    []CreateOrderItemInput{{ProductID: f.milkID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceCreateBalanceNeverNegative(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateOrderInput{
		ClientID:   f.anaID,
		AmountPaid: decimal.NewFromFloat(50),
		Items:      []CreateOrderItemInput{{ProductID: f.milkID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, dto.Balance.IsZero(), dto.Balance.String())
}

func TestServiceCreateRollsBackOnFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	// Sabotage the items table so the insert fails mid-transaction.
	require.NoError(t, f.db.Exec(`DROP TABLE order_items;`).Error)

	_, err := f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items:    []CreateOrderItemInput{{ProductID: f.milkID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "failed save must not leave a partial order")
}

func TestServiceItemMutationsRecomputeTotals(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items: []CreateOrderItemInput{
			{ProductID: f.milkID, Quantity: 2},
			{ProductID: f.breadID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.True(t, dto.Total.Equal(decimal.NewFromFloat(3.80)))

	var milkItem OrderItemDTO
	for _, item := range dto.Items {
		if item.Name == "Leche" {
			milkItem = item
		}
	}
	require.NotEqual(t, uuid.Nil, milkItem.ID)

	dto, err = f.svc.UpdateItemQuantity(ctx, milkItem.ID, 4)
	require.NoError(t, err)
	assert.True(t, dto.Total.Equal(decimal.NewFromFloat(6.80)), dto.Total.String())
	assert.True(t, dto.Balance.Equal(decimal.NewFromFloat(6.80)))

	dto, err = f.svc.SetItemPaid(ctx, milkItem.ID, true)
	require.NoError(t, err)
	assert.True(t, dto.AmountPaid.Equal(decimal.NewFromFloat(6)), dto.AmountPaid.String())
	assert.True(t, dto.Balance.Equal(decimal.NewFromFloat(0.80)), dto.Balance.String())

	dto, err = f.svc.DeleteItem(ctx, milkItem.ID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.True(t, dto.Total.Equal(decimal.NewFromFloat(0.80)))
	assert.True(t, dto.AmountPaid.IsZero())
	assert.True(t, dto.Balance.Equal(decimal.NewFromFloat(0.80)))

	_, err = f.svc.UpdateItemQuantity(ctx, milkItem.ID, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListPageCursorsThroughOrders(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, CreateOrderInput{
			ClientID: f.anaID,
			Items:    []CreateOrderItemInput{{ProductID: f.milkID, Quantity: i + 1}},
		})
		require.NoError(t, err)
	}

	page, err := f.svc.ListPage(ctx, pagination.Params{Limit: 2}, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := f.svc.ListPage(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor}, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, rest.Orders, 1)
	assert.Empty(t, rest.NextCursor)

	_, err = f.svc.ListPage(ctx, pagination.Params{Cursor: "not-base64!"}, ListFilter{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceListPageFilters(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items:    []CreateOrderItemInput{{ProductID: f.milkID, Quantity: 1}},
	})
	require.NoError(t, err)

	byClient, err := f.svc.ListPage(ctx, pagination.Params{}, ListFilter{ClientID: &f.anaID})
	require.NoError(t, err)
	assert.Len(t, byClient.Orders, 1)

	other := uuid.New()
	empty, err := f.svc.ListPage(ctx, pagination.Params{}, ListFilter{ClientID: &other})
	require.NoError(t, err)
	assert.Empty(t, empty.Orders)

	completed, err := f.svc.ListPage(ctx, pagination.Params{}, ListFilter{Status: enums.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, completed.Orders)

	_, err = f.svc.ListPage(ctx, pagination.Params{}, ListFilter{Status: enums.OrderStatus("bogus")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceSetGroupPaidFansOut(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items:    []CreateOrderItemInput{{ProductID: f.diapersID, VariantID: &f.talla3ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, CreateOrderInput{
		ClientID: f.anaID,
		Items: []CreateOrderItemInput{
			{ProductID: f.diapersID, VariantID: &f.tallaMID, Quantity: 1},
			{ProductID: f.milkID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	summary, err := f.svc.SetGroupPaid(ctx, f.anaID, "Pañales", true)
	require.NoError(t, err)

	var diapers *ProductGroup
	for gi := range summary.Groups {
		if summary.Groups[gi].BaseName == "Pañales" {
			diapers = &summary.Groups[gi]
		}
	}
	require.NotNil(t, diapers)
	assert.True(t, diapers.IsPaid)
	for _, row := range diapers.Variants {
		assert.True(t, row.IsPaid, row.Label)
	}

	// Untouched milk line keeps the client balance above zero.
	assert.True(t, summary.Paid.Equal(decimal.NewFromFloat(26)), summary.Paid.String())
	assert.True(t, summary.Balance.Equal(decimal.NewFromFloat(1.50)), summary.Balance.String())

	_, err = f.svc.SetGroupPaid(ctx, f.anaID, "Inexistente", true)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
