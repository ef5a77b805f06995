package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	pkgerrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/pagination"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// catalogReader resolves products and variants so item names and prices can
// be snapshotted at order time.
type catalogReader interface {
	FindModel(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error)
}

type clientReader interface {
	FindModel(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// Service exposes order persistence and the derived per-client views.
type Service struct {
	repo     *Repository
	txRunner txRunner
	catalog  catalogReader
	clients  clientReader
}

func NewService(repo *Repository, txRunner txRunner, catalog catalogReader, clients clientReader) *Service {
	return &Service{repo: repo, txRunner: txRunner, catalog: catalog, clients: clients}
}

// Create persists a reviewed order. Everything is written in one transaction
// so a failure leaves no partial order behind.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if input.AmountPaid.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid cannot be negative")
	}
	if _, err := s.clients.FindModel(ctx, input.ClientID); err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:       uuid.New(),
		ClientID: input.ClientID,
		Date:     time.Now().UTC(),
		Status:   enums.OrderStatusPending,
		Items:    items,
	}
	if input.Date != nil {
		order.Date = *input.Date
	}
	if len(input.Metadata) > 0 {
		meta := types.JSONMap(input.Metadata)
		order.Metadata = &meta
	}

	order.Total = sumLineTotals(items)
	order.AmountPaid = input.AmountPaid
	if order.AmountPaid.IsZero() {
		order.AmountPaid = sumPaidLineTotals(items)
	}
	order.Balance = clampBalance(order.Total, order.AmountPaid)

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return s.Get(ctx, order.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

// OrderPage is one cursor page of orders.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ListPage pages through all orders with an opaque cursor.
func (s *Service) ListPage(ctx context.Context, params pagination.Params, filter ListFilter) (*OrderPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", filter.Status))
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListPage(ctx, cursor, pagination.LimitWithBuffer(params.Limit), filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders page")
	}

	page := &OrderPage{Orders: make([]OrderDTO, 0, limit)}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		page.Orders = append(page.Orders, *NewOrderDTO(&rows[i]))
	}
	return page, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]OrderDTO, error) {
	orders, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list client orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *NewOrderDTO(&orders[i]))
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findOrder(ctx, id); err != nil {
		return err
	}
	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	return nil
}

// UpdateItemQuantity edits one line and recomputes the parent order's
// totals inside the same transaction.
func (s *Service) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*OrderDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.Total = item.LineTotal()
	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}
		return s.recomputeTotals(ctx, txRepo, item.OrderID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item quantity")
	}
	return s.Get(ctx, item.OrderID)
}

// SetItemPaid flips one line's paid flag and refreshes the order's paid
// amount and balance.
func (s *Service) SetItemPaid(ctx context.Context, itemID uuid.UUID, isPaid bool) (*OrderDTO, error) {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.IsPaid = isPaid
	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}
		return s.recomputeTotals(ctx, txRepo, item.OrderID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set item paid")
	}
	return s.Get(ctx, item.OrderID)
}

// DeleteItem removes one line. Deleting the last line leaves an empty order
// with zero totals rather than deleting the order itself.
func (s *Service) DeleteItem(ctx context.Context, itemID uuid.UUID) (*OrderDTO, error) {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteItem(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
		}
		return s.recomputeTotals(ctx, txRepo, item.OrderID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return s.Get(ctx, item.OrderID)
}

// ClientSummary builds the grouped per-client view from the client's
// current orders.
func (s *Service) ClientSummary(ctx context.Context, clientID uuid.UUID) (*ClientSummary, error) {
	if _, err := s.clients.FindModel(ctx, clientID); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list client orders")
	}
	return BuildClientSummary(clientID, orders), nil
}

// SetGroupPaid toggles every item in a product group, one item at a time.
// Failures do not stop the fan-out; they are collected and returned
// together, so some items may end up toggled while others are not.
func (s *Service) SetGroupPaid(ctx context.Context, clientID uuid.UUID, baseName string, isPaid bool) (*ClientSummary, error) {
	summary, err := s.ClientSummary(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var group *ProductGroup
	for gi := range summary.Groups {
		if summary.Groups[gi].BaseName == baseName {
			group = &summary.Groups[gi]
			break
		}
	}
	if group == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product group not found: "+baseName)
	}

	var toggleErr error
	for _, row := range group.Variants {
		for _, itemID := range row.ItemIDs {
			if _, err := s.SetItemPaid(ctx, itemID, isPaid); err != nil {
				toggleErr = multierr.Append(toggleErr, fmt.Errorf("item %s: %w", itemID, err))
			}
		}
	}
	if toggleErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, toggleErr, "group paid fan-out incomplete")
	}
	return s.ClientSummary(ctx, clientID)
}

func (s *Service) buildItems(ctx context.Context, inputs []CreateOrderItemInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be positive", i))
		}
		product, err := s.catalog.FindModel(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}

		item := models.OrderItem{
			ID:        uuid.New(),
			ProductID: &product.ID,
			Name:      product.Name,
			Quantity:  in.Quantity,
			Price:     product.Price,
			IsPaid:    in.IsPaid,
		}
		if product.HasVariants() {
			if in.VariantID == nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: %s requires a variant", i, product.Name))
			}
			variant, err := s.catalog.FindVariant(ctx, product.ID, *in.VariantID)
			if err != nil {
				return nil, err
			}
			item.VariantID = &variant.ID
			item.VariantName = &variant.Name
			item.Price = variant.Price
		}
		item.Total = item.LineTotal()
		items = append(items, item)
	}
	return items, nil
}

// recomputeTotals rereads the order's items and rewrites the aggregate
// columns. amount_paid tracks the paid item lines.
func (s *Service) recomputeTotals(ctx context.Context, txRepo *Repository, orderID uuid.UUID) error {
	items, err := txRepo.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list order items")
	}
	order := &models.Order{ID: orderID}
	order.Total = sumLineTotals(items)
	order.AmountPaid = sumPaidLineTotals(items)
	order.Balance = clampBalance(order.Total, order.AmountPaid)
	if err := txRepo.UpdateTotals(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order totals")
	}
	return nil
}

func (s *Service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func (s *Service) findItem(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order item")
	}
	return item, nil
}

func sumLineTotals(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total
}

func sumPaidLineTotals(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		if items[i].IsPaid {
			total = total.Add(items[i].LineTotal())
		}
	}
	return total
}

func clampBalance(total, amountPaid decimal.Decimal) decimal.Decimal {
	balance := total.Sub(amountPaid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}
