package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
)

// ListFilter narrows the paginated order listing. Zero values mean no filter.
type ListFilter struct {
	ClientID *uuid.UUID
	Status   enums.OrderStatus
}

// CreateOrderItemInput is one confirmed line on a new order.
type CreateOrderItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	IsPaid    bool
}

// CreateOrderInput is the payload to persist a reviewed draft as an order.
type CreateOrderInput struct {
	ClientID   uuid.UUID
	Date       *time.Time
	AmountPaid decimal.Decimal
	Metadata   map[string]any
	Items      []CreateOrderItemInput
}

// OrderItemDTO is the item shape returned to the API layer.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	Name        string          `json:"name"`
	VariantName *string         `json:"variant_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	IsPaid      bool            `json:"is_paid"`
}

// OrderDTO is the order shape returned to the API layer.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	ClientID   uuid.UUID         `json:"client_id"`
	ClientName string            `json:"client_name,omitempty"`
	Date       time.Time         `json:"date"`
	Status     enums.OrderStatus `json:"status"`
	Total      decimal.Decimal   `json:"total"`
	AmountPaid decimal.Decimal   `json:"amount_paid"`
	Balance    decimal.Decimal   `json:"balance"`
	Items      []OrderItemDTO    `json:"items"`
}

// NewOrderDTO maps the persisted model into the API shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:         order.ID,
		ClientID:   order.ClientID,
		Date:       order.Date,
		Status:     order.Status,
		Total:      order.Total,
		AmountPaid: order.AmountPaid,
		Balance:    order.Balance,
		Items:      make([]OrderItemDTO, 0, len(order.Items)),
	}
	if order.Client != nil {
		dto.ClientName = order.Client.Name
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.Name,
			VariantName: item.VariantName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
			IsPaid:      item.IsPaid,
		})
	}
	return dto
}
