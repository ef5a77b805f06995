package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/types"
)

// Order is a persisted customer order. Total and balance are derived from the
// current items and recomputed inside the same transaction as any item
// mutation; they are never edited independently.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID   uuid.UUID         `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	Date       time.Time         `gorm:"column:date;not null" json:"date"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	Total      decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	AmountPaid decimal.Decimal   `gorm:"column:amount_paid;type:numeric(12,2);not null" json:"amount_paid"`
	Balance    decimal.Decimal   `gorm:"column:balance;type:numeric(12,2);not null" json:"balance"`
	Metadata   *types.JSONMap    `gorm:"column:metadata;type:jsonb;serializer:json" json:"metadata,omitempty"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Client     *Client           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
