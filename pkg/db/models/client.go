package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a registered customer of the small business.
type Client struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	Orders    []Order   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
