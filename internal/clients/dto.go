package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
)

// CreateClientInput holds the validated payload to create a client.
type CreateClientInput struct {
	Name  string
	Phone *string
}

// UpdateClientInput holds optional mutation values for a client.
type UpdateClientInput struct {
	Name  *string
	Phone *string
}

// ClientDTO is the client shape returned to the API layer.
type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClientDTO maps the persisted model into the API shape.
func NewClientDTO(client *models.Client) *ClientDTO {
	return &ClientDTO{
		ID:        client.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}
