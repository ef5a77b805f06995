package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	pkgerrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
)

// Service exposes client management operations.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}

	client := &models.Client{
		ID:    uuid.New(),
		Name:  name,
		Phone: normalizePhone(input.Phone),
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert client")
	}
	return NewClientDTO(created), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name cannot be empty")
		}
		client.Name = name
	}
	if input.Phone != nil {
		client.Phone = normalizePhone(input.Phone)
	}

	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update client")
	}
	return NewClientDTO(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findClient(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete client")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewClientDTO(client), nil
}

func (s *Service) List(ctx context.Context, limit int) ([]ClientDTO, error) {
	clients, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clients")
	}
	out := make([]ClientDTO, 0, len(clients))
	for i := range clients {
		out = append(out, *NewClientDTO(&clients[i]))
	}
	return out, nil
}

// ListClients feeds the analysis prompt context.
func (s *Service) ListClients(ctx context.Context, limit int) ([]models.Client, error) {
	clients, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clients")
	}
	return clients, nil
}

// FindModel loads the raw model, for collaborators that reconcile drafts.
func (s *Service) FindModel(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return s.findClient(ctx, id)
}

func (s *Service) findClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load client")
	}
	return client, nil
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
