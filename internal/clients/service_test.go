package clients

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewRepository(setupClientsTestDB(t)))
}

func TestServiceCreateTrimsAndValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClientInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	empty := "  "
	dto, err := svc.Create(ctx, CreateClientInput{Name: "  Ana  ", Phone: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Ana", dto.Name)
	assert.Nil(t, dto.Phone, "blank phone should be dropped")
}

func TestServiceCreateRejectsDuplicatePhone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	phone := "+34600111222"
	_, err := svc.Create(ctx, CreateClientInput{Name: "Ana", Phone: &phone})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateClientInput{Name: "Luis", Phone: &phone})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestServiceUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateClientInput{Name: "Ana"})
	require.NoError(t, err)

	name := "Ana María"
	phone := "+34600111222"
	updated, err := svc.Update(ctx, dto.ID, UpdateClientInput{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestServiceGetNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceDeleteThenGone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateClientInput{Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, dto.ID))

	err = svc.Delete(ctx, dto.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
