package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
)

func TestSerializeProducts(t *testing.T) {
	milkID := uuid.New()
	diaperID := uuid.New()
	sizeID := uuid.New()

	products := []models.Product{
		{ID: milkID, Name: "Leche", Price: decimal.NewFromFloat(1.20)},
		{ID: diaperID, Name: "Pañales", Variants: []models.ProductVariant{
			{ID: sizeID, ProductID: diaperID, Name: "Talla 3"},
		}},
	}

	out := SerializeProducts(products)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Producto: Leche (ID: "+milkID.String()+"). Sin variantes", lines[0])
	assert.Equal(t, "Producto: Pañales (ID: "+diaperID.String()+"). Variantes: Talla 3 (ID: "+sizeID.String()+")", lines[1])
}

func TestSerializeClients(t *testing.T) {
	anaID := uuid.New()
	luisID := uuid.New()
	phone := "+34600111222"

	clients := []models.Client{
		{ID: anaID, Name: "Ana"},
		{ID: luisID, Name: "Luis", Phone: &phone},
	}

	out := SerializeClients(clients)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Cliente: Ana (ID: "+anaID.String()+")", lines[0])
	assert.Equal(t, "Cliente: Luis (ID: "+luisID.String()+"), Teléfono: +34600111222", lines[1])
}

func TestBuildPromptSubstitutesAllPlaceholders(t *testing.T) {
	out := BuildPrompt(DefaultTemplate, "PRODUCTOS", "CLIENTES", "MENSAJE")
	assert.NotContains(t, out, PlaceholderProducts)
	assert.NotContains(t, out, PlaceholderClients)
	assert.NotContains(t, out, PlaceholderMessage)
	assert.Contains(t, out, "PRODUCTOS")
	assert.Contains(t, out, "CLIENTES")
	assert.Contains(t, out, "MENSAJE")
}

func TestValidateTemplateRejectsMissingPlaceholders(t *testing.T) {
	err := ValidateTemplate("solo {messageText}")
	require.Error(t, err)

	err = ValidateTemplate("{productsContext} {clientsContext} {messageText}")
	require.NoError(t, err)
}

type fakeTemplateCache struct {
	data map[string]string
}

func newFakeTemplateCache() *fakeTemplateCache {
	return &fakeTemplateCache{data: make(map[string]string)}
}

func (f *fakeTemplateCache) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeTemplateCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeTemplateCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeTemplateCache) TemplateKey(name string) string {
	return "csm:template:" + name
}

func TestTemplatesOverrideLifecycle(t *testing.T) {
	ctx := context.Background()
	templates := NewTemplates(newFakeTemplateCache())

	current, err := templates.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, current)

	custom := "Pedido: {messageText}\n{productsContext}\n{clientsContext}"
	require.NoError(t, templates.SetCurrent(ctx, custom))

	current, err = templates.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, current)

	require.Error(t, templates.SetCurrent(ctx, "sin placeholders"))

	require.NoError(t, templates.Reset(ctx))
	current, err = templates.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, current)
}
