package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
)

func TestBaseName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Pañales Talla 3", "Pañales"},
		{"Pañales Talla M", "Pañales"},
		{"Pañales 500", "Pañales"},
		{"Queso Grande", "Queso"},
		{"Queso Pequeño", "Queso"},
		{"Coca G", "Coca"},
		{"Camiseta M", "Camiseta"},
		{"Leche", "Leche"},
		{"  Leche entera  ", "Leche entera"},
		// a bare suffix never strips down to nothing
		{"M", "M"},
		{"500", "500"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BaseName(tc.name), tc.name)
	}
}

func strptrAgg(s string) *string { return &s }

func aggItem(name string, variant *string, qty int, price float64, paid bool) models.OrderItem {
	p := decimal.NewFromFloat(price)
	return models.OrderItem{
		ID:          uuid.New(),
		Name:        name,
		VariantName: variant,
		Quantity:    qty,
		Price:       p,
		Total:       p.Mul(decimal.NewFromInt(int64(qty))),
		IsPaid:      paid,
	}
}

func TestBuildClientSummaryGroupsVariantsUnderOneBaseName(t *testing.T) {
	clientID := uuid.New()
	orders := []models.Order{
		{ID: uuid.New(), ClientID: clientID, Items: []models.OrderItem{
			aggItem("Pañales", strptrAgg("Talla 3"), 2, 8.50, false),
			aggItem("Pañales", strptrAgg("Talla M"), 1, 9, false),
		}},
		{ID: uuid.New(), ClientID: clientID, Items: []models.OrderItem{
			aggItem("Pañales 500", nil, 1, 12, false),
		}},
	}

	summary := BuildClientSummary(clientID, orders)
	require.Len(t, summary.Groups, 1)

	group := summary.Groups[0]
	assert.Equal(t, "Pañales", group.BaseName)
	assert.Equal(t, 4, group.Quantity)
	require.Len(t, group.Variants, 3)

	labels := make([]string, 0, len(group.Variants))
	for _, row := range group.Variants {
		labels = append(labels, row.Label)
	}
	assert.ElementsMatch(t, []string{"Talla 3", "Talla M", "Pañales"}, labels)
	assert.True(t, group.Total.Equal(decimal.NewFromFloat(38)), group.Total.String())
}

func TestBuildClientSummaryMergesDuplicateVariantRows(t *testing.T) {
	clientID := uuid.New()
	orders := []models.Order{
		{ID: uuid.New(), ClientID: clientID, Items: []models.OrderItem{
			aggItem("Pañales", strptrAgg("Talla 3"), 2, 8.50, true),
		}},
		{ID: uuid.New(), ClientID: clientID, Items: []models.OrderItem{
			aggItem("Pañales", strptrAgg("Talla 3"), 3, 8.50, false),
		}},
	}

	summary := BuildClientSummary(clientID, orders)
	require.Len(t, summary.Groups, 1)
	require.Len(t, summary.Groups[0].Variants, 1)

	row := summary.Groups[0].Variants[0]
	assert.Equal(t, 5, row.Quantity)
	assert.True(t, row.Total.Equal(decimal.NewFromFloat(42.50)), row.Total.String())
	assert.False(t, row.IsPaid, "merged row is paid only when every item is paid")
	assert.Len(t, row.ItemIDs, 2)
}

func TestGroupIsPaidRequiresAllRows(t *testing.T) {
	clientID := uuid.New()
	orders := []models.Order{
		{ID: uuid.New(), ClientID: clientID, Items: []models.OrderItem{
			aggItem("Pañales", strptrAgg("Talla 3"), 1, 8.50, true),
			aggItem("Pañales", strptrAgg("Talla M"), 1, 9, false),
		}},
	}

	summary := BuildClientSummary(clientID, orders)
	require.Len(t, summary.Groups, 1)
	assert.False(t, summary.Groups[0].IsPaid)

	orders[0].Items[1].IsPaid = true
	summary = BuildClientSummary(clientID, orders)
	assert.True(t, summary.Groups[0].IsPaid)
}

func TestClientTotalsComeFromItemsNotStoredOrderTotals(t *testing.T) {
	clientID := uuid.New()
	orders := []models.Order{
		{
			ID:       uuid.New(),
			ClientID: clientID,
			// stale stored total must be ignored
			Total: decimal.NewFromFloat(999),
			Items: []models.OrderItem{
				aggItem("Leche", nil, 2, 1.50, true),
				aggItem("Pan", nil, 1, 0.80, false),
			},
		},
	}

	summary := BuildClientSummary(clientID, orders)
	assert.True(t, summary.Total.Equal(decimal.NewFromFloat(3.80)), summary.Total.String())
	assert.True(t, summary.Paid.Equal(decimal.NewFromFloat(3)), summary.Paid.String())
	assert.True(t, summary.Balance.Equal(decimal.NewFromFloat(0.80)), summary.Balance.String())
	assert.Len(t, summary.Groups, 2)
}
