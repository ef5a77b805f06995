package orders

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
)

// Ordered variant-suffix patterns. First match wins; a name matching none
// is its own base name.
var baseNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+talla\s+\S+$`),
	regexp.MustCompile(`(?i)\s+(grande|mediano|mediana|pequeño|pequeña)$`),
	regexp.MustCompile(`(?i)\s+[XSML]$`),
	regexp.MustCompile(`(?i)\s+[GMP]$`),
	regexp.MustCompile(`\s+\d+([.,]\d+)?$`),
}

// BaseName strips a variant-style suffix from an item display name so
// related SKUs group together.
func BaseName(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, pattern := range baseNamePatterns {
		if loc := pattern.FindStringIndex(trimmed); loc != nil {
			base := strings.TrimSpace(trimmed[:loc[0]])
			if base != "" {
				return base
			}
		}
	}
	return trimmed
}

// VariantRow is one merged line inside a product group.
type VariantRow struct {
	Label    string          `json:"label"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	IsPaid   bool            `json:"is_paid"`
	ItemIDs  []uuid.UUID     `json:"item_ids"`
}

// ProductGroup aggregates a client's items that share a base product name.
type ProductGroup struct {
	BaseName string          `json:"base_name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	IsPaid   bool            `json:"is_paid"`
	Variants []VariantRow    `json:"variants"`
}

// ClientSummary is the derived view over all of a client's orders. Totals
// are computed from the items themselves, not from stored order totals.
type ClientSummary struct {
	ClientID uuid.UUID       `json:"client_id"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Balance  decimal.Decimal `json:"balance"`
	Groups   []ProductGroup  `json:"groups"`
}

// BuildClientSummary groups every item across the client's orders by base
// product name, merging duplicate variant labels. It is pure computation,
// safe to re-run on every read.
func BuildClientSummary(clientID uuid.UUID, orders []models.Order) *ClientSummary {
	summary := &ClientSummary{
		ClientID: clientID,
		Total:    decimal.Zero,
		Paid:     decimal.Zero,
		Balance:  decimal.Zero,
		Groups:   []ProductGroup{},
	}
	groupIndex := make(map[string]int)

	for oi := range orders {
		for ii := range orders[oi].Items {
			item := &orders[oi].Items[ii]
			lineTotal := item.LineTotal()
			summary.Total = summary.Total.Add(lineTotal)
			if item.IsPaid {
				summary.Paid = summary.Paid.Add(lineTotal)
			}

			base := BaseName(item.DisplayName())
			gi, ok := groupIndex[base]
			if !ok {
				gi = len(summary.Groups)
				groupIndex[base] = gi
				summary.Groups = append(summary.Groups, ProductGroup{
					BaseName: base,
					Total:    decimal.Zero,
					Variants: []VariantRow{},
				})
			}
			group := &summary.Groups[gi]

			label := base
			if item.VariantName != nil && *item.VariantName != "" {
				label = *item.VariantName
			}
			mergeVariantRow(group, label, item)
		}
	}

	for gi := range summary.Groups {
		group := &summary.Groups[gi]
		group.Quantity = 0
		group.Total = decimal.Zero
		group.IsPaid = len(group.Variants) > 0
		for _, row := range group.Variants {
			group.Quantity += row.Quantity
			group.Total = group.Total.Add(row.Total)
			if !row.IsPaid {
				group.IsPaid = false
			}
		}
	}

	summary.Balance = summary.Total.Sub(summary.Paid)
	if summary.Balance.IsNegative() {
		summary.Balance = decimal.Zero
	}
	return summary
}

func mergeVariantRow(group *ProductGroup, label string, item *models.OrderItem) {
	for ri := range group.Variants {
		row := &group.Variants[ri]
		if row.Label != label {
			continue
		}
		row.Quantity += item.Quantity
		row.Total = row.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		row.IsPaid = row.IsPaid && item.IsPaid
		row.ItemIDs = append(row.ItemIDs, item.ID)
		return
	}
	group.Variants = append(group.Variants, VariantRow{
		Label:    label,
		Quantity: item.Quantity,
		Price:    item.Price,
		Total:    item.LineTotal(),
		IsPaid:   item.IsPaid,
		ItemIDs:  []uuid.UUID{item.ID},
	})
}
