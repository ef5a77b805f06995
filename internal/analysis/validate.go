package analysis

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yejielnehmad/community-sales-manager-sub000/internal/drafts"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
)

// UnknownProductName labels an item whose product could not be matched.
const UnknownProductName = "Producto desconocido"

// Wire shapes for the model's JSON output. Everything is optional; phase 3
// fills the gaps with declared defaults.
type rawOrder struct {
	Client         *rawClient `json:"client"`
	Items          []rawItem  `json:"items"`
	IsPaid         bool       `json:"isPaid"`
	PickupLocation string     `json:"pickupLocation"`
}

type rawClient struct {
	ID              *string `json:"id"`
	Name            string  `json:"name"`
	MatchConfidence string  `json:"matchConfidence"`
}

type rawRef struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

type rawItem struct {
	Product      *rawRef  `json:"product"`
	Variant      *rawRef  `json:"variant"`
	Quantity     *float64 `json:"quantity"`
	Status       string   `json:"status"`
	Notes        *string  `json:"notes"`
	Alternatives []rawRef `json:"alternatives"`
}

// validateOrders is the phase-3 step: every default policy for the model's
// loosely-shaped output is applied here and nowhere else. The catalog is
// keyed by product ID so the variant-required rule can see variant counts.
func validateOrders(raw []rawOrder, catalog map[uuid.UUID]*models.Product) []drafts.DraftOrder {
	out := make([]drafts.DraftOrder, 0, len(raw))
	for i := range raw {
		out = append(out, validateOrder(&raw[i], catalog))
	}
	return out
}

func validateOrder(raw *rawOrder, catalog map[uuid.UUID]*models.Product) drafts.DraftOrder {
	order := drafts.DraftOrder{
		ID:             uuid.New(),
		Client:         validateClient(raw.Client),
		Items:          make([]drafts.DraftItem, 0, len(raw.Items)),
		IsPaid:         raw.IsPaid,
		Status:         enums.DraftStatusPending,
		PickupLocation: raw.PickupLocation,
	}
	for i := range raw.Items {
		order.Items = append(order.Items, validateItem(&raw.Items[i], catalog))
	}
	return order
}

func validateClient(raw *rawClient) drafts.DraftClient {
	if raw == nil || raw.Name == "" {
		return drafts.DraftClient{
			Name:            drafts.UnknownClientName,
			MatchConfidence: enums.MatchConfidenceLow,
		}
	}
	client := drafts.DraftClient{
		ID:              parseID(raw.ID),
		Name:            raw.Name,
		MatchConfidence: enums.MatchConfidenceLow,
	}
	if confidence, err := enums.ParseMatchConfidence(raw.MatchConfidence); err == nil {
		client.MatchConfidence = confidence
	}
	return client
}

func validateItem(raw *rawItem, catalog map[uuid.UUID]*models.Product) drafts.DraftItem {
	item := drafts.DraftItem{
		Product:  drafts.ProductRef{Name: UnknownProductName},
		Quantity: 1,
		Status:   enums.ItemResolutionDoubt,
	}

	if raw.Product != nil {
		item.Product = drafts.ProductRef{ID: parseID(raw.Product.ID), Name: raw.Product.Name}
		if item.Product.Name == "" {
			item.Product.Name = UnknownProductName
		}
	}
	if raw.Variant != nil && (raw.Variant.ID != nil || raw.Variant.Name != "") {
		item.Variant = &drafts.VariantRef{ID: parseID(raw.Variant.ID), Name: raw.Variant.Name}
	}
	if raw.Notes != nil {
		item.Notes = *raw.Notes
	}
	for _, alt := range raw.Alternatives {
		if id := parseID(alt.ID); id != nil {
			item.Alternatives = append(item.Alternatives, drafts.Alternative{ID: *id, Name: alt.Name})
		}
	}

	if status, err := enums.ParseItemResolution(raw.Status); err == nil {
		item.Status = status
	}

	// Truncation decides: 0.5 becomes 0, which is as unusable as a missing
	// or negative quantity.
	defaultedQuantity := raw.Quantity == nil || int(*raw.Quantity) <= 0
	if defaultedQuantity {
		item.Status = enums.ItemResolutionDoubt
		item.Notes = appendNote(item.Notes, "Cantidad no indicada, se asumió 1")
	} else {
		item.Quantity = int(*raw.Quantity)
	}

	// A product with variants but no extracted variant is always a doubt,
	// whatever the model claimed.
	if item.Product.ID != nil && item.Variant == nil {
		if product, ok := catalog[*item.Product.ID]; ok && product.HasVariants() {
			item.Status = enums.ItemResolutionDoubt
			item.Notes = appendNote(item.Notes, fmt.Sprintf("Falta elegir la variante de %s", product.Name))
		}
	}

	if item.Product.ID == nil {
		item.Status = enums.ItemResolutionDoubt
	}
	return item
}

func parseID(raw *string) *uuid.UUID {
	if raw == nil {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + ". " + note
}
