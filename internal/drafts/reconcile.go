package drafts

import (
	"fmt"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	apperrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
)

// SetClient resolves the draft's client to a known catalog client. Manual
// resolution is always treated as high confidence.
func SetClient(order *DraftOrder, client *models.Client) {
	id := client.ID
	order.Client = DraftClient{
		ID:              &id,
		Name:            client.Name,
		MatchConfidence: enums.MatchConfidenceHigh,
	}
}

// SetItemProduct assigns a catalog product to the item. Any previously
// selected variant is dropped since it belonged to the old product.
func SetItemProduct(order *DraftOrder, itemIndex int, product *models.Product) error {
	item, err := itemAt(order, itemIndex)
	if err != nil {
		return err
	}
	id := product.ID
	item.Product = ProductRef{ID: &id, Name: product.Name}
	item.Variant = nil
	if product.HasVariants() {
		item.Status = enums.ItemResolutionDoubt
		item.Notes = fmt.Sprintf("Selecciona una variante de %s", product.Name)
		return nil
	}
	recomputeStatus(item, false)
	return nil
}

// SetItemVariant assigns a variant to the item and recomputes the status
// from the remaining gaps. Selecting a variant resolves the variant
// requirement but an unresolved product or missing quantity still keeps
// the item in doubt.
func SetItemVariant(order *DraftOrder, itemIndex int, variant *models.ProductVariant) error {
	item, err := itemAt(order, itemIndex)
	if err != nil {
		return err
	}
	id := variant.ID
	item.Variant = &VariantRef{ID: &id, Name: variant.Name}
	recomputeStatus(item, false)
	return nil
}

// SetItemQuantity updates the quantity and recomputes the status. The
// resolved product is passed along so a still-missing required variant
// keeps the item in doubt; nil means the product is unresolved.
func SetItemQuantity(order *DraftOrder, itemIndex int, quantity int, product *models.Product) error {
	item, err := itemAt(order, itemIndex)
	if err != nil {
		return err
	}
	item.Quantity = quantity
	variantRequired := product != nil && product.HasVariants()
	recomputeStatus(item, variantRequired)
	return nil
}

// HasMissingInfo reports whether the draft still has unresolved fields and
// therefore may not be persisted yet.
func (o *DraftOrder) HasMissingInfo() bool {
	if o.Client.ID == nil {
		return true
	}
	for i := range o.Items {
		item := &o.Items[i]
		if item.Product.ID == nil || item.Status == enums.ItemResolutionDoubt || item.Quantity <= 0 {
			return true
		}
	}
	return false
}

func itemAt(order *DraftOrder, itemIndex int) (*DraftItem, error) {
	if itemIndex < 0 || itemIndex >= len(order.Items) {
		return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("item index %d out of range", itemIndex))
	}
	return &order.Items[itemIndex], nil
}

func recomputeStatus(item *DraftItem, variantRequired bool) {
	missingVariant := variantRequired && (item.Variant == nil || item.Variant.ID == nil)
	if item.Product.ID == nil || item.Quantity <= 0 || missingVariant {
		item.Status = enums.ItemResolutionDoubt
		return
	}
	item.Status = enums.ItemResolutionConfirmed
}
