package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yejielnehmad/community-sales-manager-sub000/api/responses"
	"github.com/yejielnehmad/community-sales-manager-sub000/api/validators"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/analysis"
	clientsvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/clients"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/drafts"
	ordersvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/orders"
	productsvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/products"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	pkgerrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
)

type analyzeRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type analyzeResponse struct {
	Drafts  []drafts.DraftOrder `json:"drafts"`
	Elapsed int64               `json:"elapsed_ms"`
}

// AnalyzeMessage runs the full extraction pipeline and answers with the
// validated drafts. Progress is observable through the draft document.
func AnalyzeMessage(svc *analysis.Service, store *drafts.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload analyzeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := store.StartMessage(r.Context(), payload.SessionID, payload.Message); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Analyze(r.Context(), payload.SessionID, payload.Message, nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analyzeResponse{
			Drafts:  result.Drafts,
			Elapsed: result.Elapsed.Milliseconds(),
		})
	}
}

func CancelAnalysis(svc *analysis.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}
		cancelled := svc.Cancel(sessionID)
		responses.WriteSuccess(w, map[string]bool{"cancelled": cancelled})
	}
}

func GetDrafts(store *drafts.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")
		doc, err := store.Load(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func ClearDrafts(store *drafts.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")
		if err := store.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

type setDraftClientRequest struct {
	ClientID uuid.UUID `json:"client_id" validate:"required"`
}

type setDraftProductRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type setDraftVariantRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
}

type setDraftQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// DraftReconciler bundles the collaborators the draft edit endpoints need.
type DraftReconciler struct {
	Store    *drafts.Store
	Clients  *clientsvc.Service
	Products *productsvc.Service
}

func (d *DraftReconciler) mutate(r *http.Request, apply func(*drafts.DraftOrder) error) (*drafts.Document, error) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionId")

	orderID, err := parseIDParam(r, "draftId")
	if err != nil {
		return nil, err
	}

	doc, err := d.Store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var order *drafts.DraftOrder
	for i := range doc.Drafts {
		if doc.Drafts[i].ID == orderID {
			order = &doc.Drafts[i]
			break
		}
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft order not found")
	}

	if err := apply(order); err != nil {
		return nil, err
	}
	if err := d.Store.Save(ctx, sessionID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func SetDraftClient(rec *DraftReconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setDraftClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := rec.mutate(r, func(order *drafts.DraftOrder) error {
			client, err := rec.Clients.FindModel(r.Context(), payload.ClientID)
			if err != nil {
				return err
			}
			drafts.SetClient(order, client)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func itemIndexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "itemIndex")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid item index").
			WithDetails(map[string]any{"itemIndex": raw})
	}
	return index, nil
}

func SetDraftItemProduct(rec *DraftReconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := itemIndexParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDraftProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := rec.mutate(r, func(order *drafts.DraftOrder) error {
			product, err := rec.Products.FindModel(r.Context(), payload.ProductID)
			if err != nil {
				return err
			}
			return drafts.SetItemProduct(order, index, product)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func SetDraftItemVariant(rec *DraftReconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := itemIndexParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDraftVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := rec.mutate(r, func(order *drafts.DraftOrder) error {
			if index < 0 || index >= len(order.Items) {
				return pkgerrors.New(pkgerrors.CodeValidation, "item index out of range")
			}
			item := order.Items[index]
			if item.Product.ID == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "item has no resolved product")
			}
			variant, err := rec.Products.FindVariant(r.Context(), *item.Product.ID, payload.VariantID)
			if err != nil {
				return err
			}
			return drafts.SetItemVariant(order, index, variant)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func SetDraftItemQuantity(rec *DraftReconciler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := itemIndexParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDraftQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := rec.mutate(r, func(order *drafts.DraftOrder) error {
			var product *models.Product
			if index < len(order.Items) && order.Items[index].Product.ID != nil {
				loaded, findErr := rec.Products.FindModel(r.Context(), *order.Items[index].Product.ID)
				if findErr != nil {
					return findErr
				}
				product = loaded
			}
			return drafts.SetItemQuantity(order, index, payload.Quantity, product)
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

type confirmDraftResponse struct {
	Order  *ordersvc.OrderDTO `json:"order"`
	Drafts *drafts.Document   `json:"drafts"`
}

// ConfirmDraft persists a fully resolved draft as a real order and marks the
// draft saved. Drafts with unresolved fields or already saved are rejected.
func ConfirmDraft(rec *DraftReconciler, orders *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := chi.URLParam(r, "sessionId")

		draftID, err := parseIDParam(r, "draftId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		doc, err := rec.Store.Load(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var order *drafts.DraftOrder
		for i := range doc.Drafts {
			if doc.Drafts[i].ID == draftID {
				order = &doc.Drafts[i]
				break
			}
		}
		if order == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "draft order not found"))
			return
		}
		if order.Status == enums.DraftStatusSaved {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is already saved"))
			return
		}
		if order.HasMissingInfo() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "draft has unresolved fields"))
			return
		}

		input := ordersvc.CreateOrderInput{
			ClientID: *order.Client.ID,
			Metadata: map[string]any{"source": "analysis", "sessionId": sessionID},
		}
		if order.PickupLocation != "" {
			input.Metadata["pickupLocation"] = order.PickupLocation
		}
		for _, item := range order.Items {
			line := ordersvc.CreateOrderItemInput{
				ProductID: *item.Product.ID,
				Quantity:  item.Quantity,
				IsPaid:    order.IsPaid,
			}
			if item.Variant != nil && item.Variant.ID != nil {
				variantID := *item.Variant.ID
				line.VariantID = &variantID
			}
			input.Items = append(input.Items, line)
		}

		created, err := orders.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order.Status = enums.DraftStatusSaved
		if err := rec.Store.Save(ctx, sessionID, doc); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmDraftResponse{Order: created, Drafts: doc})
	}
}

type setTemplateRequest struct {
	Template string `json:"template" validate:"required"`
}

func GetAnalysisTemplate(svc *analysis.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		template, err := svc.Templates().Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"template": template})
	}
}

func SetAnalysisTemplate(svc *analysis.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setTemplateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Templates().SetCurrent(r.Context(), payload.Template); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "saved"})
	}
}

func ResetAnalysisTemplate(svc *analysis.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Templates().Reset(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}
