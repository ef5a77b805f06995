package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/yejielnehmad/community-sales-manager-sub000/api/responses"
	"github.com/yejielnehmad/community-sales-manager-sub000/api/validators"
	productsvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/products"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
)

type variantRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type createProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Price       decimal.Decimal  `json:"price"`
	Description *string          `json:"description,omitempty"`
	Variants    []variantRequest `json:"variants,omitempty"`
}

type updateProductRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=1"`
	Price       *decimal.Decimal  `json:"price,omitempty"`
	Description *string           `json:"description,omitempty"`
	Variants    *[]variantRequest `json:"variants,omitempty"`
}

func toVariantInputs(reqs []variantRequest) []productsvc.VariantInput {
	out := make([]productsvc.VariantInput, 0, len(reqs))
	for _, v := range reqs {
		out = append(out, productsvc.VariantInput{Name: v.Name, Price: v.Price})
	}
	return out
}

func CreateProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateProductInput{
			Name:        validators.SanitizeString(payload.Name, 200),
			Price:       payload.Price,
			Description: payload.Description,
			Variants:    toVariantInputs(payload.Variants),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:        payload.Name,
			Price:       payload.Price,
			Description: payload.Description,
		}
		if payload.Variants != nil {
			variants := toVariantInputs(*payload.Variants)
			input.Variants = &variants
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ListProducts(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}
