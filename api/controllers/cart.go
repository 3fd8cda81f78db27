package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lucasbarrena/shoplane-backend/api/middleware"
	"github.com/lucasbarrena/shoplane-backend/api/responses"
	"github.com/lucasbarrena/shoplane-backend/api/validators"
	cartsvc "github.com/lucasbarrena/shoplane-backend/internal/cart"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
)

type cartResponse struct {
	Items []cartsvc.LineItem `json:"items"`
}

type cartTotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

func newCartTotalsResponse(totals cartsvc.Totals) cartTotalsResponse {
	return cartTotalsResponse{
		Subtotal: totals.Subtotal.StringFixed(2),
		Shipping: totals.Shipping.StringFixed(2),
		Tax:      totals.Tax.StringFixed(2),
		Total:    totals.Total.StringFixed(2),
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1"`
}

// CartAddItem appends or increments a line in the caller's cart. The body
// may be JSON or a classic form post; quantity defaults to 1.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required"))
			return
		}

		rawProductID, quantity, err := decodeAddItem(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(rawProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		items, err := svc.AddItem(r.Context(), owner, productID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

func decodeAddItem(r *http.Request) (string, int, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/x-www-form-urlencoded") || strings.Contains(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
		}
		productID := strings.TrimSpace(r.PostFormValue("productId"))
		if productID == "" {
			productID = strings.TrimSpace(r.PostFormValue("product_id"))
		}
		if productID == "" {
			return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
		}
		quantity := 1
		if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be numeric")
			}
			quantity = parsed
		}
		return productID, quantity, nil
	}

	var payload addCartItemRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return "", 0, err
	}
	// Only an absent quantity defaults to 1; an explicit 0 must reach the
	// service so it can be rejected.
	quantity := 1
	if payload.Quantity != nil {
		quantity = *payload.Quantity
	}
	return payload.ProductID, quantity, nil
}

// CartRemoveItem drops a product line from the cart. Removing a product
// that is not present succeeds without changing anything.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		items, err := svc.RemoveItem(r.Context(), owner, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

// CartClear empties the caller's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required"))
			return
		}

		if err := svc.Clear(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: []cartsvc.LineItem{}})
	}
}

// CartGet returns the caller's current cart contents.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required"))
			return
		}

		items, err := svc.Get(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

// CartTotals returns the price breakdown, amounts formatted to two places.
func CartTotals(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required"))
			return
		}

		totals, err := svc.Totals(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartTotalsResponse(totals))
	}
}
