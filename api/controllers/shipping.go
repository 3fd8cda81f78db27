package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/lucasbarrena/shoplane-backend/api/middleware"
	"github.com/lucasbarrena/shoplane-backend/api/responses"
	shippingsvc "github.com/lucasbarrena/shoplane-backend/internal/shipping"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
)

// ShippingSubmit validates and stores shipping details for the checkout
// window. Validation stops at the first empty field.
func ShippingSubmit(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required"))
			return
		}

		var details shippingsvc.Details
		if err := decodeShippingBody(r, &details); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// The stored user id always comes from the session, never the body.
		details.UserID = middleware.UserIDFromContext(r.Context())

		if err := svc.Save(r.Context(), owner, details); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, details)
	}
}

// ShippingGet returns the stored shipping details, if still within TTL.
func ShippingGet(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		if owner == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required"))
			return
		}

		details, err := svc.Get(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, details)
	}
}

// decodeShippingBody deliberately skips struct-tag validation: field-order
// fail-fast checks live in Details.Validate.
func decodeShippingBody(r *http.Request, dest *shippingsvc.Details) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}
