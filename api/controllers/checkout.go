package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lucasbarrena/shoplane-backend/api/middleware"
	"github.com/lucasbarrena/shoplane-backend/api/responses"
	checkoutsvc "github.com/lucasbarrena/shoplane-backend/internal/checkout"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
	"github.com/lucasbarrena/shoplane-backend/pkg/logger"
)

// CheckoutConfirm settles the caller's cart into a paid order.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		owner := middleware.CartOwnerFromContext(r.Context())
		order, err := svc.Confirm(r.Context(), userID, owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
