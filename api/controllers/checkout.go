package controllers

import (
	"net/http"

	"github.com/lendom/storefront-backend/api/middleware"
	"github.com/lendom/storefront-backend/api/responses"
	"github.com/lendom/storefront-backend/api/validators"
	checkoutsvc "github.com/lendom/storefront-backend/internal/checkout"
	"github.com/lendom/storefront-backend/internal/order"
	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// Checkout renders the session's order and returns the WhatsApp handoff link.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), middleware.SessionIDFromContext(r.Context()), order.CustomerInfo{
			Name:    payload.Name,
			Address: payload.Address,
			Phone:   payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
