package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marlowpress/storefront-backend/api/responses"
	"github.com/marlowpress/storefront-backend/api/validators"
	"github.com/marlowpress/storefront-backend/internal/checkout"
	"github.com/marlowpress/storefront-backend/internal/orders"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/logger"
)

// OrdersController serves order creation and confirmation mail.
type OrdersController struct {
	orders orders.Service
	logg   *logger.Logger
}

func NewOrdersController(ordersSvc orders.Service, logg *logger.Logger) *OrdersController {
	return &OrdersController{orders: ordersSvc, logg: logg}
}

// Create persists a submitted order. Submissions are idempotent by the
// client-generated order id, so a network retry cannot create a duplicate.
func (c *OrdersController) Create(w http.ResponseWriter, r *http.Request) {
	var input checkout.OrderInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.orders.Create(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, checkout.OrderResponse{OrderID: order.ID})
}

// ConfirmationEmail attempts the receipt email for an existing order.
func (c *OrdersController) ConfirmationEmail(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
		return
	}

	if err := c.orders.SendConfirmationEmail(r.Context(), orderID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, checkout.ConfirmationResponse{Sent: true})
}
