package controllers

import (
	"net/http"

	"github.com/marlowpress/storefront-backend/api/responses"
	"github.com/marlowpress/storefront-backend/api/validators"
	"github.com/marlowpress/storefront-backend/internal/checkout"
	"github.com/marlowpress/storefront-backend/internal/payments"
	"github.com/marlowpress/storefront-backend/internal/shipping"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/logger"
	"github.com/marlowpress/storefront-backend/pkg/metrics"
)

// CheckoutController serves the pre-order half of checkout: fee quotes and
// payment intents.
type CheckoutController struct {
	shipping *shipping.Service
	payments payments.Provider
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
}

func NewCheckoutController(shippingSvc *shipping.Service, provider payments.Provider, logg *logger.Logger, m *metrics.CheckoutMetrics) *CheckoutController {
	return &CheckoutController{shipping: shippingSvc, payments: provider, logg: logg, metrics: m}
}

// Metadata quotes shipping, taxes and the card-fee offset for a cart and
// address before anything is charged.
func (c *CheckoutController) Metadata(w http.ResponseWriter, r *http.Request) {
	var req checkout.MetadataRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	itemCount := 0
	subtotalCents := 0
	for _, item := range req.Items {
		itemCount += item.Quantity
		subtotalCents += item.UnitPriceCents * item.Quantity
	}

	quote, err := c.shipping.Quote(req.Address, itemCount, subtotalCents)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeShippingUnavailable) {
			c.metrics.IncQuoteUnavailable()
		}
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, checkout.MetadataResponse{
		ShippingCents:    quote.ShippingCents,
		TaxesCents:       quote.TaxesCents,
		CCFeeOffsetCents: quote.CCFeeOffsetCents,
		ShippingLevel:    quote.Level.String(),
	})
}

// PaymentIntent fixes the submitted amount with the payment provider.
func (c *CheckoutController) PaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req checkout.PaymentIntentRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	intent, err := c.payments.CreateIntent(r.Context(), req.AmountCents)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, checkout.PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	})
}
