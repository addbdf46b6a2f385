package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/marlowpress/storefront-backend/internal/cart"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

// FeeMetadata is the pre-charge fee breakdown quoted for a cart and address.
type FeeMetadata struct {
	ShippingCents    int `json:"shippingCents"`
	TaxesCents       int `json:"taxesCents"`
	CCFeeOffsetCents int `json:"ccFeeOffsetCents"`
}

// Total sums the quoted fees.
func (m FeeMetadata) Total() int {
	return m.ShippingCents + m.TaxesCents + m.CCFeeOffsetCents
}

// MetadataResult pairs the fee breakdown with the carrier level it was
// quoted against.
type MetadataResult struct {
	Metadata      FeeMetadata
	ShippingLevel enums.ShippingLevel
}

// PaymentIntent is the provider-side handle fixing the charge amount.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// OrderItemInput is the per-edition line submitted with an order.
type OrderItemInput struct {
	EditionID      string            `json:"editionId"`
	DocumentID     string            `json:"documentId"`
	EditionType    enums.EditionType `json:"editionType"`
	Quantity       int               `json:"quantity"`
	PrintSize      enums.PrintSize   `json:"printSize"`
	NumPages       []int             `json:"numPages"`
	Title          string            `json:"title"`
	Author         string            `json:"author"`
	DisplayTitle   string            `json:"displayTitle"`
	UnitPriceCents int               `json:"unitPriceCents"`
}

// OrderInput is the full order submission. ID is generated by the client
// before any money moves; submitting the same id twice persists at most one
// order.
type OrderInput struct {
	ID                 uuid.UUID            `json:"id"`
	Email              string               `json:"email"`
	AddressName        string               `json:"addressName"`
	AddressStreet      string               `json:"addressStreet"`
	AddressStreet2     string               `json:"addressStreet2,omitempty"`
	AddressCity        string               `json:"addressCity"`
	AddressState       string               `json:"addressState"`
	AddressCountry     string               `json:"addressCountry"`
	AddressZip         string               `json:"addressZip"`
	Amount             int                  `json:"amount"`
	Shipping           int                  `json:"shipping"`
	Taxes              int                  `json:"taxes"`
	CCFeeOffset        int                  `json:"ccFeeOffset"`
	PaymentID          string               `json:"paymentId"`
	ShippingLevel      enums.ShippingLevel  `json:"shippingLevel"`
	Lang               string               `json:"lang"`
	Source             enums.OrderSource    `json:"source"`
	PrintJobStatus     enums.PrintJobStatus `json:"printJobStatus"`
	PrintJobID         *int64               `json:"printJobId,omitempty"`
	FreeOrderRequestID *uuid.UUID           `json:"freeOrderRequestId,omitempty"`
	Items              []OrderItemInput     `json:"items"`
}

// OrderResult acknowledges a persisted order.
type OrderResult struct {
	OrderID uuid.UUID
}

// Api is the transport boundary to the order/payment backend. Every call
// returns either its payload or a typed *pkgerrors.Error; transport faults
// never surface as opaque exceptions.
type Api interface {
	GetExploratoryMetadata(ctx context.Context, address types.Address, items []cart.CartItem) (*MetadataResult, error)
	CreateOrderInitialization(ctx context.Context, amountCents int) (*PaymentIntent, error)
	CreateOrder(ctx context.Context, input OrderInput) (*OrderResult, error)
	SendOrderConfirmationEmail(ctx context.Context, orderID uuid.UUID) error
}
