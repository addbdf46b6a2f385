package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marlowpress/storefront-backend/internal/cart"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

const clientResponseReadLimit int64 = 1 << 20

// Client is the JSON-over-HTTP implementation of Api against the order API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures optional client behavior.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a client for the given order-API origin. The origin is
// resolved once from configuration (config.CheckoutBaseURL) and stays fixed
// for the lifetime of a workflow.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("order api base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// MetadataRequest is the wire payload for the fee quote endpoint.
type MetadataRequest struct {
	Address types.Address    `json:"address"`
	Items   []OrderItemInput `json:"items" validate:"min=1,dive"`
}

// MetadataResponse is the fee quote payload.
type MetadataResponse struct {
	ShippingCents    int    `json:"shippingCents"`
	TaxesCents       int    `json:"taxesCents"`
	CCFeeOffsetCents int    `json:"ccFeeOffsetCents"`
	ShippingLevel    string `json:"shippingLevel"`
}

// PaymentIntentRequest is the wire payload for order initialization.
type PaymentIntentRequest struct {
	AmountCents int `json:"amountCents" validate:"gt=0"`
}

// PaymentIntentResponse carries the provider handle for the fixed amount.
type PaymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
}

// OrderResponse acknowledges order creation.
type OrderResponse struct {
	OrderID uuid.UUID `json:"orderId"`
}

// ConfirmationResponse acknowledges a confirmation email send.
type ConfirmationResponse struct {
	Sent bool `json:"sent"`
}

func (c *Client) GetExploratoryMetadata(ctx context.Context, address types.Address, items []cart.CartItem) (*MetadataResult, error) {
	payload := MetadataRequest{Address: address}
	for _, item := range items {
		payload.Items = append(payload.Items, OrderItemInput{
			EditionID:      item.EditionID,
			DocumentID:     item.DocumentID,
			EditionType:    item.EditionType,
			Quantity:       item.Quantity,
			PrintSize:      item.PrintSize,
			NumPages:       item.NumPages,
			Title:          item.Title,
			Author:         item.Author,
			DisplayTitle:   item.DisplayTitle,
			UnitPriceCents: cart.DefaultPriceTable.PriceCents(item),
		})
	}

	var body MetadataResponse
	if err := c.post(ctx, "/checkout/metadata", payload, &body); err != nil {
		return nil, err
	}
	level, err := enums.ParseShippingLevel(body.ShippingLevel)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeWorkflowFatal, err, "backend returned unknown shipping level")
	}
	return &MetadataResult{
		Metadata: FeeMetadata{
			ShippingCents:    body.ShippingCents,
			TaxesCents:       body.TaxesCents,
			CCFeeOffsetCents: body.CCFeeOffsetCents,
		},
		ShippingLevel: level,
	}, nil
}

func (c *Client) CreateOrderInitialization(ctx context.Context, amountCents int) (*PaymentIntent, error) {
	var body PaymentIntentResponse
	if err := c.post(ctx, "/checkout/payment-intent", PaymentIntentRequest{AmountCents: amountCents}, &body); err != nil {
		return nil, err
	}
	if body.PaymentIntentID == "" || body.ClientSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeWorkflowFatal, "backend returned incomplete payment intent")
	}
	return &PaymentIntent{ID: body.PaymentIntentID, ClientSecret: body.ClientSecret}, nil
}

func (c *Client) CreateOrder(ctx context.Context, input OrderInput) (*OrderResult, error) {
	var body OrderResponse
	if err := c.post(ctx, "/orders", input, &body); err != nil {
		return nil, err
	}
	if body.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeWorkflowFatal, "backend returned no order id")
	}
	return &OrderResult{OrderID: body.OrderID}, nil
}

func (c *Client) SendOrderConfirmationEmail(ctx context.Context, orderID uuid.UUID) error {
	var body ConfirmationResponse
	return c.post(ctx, fmt.Sprintf("/orders/%s/confirmation-email", orderID), struct{}{}, &body)
}

func (c *Client) post(ctx context.Context, path string, payload any, dest any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "order api unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, clientResponseReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "read order api response")
	}

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Data == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("order api returned unexpected body (status %d)", resp.StatusCode))
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order api payload")
	}
	return nil
}

func decodeAPIError(status int, raw []byte) error {
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		if code, ok := pkgerrors.ParseCode(envelope.Error.Code); ok {
			return pkgerrors.New(code, envelope.Error.Message)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, envelope.Error.Message)
	}
	if status >= 500 {
		return pkgerrors.New(pkgerrors.CodeNetwork, fmt.Sprintf("order api failed with status %d", status))
	}
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("order api rejected request with status %d", status))
}
