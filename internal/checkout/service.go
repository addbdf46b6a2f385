package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/marlowpress/storefront-backend/internal/cart"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/logger"
)

// State names a position in the checkout workflow. Transitions only move
// forward; a failed attempt is abandoned and a fresh Service started.
type State string

const (
	StateInit            State = "INIT"
	StateMetadataFetched State = "METADATA_FETCHED"
	StateIntentCreated   State = "INTENT_CREATED"
	StateOrderCreated    State = "ORDER_CREATED"
	StateConfirmed       State = "CONFIRMED"
	StateAborted         State = "ABORTED"
)

// Service drives one checkout attempt over a cart snapshot and an Api. All
// workflow state lives on the instance and has a single owner: steps are
// invoked sequentially by the caller, and a Service is never reused for a
// second attempt. Anticipated failures come back as typed error values;
// only out-of-order step invocation aborts the instance.
type Service struct {
	cart *cart.Cart
	api  Api
	logg *logger.Logger
	lang string

	state                     State
	metadata                  *FeeMetadata
	shippingLevel             enums.ShippingLevel
	paymentIntentID           string
	paymentIntentClientSecret string
	orderID                   uuid.UUID
}

// Option configures a Service at construction.
type Option func(*Service)

// WithMetadata seeds the fee breakdown and shipping level directly, entering
// the workflow at METADATA_FETCHED. This is the supported bypass for
// environments where the fee-quoting backend is unreliable (sandbox testing);
// it is the only way to set metadata other than GetExploratoryMetadata.
func WithMetadata(meta FeeMetadata, level enums.ShippingLevel) Option {
	return func(s *Service) {
		m := meta
		s.metadata = &m
		s.shippingLevel = level
		s.state = StateMetadataFetched
	}
}

// WithLang sets the order language recorded on submission (default "en").
func WithLang(lang string) Option {
	return func(s *Service) {
		if lang != "" {
			s.lang = lang
		}
	}
}

// NewService starts a checkout attempt for the given cart. The cart is
// cloned: later store mutations cannot shift totals mid-workflow.
func NewService(c *cart.Cart, api Api, logg *logger.Logger, opts ...Option) *Service {
	s := &Service{
		cart:  c.Clone(),
		api:   api,
		logg:  logg,
		lang:  "en",
		state: StateInit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) State() State { return s.state }

func (s *Service) ShippingLevel() enums.ShippingLevel { return s.shippingLevel }

func (s *Service) PaymentIntentID() string { return s.paymentIntentID }

func (s *Service) PaymentIntentClientSecret() string { return s.paymentIntentClientSecret }

func (s *Service) OrderID() uuid.UUID { return s.orderID }

// Metadata returns the quoted fee breakdown, or nil before it is fetched or
// supplied.
func (s *Service) Metadata() *FeeMetadata {
	if s.metadata == nil {
		return nil
	}
	m := *s.metadata
	return &m
}

// GetExploratoryMetadata quotes shipping, taxes and the card-fee offset for
// the cart's address. Permitted from INIT, and again before an intent exists
// as an idempotent refresh. A ShippingUnavailable result leaves metadata and
// shipping level unset.
func (s *Service) GetExploratoryMetadata(ctx context.Context) error {
	if err := s.requireState("GetExploratoryMetadata", StateInit, StateMetadataFetched); err != nil {
		return err
	}
	if len(s.cart.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if s.cart.Address == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart has no shipping address")
	}
	if err := s.cart.Address.Validate(); err != nil {
		return err
	}

	result, err := s.api.GetExploratoryMetadata(ctx, *s.cart.Address, s.cart.Items)
	if err != nil {
		return err
	}
	meta := result.Metadata
	s.metadata = &meta
	s.shippingLevel = result.ShippingLevel
	s.state = StateMetadataFetched
	return nil
}

// CreateOrderInitialization fixes the total amount with the payment provider
// and generates the order id. The id exists before any money moves, so every
// later step retries against the same order.
func (s *Service) CreateOrderInitialization(ctx context.Context) error {
	if err := s.requireState("CreateOrderInitialization", StateMetadataFetched); err != nil {
		return err
	}
	if s.metadata == nil {
		return s.abort("CreateOrderInitialization", "metadata not fetched or supplied")
	}

	amount := s.cart.Totals().SubtotalCents + s.metadata.Total()
	intent, err := s.api.CreateOrderInitialization(ctx, amount)
	if err != nil {
		return err
	}

	s.paymentIntentID = intent.ID
	s.paymentIntentClientSecret = intent.ClientSecret
	if s.orderID == uuid.Nil {
		s.orderID = uuid.New()
	}
	s.state = StateIntentCreated
	return nil
}

// CreateOrder submits the full order under the previously generated id.
// Permitted again from ORDER_CREATED: a network retry with the same id
// persists at most one order.
func (s *Service) CreateOrder(ctx context.Context) error {
	if err := s.requireState("CreateOrder", StateIntentCreated, StateOrderCreated); err != nil {
		return err
	}
	if s.paymentIntentID == "" {
		return s.abort("CreateOrder", "payment intent missing")
	}

	result, err := s.api.CreateOrder(ctx, s.buildOrderInput())
	if err != nil {
		return err
	}
	if result.OrderID != s.orderID {
		return s.abort("CreateOrder", fmt.Sprintf("backend acknowledged order %s, submitted %s", result.OrderID, s.orderID))
	}
	s.state = StateOrderCreated
	return nil
}

// SendOrderConfirmationEmail asks the backend to mail the receipt. The order
// already exists, so a failure here is logged and swallowed; the workflow
// still completes.
func (s *Service) SendOrderConfirmationEmail(ctx context.Context) error {
	if err := s.requireState("SendOrderConfirmationEmail", StateOrderCreated, StateConfirmed); err != nil {
		return err
	}
	if err := s.api.SendOrderConfirmationEmail(ctx, s.orderID); err != nil {
		if s.logg != nil {
			ctx = s.logg.WithOrderID(ctx, s.orderID.String())
			s.logg.Error(ctx, "order confirmation email failed", err)
		}
	}
	s.state = StateConfirmed
	return nil
}

func (s *Service) buildOrderInput() OrderInput {
	addr := *s.cart.Address
	totals := s.cart.Totals()
	input := OrderInput{
		ID:             s.orderID,
		Email:          s.cart.Email,
		AddressName:    addr.Name,
		AddressStreet:  addr.Street,
		AddressStreet2: addr.Street2,
		AddressCity:    addr.City,
		AddressState:   addr.State,
		AddressCountry: addr.CountryCode(),
		AddressZip:     addr.Zip,
		Amount:         totals.SubtotalCents + s.metadata.Total(),
		Shipping:       s.metadata.ShippingCents,
		Taxes:          s.metadata.TaxesCents,
		CCFeeOffset:    s.metadata.CCFeeOffsetCents,
		PaymentID:      s.paymentIntentID,
		ShippingLevel:  s.shippingLevel,
		Lang:           s.lang,
		Source:         enums.OrderSourceWebsite,
		PrintJobStatus: enums.PrintJobStatusPending,
	}
	for _, item := range s.cart.Items {
		input.Items = append(input.Items, OrderItemInput{
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
	return input
}

// requireState enforces step ordering. Calling a step out of order is a
// programming error, not a user-facing failure: the instance aborts.
func (s *Service) requireState(step string, allowed ...State) error {
	for _, state := range allowed {
		if s.state == state {
			return nil
		}
	}
	return s.abort(step, fmt.Sprintf("invoked in state %s", s.state))
}

func (s *Service) abort(step, reason string) error {
	s.state = StateAborted
	err := pkgerrors.New(pkgerrors.CodeWorkflowFatal, fmt.Sprintf("%s: %s", step, reason)).
		WithDetails(map[string]any{"step": step})
	if s.logg != nil {
		ctx := s.logg.WithCheckoutStep(context.Background(), step)
		s.logg.Error(ctx, "checkout aborted", err)
	}
	return err
}
