package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/marlowpress/storefront-backend/internal/checkout"
	"github.com/marlowpress/storefront-backend/internal/mailer"
	"github.com/marlowpress/storefront-backend/pkg/db/models"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/logger"
	"github.com/marlowpress/storefront-backend/pkg/metrics"
)

// Service handles order persistence and confirmation mail.
type Service interface {
	Create(ctx context.Context, input checkout.OrderInput) (*models.Order, error)
	SendConfirmationEmail(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo    Repository
	mail    mailer.Mailer
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// NewService builds the orders service.
func NewService(repo Repository, mail mailer.Mailer, logg *logger.Logger, m *metrics.CheckoutMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	return &service{repo: repo, mail: mail, logg: logg, metrics: m}, nil
}

// Create validates and persists the submitted order. Creation is idempotent
// by the client-generated order id: replaying the same submission returns
// the already-persisted order instead of inserting a duplicate.
func (s *service) Create(ctx context.Context, input checkout.OrderInput) (*models.Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	order := orderFromInput(input)
	persisted, inserted, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, persisted.ID.String())
	}
	if inserted {
		s.metrics.IncOrderCreated()
		if s.logg != nil {
			s.logg.Info(ctx, "order created")
		}
	} else {
		s.metrics.IncOrderReplayed()
		if s.logg != nil {
			s.logg.Info(ctx, "order submission replayed, returning existing order")
		}
	}
	return persisted, nil
}

// SendConfirmationEmail mails the receipt for an existing order. One
// attempt, no queueing: the caller treats a failure as a non-fatal anomaly.
func (s *service) SendConfirmationEmail(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if err := s.mail.Send(ctx, confirmationEmail(order)); err != nil {
		s.metrics.IncEmailFailed()
		if s.logg != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, orderID.String()), "confirmation email failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send confirmation email")
	}
	return nil
}

func validateOrderInput(input checkout.OrderInput) error {
	if input.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	if input.PaymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	if !input.ShippingLevel.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping level")
	}
	if !input.Source.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order source")
	}
	if !input.PrintJobStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown print job status")
	}

	subtotal := 0
	for idx, item := range input.Items {
		if !item.EditionType.IsValid() || !item.PrintSize.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d has unknown edition type or print size", idx))
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d has non-positive quantity", idx))
		}
		subtotal += item.UnitPriceCents * item.Quantity
	}

	expected := subtotal + input.Shipping + input.Taxes + input.CCFeeOffset
	if input.Amount != expected {
		return pkgerrors.New(pkgerrors.CodeValidation, "order amount does not match items plus fees").
			WithDetails(map[string]any{"submitted": input.Amount, "computed": expected})
	}
	return nil
}

func orderFromInput(input checkout.OrderInput) *models.Order {
	order := &models.Order{
		ID:                 input.ID,
		Email:              input.Email,
		AddressName:        input.AddressName,
		AddressStreet:      input.AddressStreet,
		AddressStreet2:     input.AddressStreet2,
		AddressCity:        input.AddressCity,
		AddressState:       input.AddressState,
		AddressCountry:     input.AddressCountry,
		AddressZip:         input.AddressZip,
		AmountCents:        input.Amount,
		ShippingCents:      input.Shipping,
		TaxesCents:         input.Taxes,
		CCFeeOffsetCents:   input.CCFeeOffset,
		PaymentID:          input.PaymentID,
		ShippingLevel:      input.ShippingLevel,
		Lang:               input.Lang,
		Source:             input.Source,
		PrintJobStatus:     input.PrintJobStatus,
		PrintJobID:         input.PrintJobID,
		FreeOrderRequestID: input.FreeOrderRequestID,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			EditionID:      item.EditionID,
			DocumentID:     item.DocumentID,
			EditionType:    item.EditionType,
			Quantity:       item.Quantity,
			PrintSize:      item.PrintSize,
			NumPages:       item.NumPages,
			Title:          item.Title,
			Author:         item.Author,
			DisplayTitle:   item.DisplayTitle,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return order
}

func confirmationEmail(order *models.Order) mailer.Email {
	return mailer.Email{
		To:      order.Email,
		Subject: "Your order is confirmed",
		Body: fmt.Sprintf(
			"Thank you for your order.\n\nOrder: %s\nTotal: $%d.%02d\n\nYour books will ship as soon as printing completes.",
			order.ID, order.AmountCents/100, order.AmountCents%100,
		),
	}
}
