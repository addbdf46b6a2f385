package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	pkgstripe "github.com/marlowpress/storefront-backend/pkg/stripe"
)

// Intent is the provider-side handle for a fixed charge amount.
type Intent struct {
	ID           string
	ClientSecret string
}

// Provider creates payment intents. The checkout API depends on this seam so
// tests can run against a deterministic fake.
type Provider interface {
	CreateIntent(ctx context.Context, amountCents int) (*Intent, error)
}

type stripeProvider struct {
	client *pkgstripe.Client
}

// NewStripeProvider wraps the shared Stripe client as a Provider.
func NewStripeProvider(client *pkgstripe.Client) (Provider, error) {
	if client == nil {
		return nil, errors.New("stripe client required")
	}
	return &stripeProvider{client: client}, nil
}

func (p *stripeProvider) CreateIntent(ctx context.Context, amountCents int) (*Intent, error) {
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	intent, err := p.client.CreatePaymentIntent(ctx, int64(amountCents))
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			if stripeErr.Type == stripe.ErrorTypeCard {
				return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "card was declined")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe rejected the intent")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "stripe unreachable")
	}

	return &Intent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}
