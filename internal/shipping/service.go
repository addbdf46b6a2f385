package shipping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marlowpress/storefront-backend/pkg/config"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

// Quote is the exploratory fee breakdown computed before any charge.
type Quote struct {
	ShippingCents    int
	TaxesCents       int
	CCFeeOffsetCents int
	Level            enums.ShippingLevel
}

// Card processing costs 2.9% plus a fixed 30 cents; the offset passes the
// percentage of the goods value plus the fixed fee through to the buyer.
var (
	ccFeeRate  = decimal.NewFromFloat(0.029)
	ccFeeFixed = 30
)

// Service quotes shipping level, taxes and the card-fee offset for a cart
// and destination.
type Service struct {
	nexusStates map[string]struct{}
	taxRate     decimal.Decimal
}

// NewService builds the quoting service from tax configuration.
func NewService(cfg config.ShippingConfig) *Service {
	s := &Service{
		nexusStates: map[string]struct{}{},
		taxRate:     decimal.New(int64(cfg.TaxRateBPS), -4),
	}
	for _, state := range cfg.TaxNexusStates {
		state = strings.ToUpper(strings.TrimSpace(state))
		if state != "" {
			s.nexusStates[state] = struct{}{}
		}
	}
	return s
}

// Quote computes the fee breakdown for a destination, an item count and the
// cart subtotal. An address outside the serviced countries yields a typed
// ShippingUnavailable failure.
func (s *Service) Quote(address types.Address, itemCount, subtotalCents int) (*Quote, error) {
	if itemCount < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to ship")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	country := address.CountryCode()
	r, ok := rateForCountry(country)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeShippingUnavailable, "no carrier serves this destination").
			WithDetails(map[string]any{"country": country})
	}

	return &Quote{
		ShippingCents:    r.baseCents + (itemCount-1)*r.perExtraItemCents,
		TaxesCents:       s.taxCents(country, address.State, subtotalCents),
		CCFeeOffsetCents: ccFeeOffsetCents(subtotalCents),
		Level:            r.level,
	}, nil
}

func (s *Service) taxCents(country, state string, subtotalCents int) int {
	if country != "US" {
		return 0
	}
	if _, ok := s.nexusStates[strings.ToUpper(strings.TrimSpace(state))]; !ok {
		return 0
	}
	return int(decimal.NewFromInt(int64(subtotalCents)).Mul(s.taxRate).Round(0).IntPart())
}

func ccFeeOffsetCents(subtotalCents int) int {
	percentage := decimal.NewFromInt(int64(subtotalCents)).Mul(ccFeeRate).Round(0)
	return int(percentage.IntPart()) + ccFeeFixed
}
