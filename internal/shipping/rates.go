package shipping

import "github.com/marlowpress/storefront-backend/pkg/enums"

// rate is the cheapest serviceable carrier class for a destination group,
// priced per shipment plus a per-additional-book increment.
type rate struct {
	level             enums.ShippingLevel
	baseCents         int
	perExtraItemCents int
}

var domesticRate = rate{level: enums.ShippingLevelMail, baseCents: 399, perExtraItemCents: 125}

var internationalRates = map[string]rate{
	"CA": {level: enums.ShippingLevelPriorityMail, baseCents: 899, perExtraItemCents: 199},
	"MX": {level: enums.ShippingLevelPriorityMail, baseCents: 899, perExtraItemCents: 199},
	"GB": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"IE": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"FR": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"DE": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"NL": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"BE": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"CH": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"AT": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"ES": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"PT": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"IT": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"SE": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"NO": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"DK": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"FI": {level: enums.ShippingLevelPriorityMail, baseCents: 999, perExtraItemCents: 249},
	"AU": {level: enums.ShippingLevelExpress, baseCents: 1299, perExtraItemCents: 299},
	"NZ": {level: enums.ShippingLevelExpress, baseCents: 1299, perExtraItemCents: 299},
}

// rateForCountry returns the serviceable rate for a destination, or false
// when the country cannot be served at all.
func rateForCountry(country string) (rate, bool) {
	if country == "US" {
		return domesticRate, true
	}
	r, ok := internationalRates[country]
	return r, ok
}
