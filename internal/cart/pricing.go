package cart

// PriceTable prices a single unit of a cart item.
type PriceTable interface {
	PriceCents(item CartItem) int
}

const (
	baseCentsPerVolume = 250
	centsPerPage       = 1
)

// atCostPriceTable prices books at printing cost: a per-volume base plus a
// per-page rate, summed over the physical volumes of the edition. A 166-page
// single-volume book comes to 416 cents regardless of trim size.
type atCostPriceTable struct{}

// DefaultPriceTable is the at-cost table used by the storefront.
var DefaultPriceTable PriceTable = atCostPriceTable{}

func (atCostPriceTable) PriceCents(item CartItem) int {
	if len(item.NumPages) == 0 {
		return baseCentsPerVolume
	}
	price := 0
	for _, pages := range item.NumPages {
		if pages < 0 {
			pages = 0
		}
		price += baseCentsPerVolume + pages*centsPerPage
	}
	return price
}
