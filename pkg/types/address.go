package types

import (
	"strings"

	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
)

// Address is the shipping destination captured at the delivery step.
type Address struct {
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street" validate:"required"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Country string `json:"country" validate:"required,len=2"`
}

// Validate checks the fields a carrier quote minimally requires.
func (a Address) Validate() error {
	missing := []string{}
	for field, value := range map[string]string{
		"name":    a.Name,
		"street":  a.Street,
		"city":    a.City,
		"state":   a.State,
		"zip":     a.Zip,
		"country": a.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	if len(strings.TrimSpace(a.Country)) != 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "country must be a two-letter code")
	}
	return nil
}

// CountryCode returns the normalized ISO country code.
func (a Address) CountryCode() string {
	return strings.ToUpper(strings.TrimSpace(a.Country))
}
