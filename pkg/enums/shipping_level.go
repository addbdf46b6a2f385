package enums

import "fmt"

// ShippingLevel is the carrier service class quoted for an order.
type ShippingLevel string

const (
	ShippingLevelMail         ShippingLevel = "mail"
	ShippingLevelGroundBus    ShippingLevel = "groundBus"
	ShippingLevelGroundHd     ShippingLevel = "groundHd"
	ShippingLevelGround       ShippingLevel = "ground"
	ShippingLevelExpedited    ShippingLevel = "expedited"
	ShippingLevelExpress      ShippingLevel = "express"
	ShippingLevelPriorityMail ShippingLevel = "priorityMail"
)

var validShippingLevels = []ShippingLevel{
	ShippingLevelMail,
	ShippingLevelGroundBus,
	ShippingLevelGroundHd,
	ShippingLevelGround,
	ShippingLevelExpedited,
	ShippingLevelExpress,
	ShippingLevelPriorityMail,
}

// String implements fmt.Stringer.
func (s ShippingLevel) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingLevel.
func (s ShippingLevel) IsValid() bool {
	for _, candidate := range validShippingLevels {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShippingLevel converts raw input into a ShippingLevel.
func ParseShippingLevel(value string) (ShippingLevel, error) {
	for _, candidate := range validShippingLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping level %q", value)
}
