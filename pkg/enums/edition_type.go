package enums

import "fmt"

// EditionType identifies which published variant of a document an edition is.
type EditionType string

const (
	EditionTypeOriginal   EditionType = "original"
	EditionTypeModernized EditionType = "modernized"
	EditionTypeUpdated    EditionType = "updated"
)

var validEditionTypes = []EditionType{
	EditionTypeOriginal,
	EditionTypeModernized,
	EditionTypeUpdated,
}

// String implements fmt.Stringer.
func (e EditionType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EditionType.
func (e EditionType) IsValid() bool {
	for _, candidate := range validEditionTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEditionType converts raw input into an EditionType.
func ParseEditionType(value string) (EditionType, error) {
	for _, candidate := range validEditionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid edition type %q", value)
}
