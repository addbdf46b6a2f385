package enums

import "fmt"

// PrintSize selects the physical trim size a volume is printed at.
type PrintSize string

const (
	PrintSizeS  PrintSize = "s"
	PrintSizeM  PrintSize = "m"
	PrintSizeXL PrintSize = "xl"
)

var validPrintSizes = []PrintSize{
	PrintSizeS,
	PrintSizeM,
	PrintSizeXL,
}

// String implements fmt.Stringer.
func (p PrintSize) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrintSize.
func (p PrintSize) IsValid() bool {
	for _, candidate := range validPrintSizes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrintSize converts raw input into a PrintSize.
func ParsePrintSize(value string) (PrintSize, error) {
	for _, candidate := range validPrintSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid print size %q", value)
}
