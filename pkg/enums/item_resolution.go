package enums

import "fmt"

// ItemResolution is the two-state resolution status of an extracted order line.
// The wire values are kept in Spanish because the extraction prompt, and the
// model output it constrains, use them verbatim.
type ItemResolution string

const (
	ItemResolutionConfirmed ItemResolution = "confirmado"
	ItemResolutionDoubt     ItemResolution = "duda"
)

// String implements fmt.Stringer.
func (i ItemResolution) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemResolution.
func (i ItemResolution) IsValid() bool {
	return i == ItemResolutionConfirmed || i == ItemResolutionDoubt
}

// ParseItemResolution converts raw input into an ItemResolution.
func ParseItemResolution(value string) (ItemResolution, error) {
	switch ItemResolution(value) {
	case ItemResolutionConfirmed:
		return ItemResolutionConfirmed, nil
	case ItemResolutionDoubt:
		return ItemResolutionDoubt, nil
	}
	return "", fmt.Errorf("invalid item resolution %q", value)
}
