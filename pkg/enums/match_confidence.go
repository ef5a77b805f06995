package enums

import "fmt"

// MatchConfidence grades an automatically resolved client identity.
type MatchConfidence string

const (
	MatchConfidenceHigh   MatchConfidence = "alto"
	MatchConfidenceMedium MatchConfidence = "medio"
	MatchConfidenceLow    MatchConfidence = "bajo"
)

var validMatchConfidences = []MatchConfidence{
	MatchConfidenceHigh,
	MatchConfidenceMedium,
	MatchConfidenceLow,
}

// String implements fmt.Stringer.
func (m MatchConfidence) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MatchConfidence.
func (m MatchConfidence) IsValid() bool {
	for _, candidate := range validMatchConfidences {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMatchConfidence converts raw input into a MatchConfidence.
func ParseMatchConfidence(value string) (MatchConfidence, error) {
	for _, candidate := range validMatchConfidences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid match confidence %q", value)
}
