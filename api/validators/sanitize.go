package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at maxLen
// runes. Counting runes keeps a multibyte character, common in the Spanish
// catalog names, from being cut in half.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= maxLen {
		return trimmed
	}
	return string(runes[:maxLen])
}
