package enums

import "fmt"

// LLMProvider selects which text-generation backend is active.
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderOpenAI LLMProvider = "openai"
)

var validLLMProviders = []LLMProvider{
	LLMProviderGemini,
	LLMProviderOpenAI,
}

// String implements fmt.Stringer.
func (p LLMProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known LLMProvider.
func (p LLMProvider) IsValid() bool {
	for _, candidate := range validLLMProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseLLMProvider converts raw input into an LLMProvider.
func ParseLLMProvider(value string) (LLMProvider, error) {
	for _, candidate := range validLLMProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid llm provider %q", value)
}
