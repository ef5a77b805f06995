package llm

import "context"

// Client is the uniform surface over interchangeable text-generation
// backends. Exactly one backend is active per service instance; the
// orchestrator never needs to know which.
type Client interface {
	// Generate sends one prompt and returns the raw generated text.
	// A failed call is never retried here.
	Generate(ctx context.Context, prompt string) (string, error)
	// SetModel swaps the model name used for subsequent calls.
	SetModel(name string)
	// Model returns the model name currently in use.
	Model() string
}
