package llm

import "fmt"

const previewLimit = 2048

// TransportError reports a non-success status from the backend. The raw
// body is carried so an operator can diagnose the failure verbatim.
type TransportError struct {
	Provider   string
	Status     int
	StatusText string
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Provider, e.Status, e.StatusText)
}

// MalformedResponseError reports a success status whose response envelope
// is missing the expected generated-text field.
type MalformedResponseError struct {
	Provider string
	Body     string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: response envelope missing generated text", e.Provider)
}

func preview(s string) string {
	if len(s) > previewLimit {
		return s[:previewLimit]
	}
	return s
}
