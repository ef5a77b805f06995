package env

import (
	"os"
	"strings"
)

// Get reads an environment variable, treating unset and blank the same and
// answering with the fallback in both cases.
func Get(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
