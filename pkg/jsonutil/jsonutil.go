package jsonutil

import (
	"regexp"
	"strings"
)

var (
	fencedBlock    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	arrayOfObjects = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

	// Typographic quotes show up when the model copies punctuation from
	// the message text into string values.
	quoteReplacer = strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)
)

// ExtractArray recovers a best-effort JSON array substring from free-form
// model output. It never fails; the caller is responsible for parsing the
// result and handling anything that still is not valid JSON.
//
// The steps run in order, each one a fallback for the previous:
//  1. trim surrounding whitespace
//  2. pull the content out of a markdown code fence, or strip stray fence
//     markers when no closing fence exists
//  3. normalize typographic quotes and collapse literal newlines, which
//     are invalid inside JSON string values
//  4. if the result is not already bracketed as an array, grab the first
//     balanced [{...}] region
func ExtractArray(text string) string {
	out := strings.TrimSpace(text)

	if strings.Contains(out, "```") {
		if m := fencedBlock.FindStringSubmatch(out); m != nil {
			out = strings.TrimSpace(m[1])
		} else {
			out = strings.ReplaceAll(out, "```json", "")
			out = strings.ReplaceAll(out, "```", "")
			out = strings.TrimSpace(out)
		}
	}

	out = quoteReplacer.Replace(out)
	out = strings.ReplaceAll(out, "\r", " ")
	out = strings.ReplaceAll(out, "\n", " ")
	out = strings.TrimSpace(out)

	if !strings.HasPrefix(out, "[") || !strings.HasSuffix(out, "]") {
		if m := arrayOfObjects.FindString(out); m != "" {
			out = m
		}
	}
	return out
}
