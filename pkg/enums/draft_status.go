package enums

import "fmt"

// DraftStatus tracks whether a draft order is still editable or already persisted.
type DraftStatus string

const (
	DraftStatusPending DraftStatus = "pending"
	DraftStatusSaved   DraftStatus = "saved"
)

// String implements fmt.Stringer.
func (d DraftStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DraftStatus.
func (d DraftStatus) IsValid() bool {
	return d == DraftStatusPending || d == DraftStatusSaved
}

// ParseDraftStatus converts raw input into a DraftStatus.
func ParseDraftStatus(value string) (DraftStatus, error) {
	switch DraftStatus(value) {
	case DraftStatusPending:
		return DraftStatusPending, nil
	case DraftStatusSaved:
		return DraftStatusSaved, nil
	}
	return "", fmt.Errorf("invalid draft status %q", value)
}
