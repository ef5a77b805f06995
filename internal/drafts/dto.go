package drafts

import (
	"time"

	"github.com/google/uuid"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
)

// UnknownClientName labels a draft whose client could not be matched.
const UnknownClientName = "Cliente desconocido"

// DraftClient identifies the client an extracted order belongs to. A nil ID
// means the client must be resolved manually before the draft can be saved.
type DraftClient struct {
	ID              *uuid.UUID            `json:"id"`
	Name            string                `json:"name"`
	MatchConfidence enums.MatchConfidence `json:"matchConfidence"`
}

// ProductRef points at a catalog product. A nil ID means the model named a
// product that could not be matched against the catalog.
type ProductRef struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name"`
}

// VariantRef points at a product variant.
type VariantRef struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name"`
}

// Alternative is a catalog product offered as a possible match for an
// ambiguous item.
type Alternative struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// DraftItem is one extracted order line.
type DraftItem struct {
	Product      ProductRef           `json:"product"`
	Variant      *VariantRef          `json:"variant,omitempty"`
	Quantity     int                  `json:"quantity"`
	Status       enums.ItemResolution `json:"status"`
	Notes        string               `json:"notes"`
	Alternatives []Alternative        `json:"alternatives,omitempty"`
}

// DraftOrder is an unpersisted, user-editable candidate order produced by
// the analysis pipeline.
type DraftOrder struct {
	ID             uuid.UUID         `json:"id"`
	Client         DraftClient       `json:"client"`
	Items          []DraftItem       `json:"items"`
	IsPaid         bool              `json:"isPaid"`
	Status         enums.DraftStatus `json:"status"`
	PickupLocation string            `json:"pickupLocation,omitempty"`
}

// Document is the durable per-session snapshot of an in-progress analysis.
// It survives restarts so a half-reviewed batch of drafts is not lost.
type Document struct {
	Message     string              `json:"message"`
	Drafts      []DraftOrder        `json:"drafts"`
	Phase       enums.AnalysisPhase `json:"phase"`
	Progress    int                 `json:"progress"`
	Phase1Raw   string              `json:"phase1Raw,omitempty"`
	Phase2Raw   string              `json:"phase2Raw,omitempty"`
	Phase3Raw   string              `json:"phase3Raw,omitempty"`
	UseRealData bool                `json:"useRealData"`
	// AnalysisCount is the session's analysis attempt number, tracked in
	// a day-scoped counter alongside the document.
	AnalysisCount int64     `json:"analysisCount,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
