package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	apperrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/redis"
)

// Store persists draft documents in Redis so an in-progress analysis
// survives a restart.
type Store struct {
	cache redis.DraftStore
	ttl   time.Duration
}

func NewStore(cache redis.DraftStore, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

// Load returns the session's draft document, or an empty document when
// nothing is cached yet.
func (s *Store) Load(ctx context.Context, sessionID string) (*Document, error) {
	raw, err := s.cache.Get(ctx, s.cache.DraftKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return &Document{Phase: enums.AnalysisPhaseIdle}, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading draft document")
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "decoding draft document")
	}
	return &doc, nil
}

// Save writes the full document back under the session key.
func (s *Store) Save(ctx context.Context, sessionID string, doc *Document) error {
	doc.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "encoding draft document")
	}
	if err := s.cache.Set(ctx, s.cache.DraftKey(sessionID), string(raw), s.ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "storing draft document")
	}
	return nil
}

// SetProgress updates only the phase and progress fields, leaving the rest
// of the cached document, drafts included, alone.
func (s *Store) SetProgress(ctx context.Context, sessionID string, phase enums.AnalysisPhase, percent int) error {
	doc, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	doc.Phase = phase
	doc.Progress = percent
	return s.Save(ctx, sessionID, doc)
}

// Clear drops everything cached for the session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.cache.Del(ctx, s.cache.DraftKey(sessionID)); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "clearing draft document")
	}
	return nil
}

// StartMessage resets the session for a brand-new message. Stale drafts
// from a previous analysis must never bleed into the new one.
func (s *Store) StartMessage(ctx context.Context, sessionID, message string) (*Document, error) {
	if err := s.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	attempt, err := s.cache.IncrWithTTL(ctx, s.cache.CounterKey("analyses:"+sessionID), 24*time.Hour)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "counting analysis attempt")
	}

	doc := &Document{
		Message:       message,
		Phase:         enums.AnalysisPhaseIdle,
		UseRealData:   true,
		AnalysisCount: attempt,
	}
	if err := s.Save(ctx, sessionID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
