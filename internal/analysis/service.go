package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yejielnehmad/community-sales-manager-sub000/internal/drafts"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/llm"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/config"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/enums"
	apperrors "github.com/yejielnehmad/community-sales-manager-sub000/pkg/errors"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/jsonutil"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/metrics"
)

// CatalogReader loads the context handed to the model. Implemented by the
// clients and products services.
type CatalogReader interface {
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	ListClients(ctx context.Context, limit int) ([]models.Client, error)
}

// Progress is one progress report emitted while an analysis runs.
type Progress struct {
	Phase   enums.AnalysisPhase `json:"phase"`
	Percent int                 `json:"percent"`
}

// ProgressFunc receives progress reports. May be nil.
type ProgressFunc func(Progress)

// Result is the outcome of a completed analysis. The per-phase raw texts
// are kept so an operator can inspect what the model actually said.
type Result struct {
	Drafts    []drafts.DraftOrder `json:"drafts"`
	Phase1Raw string              `json:"phase1Raw"`
	Phase2Raw string              `json:"phase2Raw"`
	Phase3Raw string              `json:"phase3Raw"`
	Elapsed   time.Duration       `json:"elapsedMs"`
}

// Params wires the orchestrator's collaborators.
type Params struct {
	LLM       llm.Client
	Provider  enums.LLMProvider
	Catalog   CatalogReader
	Store     *drafts.Store
	Templates *Templates
	Metrics   *metrics.AnalysisMetrics
	Logger    *logger.Logger
	Config    config.AnalysisConfig
}

// Service runs the three-phase message analysis. One analysis per session
// may be in flight at a time; starting a new one cancels the previous.
type Service struct {
	llm       llm.Client
	provider  string
	catalog   CatalogReader
	store     *drafts.Store
	templates *Templates
	metrics   *metrics.AnalysisMetrics
	logg      *logger.Logger
	cfg       config.AnalysisConfig

	mu       sync.Mutex
	inflight map[string]*slot
}

type slot struct {
	cancel context.CancelFunc
}

func NewService(p Params) *Service {
	return &Service{
		llm:       p.LLM,
		provider:  p.Provider.String(),
		catalog:   p.Catalog,
		store:     p.Store,
		templates: p.Templates,
		metrics:   p.Metrics,
		logg:      p.Logger,
		cfg:       p.Config,
		inflight:  make(map[string]*slot),
	}
}

// Templates exposes the template manager for the HTTP layer.
func (s *Service) Templates() *Templates { return s.templates }

// Cancel aborts the session's in-flight analysis, if any.
func (s *Service) Cancel(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.inflight[sessionID]
	if !ok {
		return false
	}
	current.cancel()
	delete(s.inflight, sessionID)
	return true
}

// Analyze runs the full pipeline over one message and persists the
// resulting drafts for the session. The cached draft document is replaced
// only on success; a cancelled or failed run leaves it untouched.
func (s *Service) Analyze(ctx context.Context, sessionID, message string, onProgress ProgressFunc) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "message text is required")
	}

	if s.cfg.SessionTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, s.cfg.SessionTimeout)
		defer cancelTimeout()
	}
	ctx, cancel := context.WithCancel(ctx)
	current := &slot{cancel: cancel}
	s.acquire(sessionID, current)
	defer s.release(sessionID, current)

	if s.logg != nil {
		ctx = s.logg.WithAnalysisID(ctx, uuid.NewString())
		s.logg.Info(ctx, "analysis started")
	}

	// Each report is persisted so the session's draft document always
	// shows the run's current phase. Cancelled runs stop writing.
	report := func(phase enums.AnalysisPhase, percent int) {
		if ctx.Err() == nil {
			if err := s.store.SetProgress(ctx, sessionID, phase, percent); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "persisting analysis progress failed")
			}
		}
		if onProgress != nil {
			onProgress(Progress{Phase: phase, Percent: percent})
		}
	}
	start := time.Now()

	// Preparing: load catalog context and build the prompt.
	report(enums.AnalysisPhasePreparing, 20)
	phaseStart := time.Now()
	products, err := s.catalog.ListProducts(ctx, s.cfg.CatalogLimit)
	if err != nil {
		return nil, s.fail(ctx, err, "loading product context")
	}
	clients, err := s.catalog.ListClients(ctx, s.cfg.ClientLimit)
	if err != nil {
		return nil, s.fail(ctx, err, "loading client context")
	}
	template, err := s.templates.Current(ctx)
	if err != nil {
		return nil, s.fail(ctx, err, "loading prompt template")
	}
	prompt := BuildPrompt(template, SerializeProducts(products), SerializeClients(clients), message)
	s.metrics.ObservePhase(enums.AnalysisPhasePreparing.String(), time.Since(phaseStart))
	if ctx.Err() != nil {
		return nil, s.cancelled(ctx)
	}

	// Phase 1: free-text understanding.
	report(enums.AnalysisPhaseUnderstand, 30)
	phaseStart = time.Now()
	phase1, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, s.mapLLMError(ctx, err)
	}
	s.metrics.ObservePhase(enums.AnalysisPhaseUnderstand.String(), time.Since(phaseStart))
	report(enums.AnalysisPhaseUnderstand, 60)

	// Phase 2: JSON recovery over phase 1's output, with one repair call.
	report(enums.AnalysisPhaseStructuring, 60)
	phaseStart = time.Now()
	extracted := jsonutil.ExtractArray(phase1)
	var raw []rawOrder
	if parseErr := json.Unmarshal([]byte(extracted), &raw); parseErr != nil {
		repaired, err := s.llm.Generate(ctx, fmt.Sprintf(repairTemplate, phase1))
		if err != nil {
			return nil, s.mapLLMError(ctx, err)
		}
		extracted = jsonutil.ExtractArray(repaired)
		if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
			s.metrics.IncFailure(s.provider, "extraction")
			if s.logg != nil {
				s.logg.Error(ctx, "structuring failed after repair attempt", err)
			}
			return nil, apperrors.Wrap(apperrors.CodeExtraction, err, "model output could not be structured").
				WithDetails(map[string]any{
					"phase1Text":    phase1,
					"extractedText": extracted,
				})
		}
	}
	s.metrics.ObservePhase(enums.AnalysisPhaseStructuring.String(), time.Since(phaseStart))
	report(enums.AnalysisPhaseStructuring, 80)
	if ctx.Err() != nil {
		return nil, s.cancelled(ctx)
	}

	// Phase 3: validation and defaulting, pure computation.
	report(enums.AnalysisPhaseValidating, 80)
	phaseStart = time.Now()
	orders := validateOrders(raw, indexProducts(products))
	s.metrics.ObservePhase(enums.AnalysisPhaseValidating.String(), time.Since(phaseStart))

	phase3Raw, _ := json.Marshal(orders)
	result := &Result{
		Drafts:    orders,
		Phase1Raw: phase1,
		Phase2Raw: extracted,
		Phase3Raw: string(phase3Raw),
		Elapsed:   time.Since(start),
	}

	doc := &drafts.Document{
		Message:     message,
		Drafts:      orders,
		Phase:       enums.AnalysisPhaseDone,
		Progress:    100,
		Phase1Raw:   result.Phase1Raw,
		Phase2Raw:   result.Phase2Raw,
		Phase3Raw:   result.Phase3Raw,
		UseRealData: true,
	}
	saveCtx := context.WithoutCancel(ctx)
	if prev, err := s.store.Load(saveCtx, sessionID); err == nil {
		doc.AnalysisCount = prev.AnalysisCount
	}
	if err := s.store.Save(saveCtx, sessionID, doc); err != nil {
		return nil, err
	}

	report(enums.AnalysisPhaseDone, 100)
	s.metrics.IncSuccess(s.provider)
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"drafts":     len(orders),
			"elapsed_ms": result.Elapsed.Milliseconds(),
		})
		s.logg.Info(ctx, "analysis completed")
	}
	return result, nil
}

func (s *Service) acquire(sessionID string, current *slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.inflight[sessionID]; ok {
		prev.cancel()
	}
	s.inflight[sessionID] = current
}

func (s *Service) release(sessionID string, current *slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sessionID] == current {
		delete(s.inflight, sessionID)
	}
}

func (s *Service) cancelled(ctx context.Context) error {
	s.metrics.IncFailure(s.provider, "cancelled")
	if s.logg != nil {
		s.logg.Warn(ctx, "analysis cancelled")
	}
	return apperrors.New(apperrors.CodeCancelled, "analysis cancelled")
}

func (s *Service) fail(ctx context.Context, err error, message string) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return s.cancelled(ctx)
	}
	if typed := apperrors.As(err); typed != nil {
		return typed
	}
	s.metrics.IncFailure(s.provider, "dependency")
	if s.logg != nil {
		s.logg.Error(ctx, message, err)
	}
	return apperrors.Wrap(apperrors.CodeDependency, err, message)
}

func (s *Service) mapLLMError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return s.cancelled(ctx)
	}

	var transport *llm.TransportError
	if errors.As(err, &transport) {
		s.metrics.IncFailure(s.provider, "transport")
		if s.logg != nil {
			s.logg.Error(ctx, "llm transport failure", err)
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "llm backend request failed").
			WithDetails(map[string]any{
				"status":     transport.Status,
				"statusText": transport.StatusText,
				"body":       transport.Body,
			})
	}

	var malformed *llm.MalformedResponseError
	if errors.As(err, &malformed) {
		s.metrics.IncFailure(s.provider, "malformed_response")
		if s.logg != nil {
			s.logg.Error(ctx, "llm response missing generated text", err)
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "llm response envelope malformed").
			WithDetails(map[string]any{"body": malformed.Body})
	}

	return s.fail(ctx, err, "llm call failed")
}

func indexProducts(products []models.Product) map[uuid.UUID]*models.Product {
	index := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		index[products[i].ID] = &products[i]
	}
	return index
}
