// Package service provides business logic for the career roadmap service.
package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/swaggyashwin/pathfinder/internal/career"
	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/internal/orchestrator"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
	"github.com/swaggyashwin/pathfinder/pkg/metrics"
)

var (
	// ErrSessionNotFound is returned for unknown sessions and for sessions
	// owned by another tenant.
	ErrSessionNotFound = errors.New("session not found")

	// ErrJournalUnavailable is returned when no journal is configured.
	ErrJournalUnavailable = errors.New("journal unavailable")
)

var tracer = otel.Tracer("github.com/swaggyashwin/pathfinder/internal/service")

// Journal records session activity. Implemented by the NATS journal.
type Journal interface {
	PublishTurn(ctx context.Context, jt *model.JournalTurn) (uint64, error)
	PublishRoadmap(ctx context.Context, jr *model.JournalRoadmap) (uint64, error)
	PublishEvent(ctx context.Context, event *model.SessionEvent) (uint64, error)
	GetTurns(ctx context.Context, tenantID, sessionID string, afterSequence uint64, limit int) ([]model.JournalTurn, uint64, bool, error)
}

type entry struct {
	// mu serialises every operation on the session, so one turn is fully
	// processed before the next is accepted.
	mu      sync.Mutex
	meta    model.Session
	session *orchestrator.Session
}

// SessionService handles session operations.
type SessionService struct {
	orchestrator *orchestrator.Orchestrator
	journal      Journal
	logger       *logger.Logger

	sessions map[string]*entry
	mu       sync.RWMutex
}

// NewSessionService creates a new session service. journal may be nil.
func NewSessionService(orch *orchestrator.Orchestrator, journal Journal, log *logger.Logger) *SessionService {
	return &SessionService{
		orchestrator: orch,
		journal:      journal,
		logger:       log,
		sessions:     make(map[string]*entry),
	}
}

// Create creates a new session and returns it with the opening greeting.
func (s *SessionService) Create(ctx context.Context, tenantID, userID string) (*model.CreateSessionResponse, error) {
	now := time.Now()

	e := &entry{
		meta: model.Session{
			ID:        uuid.Must(uuid.NewV7()).String(),
			TenantID:  tenantID,
			UserID:    userID,
			State:     model.StateAwaitingInput,
			CreatedAt: now,
			UpdatedAt: now,
		},
		session: orchestrator.NewSession(),
	}

	s.mu.Lock()
	s.sessions[e.meta.ID] = e
	s.mu.Unlock()

	metrics.SessionsActive.Inc()
	s.logger.WithSession(tenantID, e.meta.ID).Info("session created")
	s.publishEvent(ctx, &e.meta, model.EventTypeCreated, nil)

	meta := e.meta
	return &model.CreateSessionResponse{
		Session:  &meta,
		Greeting: s.orchestrator.Greeting(ctx),
	}, nil
}

func (s *SessionService) lookup(tenantID, sessionID string) (*entry, error) {
	s.mu.RLock()
	e, exists := s.sessions[sessionID]
	s.mu.RUnlock()

	if !exists || e.meta.TenantID != tenantID {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Get returns a snapshot of a session.
func (s *SessionService) Get(ctx context.Context, tenantID, sessionID string) (*model.SessionSnapshot, error) {
	e, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return &model.SessionSnapshot{
		Session: e.meta,
		History: e.session.History(),
		Roadmap: s.orchestrator.Export(e.session),
	}, nil
}

// List returns the tenant's sessions ordered by creation time. A negative
// limit or offset counts as zero.
func (s *SessionService) List(ctx context.Context, tenantID string, limit, offset int) (*model.ListSessionsResponse, error) {
	s.mu.RLock()
	var entries []*entry
	for _, e := range s.sessions {
		if e.meta.TenantID == tenantID {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	sessions := make([]model.Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		sessions = append(sessions, e.meta)
		e.mu.Unlock()
	}
	slices.SortFunc(sessions, func(a, b model.Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	total := len(sessions)
	start := min(max(offset, 0), total)
	end := min(start+max(limit, 0), total)

	return &model.ListSessionsResponse{
		Sessions: sessions[start:end],
		Total:    total,
		HasMore:  end < total,
	}, nil
}

// Delete removes a session.
func (s *SessionService) Delete(ctx context.Context, tenantID, sessionID string) error {
	s.mu.Lock()
	e, exists := s.sessions[sessionID]
	if !exists || e.meta.TenantID != tenantID {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	metrics.SessionsActive.Dec()
	s.publishEvent(ctx, &e.meta, model.EventTypeDeleted, nil)
	return nil
}

// SubmitTurn processes one user turn in a session.
func (s *SessionService) SubmitTurn(ctx context.Context, tenantID, sessionID, content string) (*model.TurnResult, error) {
	ctx, span := tracer.Start(ctx, "SessionService.SubmitTurn")
	defer span.End()

	e, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result := s.orchestrator.SubmitTurn(ctx, e.session, content)

	e.meta.State = e.session.State()
	e.meta.TurnCount = e.session.Len()
	e.meta.ArchiveSize = e.session.ArchiveLen()
	e.meta.CareerGoal = e.session.CareerGoal()
	e.meta.UpdatedAt = time.Now()

	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("turn.decision", string(result.Decision)),
		attribute.Int("turn.count", e.meta.TurnCount),
	)
	metrics.RecordTurn(string(result.Decision))

	s.publishTurn(ctx, &e.meta, result.UserTurn)
	s.publishTurn(ctx, &e.meta, result.AssistantTurn)

	if result.Decision == model.DecisionGenerate {
		span.SetAttributes(attribute.String("roadmap.category", result.Category))
		metrics.RecordRoadmap(result.Category)
		archive := e.session.Archive()
		s.publishRoadmap(ctx, &e.meta, archive[len(archive)-1])
		s.logger.WithSession(tenantID, sessionID).Info("roadmap generated",
			zap.String("category", result.Category),
		)
	}

	return &result, nil
}

// Reset clears a session's conversation and current roadmap; its roadmap
// archive is kept.
func (s *SessionService) Reset(ctx context.Context, tenantID, sessionID string) (*model.Session, error) {
	e, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s.orchestrator.Reset(e.session)
	e.meta.State = e.session.State()
	e.meta.TurnCount = 0
	e.meta.CareerGoal = ""
	e.meta.UpdatedAt = time.Now()

	metrics.SessionResetsTotal.Inc()
	s.publishEvent(ctx, &e.meta, model.EventTypeReset, map[string]any{"archive_size": e.meta.ArchiveSize})

	meta := e.meta
	return &meta, nil
}

// Export returns the session's current roadmap, or nil when none has been
// generated since the last reset.
func (s *SessionService) Export(ctx context.Context, tenantID, sessionID string) (*model.Roadmap, error) {
	e, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return s.orchestrator.Export(e.session), nil
}

// Archive returns every roadmap generated in the session.
func (s *SessionService) Archive(ctx context.Context, tenantID, sessionID string) (*model.ArchiveResponse, error) {
	e, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return &model.ArchiveResponse{Roadmaps: e.session.Archive()}, nil
}

// Journal replays the session's journaled turns.
func (s *SessionService) Journal(ctx context.Context, tenantID, sessionID string, afterSequence uint64, limit int) (*model.JournalResponse, error) {
	if s.journal == nil {
		return nil, ErrJournalUnavailable
	}
	if _, err := s.lookup(tenantID, sessionID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	turns, lastSeq, hasMore, err := s.journal.GetTurns(ctx, tenantID, sessionID, afterSequence, limit)
	if err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []model.JournalTurn{}
	}

	return &model.JournalResponse{
		Turns:        turns,
		HasMore:      hasMore,
		LastSequence: lastSeq,
	}, nil
}

// Categories lists the career categories roadmaps can be generated for.
func (s *SessionService) Categories() []model.CategoryInfo {
	all := career.All()
	out := make([]model.CategoryInfo, len(all))
	for i, c := range all {
		out[i] = model.CategoryInfo{ID: string(c), DisplayName: c.DisplayName()}
	}
	return out
}

func (s *SessionService) publishTurn(ctx context.Context, meta *model.Session, turn model.Turn) {
	if s.journal == nil {
		return
	}
	_, err := s.journal.PublishTurn(ctx, &model.JournalTurn{
		SessionID:  meta.ID,
		TenantID:   meta.TenantID,
		Turn:       turn,
		RecordedAt: time.Now(),
	})
	s.journalFailed("turn", meta, err)
}

func (s *SessionService) publishRoadmap(ctx context.Context, meta *model.Session, archived model.ArchivedRoadmap) {
	if s.journal == nil {
		return
	}
	_, err := s.journal.PublishRoadmap(ctx, &model.JournalRoadmap{
		SessionID: meta.ID,
		TenantID:  meta.TenantID,
		Entry:     archived,
	})
	s.journalFailed("roadmap", meta, err)
}

func (s *SessionService) publishEvent(ctx context.Context, meta *model.Session, eventType model.EventType, metadata map[string]any) {
	if s.journal == nil {
		return
	}
	_, err := s.journal.PublishEvent(ctx, &model.SessionEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: meta.ID,
		TenantID:  meta.TenantID,
		Type:      eventType,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	})
	s.journalFailed(string(eventType), meta, err)
}

// journalFailed logs and counts a publish error. Journal errors never reach
// the caller.
func (s *SessionService) journalFailed(kind string, meta *model.Session, err error) {
	if err == nil {
		return
	}
	metrics.RecordJournalFailure(kind)
	s.logger.WithSession(meta.TenantID, meta.ID).Warn("failed to journal session activity",
		zap.String("kind", kind),
		zap.Error(err),
	)
}
