package app

import (
	"context"

	"uap-profile-service/internal/domain"
	"uap-profile-service/internal/logger"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(ctx context.Context, id string, content domain.Content) *Session
	Get(ctx context.Context, id string) (*Session, bool)
	// Save persists the session's answers after a change.
	Save(ctx context.Context, session *Session)
	Delete(ctx context.Context, id string)
}

// ContentRepository returns the question bank and archetype catalog. It never
// fails: implementations fall back to the built-in content.
type ContentRepository interface {
	Content(ctx context.Context) domain.Content
}

// EventBus fans StorageChanged events out to subscribers of a scope.
type EventBus interface {
	Publisher
	Subscribe(scope string) (<-chan domain.StorageChanged, func())
}

// ProfileService contains the quiz and reading-path use cases. Every method
// is keyed by a device scope.
type ProfileService struct {
	sessions SessionRepository
	content  ContentRepository
	stores   LocalStoreFactory
	remote   ProgressBackend
	events   EventBus
	log      *logger.Logger
	opts     []GatewayOption
}

func NewProfileService(sessions SessionRepository, content ContentRepository, stores LocalStoreFactory, remote ProgressBackend, events EventBus, log *logger.Logger, opts ...GatewayOption) *ProfileService {
	log = logger.OrNop(log)
	return &ProfileService{
		sessions: sessions,
		content:  content,
		stores:   stores,
		remote:   remote,
		events:   events,
		log:      log,
		opts:     append([]GatewayOption{WithLogger(log)}, opts...),
	}
}

// Gateway returns the persistence gateway of scope.
func (s *ProfileService) Gateway(scope string) *Gateway {
	return NewGateway(scope, s.stores.ForScope(scope), s.remote, s.events, s.opts...)
}

func (s *ProfileService) Content(ctx context.Context) domain.Content {
	return s.content.Content(ctx)
}

// StartQuiz returns the device's quiz session, creating one if needed. An
// abandoned session is restarted from the first question.
func (s *ProfileService) StartQuiz(ctx context.Context, scope string) (SessionView, error) {
	if scope == "" {
		return SessionView{}, domain.ErrMissingScope
	}
	session := s.sessions.GetOrCreate(ctx, scope, s.content.Content(ctx))
	view := session.View()
	if view.State == StateAbandoned {
		view = session.Retake()
		s.sessions.Save(ctx, session)
	}
	return view, nil
}

// Answer records one answer. Completing the quiz caches the result blob.
func (s *ProfileService) Answer(ctx context.Context, scope, questionID, value string) (SessionView, bool, error) {
	session, ok := s.sessions.Get(ctx, scope)
	if !ok {
		return SessionView{}, false, domain.ErrSessionNotFound
	}
	view, accepted := session.Answer(questionID, value)
	if !accepted {
		s.log.Debug("ignored answer", "scope", scope, "question", questionID, "value", value)
		return view, false, nil
	}
	s.sessions.Save(ctx, session)
	if view.Result != nil {
		if err := s.Gateway(scope).SaveResult(ctx, *view.Result); err != nil {
			s.log.Warn("cache quiz result failed", "scope", scope, "error", err)
		}
	}
	return view, true, nil
}

func (s *ProfileService) Back(ctx context.Context, scope string) (SessionView, error) {
	session, ok := s.sessions.Get(ctx, scope)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	view := session.Back()
	s.sessions.Save(ctx, session)
	return view, nil
}

// Retake clears the quiz and any stored path.
func (s *ProfileService) Retake(ctx context.Context, scope string) (SessionView, error) {
	if scope == "" {
		return SessionView{}, domain.ErrMissingScope
	}
	if err := s.Gateway(scope).ClearPath(ctx); err != nil {
		s.log.Warn("clear path on retake failed", "scope", scope, "error", err)
	}
	session := s.sessions.GetOrCreate(ctx, scope, s.content.Content(ctx))
	view := session.Retake()
	s.sessions.Save(ctx, session)
	return view, nil
}

// Abandon drops an unfinished quiz without touching persisted state.
func (s *ProfileService) Abandon(ctx context.Context, scope string) {
	session, ok := s.sessions.Get(ctx, scope)
	if !ok {
		return
	}
	if session.Abandon() {
		s.sessions.Delete(ctx, scope)
	}
}

// StartPath materializes the primary archetype's path and persists it.
func (s *ProfileService) StartPath(ctx context.Context, scope string) (domain.PathState, error) {
	session, ok := s.sessions.Get(ctx, scope)
	if !ok {
		return domain.PathState{}, domain.ErrSessionNotFound
	}
	res, ok := session.Result()
	if !ok {
		return domain.PathState{}, domain.ErrQuizNotFinished
	}
	if res.Primary == nil {
		return domain.PathState{}, domain.ErrEmptyCatalog
	}
	state := MaterializePath(*res.Primary)
	if err := s.Gateway(scope).SavePath(ctx, state); err != nil {
		return domain.PathState{}, err
	}
	s.sessions.Delete(ctx, scope)
	return state, nil
}

// ExploreFreely leaves the quiz without a path.
func (s *ProfileService) ExploreFreely(ctx context.Context, scope string) error {
	if scope == "" {
		return domain.ErrMissingScope
	}
	s.sessions.Delete(ctx, scope)
	return s.Gateway(scope).ClearPath(ctx)
}

// SelectProfile starts the path of a manually chosen archetype.
func (s *ProfileService) SelectProfile(ctx context.Context, scope, archetypeID string) (domain.PathState, error) {
	if scope == "" {
		return domain.PathState{}, domain.ErrMissingScope
	}
	a, ok := s.content.Content(ctx).Archetypes.Find(archetypeID)
	if !ok {
		return domain.PathState{}, domain.ErrUnknownArchetype
	}
	state := MaterializePath(a)
	if err := s.Gateway(scope).SavePath(ctx, state); err != nil {
		return domain.PathState{}, err
	}
	return state, nil
}

func (s *ProfileService) Path(ctx context.Context, scope string) (domain.PathState, bool) {
	if scope == "" {
		return domain.PathState{}, false
	}
	return s.Gateway(scope).LoadPath(ctx)
}

func (s *ProfileService) ClearPath(ctx context.Context, scope string) error {
	if scope == "" {
		return domain.ErrMissingScope
	}
	return s.Gateway(scope).ClearPath(ctx)
}

func (s *ProfileService) VisitSection(ctx context.Context, scope, sectionID string) (domain.PathState, bool, error) {
	if scope == "" {
		return domain.PathState{}, false, domain.ErrMissingScope
	}
	return s.Gateway(scope).VisitSection(ctx, sectionID)
}

func (s *ProfileService) SetStatus(ctx context.Context, scope string, ct domain.ContentType, contentID string, status domain.ContentStatus) error {
	if scope == "" {
		return domain.ErrMissingScope
	}
	return s.Gateway(scope).UpsertContentStatus(ctx, ct, contentID, status)
}

func (s *ProfileService) ClearStatus(ctx context.Context, scope string, ct domain.ContentType, contentID string) error {
	if scope == "" {
		return domain.ErrMissingScope
	}
	return s.Gateway(scope).ClearContentStatus(ctx, ct, contentID)
}

// Subscribe returns StorageChanged events for scope. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *ProfileService) Subscribe(scope string) (<-chan domain.StorageChanged, func()) {
	if s.events == nil {
		ch := make(chan domain.StorageChanged)
		return ch, func() {}
	}
	return s.events.Subscribe(scope)
}
