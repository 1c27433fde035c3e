package app

import (
	"sync"
	"time"

	"uap-profile-service/internal/domain"
)

// SessionView is a snapshot of a quiz session suitable for rendering.
type SessionView struct {
	SessionID string            `json:"sessionId"`
	State     QuizState         `json:"state"`
	Index     int               `json:"index"`
	Total     int               `json:"total"`
	Question  *domain.Question  `json:"question,omitempty"`
	Answers   domain.AnswerSet  `json:"answers"`
	Scores    domain.ScoreTally `json:"scores"`
	Result    *domain.Result    `json:"result,omitempty"`
}

// Session is one device's quiz in progress, guarded for concurrent callers.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time

	mu        sync.Mutex
	engine    *Engine
	updatedAt time.Time
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string, content domain.Content) *Session {
	return newSessionWithClock(id, content, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, content domain.Content, now func() time.Time) *Session {
	return newSessionWithClock(id, content, now)
}

func newSessionWithClock(id string, content domain.Content, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:        id,
		createdAt: created,
		now:       now,
		engine:    newEngineWithClock(content, now),
		updatedAt: created,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Answer records an answer; accepted is false when it was ignored.
func (s *Session) Answer(questionID, value string) (SessionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accepted := s.engine.RecordAnswer(questionID, value)
	if accepted {
		s.updatedAt = s.now()
	}
	return s.viewLocked(), accepted
}

func (s *Session) Back() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.Back() {
		s.updatedAt = s.now()
	}
	return s.viewLocked()
}

func (s *Session) Retake() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Retake()
	s.updatedAt = s.now()
	return s.viewLocked()
}

func (s *Session) Abandon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Abandon()
}

// Restore replays answers loaded from a session store.
func (s *Session) Restore(answers domain.AnswerSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Restore(answers)
}

func (s *Session) Answers() domain.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Answers()
}

func (s *Session) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Result()
}

func (s *Session) viewLocked() SessionView {
	v := SessionView{
		SessionID: s.id,
		State:     s.engine.State(),
		Index:     s.engine.Index(),
		Total:     s.engine.Total(),
		Answers:   s.engine.Answers(),
		Scores:    s.engine.Tally(),
	}
	if q, ok := s.engine.Current(); ok {
		v.Question = &q
	}
	if res, ok := s.engine.Result(); ok {
		v.Result = &res
	}
	return v
}
