package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/domain"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - It keeps a local in-memory map of sessions so concurrent requests of one
//     device share a single *app.Session.
//   - The answer set is mirrored into a Redis hash, so a quiz interrupted by a
//     reconnect or a restart resumes where it stopped:
//     HSET quiz:session:{id}:answers {questionID} {value}
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(ctx context.Context, id string, content domain.Content) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		return session
	}
	session := app.NewSession(id, content)
	if answers, err := s.client.HGetAll(ctx, s.key(id)).Result(); err == nil && len(answers) > 0 {
		session.Restore(domain.AnswerSet(answers))
	}
	s.sessions[id] = session
	return session
}

// Get only consults live sessions; resuming from Redis happens in GetOrCreate.
func (s *SessionStore) Get(_ context.Context, id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Save replaces the mirrored answer set. Best-effort.
func (s *SessionStore) Save(ctx context.Context, session *app.Session) {
	answers := session.Answers()
	key := s.key(session.ID())
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(answers) > 0 {
		values := make(map[string]interface{}, len(answers))
		for q, v := range answers {
			values[q] = v
		}
		pipe.HSet(ctx, key, values)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}
	_, _ = pipe.Exec(ctx)
}

func (s *SessionStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	_ = s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id + ":answers"
}
