package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"uap-profile-service/internal/catalog"
	"uap-profile-service/internal/domain"
	"uap-profile-service/internal/logger"
)

// ContentLoader fetches the question bank and archetype catalog from a backing store.
type ContentLoader interface {
	LoadContent(ctx context.Context) (domain.Content, error)
}

// ContentRepository caches content with TTL to avoid repeated DB hits. Load
// failures and unusable rows resolve to the built-in content, which is cached
// for a tenth of the TTL so a recovering backend is picked up soon.
type ContentRepository struct {
	loader ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	log    *logger.Logger

	mu    sync.RWMutex
	entry *cachedContent
}

type cachedContent struct {
	content   domain.Content
	expiresAt time.Time
}

func NewContentRepository(loader ContentLoader, ttl time.Duration, log *logger.Logger) *ContentRepository {
	return &ContentRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logger.OrNop(log),
	}
}

func (r *ContentRepository) Content(ctx context.Context) domain.Content {
	if c, ok := r.cached(r.clock()); ok {
		return c
	}

	result, _, _ := r.sf.Do("content", func() (interface{}, error) {
		now := r.clock()
		if c, ok := r.cached(now); ok {
			return c, nil
		}

		var (
			loaded domain.Content
			err    error
		)
		if r.loader != nil {
			loaded, err = r.loader.LoadContent(ctx)
		}
		content, fallback := catalog.Resolve(loaded, err)
		ttl := r.ttlWithJitter()
		if fallback {
			r.log.Warn("using built-in quiz content", "error", err)
			ttl /= 10
		}

		r.mu.Lock()
		r.entry = &cachedContent{content: content, expiresAt: now.Add(ttl)}
		r.mu.Unlock()
		return content, nil
	})
	return result.(domain.Content)
}

func (r *ContentRepository) cached(now time.Time) (domain.Content, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entry != nil && r.entry.expiresAt.After(now) {
		return r.entry.content, true
	}
	return domain.Content{}, false
}

// StaticContentLoader is a simple loader backed by fixed content (useful for tests/demos).
type StaticContentLoader struct {
	content domain.Content
	err     error
}

func NewStaticContentLoader(content domain.Content) *StaticContentLoader {
	return &StaticContentLoader{content: content}
}

// NewFailingContentLoader always returns err.
func NewFailingContentLoader(err error) *StaticContentLoader {
	return &StaticContentLoader{err: err}
}

func (l *StaticContentLoader) LoadContent(_ context.Context) (domain.Content, error) {
	if l.err != nil {
		return domain.Content{}, l.err
	}
	return l.content, nil
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
