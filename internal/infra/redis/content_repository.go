package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"uap-profile-service/internal/catalog"
	"uap-profile-service/internal/domain"
	"uap-profile-service/internal/infra/memory"
	"uap-profile-service/internal/logger"
)

const contentKey = "catalog:content"

// ContentRepository caches the quiz content as one JSON document in Redis so
// every instance shares a single backend read per TTL. On cache miss it falls
// back to a loader; built-in fallback content is never written to the cache.
type ContentRepository struct {
	client *redis.Client
	loader memory.ContentLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	log    *logger.Logger
}

func NewContentRepository(client *redis.Client, loader memory.ContentLoader, ttl time.Duration, log *logger.Logger) *ContentRepository {
	return &ContentRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logger.OrNop(log),
	}
}

func (r *ContentRepository) Content(ctx context.Context) domain.Content {
	if c, ok := r.cached(ctx); ok {
		return c
	}

	result, _, _ := r.sf.Do(contentKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if c, ok := r.cached(ctx); ok {
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
		if fallback {
			r.log.Warn("using built-in quiz content", "error", err)
			return content, nil
		}

		if raw, err := json.Marshal(content); err == nil {
			_ = r.client.Set(ctx, contentKey, raw, r.ttlWithJitter()).Err()
		}
		return content, nil
	})
	return result.(domain.Content)
}

// Invalidate drops the cached document, forcing the next read to the loader.
func (r *ContentRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, contentKey).Err()
}

func (r *ContentRepository) cached(ctx context.Context) (domain.Content, bool) {
	raw, err := r.client.Get(ctx, contentKey).Bytes()
	if err != nil {
		return domain.Content{}, false
	}
	var content domain.Content
	if err := json.Unmarshal(raw, &content); err != nil {
		r.log.Warn("discarding malformed cached content", "error", err)
		return domain.Content{}, false
	}
	content, ok := catalog.Normalize(content)
	return content, ok
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
