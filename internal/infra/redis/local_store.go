package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"uap-profile-service/internal/app"
)

// LocalStore keeps one device's local storage in a Redis hash:
//
//	HSET local:{scope} {key} {value}
//
// Every write refreshes the hash TTL, so idle devices eventually expire.
type LocalStore struct {
	client *redis.Client
	scope  string
	ttl    time.Duration
}

func NewLocalStore(client *redis.Client, scope string, ttl time.Duration) *LocalStore {
	return &LocalStore{client: client, scope: scope, ttl: ttl}
}

func (s *LocalStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.hashKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *LocalStore) Set(ctx context.Context, key, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.hashKey(), key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.hashKey(), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *LocalStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.HDel(ctx, s.hashKey(), keys...).Err()
}

func (s *LocalStore) hashKey() string {
	return "local:" + s.scope
}

// LocalStores builds a LocalStore per scope over one client.
type LocalStores struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocalStores(client *redis.Client, ttl time.Duration) *LocalStores {
	return &LocalStores{client: client, ttl: ttl}
}

func (f *LocalStores) ForScope(scope string) app.LocalStore {
	return NewLocalStore(f.client, scope, f.ttl)
}
