package memory

import (
	"context"
	"sort"
	"sync"

	"uap-profile-service/internal/domain"
)

type progressKey struct {
	userID      string
	contentType domain.ContentType
	contentID   string
}

// ProgressBackend is an in-memory app.ProgressBackend. One row per
// (user, content type, content id).
type ProgressBackend struct {
	mu       sync.RWMutex
	paths    map[string]domain.PathState
	statuses map[progressKey]domain.ProgressRecord
}

func NewProgressBackend() *ProgressBackend {
	return &ProgressBackend{
		paths:    make(map[string]domain.PathState),
		statuses: make(map[progressKey]domain.ProgressRecord),
	}
}

func (b *ProgressBackend) UpsertPath(_ context.Context, userID string, state domain.PathState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	state.Path = append([]string(nil), state.Path...)
	b.paths[userID] = state
	return nil
}

func (b *ProgressBackend) DeletePath(_ context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.paths, userID)
	return nil
}

// Path returns the mirrored path of userID.
func (b *ProgressBackend) Path(userID string) (domain.PathState, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.paths[userID]
	return p, ok
}

func (b *ProgressBackend) UpsertStatus(_ context.Context, rec domain.ProgressRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[progressKey{rec.UserID, rec.ContentType, rec.ContentID}] = rec
	return nil
}

func (b *ProgressBackend) DeleteStatus(_ context.Context, userID string, ct domain.ContentType, contentID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.statuses, progressKey{userID, ct, contentID})
	return nil
}

func (b *ProgressBackend) ListStatuses(_ context.Context, userID string) ([]domain.ProgressRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.ProgressRecord, 0)
	for k, rec := range b.statuses {
		if k.userID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContentType != out[j].ContentType {
			return out[i].ContentType < out[j].ContentType
		}
		return out[i].ContentID < out[j].ContentID
	})
	return out, nil
}
