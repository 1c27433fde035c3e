package app

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"uap-profile-service/internal/domain"
	"uap-profile-service/internal/logger"
)

// LocalStore is the durable per-device key/value store (browser local storage
// or an equivalent). Get reports ok=false for a missing key.
type LocalStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// LocalStoreFactory hands out the store scoped to one device.
type LocalStoreFactory interface {
	ForScope(scope string) LocalStore
}

// ProgressBackend is the remote mirror of paths and content statuses.
type ProgressBackend interface {
	UpsertPath(ctx context.Context, userID string, state domain.PathState) error
	DeletePath(ctx context.Context, userID string) error
	UpsertStatus(ctx context.Context, rec domain.ProgressRecord) error
	DeleteStatus(ctx context.Context, userID string, ct domain.ContentType, contentID string) error
	ListStatuses(ctx context.Context, userID string) ([]domain.ProgressRecord, error)
}

// Publisher receives a StorageChanged event after every local write.
type Publisher interface {
	Publish(ctx context.Context, evt domain.StorageChanged) error
}

// ResultSnapshot is the combined quiz-result blob kept for older clients.
type ResultSnapshot struct {
	PrimaryID     string           `json:"primaryId"`
	PrimaryName   string           `json:"primaryName"`
	SecondaryID   string           `json:"secondaryId,omitempty"`
	SecondaryName string           `json:"secondaryName,omitempty"`
	Scores        domain.ScoreTally `json:"scores"`
	CompletedAt   time.Time        `json:"completedAt"`
}

// Gateway persists path state and content statuses for one device. The local
// store is authoritative; the remote backend is mirrored best-effort and its
// failures are logged, never returned.
type Gateway struct {
	scope         string
	local         LocalStore
	remote        ProgressBackend
	events        Publisher
	keys          domain.Keys
	log           *logger.Logger
	mirrorTimeout time.Duration
	now           func() time.Time
	newID         func() string
}

type GatewayOption func(*Gateway)

func WithNamespace(ns string) GatewayOption {
	return func(g *Gateway) { g.keys = domain.NewKeys(ns) }
}

func WithLogger(l *logger.Logger) GatewayOption {
	return func(g *Gateway) { g.log = logger.OrNop(l) }
}

// WithMirrorTimeout bounds each remote write.
func WithMirrorTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.mirrorTimeout = d }
}

func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) { g.now = now }
}

func WithIDGenerator(gen func() string) GatewayOption {
	return func(g *Gateway) { g.newID = gen }
}

// NewGateway builds a gateway for scope. remote and events may be nil.
func NewGateway(scope string, local LocalStore, remote ProgressBackend, events Publisher, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		scope:         scope,
		local:         local,
		remote:        remote,
		events:        events,
		keys:          domain.NewKeys(""),
		log:           logger.Nop(),
		mirrorTimeout: 3 * time.Second,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("scope", scope)
	return g
}

func (g *Gateway) Scope() string { return g.scope }

func (g *Gateway) Keys() domain.Keys { return g.keys }

// SavePath writes the path state as individual keys and mirrors it remotely.
func (g *Gateway) SavePath(ctx context.Context, state domain.PathState) error {
	path := state.Path
	if path == nil {
		path = []string{}
	}
	raw, err := json.Marshal(path)
	if err != nil {
		return err
	}
	entries := []struct{ key, value string }{
		{g.keys.Path(), string(raw)},
		{g.keys.PathIndex(), strconv.Itoa(state.Cursor)},
		{g.keys.ArchetypeID(), state.ArchetypeID},
		{g.keys.ArchetypeName(), state.ArchetypeName},
	}
	written := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := g.local.Set(ctx, e.key, e.value); err != nil {
			g.notify(ctx, written)
			return err
		}
		written = append(written, e.key)
	}

	userID := g.GetOrCreateUserID(ctx)
	g.mirror(ctx, "upsert path", func(ctx context.Context) error {
		return g.remote.UpsertPath(ctx, userID, state)
	})
	g.notify(ctx, written)
	return nil
}

// LoadPath reads the path state back. A missing, "null", empty or malformed
// path key means there is no active path.
func (g *Gateway) LoadPath(ctx context.Context) (domain.PathState, bool) {
	raw, ok := g.get(ctx, g.keys.Path())
	if !ok || raw == "" || raw == "null" {
		return domain.PathState{}, false
	}
	var path []string
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		g.log.Debug("discarding malformed path", "error", err)
		return domain.PathState{}, false
	}
	if len(path) == 0 {
		return domain.PathState{}, false
	}

	state := domain.PathState{Path: path}
	if v, ok := g.get(ctx, g.keys.PathIndex()); ok {
		if n, err := strconv.Atoi(v); err == nil {
			state.Cursor = n
		}
	}
	if state.Cursor < 0 || state.Cursor >= len(path) {
		g.log.Debug("resetting out-of-range path cursor", "cursor", state.Cursor, "len", len(path))
		state.Cursor = 0
	}
	state.ArchetypeID, _ = g.get(ctx, g.keys.ArchetypeID())
	state.ArchetypeName, _ = g.get(ctx, g.keys.ArchetypeName())
	return state, true
}

// ClearPath removes every path key and the cached quiz result, returning the
// device to its first-visit state. The user id survives.
func (g *Gateway) ClearPath(ctx context.Context) error {
	keys := g.keys.PathKeys()
	if err := g.local.Delete(ctx, keys...); err != nil {
		return err
	}
	if userID, ok := g.get(ctx, g.keys.UserID()); ok && userID != "" {
		g.mirror(ctx, "delete path", func(ctx context.Context) error {
			return g.remote.DeletePath(ctx, userID)
		})
	}
	g.notify(ctx, keys)
	return nil
}

// VisitSection advances the cursor when sectionID is the next section of the
// active path and persists the new cursor.
func (g *Gateway) VisitSection(ctx context.Context, sectionID string) (domain.PathState, bool, error) {
	state, ok := g.LoadPath(ctx)
	if !ok {
		return domain.PathState{}, false, nil
	}
	next, advanced := AdvanceCursor(state, sectionID)
	if !advanced {
		return state, false, nil
	}
	if err := g.local.Set(ctx, g.keys.PathIndex(), strconv.Itoa(next.Cursor)); err != nil {
		return state, false, err
	}
	userID := g.GetOrCreateUserID(ctx)
	g.mirror(ctx, "upsert path", func(ctx context.Context) error {
		return g.remote.UpsertPath(ctx, userID, next)
	})
	g.notify(ctx, []string{g.keys.PathIndex()})
	return next, true, nil
}

// GetOrCreateUserID returns the device's pseudo user id, creating it once.
func (g *Gateway) GetOrCreateUserID(ctx context.Context) string {
	if id, ok := g.get(ctx, g.keys.UserID()); ok && id != "" {
		return id
	}
	id := g.newID()
	if err := g.local.Set(ctx, g.keys.UserID(), id); err != nil {
		g.log.Warn("persist user id failed", "error", err)
	}
	return id
}

// SaveResult writes the combined quiz-result blob.
func (g *Gateway) SaveResult(ctx context.Context, res domain.Result) error {
	snap := ResultSnapshot{Scores: res.Scores, CompletedAt: res.CompletedAt}
	if res.Primary != nil {
		snap.PrimaryID, snap.PrimaryName = res.Primary.ID, res.Primary.Name
	}
	if res.Secondary != nil {
		snap.SecondaryID, snap.SecondaryName = res.Secondary.ID, res.Secondary.Name
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := g.local.Set(ctx, g.keys.QuizResult(), string(raw)); err != nil {
		return err
	}
	g.notify(ctx, []string{g.keys.QuizResult()})
	return nil
}

// LoadResult reads the combined quiz-result blob.
func (g *Gateway) LoadResult(ctx context.Context) (ResultSnapshot, bool) {
	raw, ok := g.get(ctx, g.keys.QuizResult())
	if !ok || raw == "" || raw == "null" {
		return ResultSnapshot{}, false
	}
	var snap ResultSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil || snap.PrimaryID == "" {
		return ResultSnapshot{}, false
	}
	return snap, true
}

// UpsertContentStatus records status for one content item locally and
// remotely. An empty status clears the record.
func (g *Gateway) UpsertContentStatus(ctx context.Context, ct domain.ContentType, contentID string, status domain.ContentStatus) error {
	if strings.TrimSpace(string(status)) == "" {
		return g.ClearContentStatus(ctx, ct, contentID)
	}
	ct, err := domain.ParseContentType(string(ct))
	if err != nil {
		return err
	}
	parsed, err := domain.ParseContentStatus(string(status))
	if err != nil {
		return err
	}
	key := g.keys.Progress(ct, contentID)
	if err := g.local.Set(ctx, key, string(parsed)); err != nil {
		return err
	}
	rec := domain.ProgressRecord{
		UserID:      g.GetOrCreateUserID(ctx),
		ContentType: ct,
		ContentID:   contentID,
		Status:      parsed,
		UpdatedAt:   g.now(),
	}
	g.mirror(ctx, "upsert status", func(ctx context.Context) error {
		return g.remote.UpsertStatus(ctx, rec)
	})
	g.notify(ctx, []string{key})
	return nil
}

// ClearContentStatus removes the status of one content item.
func (g *Gateway) ClearContentStatus(ctx context.Context, ct domain.ContentType, contentID string) error {
	ct, err := domain.ParseContentType(string(ct))
	if err != nil {
		return err
	}
	key := g.keys.Progress(ct, contentID)
	if err := g.local.Delete(ctx, key); err != nil {
		return err
	}
	userID := g.GetOrCreateUserID(ctx)
	g.mirror(ctx, "delete status", func(ctx context.Context) error {
		return g.remote.DeleteStatus(ctx, userID, ct, contentID)
	})
	g.notify(ctx, []string{key})
	return nil
}

// ContentStatus reads the local status of one content item.
func (g *Gateway) ContentStatus(ctx context.Context, ct domain.ContentType, contentID string) (domain.ContentStatus, bool) {
	ct, err := domain.ParseContentType(string(ct))
	if err != nil {
		return "", false
	}
	raw, ok := g.get(ctx, g.keys.Progress(ct, contentID))
	if !ok {
		return "", false
	}
	status, err := domain.ParseContentStatus(raw)
	if err != nil {
		return "", false
	}
	return status, true
}

// HydrateStatuses copies remote statuses missing locally into the local
// store, so a device whose local storage was wiped keeps its marks. Local
// entries always win. Returns the number of entries copied.
func (g *Gateway) HydrateStatuses(ctx context.Context) int {
	if g.remote == nil {
		return 0
	}
	userID, ok := g.get(ctx, g.keys.UserID())
	if !ok || userID == "" {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, g.mirrorTimeout)
	defer cancel()
	records, err := g.remote.ListStatuses(ctx, userID)
	if err != nil {
		g.log.Warn("list remote statuses failed", "error", err)
		return 0
	}
	var written []string
	for _, rec := range records {
		key := g.keys.Progress(rec.ContentType, rec.ContentID)
		if _, exists := g.get(ctx, key); exists {
			continue
		}
		if _, err := domain.ParseContentStatus(string(rec.Status)); err != nil {
			continue
		}
		if err := g.local.Set(ctx, key, string(rec.Status)); err != nil {
			g.log.Warn("hydrate status failed", "key", key, "error", err)
			continue
		}
		written = append(written, key)
	}
	g.notify(ctx, written)
	return len(written)
}

func (g *Gateway) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := g.local.Get(ctx, key)
	if err != nil {
		g.log.Warn("local read failed", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (g *Gateway) mirror(ctx context.Context, op string, fn func(context.Context) error) {
	if g.remote == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, g.mirrorTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		g.log.Warn("remote mirror failed", "op", op, "error", err)
	}
}

func (g *Gateway) notify(ctx context.Context, keys []string) {
	if g.events == nil || len(keys) == 0 {
		return
	}
	evt := domain.StorageChanged{Scope: g.scope, Keys: keys, At: g.now()}
	if err := g.events.Publish(ctx, evt); err != nil {
		g.log.Warn("publish storage change failed", "error", err)
	}
}
