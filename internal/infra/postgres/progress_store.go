package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"uap-profile-service/internal/domain"
)

type userPath struct {
	bun.BaseModel `bun:"table:user_paths,alias:up"`

	UserID        string    `bun:"user_id,pk"`
	ArchetypeID   string    `bun:"archetype_id,notnull"`
	ArchetypeName string    `bun:"archetype_name,notnull"`
	Path          []string  `bun:"path,type:jsonb,notnull"`
	CurrentIndex  int       `bun:"current_index,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

type userProgress struct {
	bun.BaseModel `bun:"table:user_progress,alias:pr"`

	UserID      string    `bun:"user_id,pk"`
	ContentType string    `bun:"content_type,pk"`
	ContentID   string    `bun:"content_id,pk"`
	Status      string    `bun:"status,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// ProgressStore is the Postgres app.ProgressBackend.
type ProgressStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewProgressStore(db *bun.DB) *ProgressStore {
	return &ProgressStore{db: db, now: time.Now}
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (s *ProgressStore) UpsertPath(ctx context.Context, userID string, state domain.PathState) error {
	path := state.Path
	if path == nil {
		path = []string{}
	}
	row := &userPath{
		UserID:        userID,
		ArchetypeID:   state.ArchetypeID,
		ArchetypeName: state.ArchetypeName,
		Path:          path,
		CurrentIndex:  state.Cursor,
		UpdatedAt:     s.now().UTC(),
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("archetype_id = EXCLUDED.archetype_id").
		Set("archetype_name = EXCLUDED.archetype_name").
		Set("path = EXCLUDED.path").
		Set("current_index = EXCLUDED.current_index").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert path: %w", err)
	}
	return nil
}

func (s *ProgressStore) DeletePath(ctx context.Context, userID string) error {
	_, err := s.db.NewDelete().
		Model((*userPath)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete path: %w", err)
	}
	return nil
}

// LoadPath returns the mirrored path of userID.
func (s *ProgressStore) LoadPath(ctx context.Context, userID string) (domain.PathState, bool, error) {
	var row userPath
	err := s.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if err == sql.ErrNoRows {
		return domain.PathState{}, false, nil
	}
	if err != nil {
		return domain.PathState{}, false, fmt.Errorf("load path: %w", err)
	}
	return domain.PathState{
		ArchetypeID:   row.ArchetypeID,
		ArchetypeName: row.ArchetypeName,
		Path:          row.Path,
		Cursor:        row.CurrentIndex,
	}, true, nil
}

func (s *ProgressStore) UpsertStatus(ctx context.Context, rec domain.ProgressRecord) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}
	row := &userProgress{
		UserID:      rec.UserID,
		ContentType: string(rec.ContentType),
		ContentID:   rec.ContentID,
		Status:      string(rec.Status),
		UpdatedAt:   updated.UTC(),
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, content_type, content_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert status: %w", err)
	}
	return nil
}

func (s *ProgressStore) DeleteStatus(ctx context.Context, userID string, ct domain.ContentType, contentID string) error {
	_, err := s.db.NewDelete().
		Model((*userProgress)(nil)).
		Where("user_id = ?", userID).
		Where("content_type = ?", string(ct)).
		Where("content_id = ?", contentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete status: %w", err)
	}
	return nil
}

// ListStatuses skips rows whose enums no longer parse.
func (s *ProgressStore) ListStatuses(ctx context.Context, userID string) ([]domain.ProgressRecord, error) {
	var rows []userProgress
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("content_type, content_id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	out := make([]domain.ProgressRecord, 0, len(rows))
	for _, r := range rows {
		ct, err := domain.ParseContentType(r.ContentType)
		if err != nil {
			continue
		}
		status, err := domain.ParseContentStatus(r.Status)
		if err != nil {
			continue
		}
		out = append(out, domain.ProgressRecord{
			UserID:      r.UserID,
			ContentType: ct,
			ContentID:   r.ContentID,
			Status:      status,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}
