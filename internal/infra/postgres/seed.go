package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"uap-profile-service/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:persona_questions,alias:pq"`

	ID       string          `bun:"id,pk"`
	Position int             `bun:"position,notnull"`
	Prompt   string          `bun:"prompt,notnull"`
	Options  []domain.Option `bun:"options,type:jsonb,notnull"`
}

type archetypeRow struct {
	bun.BaseModel `bun:"table:persona_archetypes,alias:pa"`

	ID              string   `bun:"id,pk"`
	Name            string   `bun:"name,notnull"`
	Description     string   `bun:"description,notnull"`
	RecommendedPath []string `bun:"recommended_path,type:jsonb,notnull"`
	Icon            string   `bun:"icon,notnull"`
	Interests       string   `bun:"interests,notnull"`
	SortOrder       int      `bun:"sort_order,notnull"`
}

// SeedContent upserts a question bank and archetype catalog in one
// transaction. Catalog order is kept through sort_order.
func SeedContent(ctx context.Context, db *bun.DB, content domain.Content) error {
	questions := make([]questionRow, 0, len(content.Questions))
	for _, q := range content.Questions {
		opts := q.Options
		if opts == nil {
			opts = []domain.Option{}
		}
		questions = append(questions, questionRow{ID: q.ID, Position: q.Position, Prompt: q.Prompt, Options: opts})
	}
	archetypes := make([]archetypeRow, 0, len(content.Archetypes))
	for i, a := range content.Archetypes {
		path := a.RecommendedPath
		if path == nil {
			path = []string{}
		}
		archetypes = append(archetypes, archetypeRow{
			ID:              a.ID,
			Name:            a.Name,
			Description:     a.Description,
			RecommendedPath: path,
			Icon:            a.Icon,
			Interests:       a.Interests,
			SortOrder:       i,
		})
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(questions) > 0 {
			_, err := tx.NewInsert().Model(&questions).
				On("CONFLICT (id) DO UPDATE").
				Set("position = EXCLUDED.position").
				Set("prompt = EXCLUDED.prompt").
				Set("options = EXCLUDED.options").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("seed questions: %w", err)
			}
		}
		if len(archetypes) > 0 {
			_, err := tx.NewInsert().Model(&archetypes).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set("description = EXCLUDED.description").
				Set("recommended_path = EXCLUDED.recommended_path").
				Set("icon = EXCLUDED.icon").
				Set("interests = EXCLUDED.interests").
				Set("sort_order = EXCLUDED.sort_order").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("seed archetypes: %w", err)
			}
		}
		return nil
	})
}
