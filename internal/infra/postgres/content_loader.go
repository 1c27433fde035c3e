package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"uap-profile-service/internal/domain"
)

// ContentLoader reads the persona question bank and archetype catalog.
// Rows whose JSON columns do not decode are skipped, not reported.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadContent(ctx context.Context) (domain.Content, error) {
	questions, err := l.loadQuestions(ctx)
	if err != nil {
		return domain.Content{}, err
	}
	archetypes, err := l.loadArchetypes(ctx)
	if err != nil {
		return domain.Content{}, err
	}
	return domain.Content{Questions: questions, Archetypes: archetypes}, nil
}

func (l *ContentLoader) loadQuestions(ctx context.Context) (domain.QuestionBank, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, position, prompt, options FROM persona_questions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var out domain.QuestionBank
	for rows.Next() {
		var (
			q   domain.Question
			raw []byte
		)
		if err := rows.Scan(&q.ID, &q.Position, &q.Prompt, &raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(raw, &q.Options); err != nil {
			continue
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return out, nil
}

func (l *ContentLoader) loadArchetypes(ctx context.Context) (domain.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, name, description, recommended_path, icon, interests
		FROM persona_archetypes ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("load archetypes: %w", err)
	}
	defer rows.Close()

	var out domain.Catalog
	for rows.Next() {
		var (
			a   domain.Archetype
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &raw, &a.Icon, &a.Interests); err != nil {
			return nil, fmt.Errorf("scan archetype: %w", err)
		}
		if err := json.Unmarshal(raw, &a.RecommendedPath); err != nil {
			// a broken path still leaves a usable archetype; the default path covers it
			a.RecommendedPath = nil
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load archetypes: %w", err)
	}
	return out, nil
}
