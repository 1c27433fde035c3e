package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"uap-profile-service/internal/catalog"
	"uap-profile-service/internal/domain"
)

func TestContentRepositoryCaches(t *testing.T) {
	loader := &countingLoader{ContentLoader: NewStaticContentLoader(sampleContent())}
	repo := NewContentRepository(loader, time.Minute, nil)

	first := repo.Content(context.Background())
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}
	if first.Questions[0].ID != "q1" {
		t.Fatalf("expected remote content, got %+v", first.Questions)
	}

	_ = repo.Content(context.Background())
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestContentRepositoryFallsBackToBuiltin(t *testing.T) {
	loader := &countingLoader{ContentLoader: NewFailingContentLoader(errors.New("connection refused"))}
	repo := NewContentRepository(loader, time.Minute, nil)

	got := repo.Content(context.Background())
	want := catalog.Builtin()
	if len(got.Questions) != len(want.Questions) || got.Archetypes[0].ID != want.Archetypes[0].ID {
		t.Fatalf("expected built-in content, got %+v", got)
	}
}

func TestContentRepositoryRefreshesAfterExpiry(t *testing.T) {
	loader := &countingLoader{ContentLoader: NewStaticContentLoader(sampleContent())}
	repo := NewContentRepository(loader, time.Minute, nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_ = repo.Content(context.Background())
	now = now.Add(2 * time.Minute)
	_ = repo.Content(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	ContentLoader
	calls int
}

func (l *countingLoader) LoadContent(ctx context.Context) (domain.Content, error) {
	l.calls++
	return l.ContentLoader.LoadContent(ctx)
}

func sampleContent() domain.Content {
	return domain.Content{
		Questions: domain.QuestionBank{
			{
				ID:       "q1",
				Position: 1,
				Prompt:   "Pick one",
				Options: []domain.Option{
					{Label: "Data", Value: "data", Archetypes: []string{"empiricist"}},
					{Label: "Doubt", Value: "doubt", Archetypes: []string{"skeptic"}},
				},
			},
		},
		Archetypes: domain.Catalog{
			{ID: "empiricist", Name: "The Empiricist"},
			{ID: "skeptic", Name: "The Skeptic"},
		},
	}
}
