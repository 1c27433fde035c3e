package migrations

import (
	"strings"
	"testing"
)

func TestMigrationsRegistered(t *testing.T) {
	sorted := Migrations.Sorted()
	if len(sorted) != 1 {
		t.Fatalf("expected one migration, got %d", len(sorted))
	}
	if sorted[0].Name != "2026100101" {
		t.Fatalf("unexpected migration name %q", sorted[0].Name)
	}
	for _, table := range []string{"persona_questions", "persona_archetypes", "user_paths", "user_progress"} {
		if !strings.Contains(createProfileTablesSQL, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("schema is missing %s", table)
		}
	}
}
