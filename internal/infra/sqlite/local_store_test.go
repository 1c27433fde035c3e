package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesPragmas(t *testing.T) {
	db := openTestDB(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, db.db.QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestLocalStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	a := db.ForScope("device-a")
	b := db.ForScope("device-b")

	require.NoError(t, a.Set(ctx, "uap_path_index", "0"))
	require.NoError(t, a.Set(ctx, "uap_path_index", "2"))

	v, ok, err := a.Get(ctx, "uap_path_index")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok, err = b.Get(ctx, "uap_path_index")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Delete(ctx, "uap_path_index", "missing"))
	_, ok, err = a.Get(ctx, "uap_path_index")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScopesListsDevicesWithData(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.ForScope("zeta").Set(ctx, "k", "v"))
	require.NoError(t, db.ForScope("alpha").Set(ctx, "k", "v"))
	require.NoError(t, db.ForScope("alpha").Set(ctx, "k2", "v"))

	scopes, err := db.Scopes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, scopes)
}

func TestPathSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "local.db")

	db, err := Open(file)
	require.NoError(t, err)
	g := app.NewGateway("cli", db.ForScope("cli"), nil, nil)
	want := domain.PathState{ArchetypeID: "skeptic", ArchetypeName: "The Skeptic", Path: []string{"a", "b", "c"}, Cursor: 1}
	require.NoError(t, g.SavePath(ctx, want))
	require.NoError(t, db.Close())

	db, err = Open(file)
	require.NoError(t, err)
	defer db.Close()
	got, ok := app.NewGateway("cli", db.ForScope("cli"), nil, nil).LoadPath(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
