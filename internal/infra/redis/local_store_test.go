package redis

import (
	"context"
	"testing"
	"time"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/domain"
)

func TestLocalStoreScopesByDevice(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	stores := NewLocalStores(client, time.Hour)

	a := stores.ForScope("device-a")
	b := stores.ForScope("device-b")
	if err := a.Set(ctx, "uap_path", `["x"]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	if v, ok, err := a.Get(ctx, "uap_path"); err != nil || !ok || v != `["x"]` {
		t.Fatalf("expected value for device-a, got %q ok=%v err=%v", v, ok, err)
	}
	if _, ok, err := b.Get(ctx, "uap_path"); err != nil || ok {
		t.Fatalf("expected device-b to be empty, ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL("local:device-a"); ttl <= 0 {
		t.Fatalf("expected ttl on device hash, got %s", ttl)
	}

	if err := a.Delete(ctx, "uap_path", "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := a.Get(ctx, "uap_path"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestGatewayOverRedisLocalStore(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewLocalStore(client, "device-1", time.Hour)
	g := app.NewGateway("device-1", store, nil, nil)

	if err := store.Set(ctx, g.Keys().Path(), "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := g.LoadPath(ctx); ok {
		t.Fatalf(`expected "[]" to mean no path`)
	}

	want := domain.PathState{ArchetypeID: "historian", ArchetypeName: "The Historian", Path: []string{"t1", "t2"}, Cursor: 1}
	if err := g.SavePath(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := g.LoadPath(ctx)
	if !ok || got.ArchetypeID != want.ArchetypeID || got.Cursor != 1 || len(got.Path) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
