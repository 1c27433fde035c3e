package redis

import (
	"context"
	"testing"
	"time"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/catalog"
)

func TestSessionStoreMirrorsAnswers(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewSessionStore(client, time.Minute)

	session := store.GetOrCreate(ctx, "device-1", catalog.Builtin())
	if _, ok := session.Answer("q-motivation", "see-data"); !ok {
		t.Fatalf("answer rejected")
	}
	store.Save(ctx, session)

	key := "quiz:session:device-1:answers"
	if got := mr.HGet(key, "q-motivation"); got != "see-data" {
		t.Fatalf("expected mirrored answer, got %q", got)
	}

	store.Delete(ctx, "device-1")
	if mr.Exists(key) {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreResumesFromRedis(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	first := NewSessionStore(client, time.Minute)
	session := first.GetOrCreate(ctx, "device-1", catalog.Builtin())
	session.Answer("q-motivation", "see-data")
	session.Answer("q-evidence", "documents")
	first.Save(ctx, session)

	// a second instance, e.g. after a restart
	second := NewSessionStore(client, time.Minute)
	if _, ok := second.Get(ctx, "device-1"); ok {
		t.Fatalf("expected no live session before GetOrCreate")
	}
	resumed := second.GetOrCreate(ctx, "device-1", catalog.Builtin())
	view := resumed.View()
	if view.State != app.StateInProgress || view.Index != 2 {
		t.Fatalf("expected resume at question 3, got %+v", view)
	}
	if view.Answers["q-evidence"] != "documents" {
		t.Fatalf("expected restored answers, got %+v", view.Answers)
	}
}

func TestSessionStoreRetakeClearsMirror(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewSessionStore(client, time.Minute)

	session := store.GetOrCreate(ctx, "device-1", catalog.Builtin())
	session.Answer("q-motivation", "see-data")
	store.Save(ctx, session)
	session.Retake()
	store.Save(ctx, session)

	if mr.Exists("quiz:session:device-1:answers") {
		t.Fatalf("expected empty answer set to drop the hash")
	}
}
