package redis

import (
	"context"
	"testing"
	"time"

	"uap-profile-service/internal/domain"
)

func TestBusFansOutAcrossInstances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, client := newTestRedis(t)

	publisher := NewBus(client, "test-storage", nil)
	listener := NewBus(client, "test-storage", nil)
	if err := listener.Start(ctx); err != nil {
		t.Fatalf("start listener: %v", err)
	}
	events, unsubscribe := listener.Subscribe("device-1")
	defer unsubscribe()

	evt := domain.StorageChanged{Scope: "device-1", Keys: []string{"uap_path_index"}, At: time.Now().UTC()}
	if err := publisher.Publish(ctx, evt); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-events:
		if got.Scope != "device-1" || len(got.Keys) != 1 || got.Keys[0] != "uap_path_index" {
			t.Fatalf("unexpected event %+v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected event from redis channel")
	}
}
