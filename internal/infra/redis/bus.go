package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"uap-profile-service/internal/domain"
	"uap-profile-service/internal/infra/memory"
	"uap-profile-service/internal/logger"
)

// Bus publishes StorageChanged events on a Redis channel so every instance
// can refresh the views it serves. Delivery to local subscribers goes through
// the embedded memory bus, fed by the forwarder started with Start.
type Bus struct {
	*memory.Bus
	client  *redis.Client
	channel string
	log     *logger.Logger
}

func NewBus(client *redis.Client, channel string, log *logger.Logger) *Bus {
	if channel == "" {
		channel = "storage-changed"
	}
	return &Bus{
		Bus:     memory.NewBus(),
		client:  client,
		channel: channel,
		log:     logger.OrNop(log).With("component", "RedisBus"),
	}
}

// Publish sends evt to every instance, this one included.
func (b *Bus) Publish(ctx context.Context, evt domain.StorageChanged) error {
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, raw).Err()
}

// Start subscribes to the channel and forwards messages to local subscribers
// until ctx is done.
func (b *Bus) Start(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var evt domain.StorageChanged
				if err := json.Unmarshal([]byte(m.Payload), &evt); err != nil {
					b.log.Warn("bad storage event payload", "error", err)
					continue
				}
				b.Broadcast(evt)
			}
		}
	}()
	return nil
}
