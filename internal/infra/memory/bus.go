package memory

import (
	"context"
	"sync"

	"uap-profile-service/internal/domain"
)

// Bus is an in-process app.EventBus. Subscribers of a scope receive every
// StorageChanged event published for that scope; a slow subscriber loses its
// oldest pending event instead of blocking the publisher.
type Bus struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.StorageChanged]struct{}
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]map[chan domain.StorageChanged]struct{})}
}

func (b *Bus) Publish(_ context.Context, evt domain.StorageChanged) error {
	b.Broadcast(evt)
	return nil
}

// Broadcast delivers evt to the local subscribers of evt.Scope.
func (b *Bus) Broadcast(evt domain.StorageChanged) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers[evt.Scope] {
		select {
		case ch <- evt:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- evt
		}
	}
}

// Subscribe registers a subscriber for scope. The caller must invoke the
// returned cancel function to avoid leaks.
func (b *Bus) Subscribe(scope string) (<-chan domain.StorageChanged, func()) {
	ch := make(chan domain.StorageChanged, 8)

	b.mu.Lock()
	subs, ok := b.subscribers[scope]
	if !ok {
		subs = make(map[chan domain.StorageChanged]struct{})
		b.subscribers[scope] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[scope]
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(b.subscribers, scope)
			}
		}
	}
	return ch, cancel
}

// Subscribers reports the number of live subscribers of scope.
func (b *Bus) Subscribers(scope string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[scope])
}
