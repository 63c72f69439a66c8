package notify

import (
	"context"
	"sync"
	"time"
)

// Event says that the value under Key was rewritten. Origin identifies the
// writer so a subscriber can skip its own echoes.
type Event struct {
	Key    string    `json:"key"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// Bus carries storage-change signals. Delivery is best effort: a missed
// event only delays a refresh, it never corrupts data.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe delivers events to fn until ctx is done
	Subscribe(ctx context.Context, fn func(Event)) error
	Close() error
}

// LocalBus fans events out to in-process subscribers synchronously.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]func(Event))}
}

func (b *LocalBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, fn func(Event)) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[int]func(Event))
	return nil
}
