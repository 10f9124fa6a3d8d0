package cinemaserver

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// subscriberBuffer is how many undelivered events a subscriber may hold.
// Past that the oldest one is dropped.
const subscriberBuffer = 10

// EventBus fans creation events out to subscriptions.
type EventBus struct {
	Countries *Topic[*Country]
	Films     *Topic[*Film]
	Actors    *Topic[*Actor]
}

// NewEventBus creates a bus. Dropped events are logged as warnings.
func NewEventBus(log *zap.Logger) *EventBus {
	return &EventBus{
		Countries: newTopic[*Country](log.With(zap.String("topic", "countryCreated"))),
		Films:     newTopic[*Film](log.With(zap.String("topic", "filmCreated"))),
		Actors:    newTopic[*Actor](log.With(zap.String("topic", "actorCreated"))),
	}
}

// Close ends every subscription.
func (b *EventBus) Close() {
	b.Countries.close()
	b.Films.close()
	b.Actors.close()
}

// Topic is one stream of events. Each event carries the id of the country
// it belongs to so subscribers can filter on it.
type Topic[T any] struct {
	log    *zap.Logger
	mu     sync.Mutex
	subs   map[*subscriber[T]]struct{}
	closed bool
}

type subscriber[T any] struct {
	country *int64
	ch      chan T
}

func newTopic[T any](log *zap.Logger) *Topic[T] {
	return &Topic[T]{log: log, subs: make(map[*subscriber[T]]struct{})}
}

// Subscribe returns a channel of the events published after the call.
// A non-nil country keeps only that country's events. The channel is
// closed once ctx is done or the bus is closed.
func (t *Topic[T]) Subscribe(ctx context.Context, country *int64) <-chan T {
	sub := &subscriber[T]{country: country, ch: make(chan T, subscriberBuffer)}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	t.subs[sub] = struct{}{}
	t.mu.Unlock()

	context.AfterFunc(ctx, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.subs[sub]; ok {
			delete(t.subs, sub)
			close(sub.ch)
		}
	})
	return sub.ch
}

// Publish delivers v to the matching subscribers without blocking.
func (t *Topic[T]) Publish(country int64, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for sub := range t.subs {
		if sub.country != nil && *sub.country != country {
			continue
		}
		select {
		case sub.ch <- v:
			continue
		default:
		}
		// full: drop the oldest and retry once
		select {
		case <-sub.ch:
			t.log.Warn("subscriber is lagging, dropped oldest event",
				zap.Int("buffer", subscriberBuffer))
		default:
		}
		select {
		case sub.ch <- v:
		default:
			t.log.Warn("subscriber is lagging, dropped event")
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (t *Topic[T]) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

func (t *Topic[T]) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for sub := range t.subs {
		delete(t.subs, sub)
		close(sub.ch)
	}
}
