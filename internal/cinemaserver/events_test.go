package cinemaserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func drain[T any](ch <-chan T) []T {
	var out []T
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, v)
		default:
			return out
		}
	}
}

func TestTopic_filtersByCountry(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	defer bus.Close()

	ctx := context.Background()
	all := bus.Films.Subscribe(ctx, nil)
	spain := bus.Films.Subscribe(ctx, int64p(7))

	bus.Films.Publish(7, &Film{ID: 1})
	bus.Films.Publish(16, &Film{ID: 2})

	assert.Len(t, drain(all), 2)
	got := drain(spain)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestTopic_dropsOldestWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bus := NewEventBus(zap.New(core))
	defer bus.Close()

	ch := bus.Countries.Subscribe(context.Background(), nil)
	for i := int64(1); i <= subscriberBuffer+2; i++ {
		bus.Countries.Publish(i, &Country{ID: i})
	}

	got := drain(ch)
	require.Len(t, got, subscriberBuffer)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(subscriberBuffer+2), got[len(got)-1].ID)
	assert.Equal(t, 2, logs.FilterMessageSnippet("dropped oldest").Len())
}

func TestTopic_unsubscribesOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewEventBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	ch := bus.Actors.Subscribe(ctx, nil)
	require.Equal(t, 1, bus.Actors.Subscribers())

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel is closed")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed")
	}
	assert.Equal(t, 0, bus.Actors.Subscribers())

	// publishing after cancel must not panic on the closed channel
	bus.Actors.Publish(7, &Actor{ID: 1})
	bus.Close()
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	ch := bus.Films.Subscribe(context.Background(), nil)
	bus.Close()

	_, ok := <-ch
	assert.False(t, ok)

	late := bus.Films.Subscribe(context.Background(), nil)
	_, ok = <-late
	assert.False(t, ok, "subscribing to a closed bus yields a closed channel")
}

func TestForward_stopsWithSource(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := make(chan int, 2)
	in <- 1
	in <- 2
	close(in)

	out := forward(context.Background(), in, func(v int) int { return v * 10 })
	var got []int
	for v := range out {
		got = append(got, v)
	}
	assert.Equal(t, []int{10, 20}, got)
}
