package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"forumkit/core"
)

func TestEventBusSyncDispatch(t *testing.T) {
	bus := NewEventBus(DispatchSync)
	defer bus.Close()

	got := 0
	unsub := bus.Subscribe(core.EventLevelUp, func(_ context.Context, e core.Event) { got++ })

	bus.Publish(context.Background(), core.NewLevelUp("u", 2))
	bus.Publish(context.Background(), core.NewBadgeAwarded("u", "LEVEL_2")) // different type, ignored
	if got != 1 {
		t.Fatalf("handler calls = %d, want 1", got)
	}

	unsub()
	bus.Publish(context.Background(), core.NewLevelUp("u", 3))
	if got != 1 {
		t.Fatalf("handler called after unsubscribe: %d", got)
	}
}

func TestEventBusAsyncDispatch(t *testing.T) {
	bus := NewEventBus(DispatchAsync)
	defer bus.Close()

	var mu sync.Mutex
	got := 0
	bus.Subscribe(core.EventPointsAdded, func(_ context.Context, e core.Event) {
		mu.Lock()
		got++
		mu.Unlock()
	})

	for i := 0; i < 10; i++ {
		bus.Publish(context.Background(), core.NewPointsAdded("u", core.EventPostCreated, 5, 5*(i+1)))
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := got
		mu.Unlock()
		if n == 10 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("async dispatch delivered %d of 10", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
