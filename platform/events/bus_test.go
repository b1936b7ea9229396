package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"serviceman_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestInMemoryBusPublishSyncOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var order []int
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		order = append(order, 2)
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("handlers ran out of order: %v", order)
	}
}

func TestInMemoryBusPublishSyncStopsOnError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	wantErr := errors.New("boom")
	var secondRan bool
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		return wantErr
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		secondRan = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("want %v, got %v", wantErr, err)
	}
	if secondRan {
		t.Fatal("second handler should not run after error")
	}
}

func TestInMemoryBusPublishAsync(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var calls int64
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	bus.Wait()

	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
}

func TestInMemoryBusPublishSurvivesCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	done := make(chan error, 1)
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		select {
		case <-ctx.Done():
			done <- ctx.Err()
		case <-time.After(50 * time.Millisecond):
			done <- nil
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{NewBaseEvent(), "thing.happened"})
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("handler context cancelled with publisher: %v", err)
	}
	bus.Wait()
}

func TestInMemoryBusNoHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"}); err != nil {
		t.Fatalf("PublishSync with no handlers: %v", err)
	}
}
