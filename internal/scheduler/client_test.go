package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "test" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestScheduleBookingReminder(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.ScheduleBookingReminder(context.Background(), BookingReminderPayload{
		BookingID: "0b6bd6a5-4b36-4df6-9e36-05a156acbbb5",
	}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ScheduleBookingReminder: %v", err)
	}

	// asynq keeps future tasks in the queue's scheduled set.
	if !srv.Exists("asynq:{test}:scheduled") {
		t.Fatal("expected a task in the scheduled set")
	}
}

func TestScheduleBookingReminderNilClient(t *testing.T) {
	var client *Client
	err := client.ScheduleBookingReminder(context.Background(), BookingReminderPayload{BookingID: "x"}, time.Now())
	if err != nil {
		t.Fatalf("nil client should be a no-op, got %v", err)
	}
}

func TestBookingReminderTaskRoundTrip(t *testing.T) {
	task, err := NewBookingReminderTask(BookingReminderPayload{BookingID: "abc"})
	if err != nil {
		t.Fatalf("NewBookingReminderTask: %v", err)
	}
	if task.Type() != TaskBookingReminder {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskBookingReminder)
	}

	payload, err := ParseBookingReminderPayload(task)
	if err != nil {
		t.Fatalf("ParseBookingReminderPayload: %v", err)
	}
	if payload.BookingID != "abc" {
		t.Fatalf("booking id = %q, want %q", payload.BookingID, "abc")
	}
}
