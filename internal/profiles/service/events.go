package service

import (
	"context"
	"fmt"

	"serviceman_backend/internal/events"
)

// RegisterHandlers subscribes the denormalized rating and job counters to the
// review and job lifecycle events.
func (s *Service) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ReviewSubmitted{}.EventName(), events.HandlerFunc(s.onReviewSubmitted))
	bus.Subscribe(events.JobCompleted{}.EventName(), events.HandlerFunc(s.onJobCompleted))
}

func (s *Service) onReviewSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ReviewSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type for %s", event.EventName())
	}
	return s.repo.RecomputeRating(ctx, e.TechnicianID)
}

func (s *Service) onJobCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.JobCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type for %s", event.EventName())
	}
	return s.repo.IncrementTotalJobs(ctx, e.TechnicianID)
}
