// Package notification subscribes to domain events and emits structured log
// notifications. It inverts the dependency: lifecycle modules publish events
// and never know how users get notified. A real delivery channel (SMS, push)
// would attach here.
package notification

import (
	"context"

	"serviceman_backend/internal/events"
	"serviceman_backend/platform/logger"
)

type Notifier struct {
	log *logger.Logger
}

func NewNotifier(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// RegisterHandlers subscribes the notifier to every lifecycle event worth
// surfacing to a user.
func (n *Notifier) RegisterHandlers(bus events.Bus) {
	subscribe := []string{
		events.UserSignedUp{}.EventName(),
		events.RequestCreated{}.EventName(),
		events.QuoteSubmitted{}.EventName(),
		events.QuoteAccepted{}.EventName(),
		events.BookingScheduled{}.EventName(),
		events.BookingReminderDue{}.EventName(),
		events.JobStarted{}.EventName(),
		events.JobCompleted{}.EventName(),
		events.RequestCancelled{}.EventName(),
		events.PaymentCompleted{}.EventName(),
		events.ReviewSubmitted{}.EventName(),
	}
	for _, name := range subscribe {
		bus.Subscribe(name, events.HandlerFunc(n.handle))
	}
}

func (n *Notifier) handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserSignedUp:
		n.notify("welcome aboard", "user_id", e.UserID.String(), "role", e.Role)
	case events.RequestCreated:
		n.notify("request posted", "request_id", e.RequestID.String(), "customer_id", e.CustomerID.String(), "city", e.City)
	case events.QuoteSubmitted:
		n.notify("new quote on your request", "request_id", e.RequestID.String(), "customer_id", e.CustomerID.String(), "price", e.Price)
	case events.QuoteAccepted:
		n.notify("your quote was accepted", "request_id", e.RequestID.String(), "technician_id", e.TechnicianID.String(), "price", e.Price)
	case events.BookingScheduled:
		n.notify("booking confirmed", "booking_id", e.BookingID.String(), "technician_id", e.TechnicianID.String(), "slot", e.ScheduledDate.Format("2006-01-02")+" "+e.ScheduledTime)
	case events.BookingReminderDue:
		n.notify("booking reminder", "booking_id", e.BookingID.String(), "customer_id", e.CustomerID.String(), "slot", e.ScheduledDate.Format("2006-01-02")+" "+e.ScheduledTime)
	case events.JobStarted:
		n.notify("job started", "request_id", e.RequestID.String(), "customer_id", e.CustomerID.String())
	case events.JobCompleted:
		n.notify("job completed, you can leave a review", "request_id", e.RequestID.String(), "customer_id", e.CustomerID.String())
	case events.RequestCancelled:
		n.notify("request cancelled", "request_id", e.RequestID.String(), "cancelled_by", e.CancelledBy.String())
	case events.PaymentCompleted:
		n.notify("payment received", "booking_id", e.BookingID.String(), "total", e.Total)
	case events.ReviewSubmitted:
		n.notify("new review", "technician_id", e.TechnicianID.String(), "rating", e.Rating)
	}
	return nil
}

func (n *Notifier) notify(message string, args ...any) {
	n.log.Info("notification: "+message, args...)
}
