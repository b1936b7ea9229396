// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"serviceman_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Request Lifecycle Events
// =============================================================================

// RequestCreated is published when a customer posts a new service request.
type RequestCreated struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	Title      string    `json:"title"`
	City       string    `json:"city"`
}

func (e RequestCreated) EventName() string { return "requests.request.created" }

// QuoteSubmitted is published when a technician quotes on a request.
type QuoteSubmitted struct {
	BaseEvent
	QuoteID      uuid.UUID `json:"quoteId"`
	RequestID    uuid.UUID `json:"requestId"`
	CustomerID   uuid.UUID `json:"customerId"`
	TechnicianID uuid.UUID `json:"technicianId"`
	Price        string    `json:"price"`
}

func (e QuoteSubmitted) EventName() string { return "requests.quote.submitted" }

// QuoteAccepted is published when the customer accepts a quote.
type QuoteAccepted struct {
	BaseEvent
	QuoteID      uuid.UUID `json:"quoteId"`
	RequestID    uuid.UUID `json:"requestId"`
	CustomerID   uuid.UUID `json:"customerId"`
	TechnicianID uuid.UUID `json:"technicianId"`
	Price        string    `json:"price"`
}

func (e QuoteAccepted) EventName() string { return "requests.quote.accepted" }

// JobStarted is published when the accepted technician starts the job.
type JobStarted struct {
	BaseEvent
	RequestID    uuid.UUID `json:"requestId"`
	BookingID    uuid.UUID `json:"bookingId"`
	CustomerID   uuid.UUID `json:"customerId"`
	TechnicianID uuid.UUID `json:"technicianId"`
}

func (e JobStarted) EventName() string { return "requests.job.started" }

// JobCompleted is published when the accepted technician completes the job.
type JobCompleted struct {
	BaseEvent
	RequestID    uuid.UUID `json:"requestId"`
	BookingID    uuid.UUID `json:"bookingId"`
	CustomerID   uuid.UUID `json:"customerId"`
	TechnicianID uuid.UUID `json:"technicianId"`
}

func (e JobCompleted) EventName() string { return "requests.job.completed" }

// RequestCancelled is published when a request is cancelled by either party.
type RequestCancelled struct {
	BaseEvent
	RequestID    uuid.UUID  `json:"requestId"`
	BookingID    *uuid.UUID `json:"bookingId,omitempty"`
	CustomerID   uuid.UUID  `json:"customerId"`
	TechnicianID *uuid.UUID `json:"technicianId,omitempty"`
	CancelledBy  uuid.UUID  `json:"cancelledBy"`
}

func (e RequestCancelled) EventName() string { return "requests.request.cancelled" }

// =============================================================================
// Booking Domain Events
// =============================================================================

// BookingScheduled is published when a customer books a slot for an accepted quote.
type BookingScheduled struct {
	BaseEvent
	BookingID     uuid.UUID `json:"bookingId"`
	RequestID     uuid.UUID `json:"requestId"`
	CustomerID    uuid.UUID `json:"customerId"`
	TechnicianID  uuid.UUID `json:"technicianId"`
	ScheduledDate time.Time `json:"scheduledDate"`
	ScheduledTime string    `json:"scheduledTime"`
}

func (e BookingScheduled) EventName() string { return "bookings.booking.scheduled" }

// PaymentCompleted is published when the simulated payment for a booking succeeds.
type PaymentCompleted struct {
	BaseEvent
	BookingID    uuid.UUID `json:"bookingId"`
	RequestID    uuid.UUID `json:"requestId"`
	CustomerID   uuid.UUID `json:"customerId"`
	TechnicianID uuid.UUID `json:"technicianId"`
	Amount       string    `json:"amount"`
	Total        string    `json:"total"`
}

func (e PaymentCompleted) EventName() string { return "bookings.payment.completed" }

// BookingReminderDue is published by the worker when a booking reminder fires.
type BookingReminderDue struct {
	BaseEvent
	BookingID     uuid.UUID `json:"bookingId"`
	RequestID     uuid.UUID `json:"requestId"`
	CustomerID    uuid.UUID `json:"customerId"`
	TechnicianID  uuid.UUID `json:"technicianId"`
	ScheduledDate time.Time `json:"scheduledDate"`
	ScheduledTime string    `json:"scheduledTime"`
}

func (e BookingReminderDue) EventName() string { return "bookings.reminder.due" }

// =============================================================================
// Review Domain Events
// =============================================================================

// ReviewSubmitted is published when a customer reviews a completed booking.
type ReviewSubmitted struct {
	BaseEvent
	ReviewID     uuid.UUID `json:"reviewId"`
	BookingID    uuid.UUID `json:"bookingId"`
	CustomerID   uuid.UUID `json:"customerId"`
	TechnicianID uuid.UUID `json:"technicianId"`
	Rating       int       `json:"rating"`
}

func (e ReviewSubmitted) EventName() string { return "reviews.review.submitted" }
