// Package domain provides core business rules for the request lifecycle:
// the status vocabulary and the transition guard every mutation goes through.
package domain

// RequestStatus is the lifecycle status of a service request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestQuoted     RequestStatus = "quoted"
	RequestAccepted   RequestStatus = "accepted"
	RequestBooked     RequestStatus = "booked"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	BookingScheduled  BookingStatus = "scheduled"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingReviewed   BookingStatus = "reviewed"
)

// PaymentStatus is the payment state of a booking.
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentCompleted PaymentStatus = "completed"
)

// requestOrder gives each request status its position in the forward
// progression. Cancelled sits outside the ordering.
var requestOrder = map[RequestStatus]int{
	RequestPending:    0,
	RequestQuoted:     1,
	RequestAccepted:   2,
	RequestBooked:     3,
	RequestInProgress: 4,
	RequestCompleted:  5,
}

var terminalRequestStatuses = map[RequestStatus]bool{
	RequestCompleted: true,
	RequestCancelled: true,
}

var terminalBookingStatuses = map[BookingStatus]bool{
	BookingCancelled: true,
	BookingReviewed:  true,
}

// IsTerminalRequestStatus returns true when no further lifecycle action may
// touch the request.
func IsTerminalRequestStatus(status RequestStatus) bool {
	return terminalRequestStatuses[status]
}

// IsTerminalBookingStatus returns true when no further lifecycle action may
// touch the booking.
func IsTerminalBookingStatus(status BookingStatus) bool {
	return terminalBookingStatuses[status]
}

// ValidRequestStatus reports whether the value belongs to the vocabulary.
func ValidRequestStatus(status RequestStatus) bool {
	_, ok := requestOrder[status]
	return ok || status == RequestCancelled
}

// MovesForward reports whether going from one status to another advances the
// progression. Cancellation is never "forward".
func MovesForward(from, to RequestStatus) bool {
	fromOrder, okFrom := requestOrder[from]
	toOrder, okTo := requestOrder[to]
	return okFrom && okTo && toOrder > fromOrder
}
