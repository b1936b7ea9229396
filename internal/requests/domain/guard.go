package domain

import (
	"serviceman_backend/platform/apperr"

	"github.com/google/uuid"
)

// Action is a lifecycle action subject to the transition guard.
type Action string

const (
	ActionSubmitQuote  Action = "submit_quote"
	ActionAcceptQuote  Action = "accept_quote"
	ActionBookSlot     Action = "book_slot"
	ActionStartJob     Action = "start_job"
	ActionCompleteJob  Action = "complete_job"
	ActionCancel       Action = "cancel"
	ActionSubmitReview Action = "submit_review"
)

// Roles as they appear in JWT claims.
const (
	RoleCustomer   = "customer"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// Snapshot is the request state a guard decision is made against. The service
// layer assembles it from the request row and its accepted quote and booking.
type Snapshot struct {
	RequestStatus        RequestStatus
	CustomerID           uuid.UUID
	AcceptedTechnicianID *uuid.UUID
	HasAcceptedQuote     bool
	HasBooking           bool
	BookingStatus        BookingStatus
	HasReview            bool
}

// Actor is the user attempting the action.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// Decision carries the statuses to write when the action is allowed. A zero
// NextBookingStatus means the booking row is untouched.
type Decision struct {
	NextRequestStatus RequestStatus
	NextBookingStatus BookingStatus
}

// CanTransition decides whether the actor may perform the action against the
// snapshot. It is pure: same inputs, same decision. Denials are typed:
// Forbidden for role or ownership failures, InvalidState for actions illegal
// from the current status, Conflict for already-taken one-shot actions.
func CanTransition(snap Snapshot, actor Actor, action Action) (Decision, error) {
	switch action {
	case ActionSubmitQuote:
		return canSubmitQuote(snap, actor)
	case ActionAcceptQuote:
		return canAcceptQuote(snap, actor)
	case ActionBookSlot:
		return canBookSlot(snap, actor)
	case ActionStartJob:
		return canStartJob(snap, actor)
	case ActionCompleteJob:
		return canCompleteJob(snap, actor)
	case ActionCancel:
		return canCancel(snap, actor)
	case ActionSubmitReview:
		return canSubmitReview(snap, actor)
	default:
		return Decision{}, apperr.BadRequest("unknown action")
	}
}

func canSubmitQuote(snap Snapshot, actor Actor) (Decision, error) {
	if actor.Role != RoleTechnician {
		return Decision{}, apperr.Forbidden("only technicians may submit quotes")
	}
	if snap.RequestStatus != RequestPending && snap.RequestStatus != RequestQuoted {
		return Decision{}, apperr.InvalidState("request is no longer open for quotes")
	}
	return Decision{NextRequestStatus: RequestQuoted}, nil
}

func canAcceptQuote(snap Snapshot, actor Actor) (Decision, error) {
	if actor.UserID != snap.CustomerID {
		return Decision{}, apperr.Forbidden("only the request owner may accept a quote")
	}
	if snap.HasAcceptedQuote {
		return Decision{}, apperr.Conflict("a quote has already been accepted for this request")
	}
	if snap.RequestStatus != RequestPending && snap.RequestStatus != RequestQuoted {
		return Decision{}, apperr.InvalidState("quotes can only be accepted while the request is open")
	}
	return Decision{NextRequestStatus: RequestAccepted}, nil
}

func canBookSlot(snap Snapshot, actor Actor) (Decision, error) {
	if actor.UserID != snap.CustomerID {
		return Decision{}, apperr.Forbidden("only the request owner may book a slot")
	}
	if snap.HasBooking {
		return Decision{}, apperr.Conflict("a booking already exists for this request")
	}
	if snap.RequestStatus != RequestAccepted {
		return Decision{}, apperr.InvalidState("a slot can only be booked after a quote is accepted")
	}
	return Decision{
		NextRequestStatus: RequestBooked,
		NextBookingStatus: BookingScheduled,
	}, nil
}

func canStartJob(snap Snapshot, actor Actor) (Decision, error) {
	if !isAcceptedTechnician(snap, actor) {
		return Decision{}, apperr.Forbidden("only the accepted technician may start the job")
	}
	if snap.RequestStatus != RequestBooked {
		return Decision{}, apperr.InvalidState("the job can only start after a slot is booked")
	}
	return Decision{
		NextRequestStatus: RequestInProgress,
		NextBookingStatus: BookingInProgress,
	}, nil
}

func canCompleteJob(snap Snapshot, actor Actor) (Decision, error) {
	if !isAcceptedTechnician(snap, actor) {
		return Decision{}, apperr.Forbidden("only the accepted technician may complete the job")
	}
	if snap.RequestStatus != RequestInProgress {
		return Decision{}, apperr.InvalidState("only a job in progress can be completed")
	}
	return Decision{
		NextRequestStatus: RequestCompleted,
		NextBookingStatus: BookingCompleted,
	}, nil
}

func canCancel(snap Snapshot, actor Actor) (Decision, error) {
	switch snap.RequestStatus {
	case RequestPending, RequestQuoted:
		// Before acceptance only the customer may cancel.
		if actor.UserID != snap.CustomerID {
			return Decision{}, apperr.Forbidden("only the request owner may cancel")
		}
	case RequestAccepted, RequestBooked:
		if actor.UserID != snap.CustomerID && !isAcceptedTechnician(snap, actor) {
			return Decision{}, apperr.Forbidden("only the request owner or the accepted technician may cancel")
		}
	default:
		return Decision{}, apperr.InvalidState("the request can no longer be cancelled")
	}

	decision := Decision{NextRequestStatus: RequestCancelled}
	if snap.HasBooking && !IsTerminalBookingStatus(snap.BookingStatus) {
		decision.NextBookingStatus = BookingCancelled
	}
	return decision, nil
}

func canSubmitReview(snap Snapshot, actor Actor) (Decision, error) {
	if actor.UserID != snap.CustomerID {
		return Decision{}, apperr.Forbidden("only the request owner may submit a review")
	}
	if snap.HasReview {
		return Decision{}, apperr.Conflict("this booking has already been reviewed")
	}
	if !snap.HasBooking || snap.BookingStatus != BookingCompleted {
		return Decision{}, apperr.InvalidState("only a completed booking can be reviewed")
	}
	return Decision{
		NextRequestStatus: snap.RequestStatus,
		NextBookingStatus: BookingReviewed,
	}, nil
}

func isAcceptedTechnician(snap Snapshot, actor Actor) bool {
	return snap.AcceptedTechnicianID != nil &&
		actor.Role == RoleTechnician &&
		*snap.AcceptedTechnicianID == actor.UserID
}
