package domain

import (
	"testing"

	"serviceman_backend/platform/apperr"

	"github.com/google/uuid"
)

var (
	customerID   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	technicianID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	strangerID   = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func acceptedSnapshot(status RequestStatus) Snapshot {
	tech := technicianID
	return Snapshot{
		RequestStatus:        status,
		CustomerID:           customerID,
		AcceptedTechnicianID: &tech,
		HasAcceptedQuote:     true,
	}
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := apperr.GetKind(err); got != kind {
		t.Fatalf("error kind = %v, want %v (err: %v)", got, kind, err)
	}
}

func TestCanTransitionTable(t *testing.T) {
	customer := Actor{UserID: customerID, Role: RoleCustomer}
	technician := Actor{UserID: technicianID, Role: RoleTechnician}
	otherTech := Actor{UserID: strangerID, Role: RoleTechnician}

	cases := []struct {
		name     string
		snap     Snapshot
		actor    Actor
		action   Action
		wantNext RequestStatus
		wantKind apperr.Kind // zero means allow
	}{
		{
			name:     "technician quotes pending request",
			snap:     Snapshot{RequestStatus: RequestPending, CustomerID: customerID},
			actor:    technician,
			action:   ActionSubmitQuote,
			wantNext: RequestQuoted,
		},
		{
			name:     "second technician quotes already-quoted request",
			snap:     Snapshot{RequestStatus: RequestQuoted, CustomerID: customerID},
			actor:    otherTech,
			action:   ActionSubmitQuote,
			wantNext: RequestQuoted,
		},
		{
			name:     "customer may not quote",
			snap:     Snapshot{RequestStatus: RequestPending, CustomerID: customerID},
			actor:    customer,
			action:   ActionSubmitQuote,
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "quoting a cancelled request",
			snap:     Snapshot{RequestStatus: RequestCancelled, CustomerID: customerID},
			actor:    technician,
			action:   ActionSubmitQuote,
			wantKind: apperr.KindInvalidState,
		},
		{
			name:     "owner accepts quote from quoted",
			snap:     Snapshot{RequestStatus: RequestQuoted, CustomerID: customerID},
			actor:    customer,
			action:   ActionAcceptQuote,
			wantNext: RequestAccepted,
		},
		{
			name:     "owner accepts quote from pending",
			snap:     Snapshot{RequestStatus: RequestPending, CustomerID: customerID},
			actor:    customer,
			action:   ActionAcceptQuote,
			wantNext: RequestAccepted,
		},
		{
			name:     "stranger may not accept",
			snap:     Snapshot{RequestStatus: RequestQuoted, CustomerID: customerID},
			actor:    Actor{UserID: strangerID, Role: RoleCustomer},
			action:   ActionAcceptQuote,
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "second accept conflicts",
			snap:     acceptedSnapshot(RequestAccepted),
			actor:    customer,
			action:   ActionAcceptQuote,
			wantKind: apperr.KindConflict,
		},
		{
			name:     "owner books accepted request",
			snap:     acceptedSnapshot(RequestAccepted),
			actor:    customer,
			action:   ActionBookSlot,
			wantNext: RequestBooked,
		},
		{
			name:     "booking before acceptance",
			snap:     Snapshot{RequestStatus: RequestQuoted, CustomerID: customerID},
			actor:    customer,
			action:   ActionBookSlot,
			wantKind: apperr.KindInvalidState,
		},
		{
			name: "double booking conflicts",
			snap: func() Snapshot {
				s := acceptedSnapshot(RequestBooked)
				s.HasBooking = true
				s.BookingStatus = BookingScheduled
				return s
			}(),
			actor:    customer,
			action:   ActionBookSlot,
			wantKind: apperr.KindConflict,
		},
		{
			name: "accepted technician starts booked job",
			snap: func() Snapshot {
				s := acceptedSnapshot(RequestBooked)
				s.HasBooking = true
				s.BookingStatus = BookingScheduled
				return s
			}(),
			actor:    technician,
			action:   ActionStartJob,
			wantNext: RequestInProgress,
		},
		{
			name:     "other technician may not start",
			snap:     acceptedSnapshot(RequestBooked),
			actor:    otherTech,
			action:   ActionStartJob,
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "starting before booking",
			snap:     acceptedSnapshot(RequestAccepted),
			actor:    technician,
			action:   ActionStartJob,
			wantKind: apperr.KindInvalidState,
		},
		{
			name:     "accepted technician completes job in progress",
			snap:     acceptedSnapshot(RequestInProgress),
			actor:    technician,
			action:   ActionCompleteJob,
			wantNext: RequestCompleted,
		},
		{
			name:     "completing a job not started",
			snap:     acceptedSnapshot(RequestBooked),
			actor:    technician,
			action:   ActionCompleteJob,
			wantKind: apperr.KindInvalidState,
		},
		{
			name:     "owner cancels pending request",
			snap:     Snapshot{RequestStatus: RequestPending, CustomerID: customerID},
			actor:    customer,
			action:   ActionCancel,
			wantNext: RequestCancelled,
		},
		{
			name:     "technician may not cancel before acceptance",
			snap:     Snapshot{RequestStatus: RequestQuoted, CustomerID: customerID},
			actor:    technician,
			action:   ActionCancel,
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "accepted technician cancels booked request",
			snap:     acceptedSnapshot(RequestBooked),
			actor:    technician,
			action:   ActionCancel,
			wantNext: RequestCancelled,
		},
		{
			name:     "cancelling a job in progress",
			snap:     acceptedSnapshot(RequestInProgress),
			actor:    customer,
			action:   ActionCancel,
			wantKind: apperr.KindInvalidState,
		},
		{
			name:     "cancelling a completed request",
			snap:     acceptedSnapshot(RequestCompleted),
			actor:    customer,
			action:   ActionCancel,
			wantKind: apperr.KindInvalidState,
		},
		{
			name: "owner reviews completed booking",
			snap: func() Snapshot {
				s := acceptedSnapshot(RequestCompleted)
				s.HasBooking = true
				s.BookingStatus = BookingCompleted
				return s
			}(),
			actor:    customer,
			action:   ActionSubmitReview,
			wantNext: RequestCompleted,
		},
		{
			name: "second review conflicts",
			snap: func() Snapshot {
				s := acceptedSnapshot(RequestCompleted)
				s.HasBooking = true
				s.BookingStatus = BookingReviewed
				s.HasReview = true
				return s
			}(),
			actor:    customer,
			action:   ActionSubmitReview,
			wantKind: apperr.KindConflict,
		},
		{
			name: "reviewing an unfinished booking",
			snap: func() Snapshot {
				s := acceptedSnapshot(RequestInProgress)
				s.HasBooking = true
				s.BookingStatus = BookingInProgress
				return s
			}(),
			actor:    customer,
			action:   ActionSubmitReview,
			wantKind: apperr.KindInvalidState,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := CanTransition(tc.snap, tc.actor, tc.action)
			if tc.wantKind != apperr.KindUnknown {
				wantKind(t, err, tc.wantKind)
				return
			}
			if err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if decision.NextRequestStatus != tc.wantNext {
				t.Fatalf("next status = %s, want %s", decision.NextRequestStatus, tc.wantNext)
			}
		})
	}
}

// TestHappyPathScenario walks the full lifecycle: post, quote, accept, book,
// start, complete, review. Each step's decision feeds the next snapshot.
func TestHappyPathScenario(t *testing.T) {
	customer := Actor{UserID: customerID, Role: RoleCustomer}
	technician := Actor{UserID: technicianID, Role: RoleTechnician}
	tech := technicianID

	snap := Snapshot{RequestStatus: RequestPending, CustomerID: customerID}

	d, err := CanTransition(snap, technician, ActionSubmitQuote)
	if err != nil {
		t.Fatalf("submit quote: %v", err)
	}
	snap.RequestStatus = d.NextRequestStatus

	d, err = CanTransition(snap, customer, ActionAcceptQuote)
	if err != nil {
		t.Fatalf("accept quote: %v", err)
	}
	snap.RequestStatus = d.NextRequestStatus
	snap.HasAcceptedQuote = true
	snap.AcceptedTechnicianID = &tech

	d, err = CanTransition(snap, customer, ActionBookSlot)
	if err != nil {
		t.Fatalf("book slot: %v", err)
	}
	snap.RequestStatus = d.NextRequestStatus
	snap.HasBooking = true
	snap.BookingStatus = d.NextBookingStatus

	d, err = CanTransition(snap, technician, ActionStartJob)
	if err != nil {
		t.Fatalf("start job: %v", err)
	}
	snap.RequestStatus = d.NextRequestStatus
	snap.BookingStatus = d.NextBookingStatus

	d, err = CanTransition(snap, technician, ActionCompleteJob)
	if err != nil {
		t.Fatalf("complete job: %v", err)
	}
	snap.RequestStatus = d.NextRequestStatus
	snap.BookingStatus = d.NextBookingStatus

	d, err = CanTransition(snap, customer, ActionSubmitReview)
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	snap.BookingStatus = d.NextBookingStatus

	if snap.RequestStatus != RequestCompleted {
		t.Fatalf("final request status = %s, want completed", snap.RequestStatus)
	}
	if snap.BookingStatus != BookingReviewed {
		t.Fatalf("final booking status = %s, want reviewed", snap.BookingStatus)
	}
}

func TestStatusOrderingMonotonic(t *testing.T) {
	forward := []RequestStatus{
		RequestPending, RequestQuoted, RequestAccepted,
		RequestBooked, RequestInProgress, RequestCompleted,
	}
	for i := 0; i < len(forward)-1; i++ {
		if !MovesForward(forward[i], forward[i+1]) {
			t.Errorf("MovesForward(%s, %s) = false, want true", forward[i], forward[i+1])
		}
		if MovesForward(forward[i+1], forward[i]) {
			t.Errorf("MovesForward(%s, %s) = true, want false", forward[i+1], forward[i])
		}
	}
	if MovesForward(RequestPending, RequestCancelled) {
		t.Error("cancellation must not count as forward progress")
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !IsTerminalRequestStatus(RequestCompleted) || !IsTerminalRequestStatus(RequestCancelled) {
		t.Error("completed and cancelled are terminal request statuses")
	}
	if IsTerminalRequestStatus(RequestInProgress) {
		t.Error("in_progress is not terminal")
	}
	if !IsTerminalBookingStatus(BookingReviewed) || !IsTerminalBookingStatus(BookingCancelled) {
		t.Error("reviewed and cancelled are terminal booking statuses")
	}
}
