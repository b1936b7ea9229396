package service

import (
	"context"
	"errors"
	"time"

	"serviceman_backend/internal/bookings/repository"
	"serviceman_backend/internal/bookings/transport"
	"serviceman_backend/internal/events"
	"serviceman_backend/internal/requests/domain"
	"serviceman_backend/internal/scheduler"
	"serviceman_backend/platform/apperr"
	"serviceman_backend/platform/httpkit"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// vatRate is applied on top of the accepted quote price in the simulated
// payment flow.
var vatRate = decimal.NewFromFloat(0.09)

// reminderLeadTime is how long before the scheduled slot the reminder fires.
const reminderLeadTime = 24 * time.Hour

const dateLayout = "2006-01-02"

type Service struct {
	repo      *repository.Repository
	bus       events.Bus
	log       *logger.Logger
	reminders scheduler.ReminderScheduler
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger, reminders scheduler.ReminderScheduler) *Service {
	return &Service{repo: repo, bus: bus, log: log, reminders: reminders}
}

// Book creates the booking for an accepted request. Insert and request status
// update run in one transaction inside the repository; the guard decides
// legality first.
func (s *Service) Book(ctx context.Context, ident httpkit.Identity, req transport.BookSlotRequest) (*transport.BookingResponse, error) {
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return nil, apperr.Validation("invalid request id")
	}

	lc, err := s.repo.GetRequestLifecycle(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("request not found")
		}
		return nil, err
	}

	snap := domain.Snapshot{
		RequestStatus:        lc.RequestStatus,
		CustomerID:           lc.CustomerID,
		AcceptedTechnicianID: lc.AcceptedTechnicianID,
		HasAcceptedQuote:     lc.AcceptedQuoteID != nil,
	}
	if existing, ferr := s.repo.FindByRequestID(ctx, requestID); ferr == nil {
		snap.HasBooking = true
		snap.BookingStatus = existing.Status
	} else if !errors.Is(ferr, repository.ErrNotFound) {
		return nil, ferr
	}

	actor := domain.Actor{UserID: ident.UserID(), Role: roleOf(ident)}
	if _, err := domain.CanTransition(snap, actor, domain.ActionBookSlot); err != nil {
		return nil, err
	}

	scheduledDate, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		return nil, apperr.Validation("scheduledDate must be YYYY-MM-DD")
	}
	if err := validateSlotDate(scheduledDate, time.Now()); err != nil {
		return nil, err
	}

	// Guard guarantees these are set once the action is allowed.
	if lc.AcceptedQuoteID == nil || lc.AcceptedTechnicianID == nil || lc.AcceptedPrice == nil {
		return nil, apperr.Internal("accepted quote missing for accepted request")
	}

	booking, err := s.repo.CreateScheduled(ctx, repository.Booking{
		RequestID:     requestID,
		QuoteID:       *lc.AcceptedQuoteID,
		CustomerID:    lc.CustomerID,
		TechnicianID:  *lc.AcceptedTechnicianID,
		ScheduledDate: scheduledDate,
		ScheduledTime: req.ScheduledTime,
		Notes:         sanitize.TextPtr(req.Notes),
		Amount:        *lc.AcceptedPrice,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict("request status changed, reload and retry")
		}
		return nil, err
	}

	s.bus.Publish(ctx, events.BookingScheduled{
		BaseEvent:     events.NewBaseEvent(),
		BookingID:     booking.ID,
		RequestID:     booking.RequestID,
		CustomerID:    booking.CustomerID,
		TechnicianID:  booking.TechnicianID,
		ScheduledDate: booking.ScheduledDate,
		ScheduledTime: booking.ScheduledTime,
	})

	s.scheduleReminder(ctx, booking)

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *Service) ListMine(ctx context.Context, ident httpkit.Identity) (*transport.ListBookingsResponse, error) {
	var rows []repository.Booking
	var err error
	if ident.HasRole(domain.RoleTechnician) {
		rows, err = s.repo.ListByTechnician(ctx, ident.UserID())
	} else {
		rows, err = s.repo.ListByCustomer(ctx, ident.UserID())
	}
	if err != nil {
		return nil, err
	}

	resp := &transport.ListBookingsResponse{
		Bookings: make([]transport.BookingResponse, 0, len(rows)),
		Total:    len(rows),
	}
	for _, row := range rows {
		resp.Bookings = append(resp.Bookings, toBookingResponse(row))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, ident httpkit.Identity, bookingID uuid.UUID) (*transport.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != ident.UserID() && booking.TechnicianID != ident.UserID() && !ident.HasRole(domain.RoleAdmin) {
		return nil, apperr.Forbidden("not allowed to view this booking")
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

// Pay runs the simulated payment: the accepted quote price plus VAT. The
// conditional update in the repository makes a double submit a Conflict, not
// a double charge.
func (s *Service) Pay(ctx context.Context, ident httpkit.Identity, bookingID uuid.UUID) (*transport.PaymentResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != ident.UserID() {
		return nil, apperr.Forbidden("only the booking owner may pay")
	}
	if booking.Status == domain.BookingCancelled {
		return nil, apperr.InvalidState("a cancelled booking cannot be paid")
	}
	if booking.PaymentStatus == domain.PaymentCompleted {
		return nil, apperr.Conflict("booking already paid")
	}

	amount := booking.Amount
	vat := amount.Mul(vatRate).Round(2)
	total := amount.Add(vat)
	paidAt := time.Now()

	if err := s.repo.CompletePayment(ctx, bookingID, total, paidAt); err != nil {
		if errors.Is(err, repository.ErrAlreadyPaid) {
			return nil, apperr.Conflict("booking already paid")
		}
		return nil, err
	}

	s.bus.Publish(ctx, events.PaymentCompleted{
		BaseEvent:    events.NewBaseEvent(),
		BookingID:    booking.ID,
		RequestID:    booking.RequestID,
		CustomerID:   booking.CustomerID,
		TechnicianID: booking.TechnicianID,
		Amount:       amount.StringFixed(2),
		Total:        total.StringFixed(2),
	})

	return &transport.PaymentResponse{
		BookingID:     booking.ID.String(),
		Amount:        amount.StringFixed(2),
		VAT:           vat.StringFixed(2),
		Total:         total.StringFixed(2),
		PaymentStatus: string(domain.PaymentCompleted),
		PaidAt:        paidAt,
	}, nil
}

func (s *Service) scheduleReminder(ctx context.Context, booking repository.Booking) {
	if s.reminders == nil {
		return
	}

	slot := slotStart(booking.ScheduledDate, booking.ScheduledTime)
	runAt := slot.Add(-reminderLeadTime)
	if runAt.Before(time.Now()) {
		return
	}

	err := s.reminders.ScheduleBookingReminder(ctx, scheduler.BookingReminderPayload{
		BookingID: booking.ID.String(),
	}, runAt)
	if err != nil {
		// Reminders are best effort; the booking itself already committed.
		s.log.Error("failed to schedule booking reminder",
			"booking_id", booking.ID.String(),
			"error", err.Error(),
		)
	}
}

// slotLocation anchors "today" for slot validation. Scheduled dates carry no
// zone, so they are read as dates in the market's local time.
var slotLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// validateSlotDate rejects scheduled dates before the current day. Booking
// for today is allowed.
func validateSlotDate(scheduledDate, now time.Time) error {
	y, m, d := now.In(slotLocation).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, scheduledDate.Location())
	if scheduledDate.Before(today) {
		return apperr.Validation("scheduledDate may not be in the past")
	}
	return nil
}

// slotStart combines the scheduled date with the HH:MM slot time. A slot time
// that does not parse falls back to the start of the day.
func slotStart(date time.Time, slot string) time.Time {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (s *Service) getBooking(ctx context.Context, bookingID uuid.UUID) (repository.Booking, error) {
	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Booking{}, apperr.NotFound("booking not found")
		}
		return repository.Booking{}, err
	}
	return booking, nil
}

func roleOf(ident httpkit.Identity) string {
	switch {
	case ident.HasRole(domain.RoleTechnician):
		return domain.RoleTechnician
	case ident.HasRole(domain.RoleAdmin):
		return domain.RoleAdmin
	default:
		return domain.RoleCustomer
	}
}

func toBookingResponse(b repository.Booking) transport.BookingResponse {
	return transport.BookingResponse{
		ID:             b.ID.String(),
		RequestID:      b.RequestID.String(),
		RequestTitle:   b.RequestTitle,
		QuoteID:        b.QuoteID.String(),
		CustomerID:     b.CustomerID.String(),
		CustomerName:   b.CustomerName,
		TechnicianID:   b.TechnicianID.String(),
		TechnicianName: b.TechnicianName,
		ScheduledDate:  b.ScheduledDate.Format(dateLayout),
		ScheduledTime:  b.ScheduledTime,
		Notes:          b.Notes,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		Amount:         b.Amount.StringFixed(2),
		PaidAt:         b.PaidAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
