package service

import (
	"context"
	"errors"

	"serviceman_backend/internal/events"
	"serviceman_backend/internal/requests/domain"
	"serviceman_backend/internal/requests/repository"
	"serviceman_backend/internal/requests/transport"
	"serviceman_backend/platform/apperr"
	"serviceman_backend/platform/httpkit"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingRef is the slice of booking state the lifecycle needs for guard
// snapshots and status sync.
type BookingRef struct {
	ID     uuid.UUID
	Status domain.BookingStatus
}

// BookingSync lets the lifecycle read and update the booking that belongs to
// a request without importing the bookings module directly. Wired via an
// adapter in the composition root.
type BookingSync interface {
	// FindByRequestID returns nil when the request has no booking.
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*BookingRef, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) error
}

type Service struct {
	repo     *repository.Repository
	bookings BookingSync
	bus      events.Bus
	log      *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// SetBookingSync wires the bookings adapter after both modules exist.
func (s *Service) SetBookingSync(sync BookingSync) {
	s.bookings = sync
}

func (s *Service) Create(ctx context.Context, ident httpkit.Identity, req transport.CreateRequestRequest) (*transport.RequestResponse, error) {
	if !ident.HasRole(domain.RoleCustomer) {
		return nil, apperr.Forbidden("only customers may post requests")
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperr.Validation("invalid service id")
	}

	budgetMin, err := parseOptionalPrice(req.BudgetMin, "budgetMin")
	if err != nil {
		return nil, err
	}
	budgetMax, err := parseOptionalPrice(req.BudgetMax, "budgetMax")
	if err != nil {
		return nil, err
	}
	if budgetMin != nil && budgetMax != nil && budgetMin.GreaterThan(*budgetMax) {
		return nil, apperr.Validation("budgetMin may not exceed budgetMax")
	}

	created, err := s.repo.CreateRequest(ctx, repository.Request{
		CustomerID:  ident.UserID(),
		ServiceID:   serviceID,
		Title:       sanitize.Text(req.Title),
		Description: sanitize.Text(req.Description),
		City:        sanitize.Text(req.City),
		Address:     sanitize.TextPtr(req.Address),
		BudgetMin:   budgetMin,
		BudgetMax:   budgetMax,
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.RequestCreated{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  created.ID,
		CustomerID: created.CustomerID,
		ServiceID:  created.ServiceID,
		Title:      created.Title,
		City:       created.City,
	})

	resp := toRequestResponse(created)
	return &resp, nil
}

func (s *Service) ListMine(ctx context.Context, ident httpkit.Identity) (*transport.ListRequestsResponse, error) {
	var rows []repository.Request
	var err error
	if ident.HasRole(domain.RoleTechnician) {
		rows, err = s.repo.ListByTechnician(ctx, ident.UserID())
	} else {
		rows, err = s.repo.ListByCustomer(ctx, ident.UserID())
	}
	if err != nil {
		return nil, err
	}
	return toListResponse(rows), nil
}

func (s *Service) ListOpen(ctx context.Context, ident httpkit.Identity) (*transport.ListRequestsResponse, error) {
	if !ident.HasRole(domain.RoleTechnician) && !ident.HasRole(domain.RoleAdmin) {
		return nil, apperr.Forbidden("only technicians may browse open requests")
	}
	rows, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return toListResponse(rows), nil
}

func (s *Service) Get(ctx context.Context, ident httpkit.Identity, requestID uuid.UUID) (*transport.RequestDetailResponse, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	isOwner := req.CustomerID == ident.UserID()
	if !isOwner && !ident.HasRole(domain.RoleTechnician) && !ident.HasRole(domain.RoleAdmin) {
		return nil, apperr.Forbidden("not allowed to view this request")
	}

	quotes, err := s.repo.ListQuotes(ctx, requestID)
	if err != nil {
		return nil, err
	}

	detail := &transport.RequestDetailResponse{
		RequestResponse: toRequestResponse(req),
		Quotes:          make([]transport.QuoteResponse, 0, len(quotes)),
	}
	for _, quote := range quotes {
		detail.Quotes = append(detail.Quotes, toQuoteResponse(quote))
	}
	return detail, nil
}

func (s *Service) SubmitQuote(ctx context.Context, ident httpkit.Identity, requestID uuid.UUID, req transport.SubmitQuoteRequest) (*transport.QuoteResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, request)
	if err != nil {
		return nil, err
	}
	if _, err := domain.CanTransition(snap, actorFrom(ident), domain.ActionSubmitQuote); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || !price.IsPositive() {
		return nil, apperr.Validation("price must be a positive amount")
	}

	quote, err := s.repo.CreateQuote(ctx, repository.Quote{
		RequestID:        requestID,
		TechnicianID:     ident.UserID(),
		Price:            price,
		DurationEstimate: sanitize.TextPtr(req.DurationEstimate),
		Message:          sanitize.TextPtr(req.Message),
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.InvalidState("request is no longer open for quotes")
		}
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteSubmitted{
		BaseEvent:    events.NewBaseEvent(),
		QuoteID:      quote.ID,
		RequestID:    requestID,
		CustomerID:   request.CustomerID,
		TechnicianID: quote.TechnicianID,
		Price:        quote.Price.StringFixed(2),
	})

	resp := toQuoteResponse(quote)
	return &resp, nil
}

// AcceptQuote is the first orchestrated pair: the quote flag and the request
// status move together in one transaction. The conditional updates inside the
// repository are the optimistic check; when two customers race, the second
// writer's transaction matches zero rows and surfaces as Conflict.
func (s *Service) AcceptQuote(ctx context.Context, ident httpkit.Identity, requestID, quoteID uuid.UUID) (*transport.QuoteResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	quote, err := s.repo.GetQuote(ctx, quoteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("quote not found")
		}
		return nil, err
	}
	if quote.RequestID != requestID {
		return nil, apperr.Validation("quote does not belong to this request")
	}

	snap, err := s.snapshot(ctx, request)
	if err != nil {
		return nil, err
	}
	if _, err := domain.CanTransition(snap, actorFrom(ident), domain.ActionAcceptQuote); err != nil {
		return nil, err
	}

	if err := s.repo.AcceptQuote(ctx, requestID, quoteID); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict("a quote has already been accepted for this request")
		}
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteAccepted{
		BaseEvent:    events.NewBaseEvent(),
		QuoteID:      quoteID,
		RequestID:    requestID,
		CustomerID:   request.CustomerID,
		TechnicianID: quote.TechnicianID,
		Price:        quote.Price.StringFixed(2),
	})

	accepted, err := s.repo.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	resp := toQuoteResponse(accepted)
	return &resp, nil
}

func (s *Service) StartJob(ctx context.Context, ident httpkit.Identity, requestID uuid.UUID) (*transport.RequestResponse, error) {
	return s.advance(ctx, ident, requestID, domain.ActionStartJob)
}

func (s *Service) CompleteJob(ctx context.Context, ident httpkit.Identity, requestID uuid.UUID) (*transport.RequestResponse, error) {
	return s.advance(ctx, ident, requestID, domain.ActionCompleteJob)
}

func (s *Service) Cancel(ctx context.Context, ident httpkit.Identity, requestID uuid.UUID) (*transport.RequestResponse, error) {
	return s.advance(ctx, ident, requestID, domain.ActionCancel)
}

// advance performs the guard check and the paired request+booking status
// writes for start, complete and cancel. The request row and the booking row
// live in different bounded contexts, so the second write goes through the
// BookingSync port; if it fails after the request update committed, the error
// is surfaced as PartialWrite and callers must re-fetch.
func (s *Service) advance(ctx context.Context, ident httpkit.Identity, requestID uuid.UUID, action domain.Action) (*transport.RequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, request)
	if err != nil {
		return nil, err
	}
	decision, err := domain.CanTransition(snap, actorFrom(ident), action)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatusIf(ctx, requestID, []domain.RequestStatus{request.Status}, decision.NextRequestStatus); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict("request status changed, reload and retry")
		}
		return nil, err
	}

	var bookingID *uuid.UUID
	if decision.NextBookingStatus != "" && snap.HasBooking {
		ref, ferr := s.bookings.FindByRequestID(ctx, requestID)
		if ferr == nil && ref != nil {
			bookingID = &ref.ID
			ferr = s.bookings.UpdateStatus(ctx, ref.ID, decision.NextBookingStatus)
		}
		if ferr != nil {
			// The request status is already committed; do not mask it.
			s.log.Error("booking status sync failed",
				"request_id", requestID.String(),
				"action", string(action),
				"error", ferr.Error(),
			)
			return nil, apperr.PartialWrite("request updated but booking status sync failed, re-fetch for authoritative state", ferr)
		}
	}

	s.publishLifecycle(ctx, action, request, snap, bookingID, ident.UserID())

	updated, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	resp := toRequestResponse(updated)
	return &resp, nil
}

func (s *Service) publishLifecycle(ctx context.Context, action domain.Action, request repository.Request, snap domain.Snapshot, bookingID *uuid.UUID, actorID uuid.UUID) {
	var technicianID uuid.UUID
	if snap.AcceptedTechnicianID != nil {
		technicianID = *snap.AcceptedTechnicianID
	}

	switch action {
	case domain.ActionStartJob:
		if bookingID == nil {
			return
		}
		s.bus.Publish(ctx, events.JobStarted{
			BaseEvent:    events.NewBaseEvent(),
			RequestID:    request.ID,
			BookingID:    *bookingID,
			CustomerID:   request.CustomerID,
			TechnicianID: technicianID,
		})
	case domain.ActionCompleteJob:
		if bookingID == nil {
			return
		}
		s.bus.Publish(ctx, events.JobCompleted{
			BaseEvent:    events.NewBaseEvent(),
			RequestID:    request.ID,
			BookingID:    *bookingID,
			CustomerID:   request.CustomerID,
			TechnicianID: technicianID,
		})
	case domain.ActionCancel:
		s.bus.Publish(ctx, events.RequestCancelled{
			BaseEvent:    events.NewBaseEvent(),
			RequestID:    request.ID,
			BookingID:    bookingID,
			CustomerID:   request.CustomerID,
			TechnicianID: snap.AcceptedTechnicianID,
			CancelledBy:  actorID,
		})
	}
}

// snapshot assembles the guard's view of the request: accepted quote holder
// and booking state.
func (s *Service) snapshot(ctx context.Context, request repository.Request) (domain.Snapshot, error) {
	snap := domain.Snapshot{
		RequestStatus: request.Status,
		CustomerID:    request.CustomerID,
	}

	accepted, err := s.repo.GetAcceptedQuote(ctx, request.ID)
	if err == nil {
		snap.HasAcceptedQuote = true
		tech := accepted.TechnicianID
		snap.AcceptedTechnicianID = &tech
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Snapshot{}, err
	}

	if s.bookings != nil {
		ref, err := s.bookings.FindByRequestID(ctx, request.ID)
		if err != nil {
			return domain.Snapshot{}, err
		}
		if ref != nil {
			snap.HasBooking = true
			snap.BookingStatus = ref.Status
		}
	}

	return snap, nil
}

func (s *Service) getRequest(ctx context.Context, requestID uuid.UUID) (repository.Request, error) {
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Request{}, apperr.NotFound("request not found")
		}
		return repository.Request{}, err
	}
	return request, nil
}

func actorFrom(ident httpkit.Identity) domain.Actor {
	actor := domain.Actor{UserID: ident.UserID()}
	switch {
	case ident.HasRole(domain.RoleTechnician):
		actor.Role = domain.RoleTechnician
	case ident.HasRole(domain.RoleAdmin):
		actor.Role = domain.RoleAdmin
	default:
		actor.Role = domain.RoleCustomer
	}
	return actor
}

func parseOptionalPrice(value *string, field string) (*decimal.Decimal, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil || d.IsNegative() {
		return nil, apperr.Validation(field + " must be a non-negative amount")
	}
	return &d, nil
}

func toRequestResponse(req repository.Request) transport.RequestResponse {
	return transport.RequestResponse{
		ID:           req.ID.String(),
		CustomerID:   req.CustomerID.String(),
		CustomerName: req.CustomerName,
		ServiceID:    req.ServiceID.String(),
		ServiceName:  req.ServiceName,
		Title:        req.Title,
		Description:  req.Description,
		City:         req.City,
		Address:      req.Address,
		BudgetMin:    decimalString(req.BudgetMin),
		BudgetMax:    decimalString(req.BudgetMax),
		Status:       string(req.Status),
		QuoteCount:   req.QuoteCount,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
	}
}

func toQuoteResponse(quote repository.Quote) transport.QuoteResponse {
	return transport.QuoteResponse{
		ID:               quote.ID.String(),
		RequestID:        quote.RequestID.String(),
		TechnicianID:     quote.TechnicianID.String(),
		TechnicianName:   quote.TechnicianName,
		Price:            quote.Price.StringFixed(2),
		DurationEstimate: quote.DurationEstimate,
		Message:          quote.Message,
		IsAccepted:       quote.IsAccepted,
		CreatedAt:        quote.CreatedAt,
	}
}

func toListResponse(rows []repository.Request) *transport.ListRequestsResponse {
	resp := &transport.ListRequestsResponse{
		Requests: make([]transport.RequestResponse, 0, len(rows)),
		Total:    len(rows),
	}
	for _, row := range rows {
		resp.Requests = append(resp.Requests, toRequestResponse(row))
	}
	return resp
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
