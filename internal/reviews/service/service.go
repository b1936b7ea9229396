package service

import (
	"context"
	"errors"

	"serviceman_backend/internal/events"
	"serviceman_backend/internal/requests/domain"
	"serviceman_backend/internal/reviews/repository"
	"serviceman_backend/internal/reviews/transport"
	"serviceman_backend/internal/stats/projector"
	"serviceman_backend/platform/apperr"
	"serviceman_backend/platform/httpkit"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/sanitize"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Submit records a review for a completed booking. Review insert and the
// booking status update share one transaction; the guard decides legality.
func (s *Service) Submit(ctx context.Context, ident httpkit.Identity, req transport.SubmitReviewRequest) (*transport.ReviewResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking id")
	}

	st, err := s.repo.GetBookingReviewState(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, err
	}

	snap := domain.Snapshot{
		RequestStatus: st.RequestStatus,
		CustomerID:    st.CustomerID,
		HasBooking:    true,
		BookingStatus: st.BookingStatus,
		HasReview:     st.HasReview,
	}
	actor := domain.Actor{UserID: ident.UserID(), Role: roleOf(ident)}
	if _, err := domain.CanTransition(snap, actor, domain.ActionSubmitReview); err != nil {
		return nil, err
	}

	review, err := s.repo.Create(ctx, st, req.Rating, sanitize.TextPtr(req.Comment))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateReview):
			return nil, apperr.Conflict("this booking has already been reviewed")
		case errors.Is(err, repository.ErrStatusChanged):
			return nil, apperr.Conflict("booking status changed, reload and retry")
		}
		return nil, err
	}

	s.bus.Publish(ctx, events.ReviewSubmitted{
		BaseEvent:    events.NewBaseEvent(),
		ReviewID:     review.ID,
		BookingID:    review.BookingID,
		CustomerID:   review.CustomerID,
		TechnicianID: review.TechnicianID,
		Rating:       review.Rating,
	})

	resp := toReviewResponse(review)
	return &resp, nil
}

// ListByTechnician returns a technician's reviews, newest first, with the
// projected average.
func (s *Service) ListByTechnician(ctx context.Context, technicianID uuid.UUID) (*transport.ListReviewsResponse, error) {
	rows, err := s.repo.ListByTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	ratings := make([]int, 0, len(rows))
	resp := &transport.ListReviewsResponse{
		Reviews: make([]transport.ReviewResponse, 0, len(rows)),
		Total:   len(rows),
	}
	for _, row := range rows {
		ratings = append(ratings, row.Rating)
		resp.Reviews = append(resp.Reviews, toReviewResponse(row))
	}
	resp.AverageRating = projector.AverageRating(ratings).StringFixed(1)
	return resp, nil
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

func toReviewResponse(review repository.Review) transport.ReviewResponse {
	return transport.ReviewResponse{
		ID:           review.ID.String(),
		BookingID:    review.BookingID.String(),
		RequestID:    review.RequestID.String(),
		RequestTitle: review.RequestTitle,
		CustomerID:   review.CustomerID.String(),
		CustomerName: review.CustomerName,
		TechnicianID: review.TechnicianID.String(),
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	}
}
