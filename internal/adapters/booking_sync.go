// Package adapters wires bounded contexts together without letting their
// services import each other. Each adapter translates between one module's
// port and another module's repository or service.
package adapters

import (
	"context"
	"errors"

	bookingsrepo "serviceman_backend/internal/bookings/repository"
	"serviceman_backend/internal/requests/domain"
	requestssvc "serviceman_backend/internal/requests/service"

	"github.com/google/uuid"
)

// BookingSyncAdapter adapts the bookings repository to the lifecycle
// service's BookingSync port.
type BookingSyncAdapter struct {
	repo *bookingsrepo.Repository
}

func NewBookingSyncAdapter(repo *bookingsrepo.Repository) *BookingSyncAdapter {
	return &BookingSyncAdapter{repo: repo}
}

func (a *BookingSyncAdapter) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*requestssvc.BookingRef, error) {
	booking, err := a.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, bookingsrepo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &requestssvc.BookingRef{ID: booking.ID, Status: booking.Status}, nil
}

func (a *BookingSyncAdapter) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) error {
	return a.repo.UpdateStatus(ctx, bookingID, status)
}

var _ requestssvc.BookingSync = (*BookingSyncAdapter)(nil)
