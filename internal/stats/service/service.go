package service

import (
	"context"

	"serviceman_backend/internal/stats/projector"
	"serviceman_backend/internal/stats/repository"
	"serviceman_backend/internal/stats/transport"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentBookingsLimit = 10

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Dashboard fetches the source collections concurrently and runs the pure
// projections over them.
func (s *Service) Dashboard(ctx context.Context) (*transport.DashboardResponse, error) {
	var (
		counts  repository.Counts
		prices  []decimal.Decimal
		ratings []int
		svcRows []projector.ServiceCount
		recent  []repository.RecentBooking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.repo.GetCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = s.repo.AcceptedQuotePrices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ratings, err = s.repo.AllRatings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		svcRows, err = s.repo.ServiceRequestCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.RecentBookings(gctx, recentBookingsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &transport.DashboardResponse{
		Counts: transport.DashboardCounts{
			Customers:         counts.Customers,
			Technicians:       counts.Technicians,
			Requests:          counts.Requests,
			Bookings:          counts.Bookings,
			PendingRequests:   counts.PendingRequests,
			CompletedRequests: counts.CompletedRequests,
		},
		Revenue:        projector.Revenue(prices).StringFixed(2),
		AverageRating:  projector.AverageRating(ratings).StringFixed(1),
		Popularity:     projector.Popularity(svcRows),
		RecentBookings: make([]transport.RecentBooking, 0, len(recent)),
	}
	for _, rb := range recent {
		resp.RecentBookings = append(resp.RecentBookings, transport.RecentBooking{
			ID:             rb.ID.String(),
			RequestTitle:   rb.RequestTitle,
			CustomerName:   rb.CustomerName,
			TechnicianName: rb.TechnicianName,
			Status:         rb.Status,
			Amount:         rb.Amount.StringFixed(2),
			ScheduledDate:  rb.ScheduledDate.Format("2006-01-02"),
			CreatedAt:      rb.CreatedAt,
		})
	}
	return resp, nil
}
