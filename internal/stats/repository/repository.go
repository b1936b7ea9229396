package repository

import (
	"context"
	"time"

	"serviceman_backend/internal/stats/projector"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Counts struct {
	Customers         int
	Technicians       int
	Requests          int
	Bookings          int
	PendingRequests   int
	CompletedRequests int
}

type RecentBooking struct {
	ID             uuid.UUID
	RequestTitle   string
	CustomerName   string
	TechnicianName string
	Status         string
	Amount         decimal.Decimal
	ScheduledDate  time.Time
	CreatedAt      time.Time
}

func (r *Repository) GetCounts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'customer'),
			(SELECT COUNT(*) FROM users WHERE role = 'technician'),
			(SELECT COUNT(*) FROM service_requests),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM service_requests WHERE status = 'in_progress'),
			(SELECT COUNT(*) FROM service_requests WHERE status = 'completed')
	`).Scan(&c.Customers, &c.Technicians, &c.Requests, &c.Bookings, &c.PendingRequests, &c.CompletedRequests)
	return c, err
}

// AcceptedQuotePrices feeds the revenue projection.
func (r *Repository) AcceptedQuotePrices(ctx context.Context) ([]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `SELECT price::text FROM quotes WHERE is_accepted`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make([]decimal.Decimal, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, rows.Err()
}

// AllRatings feeds the average-rating projection.
func (r *Repository) AllRatings(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT rating FROM reviews`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]int, 0)
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// ServiceRequestCounts feeds the popularity projection, ordered by count so
// the projected shares keep a stable, meaningful order.
func (r *Repository) ServiceRequestCounts(ctx context.Context) ([]projector.ServiceCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.display_name, COUNT(sr.id)
		FROM services s
		LEFT JOIN service_requests sr ON sr.service_id = s.id
		GROUP BY s.id, s.display_name
		ORDER BY COUNT(sr.id) DESC, s.display_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]projector.ServiceCount, 0)
	for rows.Next() {
		var sc projector.ServiceCount
		if err := rows.Scan(&sc.ServiceID, &sc.Name, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (r *Repository) RecentBookings(ctx context.Context, limit int) ([]RecentBooking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, COALESCE(sr.title, ''),
			COALESCE(cu.first_name || ' ' || cu.last_name, ''),
			COALESCE(tu.first_name || ' ' || tu.last_name, ''),
			b.status, b.amount::text, b.scheduled_date, b.created_at
		FROM bookings b
		LEFT JOIN service_requests sr ON sr.id = b.request_id
		LEFT JOIN users cu ON cu.id = b.customer_id
		LEFT JOIN users tu ON tu.id = b.technician_id
		ORDER BY b.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]RecentBooking, 0, limit)
	for rows.Next() {
		var rb RecentBooking
		var amount string
		err := rows.Scan(&rb.ID, &rb.RequestTitle, &rb.CustomerName, &rb.TechnicianName,
			&rb.Status, &amount, &rb.ScheduledDate, &rb.CreatedAt)
		if err != nil {
			return nil, err
		}
		rb.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, rb)
	}
	return bookings, rows.Err()
}
