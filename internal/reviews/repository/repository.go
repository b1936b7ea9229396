package repository

import (
	"context"
	"errors"
	"time"

	"serviceman_backend/internal/requests/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrStatusChanged = errors.New("status changed concurrently")
var ErrDuplicateReview = errors.New("booking already reviewed")

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Review struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	RequestID    uuid.UUID
	RequestTitle string
	CustomerID   uuid.UUID
	CustomerName string
	TechnicianID uuid.UUID
	Rating       int
	Comment      *string
	CreatedAt    time.Time
}

// BookingReviewState is the booking and request state the review guard
// snapshot needs.
type BookingReviewState struct {
	BookingID     uuid.UUID
	RequestID     uuid.UUID
	RequestStatus domain.RequestStatus
	BookingStatus domain.BookingStatus
	CustomerID    uuid.UUID
	TechnicianID  uuid.UUID
	HasReview     bool
}

func (r *Repository) GetBookingReviewState(ctx context.Context, bookingID uuid.UUID) (BookingReviewState, error) {
	var st BookingReviewState
	var requestStatus, bookingStatus string
	err := r.pool.QueryRow(ctx, `
		SELECT b.id, b.request_id, sr.status, b.status, b.customer_id, b.technician_id,
			EXISTS (SELECT 1 FROM reviews rv WHERE rv.booking_id = b.id)
		FROM bookings b
		JOIN service_requests sr ON sr.id = b.request_id
		WHERE b.id = $1
	`, bookingID).Scan(&st.BookingID, &st.RequestID, &requestStatus, &bookingStatus, &st.CustomerID, &st.TechnicianID, &st.HasReview)
	if errors.Is(err, pgx.ErrNoRows) {
		return BookingReviewState{}, ErrNotFound
	}
	if err != nil {
		return BookingReviewState{}, err
	}
	st.RequestStatus = domain.RequestStatus(requestStatus)
	st.BookingStatus = domain.BookingStatus(bookingStatus)
	return st, nil
}

// Create inserts the review and moves the booking to reviewed in one
// transaction. The booking update is conditional on the booking still being
// completed; the unique index on booking_id catches a concurrent duplicate.
func (r *Repository) Create(ctx context.Context, st BookingReviewState, rating int, comment *string) (Review, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Review{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (booking_id, request_id, customer_id, technician_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, st.BookingID, st.RequestID, st.CustomerID, st.TechnicianID, rating, comment).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return Review{}, ErrDuplicateReview
		}
		return Review{}, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
	`, st.BookingID, domain.BookingReviewed, domain.BookingCompleted)
	if err != nil {
		return Review{}, err
	}
	if tag.RowsAffected() == 0 {
		return Review{}, ErrStatusChanged
	}

	if err := tx.Commit(ctx); err != nil {
		return Review{}, err
	}
	return r.Get(ctx, id)
}

const reviewColumns = `
	rv.id, rv.booking_id, rv.request_id, COALESCE(sr.title, ''),
	rv.customer_id, COALESCE(cu.first_name || ' ' || cu.last_name, ''),
	rv.technician_id, rv.rating, rv.comment, rv.created_at`

const reviewJoins = `
	FROM reviews rv
	LEFT JOIN service_requests sr ON sr.id = rv.request_id
	LEFT JOIN users cu ON cu.id = rv.customer_id`

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Review, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+reviewColumns+reviewJoins+` WHERE rv.id = $1`, id)
	return scanReview(row)
}

func (r *Repository) ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+reviewColumns+reviewJoins+`
		WHERE rv.technician_id = $1
		ORDER BY rv.created_at DESC
	`, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func scanReview(row pgx.Row) (Review, error) {
	var review Review
	err := row.Scan(
		&review.ID, &review.BookingID, &review.RequestID, &review.RequestTitle,
		&review.CustomerID, &review.CustomerName,
		&review.TechnicianID, &review.Rating, &review.Comment, &review.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return review, err
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolation
}
