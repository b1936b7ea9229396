package repository

import (
	"context"
	"errors"
	"time"

	"serviceman_backend/internal/requests/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")
var ErrStatusChanged = errors.New("status changed concurrently")
var ErrAlreadyPaid = errors.New("booking already paid")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Booking struct {
	ID             uuid.UUID
	RequestID      uuid.UUID
	RequestTitle   string
	QuoteID        uuid.UUID
	CustomerID     uuid.UUID
	CustomerName   string
	TechnicianID   uuid.UUID
	TechnicianName string
	ScheduledDate  time.Time
	ScheduledTime  string
	Notes          *string
	Status         domain.BookingStatus
	PaymentStatus  domain.PaymentStatus
	Amount         decimal.Decimal
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RequestLifecycle is the slice of request state the bookings service needs
// for guard snapshots when booking a slot.
type RequestLifecycle struct {
	RequestID            uuid.UUID
	RequestStatus        domain.RequestStatus
	CustomerID           uuid.UUID
	AcceptedQuoteID      *uuid.UUID
	AcceptedTechnicianID *uuid.UUID
	AcceptedPrice        *decimal.Decimal
}

const bookingColumns = `
	b.id, b.request_id, COALESCE(r.title, ''), b.quote_id,
	b.customer_id, COALESCE(cu.first_name || ' ' || cu.last_name, ''),
	b.technician_id, COALESCE(tu.first_name || ' ' || tu.last_name, ''),
	b.scheduled_date, b.scheduled_time, b.notes,
	b.status, b.payment_status, b.amount::text, b.paid_at,
	b.created_at, b.updated_at`

const bookingJoins = `
	FROM bookings b
	LEFT JOIN service_requests r ON r.id = b.request_id
	LEFT JOIN users cu ON cu.id = b.customer_id
	LEFT JOIN users tu ON tu.id = b.technician_id`

// GetRequestLifecycle reads the request row and its accepted quote for the
// booking guard snapshot.
func (r *Repository) GetRequestLifecycle(ctx context.Context, requestID uuid.UUID) (RequestLifecycle, error) {
	var lc RequestLifecycle
	var status string
	var price *string
	err := r.pool.QueryRow(ctx, `
		SELECT sr.id, sr.status, sr.customer_id, q.id, q.technician_id, q.price::text
		FROM service_requests sr
		LEFT JOIN quotes q ON q.request_id = sr.id AND q.is_accepted
		WHERE sr.id = $1
	`, requestID).Scan(&lc.RequestID, &status, &lc.CustomerID, &lc.AcceptedQuoteID, &lc.AcceptedTechnicianID, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return RequestLifecycle{}, ErrNotFound
	}
	if err != nil {
		return RequestLifecycle{}, err
	}
	lc.RequestStatus = domain.RequestStatus(status)
	if price != nil {
		d, err := decimal.NewFromString(*price)
		if err != nil {
			return RequestLifecycle{}, err
		}
		lc.AcceptedPrice = &d
	}
	return lc, nil
}

// CreateScheduled inserts the booking and moves the request to booked in one
// transaction. The request update is conditional on the request still being
// accepted; zero matched rows aborts with ErrStatusChanged.
func (r *Repository) CreateScheduled(ctx context.Context, booking Booking) (Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Booking{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (request_id, quote_id, customer_id, technician_id,
			scheduled_date, scheduled_time, notes, status, payment_status, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, booking.RequestID, booking.QuoteID, booking.CustomerID, booking.TechnicianID,
		booking.ScheduledDate, booking.ScheduledTime, booking.Notes,
		domain.BookingScheduled, domain.PaymentUnpaid, booking.Amount.StringFixed(2)).Scan(&id)
	if err != nil {
		return Booking{}, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE service_requests SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
	`, booking.RequestID, domain.RequestBooked, domain.RequestAccepted)
	if err != nil {
		return Booking{}, err
	}
	if tag.RowsAffected() == 0 {
		return Booking{}, ErrStatusChanged
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+bookingColumns+bookingJoins+` WHERE b.id = $1`, id)
	return scanBooking(row)
}

func (r *Repository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+bookingColumns+bookingJoins+` WHERE b.request_id = $1`, requestID)
	return scanBooking(row)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Booking, error) {
	return r.list(ctx, `b.customer_id = $1`, customerID)
}

func (r *Repository) ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]Booking, error) {
	return r.list(ctx, `b.technician_id = $1`, technicianID)
}

func (r *Repository) list(ctx context.Context, where string, arg any) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+bookingColumns+bookingJoins+`
		WHERE `+where+`
		ORDER BY b.scheduled_date DESC, b.created_at DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// UpdateStatus moves the booking to a new status unless it is already in a
// terminal status. Zero matched rows yields ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $2, updated_at = now()
		WHERE id = $1 AND status NOT IN ($3, $4)
	`, id, status, domain.BookingCancelled, domain.BookingReviewed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

// CompletePayment marks the booking paid. Conditional on payment_status still
// being unpaid so a double submit cannot pay twice.
func (r *Repository) CompletePayment(ctx context.Context, id uuid.UUID, total decimal.Decimal, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET payment_status = $2, amount = $3, paid_at = $4, updated_at = now()
		WHERE id = $1 AND payment_status = $5
	`, id, domain.PaymentCompleted, total.StringFixed(2), paidAt, domain.PaymentUnpaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyPaid
	}
	return nil
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	var status, paymentStatus, amount string
	err := row.Scan(
		&b.ID, &b.RequestID, &b.RequestTitle, &b.QuoteID,
		&b.CustomerID, &b.CustomerName,
		&b.TechnicianID, &b.TechnicianName,
		&b.ScheduledDate, &b.ScheduledTime, &b.Notes,
		&status, &paymentStatus, &amount, &b.PaidAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	if err != nil {
		return Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	b.PaymentStatus = domain.PaymentStatus(paymentStatus)
	b.Amount, err = decimal.NewFromString(amount)
	return b, err
}
