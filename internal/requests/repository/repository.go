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

// ErrStatusChanged is returned when a conditional status update matched no
// row: another writer moved the request first.
var ErrStatusChanged = errors.New("request status changed concurrently")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Request struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	CustomerName string
	ServiceID    uuid.UUID
	ServiceName  string
	Title        string
	Description  string
	City         string
	Address      *string
	BudgetMin    *decimal.Decimal
	BudgetMax    *decimal.Decimal
	Status       domain.RequestStatus
	QuoteCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Quote struct {
	ID               uuid.UUID
	RequestID        uuid.UUID
	TechnicianID     uuid.UUID
	TechnicianName   string
	Price            decimal.Decimal
	DurationEstimate *string
	Message          *string
	IsAccepted       bool
	CreatedAt        time.Time
}

const requestColumns = `
	r.id, r.customer_id,
	COALESCE(cu.first_name || ' ' || cu.last_name, ''),
	r.service_id, COALESCE(s.name, ''),
	r.title, r.description, r.city, r.address,
	r.budget_min::text, r.budget_max::text, r.status,
	(SELECT COUNT(*) FROM quotes q WHERE q.request_id = r.id),
	r.created_at, r.updated_at`

const requestJoins = `
	FROM service_requests r
	LEFT JOIN users cu ON cu.id = r.customer_id
	LEFT JOIN services s ON s.id = r.service_id`

func (r *Repository) CreateRequest(ctx context.Context, req Request) (Request, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO service_requests (customer_id, service_id, title, description, city, address, budget_min, budget_max, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, req.CustomerID, req.ServiceID, req.Title, req.Description, req.City, req.Address,
		decimalArg(req.BudgetMin), decimalArg(req.BudgetMax), domain.RequestPending).Scan(&id)
	if err != nil {
		return Request{}, err
	}
	return r.GetRequest(ctx, id)
}

func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (Request, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+requestColumns+requestJoins+` WHERE r.id = $1`, id)
	return scanRequest(row)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+requestColumns+requestJoins+`
		WHERE r.customer_id = $1
		ORDER BY r.created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListOpen returns requests technicians may still quote on.
func (r *Repository) ListOpen(ctx context.Context) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+requestColumns+requestJoins+`
		WHERE r.status IN ($1, $2)
		ORDER BY r.created_at DESC
	`, domain.RequestPending, domain.RequestQuoted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListByTechnician returns requests the technician has quoted on.
func (r *Repository) ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+requestColumns+requestJoins+`
		WHERE r.id IN (SELECT q.request_id FROM quotes q WHERE q.technician_id = $1)
		ORDER BY r.created_at DESC
	`, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *Repository) ListQuotes(ctx context.Context, requestID uuid.UUID) ([]Quote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.request_id, q.technician_id,
			COALESCE(tu.first_name || ' ' || tu.last_name, ''),
			q.price::text, q.duration_estimate, q.message, q.is_accepted, q.created_at
		FROM quotes q
		LEFT JOIN users tu ON tu.id = q.technician_id
		WHERE q.request_id = $1
		ORDER BY q.created_at ASC
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

func (r *Repository) GetQuote(ctx context.Context, quoteID uuid.UUID) (Quote, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT q.id, q.request_id, q.technician_id,
			COALESCE(tu.first_name || ' ' || tu.last_name, ''),
			q.price::text, q.duration_estimate, q.message, q.is_accepted, q.created_at
		FROM quotes q
		LEFT JOIN users tu ON tu.id = q.technician_id
		WHERE q.id = $1
	`, quoteID)
	return scanQuote(row)
}

// GetAcceptedQuote returns the accepted quote for a request, or ErrNotFound.
func (r *Repository) GetAcceptedQuote(ctx context.Context, requestID uuid.UUID) (Quote, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT q.id, q.request_id, q.technician_id,
			COALESCE(tu.first_name || ' ' || tu.last_name, ''),
			q.price::text, q.duration_estimate, q.message, q.is_accepted, q.created_at
		FROM quotes q
		LEFT JOIN users tu ON tu.id = q.technician_id
		WHERE q.request_id = $1 AND q.is_accepted
	`, requestID)
	return scanQuote(row)
}

// CreateQuote inserts the quote and moves the request to quoted in one
// transaction. The request update is conditional on the request still being
// open; zero matched rows aborts with ErrStatusChanged.
func (r *Repository) CreateQuote(ctx context.Context, quote Quote) (Quote, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Quote{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (request_id, technician_id, price, duration_estimate, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, quote.RequestID, quote.TechnicianID, quote.Price.StringFixed(2), quote.DurationEstimate, quote.Message).Scan(&id)
	if err != nil {
		return Quote{}, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE service_requests SET status = $2, updated_at = now()
		WHERE id = $1 AND status IN ($3, $4)
	`, quote.RequestID, domain.RequestQuoted, domain.RequestPending, domain.RequestQuoted)
	if err != nil {
		return Quote{}, err
	}
	if tag.RowsAffected() == 0 {
		return Quote{}, ErrStatusChanged
	}

	if err := tx.Commit(ctx); err != nil {
		return Quote{}, err
	}
	return r.GetQuote(ctx, id)
}

// AcceptQuote flips the quote's is_accepted flag and moves the request to
// accepted in one transaction. Both writes are conditional; if either matches
// zero rows (another accept won, or the request left the open states) the
// transaction rolls back with ErrStatusChanged.
func (r *Repository) AcceptQuote(ctx context.Context, requestID, quoteID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE quotes SET is_accepted = true
		WHERE id = $2 AND request_id = $1
		AND NOT EXISTS (SELECT 1 FROM quotes WHERE request_id = $1 AND is_accepted)
	`, requestID, quoteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}

	tag, err = tx.Exec(ctx, `
		UPDATE service_requests SET status = $2, updated_at = now()
		WHERE id = $1 AND status IN ($3, $4)
	`, requestID, domain.RequestAccepted, domain.RequestPending, domain.RequestQuoted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}

	return tx.Commit(ctx)
}

// UpdateStatusIf moves the request to a new status only if it is currently in
// one of the expected statuses. Zero matched rows yields ErrStatusChanged.
func (r *Repository) UpdateStatusIf(ctx context.Context, requestID uuid.UUID, from []domain.RequestStatus, to domain.RequestStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE service_requests SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
	`, requestID, to, statusStrings(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

func statusStrings(statuses []domain.RequestStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	var budgetMin, budgetMax *string
	var status string
	err := row.Scan(
		&req.ID, &req.CustomerID, &req.CustomerName,
		&req.ServiceID, &req.ServiceName,
		&req.Title, &req.Description, &req.City, &req.Address,
		&budgetMin, &budgetMax, &status,
		&req.QuoteCount,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	req.Status = domain.RequestStatus(status)
	if req.BudgetMin, err = parseDecimalPtr(budgetMin); err != nil {
		return Request{}, err
	}
	if req.BudgetMax, err = parseDecimalPtr(budgetMax); err != nil {
		return Request{}, err
	}
	return req, nil
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	requests := make([]Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanQuote(row pgx.Row) (Quote, error) {
	var quote Quote
	var price string
	err := row.Scan(
		&quote.ID, &quote.RequestID, &quote.TechnicianID, &quote.TechnicianName,
		&price, &quote.DurationEstimate, &quote.Message, &quote.IsAccepted, &quote.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, err
	}
	quote.Price, err = decimal.NewFromString(price)
	return quote, err
}

func parseDecimalPtr(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
