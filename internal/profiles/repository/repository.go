package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CustomerProfile joins the users row with its optional profile row. Zero
// profile fields mean the user never filled their profile in.
type CustomerProfile struct {
	UserID    uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      string
	Phone     *string
	City      *string
	AvatarURL *string
	CreatedAt time.Time
}

type TechnicianProfile struct {
	UserID      uuid.UUID
	Email       string
	FirstName   string
	LastName    string
	Role        string
	Phone       *string
	City        *string
	AvatarURL   *string
	Bio         *string
	Skills      []string
	HourlyRate  *decimal.Decimal
	IsAvailable bool
	Rating      decimal.Decimal
	TotalJobs   int
	CreatedAt   time.Time
}

// CustomerProfilePatch carries the fields an update touches. Nil means leave
// the stored value alone.
type CustomerProfilePatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	City      *string
	AvatarURL *string
}

type TechnicianProfilePatch struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	City       *string
	AvatarURL  *string
	Bio        *string
	Skills     []string
	HourlyRate *decimal.Decimal
}

// TechnicianFilter narrows the directory listing.
type TechnicianFilter struct {
	Skill         string
	OnlyAvailable bool
	City          string
}

func (r *Repository) GetCustomerProfile(ctx context.Context, userID uuid.UUID) (CustomerProfile, error) {
	var p CustomerProfile
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name, u.role,
			cp.phone, cp.city, cp.avatar_url, u.created_at
		FROM users u
		LEFT JOIN customer_profiles cp ON cp.user_id = u.id
		WHERE u.id = $1
	`, userID).Scan(
		&p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Role,
		&p.Phone, &p.City, &p.AvatarURL, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return CustomerProfile{}, ErrNotFound
	}
	return p, err
}

// UpdateCustomerProfile updates the users row and upserts the profile row in
// one transaction.
func (r *Repository) UpdateCustomerProfile(ctx context.Context, userID uuid.UUID, patch CustomerProfilePatch) (CustomerProfile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return CustomerProfile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := updateUserNames(ctx, tx, userID, patch.FirstName, patch.LastName); err != nil {
		return CustomerProfile{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO customer_profiles (user_id, phone, city, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			phone      = COALESCE($2, customer_profiles.phone),
			city       = COALESCE($3, customer_profiles.city),
			avatar_url = COALESCE($4, customer_profiles.avatar_url),
			updated_at = now()
	`, userID, patch.Phone, patch.City, patch.AvatarURL)
	if err != nil {
		return CustomerProfile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return CustomerProfile{}, err
	}
	return r.GetCustomerProfile(ctx, userID)
}

const technicianColumns = `
	u.id, u.email, u.first_name, u.last_name, u.role,
	tp.phone, tp.city, tp.avatar_url, tp.bio,
	COALESCE(tp.skills, '{}'), tp.hourly_rate::text,
	COALESCE(tp.is_available, true),
	COALESCE(tp.rating, 0)::text, COALESCE(tp.total_jobs, 0),
	u.created_at`

const technicianJoins = `
	FROM users u
	LEFT JOIN technician_profiles tp ON tp.user_id = u.id`

func (r *Repository) GetTechnicianProfile(ctx context.Context, userID uuid.UUID) (TechnicianProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+technicianColumns+technicianJoins+`
		WHERE u.id = $1 AND u.role = 'technician'
	`, userID)
	return scanTechnician(row)
}

func (r *Repository) UpdateTechnicianProfile(ctx context.Context, userID uuid.UUID, patch TechnicianProfilePatch) (TechnicianProfile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return TechnicianProfile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := updateUserNames(ctx, tx, userID, patch.FirstName, patch.LastName); err != nil {
		return TechnicianProfile{}, err
	}

	var hourlyRate *string
	if patch.HourlyRate != nil {
		s := patch.HourlyRate.StringFixed(2)
		hourlyRate = &s
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO technician_profiles (user_id, phone, city, avatar_url, bio, skills, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, '{}'), $7::numeric)
		ON CONFLICT (user_id) DO UPDATE SET
			phone       = COALESCE($2, technician_profiles.phone),
			city        = COALESCE($3, technician_profiles.city),
			avatar_url  = COALESCE($4, technician_profiles.avatar_url),
			bio         = COALESCE($5, technician_profiles.bio),
			skills      = COALESCE($6, technician_profiles.skills),
			hourly_rate = COALESCE($7::numeric, technician_profiles.hourly_rate),
			updated_at  = now()
	`, userID, patch.Phone, patch.City, patch.AvatarURL, patch.Bio, patch.Skills, hourlyRate)
	if err != nil {
		return TechnicianProfile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TechnicianProfile{}, err
	}
	return r.GetTechnicianProfile(ctx, userID)
}

// SetAvailability flips the directory visibility flag. The profile row is
// created on first toggle if the technician never edited their profile.
func (r *Repository) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO technician_profiles (user_id, is_available)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			is_available = $2,
			updated_at   = now()
	`, userID, available)
	return err
}

func (r *Repository) ListTechnicians(ctx context.Context, filter TechnicianFilter) ([]TechnicianProfile, error) {
	query := `
		SELECT` + technicianColumns + technicianJoins + `
		WHERE u.role = 'technician'`
	args := make([]any, 0, 3)

	if filter.OnlyAvailable {
		query += ` AND COALESCE(tp.is_available, true)`
	}
	if filter.Skill != "" {
		args = append(args, filter.Skill)
		query += ` AND tp.skills @> ARRAY[$` + strconv.Itoa(len(args)) + `]::text[]`
	}
	if filter.City != "" {
		args = append(args, filter.City)
		query += ` AND tp.city ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY COALESCE(tp.rating, 0) DESC, COALESCE(tp.total_jobs, 0) DESC, u.created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	technicians := make([]TechnicianProfile, 0)
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		technicians = append(technicians, tech)
	}
	return technicians, rows.Err()
}

// RecomputeRating refreshes the denormalized average from the reviews table.
func (r *Repository) RecomputeRating(ctx context.Context, technicianID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO technician_profiles (user_id, rating)
		VALUES ($1, (SELECT COALESCE(ROUND(AVG(rating), 1), 0) FROM reviews WHERE technician_id = $1))
		ON CONFLICT (user_id) DO UPDATE SET
			rating     = (SELECT COALESCE(ROUND(AVG(rating), 1), 0) FROM reviews WHERE technician_id = $1),
			updated_at = now()
	`, technicianID)
	return err
}

// IncrementTotalJobs bumps the completed-jobs counter.
func (r *Repository) IncrementTotalJobs(ctx context.Context, technicianID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO technician_profiles (user_id, total_jobs)
		VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE SET
			total_jobs = technician_profiles.total_jobs + 1,
			updated_at = now()
	`, technicianID)
	return err
}

func updateUserNames(ctx context.Context, tx pgx.Tx, userID uuid.UUID, firstName, lastName *string) error {
	if firstName == nil && lastName == nil {
		return nil
	}
	tag, err := tx.Exec(ctx, `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			updated_at = now()
		WHERE id = $1
	`, userID, firstName, lastName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTechnician(row pgx.Row) (TechnicianProfile, error) {
	var p TechnicianProfile
	var hourlyRate *string
	var rating string
	err := row.Scan(
		&p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Role,
		&p.Phone, &p.City, &p.AvatarURL, &p.Bio,
		&p.Skills, &hourlyRate,
		&p.IsAvailable,
		&rating, &p.TotalJobs,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return TechnicianProfile{}, ErrNotFound
	}
	if err != nil {
		return TechnicianProfile{}, err
	}

	if hourlyRate != nil {
		d, err := decimal.NewFromString(*hourlyRate)
		if err != nil {
			return TechnicianProfile{}, err
		}
		p.HourlyRate = &d
	}
	p.Rating, err = decimal.NewFromString(rating)
	return p, err
}
