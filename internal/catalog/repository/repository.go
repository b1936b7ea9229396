package repository

import (
	"context"
	"errors"

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

type Category struct {
	ID          uuid.UUID
	Name        string
	DisplayName string
	Icon        *string
	SortOrder   int
}

type Service struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	DisplayName string
	Description *string
	BasePrice   *decimal.Decimal
	Icon        *string
}

// ListCategories returns all categories in their seeded sort order.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, display_name, icon, sort_order
		FROM service_categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.DisplayName, &cat.Icon, &cat.SortOrder); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// ListServices returns all services grouped under their category order.
func (r *Repository) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.category_id, s.name, s.display_name, s.description, s.base_price::text, s.icon
		FROM services s
		JOIN service_categories c ON c.id = s.category_id
		ORDER BY c.sort_order, c.name, s.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, category_id, name, display_name, description, base_price::text, icon
		FROM services WHERE id = $1
	`, id)
	return scanService(row)
}

func scanService(row pgx.Row) (Service, error) {
	var svc Service
	var basePrice *string
	err := row.Scan(&svc.ID, &svc.CategoryID, &svc.Name, &svc.DisplayName, &svc.Description, &basePrice, &svc.Icon)
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, ErrNotFound
	}
	if err != nil {
		return Service{}, err
	}
	if basePrice != nil {
		d, err := decimal.NewFromString(*basePrice)
		if err != nil {
			return Service{}, err
		}
		svc.BasePrice = &d
	}
	return svc, nil
}
