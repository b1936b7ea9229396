// Package reviews provides the review bounded context: one review per
// completed booking, listed per technician.
package reviews

import (
	"serviceman_backend/internal/events"
	apphttp "serviceman_backend/internal/http"
	"serviceman_backend/internal/reviews/handler"
	"serviceman_backend/internal/reviews/repository"
	"serviceman_backend/internal/reviews/service"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reviews bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the reviews module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reviews"
}

// RegisterRoutes mounts review routes. Reading a technician's reviews is
// public, submitting requires authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/technicians/:id/reviews", m.handler.ListByTechnician)
	ctx.Protected.POST("/reviews", m.handler.Submit)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
