// Package bookings provides the booking bounded context: slot booking for
// accepted requests, the simulated payment flow, and reminder scheduling.
package bookings

import (
	"serviceman_backend/internal/bookings/handler"
	"serviceman_backend/internal/bookings/repository"
	"serviceman_backend/internal/bookings/service"
	"serviceman_backend/internal/events"
	apphttp "serviceman_backend/internal/http"
	"serviceman_backend/internal/scheduler"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the bookings bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

// NewModule creates and initializes the bookings module. The reminder
// scheduler may be nil when no queue is configured.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator, reminders scheduler.ReminderScheduler) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log, reminders)
	h := handler.New(svc, val)

	return &Module{handler: h, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "bookings"
}

// Repository exposes the booking store for cross-context adapters and the
// reminder worker.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts booking routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("/bookings")
	rg.POST("", m.handler.Book)
	rg.GET("", m.handler.ListMine)
	rg.GET("/:id", m.handler.Get)
	rg.POST("/:id/pay", m.handler.Pay)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
