// Package profiles provides customer and technician profiles plus the public
// technician directory. Denormalized rating and job counters are kept fresh
// by event handlers.
package profiles

import (
	"serviceman_backend/internal/events"
	apphttp "serviceman_backend/internal/http"
	"serviceman_backend/internal/profiles/handler"
	"serviceman_backend/internal/profiles/repository"
	"serviceman_backend/internal/profiles/service"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the profiles bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the profiles module and subscribes its
// event handlers.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.RegisterHandlers(bus)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "profiles"
}

// RegisterRoutes mounts profile and directory routes. The directory is
// readable without authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/technicians", m.handler.ListTechnicians)
	ctx.V1.GET("/technicians/:id", m.handler.GetTechnician)

	rg := ctx.Protected.Group("/profile")
	rg.GET("", m.handler.GetMe)
	rg.PUT("", m.handler.UpdateCustomer)
	rg.PUT("/technician", m.handler.UpdateTechnician)
	rg.PUT("/availability", m.handler.SetAvailability)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
