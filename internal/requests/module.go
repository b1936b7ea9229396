// Package requests provides the service-request lifecycle bounded context:
// requests, quotes, and the transition guard every mutation goes through.
package requests

import (
	"serviceman_backend/internal/events"
	apphttp "serviceman_backend/internal/http"
	"serviceman_backend/internal/requests/handler"
	"serviceman_backend/internal/requests/repository"
	"serviceman_backend/internal/requests/service"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the requests module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Service exposes the lifecycle service for adapters and the composition root.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts request and quote routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("/requests")
	rg.POST("", m.handler.Create)
	rg.GET("", m.handler.ListMine)
	rg.GET("/open", m.handler.ListOpen)
	rg.GET("/:id", m.handler.Get)
	rg.POST("/:id/quotes", m.handler.SubmitQuote)
	rg.POST("/:id/quotes/:quoteId/accept", m.handler.AcceptQuote)
	rg.POST("/:id/start", m.handler.StartJob)
	rg.POST("/:id/complete", m.handler.CompleteJob)
	rg.POST("/:id/cancel", m.handler.Cancel)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
