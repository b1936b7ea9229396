// Package stats provides the admin dashboard: counts, revenue, ratings and
// service popularity projected from the other contexts' tables.
package stats

import (
	apphttp "serviceman_backend/internal/http"
	"serviceman_backend/internal/stats/handler"
	"serviceman_backend/internal/stats/repository"
	"serviceman_backend/internal/stats/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the stats module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the stats module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "stats"
}

// RegisterRoutes mounts the dashboard on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/stats/dashboard", m.handler.Dashboard)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
