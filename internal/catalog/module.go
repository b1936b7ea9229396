// Package catalog provides the read-only service catalog: categories and the
// services customers can request. Content is seeded by migration.
package catalog

import (
	"serviceman_backend/internal/catalog/handler"
	"serviceman_backend/internal/catalog/repository"
	"serviceman_backend/internal/catalog/service"
	apphttp "serviceman_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// RegisterRoutes mounts catalog routes. The catalog is public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog/categories", m.handler.ListCategories)
	ctx.V1.GET("/catalog/services/:id", m.handler.GetService)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
