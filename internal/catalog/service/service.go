package service

import (
	"context"
	"errors"

	"serviceman_backend/internal/catalog/repository"
	"serviceman_backend/internal/catalog/transport"
	"serviceman_backend/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// ListCategories returns categories with their services nested, in seeded
// order.
func (s *Service) ListCategories(ctx context.Context) (*transport.ListCategoriesResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uuid.UUID][]transport.ServiceResponse, len(categories))
	for _, svc := range services {
		byCategory[svc.CategoryID] = append(byCategory[svc.CategoryID], toServiceResponse(svc))
	}

	resp := &transport.ListCategoriesResponse{
		Categories: make([]transport.CategoryResponse, 0, len(categories)),
		Total:      len(categories),
	}
	for _, cat := range categories {
		nested := byCategory[cat.ID]
		if nested == nil {
			nested = []transport.ServiceResponse{}
		}
		resp.Categories = append(resp.Categories, transport.CategoryResponse{
			ID:          cat.ID.String(),
			Name:        cat.Name,
			DisplayName: cat.DisplayName,
			Icon:        cat.Icon,
			Services:    nested,
		})
	}
	return resp, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*transport.ServiceResponse, error) {
	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, err
	}
	resp := toServiceResponse(svc)
	return &resp, nil
}

func toServiceResponse(svc repository.Service) transport.ServiceResponse {
	resp := transport.ServiceResponse{
		ID:          svc.ID.String(),
		CategoryID:  svc.CategoryID.String(),
		Name:        svc.Name,
		DisplayName: svc.DisplayName,
		Description: svc.Description,
		Icon:        svc.Icon,
	}
	if svc.BasePrice != nil {
		price := svc.BasePrice.StringFixed(2)
		resp.BasePrice = &price
	}
	return resp
}
