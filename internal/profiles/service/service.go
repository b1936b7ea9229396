package service

import (
	"context"
	"errors"

	"serviceman_backend/internal/profiles/repository"
	"serviceman_backend/internal/profiles/transport"
	"serviceman_backend/internal/requests/domain"
	"serviceman_backend/platform/apperr"
	"serviceman_backend/platform/httpkit"
	"serviceman_backend/platform/logger"
	"serviceman_backend/platform/phone"
	"serviceman_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetMe returns the caller's own profile, shaped by role.
func (s *Service) GetMe(ctx context.Context, ident httpkit.Identity) (any, error) {
	if ident.HasRole(domain.RoleTechnician) {
		profile, err := s.repo.GetTechnicianProfile(ctx, ident.UserID())
		if err != nil {
			return nil, mapNotFound(err, "profile not found")
		}
		return toTechnicianResponse(profile, true), nil
	}

	profile, err := s.repo.GetCustomerProfile(ctx, ident.UserID())
	if err != nil {
		return nil, mapNotFound(err, "profile not found")
	}
	return toCustomerResponse(profile), nil
}

func (s *Service) UpdateCustomer(ctx context.Context, ident httpkit.Identity, req transport.UpdateCustomerProfileRequest) (*transport.CustomerProfileResponse, error) {
	if ident.HasRole(domain.RoleTechnician) {
		return nil, apperr.Forbidden("technicians use the technician profile endpoint")
	}

	patch := repository.CustomerProfilePatch{
		FirstName: sanitize.TextPtr(req.FirstName),
		LastName:  sanitize.TextPtr(req.LastName),
		Phone:     normalizePhone(req.Phone),
		City:      sanitize.TextPtr(req.City),
		AvatarURL: req.AvatarURL,
	}

	profile, err := s.repo.UpdateCustomerProfile(ctx, ident.UserID(), patch)
	if err != nil {
		return nil, mapNotFound(err, "profile not found")
	}
	resp := toCustomerResponse(profile)
	return &resp, nil
}

func (s *Service) UpdateTechnician(ctx context.Context, ident httpkit.Identity, req transport.UpdateTechnicianProfileRequest) (*transport.TechnicianProfileResponse, error) {
	if !ident.HasRole(domain.RoleTechnician) {
		return nil, apperr.Forbidden("only technicians have a technician profile")
	}

	patch := repository.TechnicianProfilePatch{
		FirstName: sanitize.TextPtr(req.FirstName),
		LastName:  sanitize.TextPtr(req.LastName),
		Phone:     normalizePhone(req.Phone),
		City:      sanitize.TextPtr(req.City),
		AvatarURL: req.AvatarURL,
		Bio:       sanitize.TextPtr(req.Bio),
	}
	for _, skill := range req.Skills {
		patch.Skills = append(patch.Skills, sanitize.Text(skill))
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil || rate.IsNegative() {
			return nil, apperr.Validation("hourlyRate must be a non-negative decimal")
		}
		patch.HourlyRate = &rate
	}

	profile, err := s.repo.UpdateTechnicianProfile(ctx, ident.UserID(), patch)
	if err != nil {
		return nil, mapNotFound(err, "profile not found")
	}
	resp := toTechnicianResponse(profile, true)
	return &resp, nil
}

// SetAvailability toggles directory visibility. Owner only, no lifecycle
// precondition: a technician may go unavailable at any time.
func (s *Service) SetAvailability(ctx context.Context, ident httpkit.Identity, req transport.SetAvailabilityRequest) error {
	if !ident.HasRole(domain.RoleTechnician) {
		return apperr.Forbidden("only technicians can toggle availability")
	}
	return s.repo.SetAvailability(ctx, ident.UserID(), *req.IsAvailable)
}

func (s *Service) ListTechnicians(ctx context.Context, filter repository.TechnicianFilter) (*transport.ListTechniciansResponse, error) {
	rows, err := s.repo.ListTechnicians(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &transport.ListTechniciansResponse{
		Technicians: make([]transport.TechnicianProfileResponse, 0, len(rows)),
		Total:       len(rows),
	}
	for _, row := range rows {
		resp.Technicians = append(resp.Technicians, toTechnicianResponse(row, false))
	}
	return resp, nil
}

func (s *Service) GetTechnician(ctx context.Context, technicianID uuid.UUID) (*transport.TechnicianProfileResponse, error) {
	profile, err := s.repo.GetTechnicianProfile(ctx, technicianID)
	if err != nil {
		return nil, mapNotFound(err, "technician not found")
	}
	resp := toTechnicianResponse(profile, false)
	return &resp, nil
}

func normalizePhone(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*value)
	return &normalized
}

func mapNotFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(message)
	}
	return err
}

func toCustomerResponse(p repository.CustomerProfile) transport.CustomerProfileResponse {
	return transport.CustomerProfileResponse{
		UserID:    p.UserID.String(),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      p.Role,
		Phone:     p.Phone,
		City:      p.City,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
	}
}

// toTechnicianResponse shapes the profile. Email and phone stay private on
// public directory views.
func toTechnicianResponse(p repository.TechnicianProfile, owner bool) transport.TechnicianProfileResponse {
	resp := transport.TechnicianProfileResponse{
		UserID:      p.UserID.String(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        p.Role,
		City:        p.City,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		Skills:      p.Skills,
		IsAvailable: p.IsAvailable,
		Rating:      p.Rating.StringFixed(1),
		TotalJobs:   p.TotalJobs,
		CreatedAt:   p.CreatedAt,
	}
	if p.Skills == nil {
		resp.Skills = []string{}
	}
	if p.HourlyRate != nil {
		rate := p.HourlyRate.StringFixed(2)
		resp.HourlyRate = &rate
	}
	if owner {
		resp.Email = p.Email
		resp.Phone = p.Phone
	}
	return resp
}
