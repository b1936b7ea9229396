package transport

import "time"

type UpdateCustomerProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

type UpdateTechnicianProfileRequest struct {
	FirstName  *string  `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName   *string  `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone      *string  `json:"phone" validate:"omitempty,max=30"`
	City       *string  `json:"city" validate:"omitempty,max=100"`
	AvatarURL  *string  `json:"avatarUrl" validate:"omitempty,url,max=500"`
	Bio        *string  `json:"bio" validate:"omitempty,max=1000"`
	Skills     []string `json:"skills" validate:"omitempty,max=20,dive,min=1,max=100"`
	HourlyRate *string  `json:"hourlyRate" validate:"omitempty,max=20"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

type CustomerProfileResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	City      *string   `json:"city,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type TechnicianProfileResponse struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role"`
	Phone       *string   `json:"phone,omitempty"`
	City        *string   `json:"city,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Skills      []string  `json:"skills"`
	HourlyRate  *string   `json:"hourlyRate,omitempty"`
	IsAvailable bool      `json:"isAvailable"`
	Rating      string    `json:"rating"`
	TotalJobs   int       `json:"totalJobs"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ListTechniciansResponse struct {
	Technicians []TechnicianProfileResponse `json:"technicians"`
	Total       int                         `json:"total"`
}
