package transport

import "time"

type SubmitReviewRequest struct {
	BookingID string  `json:"bookingId" validate:"required,uuid4"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment" validate:"omitempty,max=500"`
}

type ReviewResponse struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"bookingId"`
	RequestID    string    `json:"requestId"`
	RequestTitle string    `json:"requestTitle,omitempty"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName,omitempty"`
	TechnicianID string    `json:"technicianId"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ListReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	Total         int              `json:"total"`
	AverageRating string           `json:"averageRating"`
}
