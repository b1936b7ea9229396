package transport

import "time"

type BookSlotRequest struct {
	RequestID     string  `json:"requestId" validate:"required,uuid4"`
	ScheduledDate string  `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	ScheduledTime string  `json:"scheduledTime" validate:"required,max=20"`
	Notes         *string `json:"notes" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID             string     `json:"id"`
	RequestID      string     `json:"requestId"`
	RequestTitle   string     `json:"requestTitle,omitempty"`
	QuoteID        string     `json:"quoteId"`
	CustomerID     string     `json:"customerId"`
	CustomerName   string     `json:"customerName,omitempty"`
	TechnicianID   string     `json:"technicianId"`
	TechnicianName string     `json:"technicianName,omitempty"`
	ScheduledDate  string     `json:"scheduledDate"`
	ScheduledTime  string     `json:"scheduledTime"`
	Notes          *string    `json:"notes,omitempty"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"paymentStatus"`
	Amount         string     `json:"amount"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

type PaymentResponse struct {
	BookingID     string    `json:"bookingId"`
	Amount        string    `json:"amount"`
	VAT           string    `json:"vat"`
	Total         string    `json:"total"`
	PaymentStatus string    `json:"paymentStatus"`
	PaidAt        time.Time `json:"paidAt"`
}
