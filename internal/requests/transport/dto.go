package transport

import "time"

type CreateRequestRequest struct {
	ServiceID   string  `json:"serviceId" validate:"required,uuid4"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=2000"`
	City        string  `json:"city" validate:"required,max=100"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	BudgetMin   *string `json:"budgetMin" validate:"omitempty"`
	BudgetMax   *string `json:"budgetMax" validate:"omitempty"`
}

type SubmitQuoteRequest struct {
	Price            string  `json:"price" validate:"required"`
	DurationEstimate *string `json:"durationEstimate" validate:"omitempty,max=100"`
	Message          *string `json:"message" validate:"omitempty,max=1000"`
}

type RequestResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName,omitempty"`
	ServiceID    string    `json:"serviceId"`
	ServiceName  string    `json:"serviceName,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	City         string    `json:"city"`
	Address      *string   `json:"address,omitempty"`
	BudgetMin    *string   `json:"budgetMin,omitempty"`
	BudgetMax    *string   `json:"budgetMax,omitempty"`
	Status       string    `json:"status"`
	QuoteCount   int       `json:"quoteCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type QuoteResponse struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"requestId"`
	TechnicianID     string    `json:"technicianId"`
	TechnicianName   string    `json:"technicianName,omitempty"`
	Price            string    `json:"price"`
	DurationEstimate *string   `json:"durationEstimate,omitempty"`
	Message          *string   `json:"message,omitempty"`
	IsAccepted       bool      `json:"isAccepted"`
	CreatedAt        time.Time `json:"createdAt"`
}

type RequestDetailResponse struct {
	RequestResponse
	Quotes []QuoteResponse `json:"quotes"`
}

type ListRequestsResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int               `json:"total"`
}
