package transport

import (
	"serviceman_backend/internal/stats/projector"
	"time"
)

type DashboardResponse struct {
	Counts         DashboardCounts               `json:"counts"`
	Revenue        string                        `json:"revenue"`
	AverageRating  string                        `json:"averageRating"`
	Popularity     []projector.ServicePopularity `json:"servicePopularity"`
	RecentBookings []RecentBooking               `json:"recentBookings"`
}

type DashboardCounts struct {
	Customers         int `json:"customers"`
	Technicians       int `json:"technicians"`
	Requests          int `json:"requests"`
	Bookings          int `json:"bookings"`
	PendingRequests   int `json:"pendingRequests"`
	CompletedRequests int `json:"completedRequests"`
}

type RecentBooking struct {
	ID             string    `json:"id"`
	RequestTitle   string    `json:"requestTitle"`
	CustomerName   string    `json:"customerName"`
	TechnicianName string    `json:"technicianName"`
	Status         string    `json:"status"`
	Amount         string    `json:"amount"`
	ScheduledDate  string    `json:"scheduledDate"`
	CreatedAt      time.Time `json:"createdAt"`
}
