package api

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CustomerResponse represents a customer contract in API responses
type CustomerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	AnchorDate     string    `json:"anchor_date"`
	RecurrenceRule string    `json:"recurrence_rule"`
	Selector       *int16    `json:"selector,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// JobResponse represents a scheduled job in API responses
type JobResponse struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	JobDate     string     `json:"job_date"`
	Status      string     `json:"status"`
	Origin      string     `json:"origin"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UpcomingResponse lists the next due days for one contract
type UpcomingResponse struct {
	CustomerID string   `json:"customer_id"`
	From       string   `json:"from"`
	Horizon    int      `json:"horizon_days"`
	DueDates   []string `json:"due_dates"`
}

// MaterializeResponse reports the outcome of a catch-up pass
type MaterializeResponse struct {
	TargetDate  string `json:"target_date"`
	JobsCreated int    `json:"jobs_created"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
}
