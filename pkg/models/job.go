package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a scheduled job. The materializer
// only ever creates jobs in StatusScheduled; every other transition is
// driven by the API or the mobile client, never by this service.
type JobStatus string

const (
	StatusScheduled   JobStatus = "scheduled"
	StatusCompleted   JobStatus = "completed"
	StatusCancelled   JobStatus = "cancelled"
	StatusRescheduled JobStatus = "rescheduled"
)

// JobOrigin distinguishes recurrence-generated jobs from manually booked
// ones. The at-most-one-per-day uniqueness constraint applies only to
// recurrence-origin rows; manual jobs may coexist with anything, but any
// job on a day still suppresses generation for that day.
type JobOrigin string

const (
	OriginRecurrence JobOrigin = "recurrence"
	OriginManual     JobOrigin = "manual"
)

// ScheduledJob is one planned visit on one calendar day. JobDate carries
// no meaningful time of day; it is normalized to midnight UTC before it
// reaches the store.
type ScheduledJob struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	JobDate     time.Time  `json:"job_date"`
	Status      JobStatus  `json:"status"`
	Origin      JobOrigin  `json:"origin"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
