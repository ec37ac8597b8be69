package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jobbook/core/pkg/models"
)

// ContractSource is the read side the materializer needs: every customer
// whose rule generates jobs. Satisfied by database.Store.
type ContractSource interface {
	ListRecurringCustomers(ctx context.Context) ([]models.Customer, error)
}

// JobStore is the write side. CreateScheduledJobs must commit the whole
// batch in one transaction and return how many rows were actually
// inserted — a job lost to the recurrence uniqueness index counts as
// already materialized, not as created and not as an error.
type JobStore interface {
	JobExistsOn(ctx context.Context, customerID uuid.UUID, day time.Time) (bool, error)
	CreateScheduledJobs(ctx context.Context, jobs []models.ScheduledJob) (int64, error)
}

// CustomerStore backs the customer management endpoints.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
}
