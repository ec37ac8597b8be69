package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/jobbook/core/pkg/logger"
	"github.com/jobbook/core/pkg/models"
	"github.com/jobbook/core/pkg/recurrence"
)

// ErrInvalidTargetDate is returned when the target cannot be normalized to
// a calendar day. The pass rejects it before any customer is evaluated.
var ErrInvalidTargetDate = errors.New("target date cannot be normalized to a calendar day")

// MaterializerService runs the catch-up pass: for one calendar day, decide
// per customer whether a job is due and create the missing ones, at most
// one per (customer, day), as a single transaction.
//
// The service is stateless; callers construct it with its dependencies and
// may invoke Materialize as often as they like. A repeated pass for the
// same day is a no-op because the existence check and the store's
// recurrence uniqueness index both hold.
type MaterializerService struct {
	contracts ContractSource
	store     JobStore
	breaker   *gobreaker.CircuitBreaker
	logger    *logger.Logger
}

// NewMaterializerService creates the materializer with its two
// collaborators. The circuit breaker guards the commit: when the store is
// down, passes fail fast instead of piling up on a dead connection, and
// the next scheduled pass catches up once the breaker closes again.
func NewMaterializerService(contracts ContractSource, store JobStore) *MaterializerService {
	return &MaterializerService{
		contracts: contracts,
		store:     store,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "job-store",
			Timeout: 60 * time.Second,
		}),
		logger: logger.New("materializer"),
	}
}

// Materialize runs one pass for targetDate and returns how many jobs were
// created. Zero jobs are committed when any error is returned.
func (s *MaterializerService) Materialize(ctx context.Context, targetDate time.Time) (int, error) {
	if targetDate.IsZero() {
		return 0, ErrInvalidTargetDate
	}
	day := recurrence.Day(targetDate)

	start := time.Now()

	customers, err := s.contracts.ListRecurringCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load recurring customers: %w", err)
	}

	var staged []models.ScheduledJob
	var suppressed int

	for i := range customers {
		customer := &customers[i]
		if !customer.Rule.IsRecurring() {
			continue
		}

		// Any job on the day — any status, any origin — suppresses
		// generation. A cancelled or manually booked job therefore keeps
		// the recurrence engine away from that day; see the data model
		// notes in DESIGN.md before changing this.
		exists, err := s.store.JobExistsOn(ctx, customer.ID, day)
		if err != nil {
			return 0, fmt.Errorf("failed to check existing jobs for customer %s: %w", customer.ID, err)
		}
		if exists {
			suppressed++
			continue
		}

		if !recurrence.IsDue(customer.Rule, customer.SelectorValue(), customer.AnchorDate, day) {
			continue
		}

		staged = append(staged, models.ScheduledJob{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			JobDate:    day,
			Status:     models.StatusScheduled,
			Origin:     models.OriginRecurrence,
		})
	}

	created, err := s.commit(ctx, staged)
	if err != nil {
		return 0, fmt.Errorf("failed to commit materialized jobs: %w", err)
	}

	s.logger.LogMaterializePass(
		day.Format("2006-01-02"), len(customers), int(created), suppressed, time.Since(start))

	return int(created), nil
}

// commit writes the staged batch through the circuit breaker. The store
// reports how many rows it actually inserted; a concurrent pass that won
// the uniqueness race shrinks that count rather than failing the commit.
func (s *MaterializerService) commit(ctx context.Context, staged []models.ScheduledJob) (int64, error) {
	if len(staged) == 0 {
		return 0, nil
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.store.CreateScheduledJobs(ctx, staged)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}
