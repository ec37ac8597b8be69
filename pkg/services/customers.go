package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobbook/core/pkg/models"
	"github.com/jobbook/core/pkg/recurrence"
	"github.com/jobbook/core/pkg/utils"
)

// CustomerService manages service contracts. It owns the accept boundary:
// rules are parsed strictly and selectors validated against their rule
// before anything reaches the store, so the evaluator downstream never has
// to reject input.
type CustomerService struct {
	store CustomerStore
}

func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{store: store}
}

// CreateCustomerParams carries the contract fields accepted from the API.
// AnchorDate defaults to today when zero; it is immutable afterwards.
type CreateCustomerParams struct {
	Name       string
	Rule       string
	Selector   *int16
	AnchorDate time.Time
}

func (s *CustomerService) CreateCustomer(ctx context.Context, params CreateCustomerParams) (models.Customer, error) {
	if params.Name == "" {
		return models.Customer{}, fmt.Errorf("customer name is required")
	}

	rule, err := models.ParseRecurrenceRule(params.Rule)
	if err != nil {
		return models.Customer{}, err
	}
	if err := models.ValidateSelector(rule, params.Selector); err != nil {
		return models.Customer{}, err
	}

	anchor := params.AnchorDate
	if anchor.IsZero() {
		anchor = time.Now()
	}

	customer := models.Customer{
		ID:         uuid.New(),
		Name:       params.Name,
		Slug:       utils.GenerateCustomerSlug(params.Name),
		AnchorDate: recurrence.Day(anchor),
		Rule:       rule,
		Selector:   params.Selector,
	}

	stored, err := s.store.CreateCustomer(ctx, customer)
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return stored, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// UpcomingDates previews the next due days for a contract, starting at
// from, scanning up to horizon days ahead. Pure computation over the
// evaluator; nothing is written.
func (s *CustomerService) UpcomingDates(customer *models.Customer, from time.Time, horizon int) []time.Time {
	if !customer.Rule.IsRecurring() || horizon <= 0 {
		return nil
	}

	day := recurrence.Day(from)
	var due []time.Time
	for i := 0; i < horizon; i++ {
		target := day.AddDate(0, 0, i)
		if recurrence.IsDue(customer.Rule, customer.SelectorValue(), customer.AnchorDate, target) {
			due = append(due, target)
		}
	}
	return due
}
