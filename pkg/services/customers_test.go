package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobbook/core/pkg/models"
)

type fakeCustomerStore struct {
	customers []models.Customer
}

func (f *fakeCustomerStore) CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	c.CreatedAt = time.Now()
	f.customers = append(f.customers, c)
	return c, nil
}

func (f *fakeCustomerStore) GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, context.Canceled
}

func (f *fakeCustomerStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return f.customers, nil
}

func TestCreateCustomer_Valid(t *testing.T) {
	store := &fakeCustomerStore{}
	svc := NewCustomerService(store)

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerParams{
		Name:       "Büyük Garden Care",
		Rule:       "weekly",
		Selector:   selector(3),
		AnchorDate: day(2024, time.January, 1),
	})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if customer.ID == uuid.Nil {
		t.Error("customer created without an ID")
	}
	if customer.Slug != "buyuk-garden-care" {
		t.Errorf("slug = %q, want %q", customer.Slug, "buyuk-garden-care")
	}
	if !customer.AnchorDate.Equal(day(2024, time.January, 1)) {
		t.Errorf("anchor date = %v, want 2024-01-01", customer.AnchorDate)
	}
}

func TestCreateCustomer_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateCustomerParams
		wantErr bool
	}{
		{"unknown rule", CreateCustomerParams{Name: "X", Rule: "fortnightly"}, true},
		{"missing name", CreateCustomerParams{Rule: "daily"}, true},
		{"weekday selector too high", CreateCustomerParams{Name: "X", Rule: "weekly", Selector: selector(8)}, true},
		{"weekday selector zero", CreateCustomerParams{Name: "X", Rule: "biweekly", Selector: selector(0)}, true},
		{"day-of-month 29 rejected", CreateCustomerParams{Name: "X", Rule: "monthly", Selector: selector(29)}, true},
		{"day-of-month 28 accepted", CreateCustomerParams{Name: "X", Rule: "monthly", Selector: selector(28)}, false},
		{"selector on daily rule", CreateCustomerParams{Name: "X", Rule: "daily", Selector: selector(3)}, true},
		{"no selector is fine", CreateCustomerParams{Name: "X", Rule: "biweekly"}, false},
		{"rule none", CreateCustomerParams{Name: "X", Rule: "none"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCustomerService(&fakeCustomerStore{})
			_, err := svc.CreateCustomer(context.Background(), tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateCustomer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpcomingDates(t *testing.T) {
	svc := NewCustomerService(&fakeCustomerStore{})

	customer := models.Customer{
		AnchorDate: day(2024, time.January, 1),
		Rule:       models.RecurrenceWeekly,
		Selector:   selector(3),
	}

	due := svc.UpcomingDates(&customer, day(2024, time.January, 1), 15)

	want := []time.Time{
		day(2024, time.January, 3),
		day(2024, time.January, 10),
	}
	if len(due) != len(want) {
		t.Fatalf("got %d due dates, want %d: %v", len(due), len(want), due)
	}
	for i := range want {
		if !due[i].Equal(want[i]) {
			t.Errorf("due[%d] = %v, want %v", i, due[i], want[i])
		}
	}
}

func TestUpcomingDates_NonRecurring(t *testing.T) {
	svc := NewCustomerService(&fakeCustomerStore{})
	customer := models.Customer{
		AnchorDate: day(2024, time.January, 1),
		Rule:       models.RecurrenceNone,
	}

	if due := svc.UpcomingDates(&customer, day(2024, time.January, 1), 30); due != nil {
		t.Errorf("non-recurring contract produced due dates: %v", due)
	}
}
