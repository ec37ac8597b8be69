package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jobbook/core/pkg/models"
)

const createCustomerSQL = `
INSERT INTO customers (id, name, slug, anchor_date, recurrence_rule, selector)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, slug, anchor_date, recurrence_rule, selector, created_at`

// CreateCustomer inserts a new service contract and returns the stored row.
func (q *Queries) CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	row := q.db.QueryRow(ctx, createCustomerSQL,
		c.ID, c.Name, c.Slug, c.AnchorDate, string(c.Rule), c.Selector)
	return scanCustomer(row)
}

const getCustomerSQL = `
SELECT id, name, slug, anchor_date, recurrence_rule, selector, created_at
FROM customers
WHERE id = $1`

// GetCustomer fetches one customer by ID.
func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerSQL, id))
}

const listCustomersSQL = `
SELECT id, name, slug, anchor_date, recurrence_rule, selector, created_at
FROM customers
ORDER BY created_at`

// ListCustomers returns every customer, recurring or not.
func (q *Queries) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := q.db.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

const listRecurringCustomersSQL = `
SELECT id, name, slug, anchor_date, recurrence_rule, selector, created_at
FROM customers
WHERE recurrence_rule <> 'none'
ORDER BY created_at`

// ListRecurringCustomers returns the contracts the materializer evaluates:
// everyone whose rule generates jobs.
func (q *Queries) ListRecurringCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := q.db.Query(ctx, listRecurringCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring customers: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var c models.Customer
	var rule string
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.AnchorDate, &rule, &c.Selector, &c.CreatedAt)
	if err != nil {
		return models.Customer{}, err
	}
	c.Rule = models.RecurrenceRule(rule)
	return c, nil
}

func scanCustomers(rows pgx.Rows) ([]models.Customer, error) {
	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		var rule string
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.AnchorDate, &rule, &c.Selector, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.Rule = models.RecurrenceRule(rule)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
