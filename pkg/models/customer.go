package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a service contract: who we visit, and on what cadence.
// AnchorDate is set once at creation and never changes; every
// anchor-relative cadence (daily, every N days, selector-less weekly and
// monthly rules) counts from it.
type Customer struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	AnchorDate time.Time      `json:"anchor_date"`
	Rule       RecurrenceRule `json:"recurrence_rule"`
	Selector   *int16         `json:"selector,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// SelectorValue flattens the optional selector for the evaluator:
// 0 means "no explicit slot".
func (c *Customer) SelectorValue() int {
	if c.Selector == nil {
		return 0
	}
	return int(*c.Selector)
}
