package models

import "fmt"

// RecurrenceRule is the repetition cadence of a customer's service contract.
// Stored as lowercase strings in the customers table.
type RecurrenceRule string

const (
	RecurrenceNone          RecurrenceRule = "none"
	RecurrenceDaily         RecurrenceRule = "daily"
	RecurrenceEveryOtherDay RecurrenceRule = "every_other_day"
	RecurrenceEvery3Days    RecurrenceRule = "every_3_days"
	RecurrenceWeekly        RecurrenceRule = "weekly"
	RecurrenceBiWeekly      RecurrenceRule = "biweekly"
	RecurrenceMonthly       RecurrenceRule = "monthly"
	RecurrenceBiMonthly     RecurrenceRule = "bimonthly"
)

// ParseRecurrenceRule validates a raw rule string from the API or the database.
func ParseRecurrenceRule(raw string) (RecurrenceRule, error) {
	switch rule := RecurrenceRule(raw); rule {
	case RecurrenceNone, RecurrenceDaily, RecurrenceEveryOtherDay, RecurrenceEvery3Days,
		RecurrenceWeekly, RecurrenceBiWeekly, RecurrenceMonthly, RecurrenceBiMonthly:
		return rule, nil
	default:
		return "", fmt.Errorf("unknown recurrence rule %q", raw)
	}
}

// IsRecurring reports whether the rule generates jobs at all.
func (r RecurrenceRule) IsRecurring() bool {
	return r != RecurrenceNone && r != ""
}

// UsesWeekdaySelector reports whether an explicit selector for this rule
// is interpreted as an ISO weekday (1=Monday .. 7=Sunday).
func (r RecurrenceRule) UsesWeekdaySelector() bool {
	return r == RecurrenceWeekly || r == RecurrenceBiWeekly
}

// UsesDayOfMonthSelector reports whether an explicit selector for this rule
// is interpreted as a day of month (1..28).
func (r RecurrenceRule) UsesDayOfMonthSelector() bool {
	return r == RecurrenceMonthly || r == RecurrenceBiMonthly
}

// MaxDayOfMonthSelector caps day-of-month selectors below 29 so a selector
// is valid in every month. Days 29-31 are not representable on purpose.
const MaxDayOfMonthSelector = 28

// ValidateSelector checks an explicit selector against its rule at the
// accept boundary. A nil selector is always valid: the cadence then runs
// relative to the anchor date. Selectors on rules that do not use one are
// rejected here even though the evaluator would just ignore them, so bad
// contracts never reach the store.
func ValidateSelector(rule RecurrenceRule, selector *int16) error {
	if selector == nil {
		return nil
	}
	switch {
	case rule.UsesWeekdaySelector():
		if *selector < 1 || *selector > 7 {
			return fmt.Errorf("weekday selector must be 1-7, got %d", *selector)
		}
	case rule.UsesDayOfMonthSelector():
		if *selector < 1 || *selector > MaxDayOfMonthSelector {
			return fmt.Errorf("day-of-month selector must be 1-%d, got %d", MaxDayOfMonthSelector, *selector)
		}
	default:
		return fmt.Errorf("rule %q does not take a selector", rule)
	}
	return nil
}
