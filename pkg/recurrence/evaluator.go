// Package recurrence decides whether a customer's contract is due on a
// given calendar day. It is pure: no store access, no clock access, no
// error paths. The materializer and the schedule-preview endpoint both
// call into it, which is why it knows nothing about either.
package recurrence

import (
	"time"

	"github.com/jobbook/core/pkg/models"
)

// IsDue reports whether a contract with the given rule and anchor date is
// due on target. selector is the optional explicit slot: an ISO weekday
// (1-7) for weekly/biweekly rules, a day of month (1-28) for
// monthly/bimonthly rules, and 0 when absent.
//
// Two cadence families fall out of the selector:
//
//   - selector absent: the contract repeats relative to its own anchor
//     day (every 7th day since creation, the anchor's day-of-month, ...)
//   - selector present: the contract repeats on a fixed calendar slot
//     regardless of which day it happened to be created on
//
// An out-of-range selector is treated as absent rather than rejected;
// the accept boundary (models.ValidateSelector) keeps such contracts out
// of the store, but a stray row must degrade, not panic.
//
// Jobs are never due before the anchor: target < anchor is false for
// every rule, including Daily.
func IsDue(rule models.RecurrenceRule, selector int, anchor, target time.Time) bool {
	anchor = Day(anchor)
	target = Day(target)

	if target.Before(anchor) {
		return false
	}

	d := DaysBetween(anchor, target)
	switch rule {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceEveryOtherDay:
		return d%2 == 0
	case models.RecurrenceEvery3Days:
		return d%3 == 0
	case models.RecurrenceWeekly:
		if validWeekday(selector) {
			return ISOWeekday(target) == selector
		}
		return d%7 == 0
	case models.RecurrenceBiWeekly:
		if validWeekday(selector) {
			// The anchor's week is week 0; due on matching weekdays of
			// every even week since then.
			return ISOWeekday(target) == selector && (d/7)%2 == 0
		}
		return d%14 == 0
	case models.RecurrenceMonthly:
		return target.Day() == monthlyDay(selector, anchor)
	case models.RecurrenceBiMonthly:
		return target.Day() == monthlyDay(selector, anchor) && MonthsBetween(anchor, target)%2 == 0
	default:
		// RecurrenceNone and anything unrecognized.
		return false
	}
}

func validWeekday(selector int) bool {
	return selector >= 1 && selector <= 7
}

// monthlyDay resolves the day of month a monthly cadence fires on: the
// explicit selector when it is in the representable 1-28 range, otherwise
// the anchor's own day of month.
func monthlyDay(selector int, anchor time.Time) int {
	if selector >= 1 && selector <= models.MaxDayOfMonthSelector {
		return selector
	}
	return anchor.Day()
}
