package recurrence

import "time"

// Day strips the time of day and normalizes to UTC midnight. All recurrence
// arithmetic compares calendar days, never instants, so every date entering
// this package goes through Day first.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Both arguments
// are normalized, so the result is exact regardless of time zone or DST in
// the inputs. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}

// MonthsBetween returns the number of whole calendar months from a to b,
// by calendar subtraction: January to March is 2 months apart no matter
// which days of those months are involved.
func MonthsBetween(a, b time.Time) int {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return (int(by)-int(ay))*12 + int(bm) - int(am)
}

// ISOWeekday maps Go's Sunday-based weekday onto ISO numbering:
// Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
