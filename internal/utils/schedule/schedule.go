// Package schedule is the single implementation of recurrence-interval date
// math and calendar-month windows. All due-date advancement and month
// boundary computation in the application goes through this package.
package schedule

import (
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

// AdvanceDate returns from advanced by exactly one period of the given
// interval.
//
// Calendar-month and calendar-year advancement clamps to the last day of the
// target month rather than letting the day overflow into the following month:
// Jan 31 + 1 month = Feb 29 on leap years (Feb 28 otherwise), and
// Feb 29 + 1 year = Feb 28. Clock time and location are preserved.
func AdvanceDate(from time.Time, interval domain.RecurringInterval) time.Time {
	switch interval {
	case domain.Daily:
		return from.AddDate(0, 0, 1)
	case domain.Weekly:
		return from.AddDate(0, 0, 7)
	case domain.Monthly:
		return addMonthsClamped(from, 1)
	case domain.Yearly:
		return addMonthsClamped(from, 12)
	default:
		return from
	}
}

// addMonthsClamped adds months to t, clamping the day of month to the last
// valid day of the target month instead of relying on time.AddDate's
// normalization (which would turn Jan 31 + 1 month into Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	targetMonth := time.Month(int(month) + months)
	last := daysIn(year, targetMonth, t.Location())
	if day > last {
		day = last
	}
	return time.Date(year, targetMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month. time.Date normalizes
// day 0 of the following month to the last day of this one.
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// MonthWindow returns the inclusive bounds of the calendar month containing t:
// [day 1 00:00:00, last day 23:59:59.999999999], in t's location.
func MonthWindow(t time.Time) (start, end time.Time) {
	year, month, _ := t.Date()
	start = time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// PreviousMonthWindow returns the inclusive bounds of the calendar month
// before the one containing t.
func PreviousMonthWindow(t time.Time) (start, end time.Time) {
	year, month, _ := t.Date()
	firstOfThisMonth := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	return MonthWindow(firstOfThisMonth.AddDate(0, 0, -1))
}

// SameMonth reports whether a and b fall in the same calendar month of the
// same year. The year comparison matters: an alert sent in June 2024 must not
// suppress an alert in June 2025.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
