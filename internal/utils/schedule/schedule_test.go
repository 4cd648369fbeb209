package schedule_test

import (
	"testing"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	"github.com/SscSPs/welth_backend/internal/utils/schedule"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceDate(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		interval domain.RecurringInterval
		want     time.Time
	}{
		{name: "daily", from: date(2024, time.January, 1), interval: domain.Daily, want: date(2024, time.January, 2)},
		{name: "daily across month end", from: date(2024, time.January, 31), interval: domain.Daily, want: date(2024, time.February, 1)},
		{name: "weekly", from: date(2024, time.January, 25), interval: domain.Weekly, want: date(2024, time.February, 1)},
		{name: "monthly", from: date(2024, time.January, 1), interval: domain.Monthly, want: date(2024, time.February, 1)},
		{name: "monthly clamps Jan 31 to leap Feb 29", from: date(2024, time.January, 31), interval: domain.Monthly, want: date(2024, time.February, 29)},
		{name: "monthly clamps Jan 31 to Feb 28", from: date(2023, time.January, 31), interval: domain.Monthly, want: date(2023, time.February, 28)},
		{name: "monthly clamps Mar 31 to Apr 30", from: date(2024, time.March, 31), interval: domain.Monthly, want: date(2024, time.April, 30)},
		{name: "monthly across year end", from: date(2024, time.December, 15), interval: domain.Monthly, want: date(2025, time.January, 15)},
		{name: "yearly", from: date(2024, time.March, 10), interval: domain.Yearly, want: date(2025, time.March, 10)},
		{name: "yearly clamps Feb 29 to Feb 28", from: date(2024, time.February, 29), interval: domain.Yearly, want: date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.AdvanceDate(tt.from, tt.interval)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestAdvanceDate_PreservesClockTime(t *testing.T) {
	from := time.Date(2024, time.January, 31, 9, 30, 15, 0, time.UTC)
	got := schedule.AdvanceDate(from, domain.Monthly)
	assert.Equal(t, time.Date(2024, time.February, 29, 9, 30, 15, 0, time.UTC), got)
}

func TestMonthWindow(t *testing.T) {
	start, end := schedule.MonthWindow(time.Date(2024, time.February, 14, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, date(2024, time.February, 1), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC), end)
}

func TestPreviousMonthWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid-month",
			now:       date(2024, time.March, 1),
			wantStart: date(2024, time.February, 1),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "january looks back into previous year",
			now:       date(2024, time.January, 1),
			wantStart: date(2023, time.December, 1),
			wantEnd:   time.Date(2023, time.December, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := schedule.PreviousMonthWindow(tt.now)
			assert.True(t, tt.wantStart.Equal(start), "start: want %s, got %s", tt.wantStart, start)
			assert.True(t, tt.wantEnd.Equal(end), "end: want %s, got %s", tt.wantEnd, end)
		})
	}
}

func TestSameMonth(t *testing.T) {
	assert.True(t, schedule.SameMonth(date(2024, time.June, 1), date(2024, time.June, 30)))
	assert.False(t, schedule.SameMonth(date(2024, time.June, 1), date(2024, time.July, 1)))
	// Same month of a different year is a different alert month.
	assert.False(t, schedule.SameMonth(date(2024, time.June, 1), date(2025, time.June, 1)))
}
