package utils

import (
	"time"
)

// AddMonthsClamped adds months to t, clamping the day to the last valid day
// of the target month. Jan 31 + 1 month gives Feb 28 (or 29), not Mar 3,
// which is what time.AddDate would produce.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := DaysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsDateOverdue checks if a due date is strictly before now.
func IsDateOverdue(dueDate, now time.Time) bool {
	return dueDate.Before(now)
}
