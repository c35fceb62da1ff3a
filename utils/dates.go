// utils/dates.go
package utils

import (
	"os"
	"strconv"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// OverdueAfterDays is the number of days after sending before a Sent invoice
// reads as Overdue and payment reminders go out.
func OverdueAfterDays() int {
	if env := os.Getenv("REMINDER_AFTER_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil && d > 0 {
			return d
		}
	}
	return 30
}
