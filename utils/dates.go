package utils

import "time"

const DayLayout = "2006-01-02"

// DayString formats a time as its local calendar day.
func DayString(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD day string.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// LastNDays returns the n day strings ending at (and including) ref.
func LastNDays(n int, ref time.Time) []string {
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, DayString(ref.AddDate(0, 0, -i)))
	}
	return days
}
