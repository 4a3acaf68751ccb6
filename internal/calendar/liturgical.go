package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date time.Time) string {
	return date.Weekday().String()
}

// Ordinal returns the ordinal form of a number (1st, 2nd, 3rd, 4th, 11th, 21st, etc.)
func Ordinal(n int) string {
	switch n % 100 {
	case 11, 12, 13:
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

// DateOnly strips the time of day and zone, keeping the calendar date as it
// reads in the value's own location. All boundary comparisons in this package
// run on DateOnly values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// DaysBetween returns the number of whole days from start to end.
// Negative when end is before start.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// FindSundayBetween finds the Sunday within a date range.
// Returns nil if no Sunday exists in the range.
func FindSundayBetween(year int, startMonth, startDay, endMonth, endDay int) *time.Time {
	start := time.Date(year, time.Month(startMonth), startDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(endMonth), endDay, 0, 0, 0, 0, time.UTC)

	current := start
	for !current.After(end) {
		if current.Weekday() == time.Sunday {
			return &current
		}
		current = current.AddDate(0, 0, 1)
	}

	return nil
}

// NextSunday returns the first Sunday strictly after date.
func NextSunday(date time.Time) time.Time {
	d := DateOnly(date).AddDate(0, 0, 1)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// GetLiturgicalWeekNumber calculates which week of a liturgical season a date falls in.
// For Advent: weeks 1-4
// For Lent: weeks 1-6 (counted from the first Sunday of Lent)
// For Easter: weeks 1-7 (Easter Sunday starts week 1)
func GetLiturgicalWeekNumber(date time.Time, seasonStart time.Time) int {
	return DaysBetween(seasonStart, date)/7 + 1
}

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

// FormatMonthDay formats a date as MM-DD.
func FormatMonthDay(date time.Time) string {
	return date.Format("01-02")
}

// Days returns every date from start through end, inclusive, as DateOnly
// values. It returns nil when end is before start.
func Days(start, end time.Time) []time.Time {
	start, end = DateOnly(start), DateOnly(end)
	if end.Before(start) {
		return nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: start,
		Until:   end,
	})
	if err != nil {
		// A DAILY rule with a valid start cannot fail; walk the range instead.
		var days []time.Time
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
		return days
	}
	return r.All()
}
