// Package dateutils provides the calendar-day operations used throughout the
// application. Movements and snapshots carry dates without a time component,
// so every date is normalized to midnight UTC before it is compared or stored.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Layouts used by the ledger. ISO is the storage format, Spanish is the CSV
// wire format (DD/MM/YYYY on export, D/M/YYYY accepted on import).
const (
	LayoutISO     = "2006-01-02"
	LayoutSpanish = "02/01/2006"
)

var importDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// Day truncates t to midnight UTC, discarding any time-of-day component.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ToSpanish formats a date as DD/MM/YYYY.
func ToSpanish(t time.Time) string {
	return t.Format(LayoutSpanish)
}

// ToISO formats a date as YYYY-MM-DD.
func ToISO(t time.Time) string {
	return t.Format(LayoutISO)
}

// ParseISO parses a YYYY-MM-DD date into a normalized day.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(LayoutISO, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
	}
	return Day(t), nil
}

// ParseImportDate parses the D/M/YYYY through DD/MM/YYYY forms accepted by
// CSV import. The digits must also form a real calendar date: 31/02/2024
// matches the pattern but is rejected rather than rolled over into March.
func ParseImportDate(s string) (time.Time, error) {
	m := importDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("date %q does not match D/M/YYYY", s)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("date %q is not a valid calendar date", s)
	}
	return t, nil
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := Date(year, month, 1)
	return start, start.AddDate(0, 1, -1)
}

// YearRange returns January 1st and December 31st of the given year.
func YearRange(year int) (time.Time, time.Time) {
	return Date(year, time.January, 1), Date(year, time.December, 31)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return Date(year, month, 1).AddDate(0, 1, -1).Day()
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
