package recognition

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (midnight UTC internally)
// =============================================================================

// Date is a calendar date with no time-of-day component. The recognition
// algorithms only ever compare and shift whole days, so everything is
// normalized to midnight UTC on construction.
type Date struct {
	t time.Time
}

// NewDate builds a Date from components the caller knows to be valid.
// Out-of-range days are normalized by time.Date (Jan 32 becomes Feb 1);
// use MakeDate when the day comes from user input.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MakeDate builds a Date and rejects day-of-month values that do not exist
// in the target month (e.g. February 31). This is the fail-fast side of the
// month-rollover policy: schedule generation surfaces an impossible due day
// instead of silently sliding into the next month.
func MakeDate(year int, month time.Month, day int) (Date, error) {
	if day < 1 || day > daysInMonth(year, month) {
		return Date{}, &DateError{Year: year, Month: month, Day: day}
	}
	return NewDate(year, month, day), nil
}

// DateOf truncates a time.Time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current wall-clock date. The core algorithms never call
// this themselves; callers pass it in as the as-of date.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Time() time.Time   { return d.t }

// AddDays shifts the date by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddMonths shifts the date by n calendar months, keeping the day-of-month
// and clamping to the last day when the target month is shorter
// (Jan 31 - 1 month clamps nowhere, Mar 31 - 1 month clamps to Feb 28/29).
// Schedule generation does NOT use this: there an impossible day is an
// error, not a clamp. This clamping variant serves internal shifts such as
// the 24-month prepayment window, where the anchor day is not user input.
func (d Date) AddMonths(n int) Date {
	months := int(d.t.Month()) - 1 + n
	year := d.t.Year() + months/12
	months %= 12
	if months < 0 {
		months += 12
		year--
	}
	month := time.Month(months + 1)
	day := d.t.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// String formats the date as ISO YYYY-MM-DD.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON encodes the date as an ISO string, matching the wire format
// of the API layer and the stored summary payloads.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns to - from in whole days (negative when to < from).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// StartOfMonth returns the first day of the given month.
func StartOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
