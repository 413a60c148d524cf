/*
Package calendar provides working-day and legal-holiday classification.

PURPOSE:
  Leave arithmetic lives and dies by calendar classification. The same
  question - "is this date a working day?" - feeds both the holiday
  extension walk (which pushes a leave end date past legal holidays) and
  partial-month wage proration (which counts attended working days).
  Centralizing it here keeps both consumers in agreement.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: A day-granularity point in time, normalized to UTC midnight
  - Month: A (year, month) pair used for adjustment-effective comparisons

DESIGN PRINCIPLES:
  1. Day granularity only: no hours, no time zones, no DST surprises
  2. Value semantics: Date is copied freely, never mutated
  3. Comparable: Date can be used as a map key

SEE ALSO:
  - calendar.go: Holiday/make-up-workday lookup built from yearly entries
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity point in time
// =============================================================================

// Date is a calendar day. The embedded instant is always UTC midnight.
type Date struct {
	t time.Time
}

// NewDate constructs a Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" formatted string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// FromTime truncates a time.Time to a Date.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return FromTime(d.t.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return FromTime(d.t.AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) MonthOf() time.Month   { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// Month returns the (year, month) the date falls in.
func (d Date) Month() Month { return Month{Year: d.t.Year(), Month: d.t.Month()} }

// DaysBetween returns the number of days from 'from' to 'to'
// (negative if 'to' precedes 'from').
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// MONTH - Year/month pair for month-level comparisons
// =============================================================================

// Month identifies a calendar month. Used to decide which side of a
// mid-leave salary or contribution-rate adjustment a month falls on.
type Month struct {
	Year  int
	Month time.Month
}

func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m Month) After(other Month) bool         { return other.Before(m) }
func (m Month) Equal(other Month) bool         { return m == other }
func (m Month) BeforeOrEqual(other Month) bool { return !m.After(other) }
func (m Month) AfterOrEqual(other Month) bool  { return !m.Before(other) }

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// First returns the first day of the month.
func (m Month) First() Date { return NewDate(m.Year, m.Month, 1) }

// Last returns the last day of the month.
func (m Month) Last() Date { return NewDate(m.Year, m.Month+1, 1).AddDays(-1) }

// ParseMonth parses a "2006-01" formatted string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
