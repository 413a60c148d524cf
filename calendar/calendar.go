/*
calendar.go - Holiday and make-up-workday lookup

PURPOSE:
  Classifies dates using a per-year set of calendar entries: holidays
  (legal or company-declared) and make-up workdays (weekend days that are
  worked to compensate for a midweek holiday bridge).

CLASSIFICATION RULES:
  IsLegalHoliday:  entry of kind holiday with the legal flag set.
                   Only these push a leave end date back.
  IsWorkingDay:    weekday that is not a legal holiday, OR a weekend day
                   declared a make-up workday.

MONTH COUNTS:
  Proration divides by "working-day equivalents" for a month:
  working days + legal-holiday days. Both counts come from here so the
  proration code never walks the calendar itself.
*/
package calendar

import "time"

// =============================================================================
// ENTRIES - Raw calendar data, typically loaded per year
// =============================================================================

// DayKind distinguishes the two entry categories.
type DayKind string

const (
	KindHoliday       DayKind = "holiday"
	KindMakeupWorkday DayKind = "makeup_workday"
)

// Entry is one declared calendar exception. Plain weekdays and weekends
// need no entry.
type Entry struct {
	Date           Date
	Name           string
	Kind           DayKind
	IsLegalHoliday bool // only meaningful for KindHoliday
}

// =============================================================================
// CALENDAR - Immutable lookup built once from entries
// =============================================================================

// Calendar answers date-classification queries. Build it once per
// calculation run; it is safe for concurrent readers.
type Calendar struct {
	holidays map[Date]Entry
	makeup   map[Date]struct{}
}

// New builds a Calendar from entries. Later entries for the same date
// replace earlier ones.
func New(entries []Entry) *Calendar {
	c := &Calendar{
		holidays: make(map[Date]Entry),
		makeup:   make(map[Date]struct{}),
	}
	for _, e := range entries {
		switch e.Kind {
		case KindMakeupWorkday:
			c.makeup[e.Date] = struct{}{}
		default:
			c.holidays[e.Date] = e
		}
	}
	return c
}

// Empty returns a calendar with no declared exceptions.
// Weekdays are working days, weekends are not.
func Empty() *Calendar { return New(nil) }

// IsLegalHoliday reports whether the date is a legal holiday and, if so,
// its name. Company-declared (non-legal) holidays return false.
func (c *Calendar) IsLegalHoliday(d Date) (string, bool) {
	e, ok := c.holidays[d]
	if !ok || !e.IsLegalHoliday {
		return "", false
	}
	return e.Name, true
}

// IsHoliday reports whether the date has any holiday entry, legal or not.
func (c *Calendar) IsHoliday(d Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// IsMakeupWorkday reports whether a weekend date is declared working.
func (c *Calendar) IsMakeupWorkday(d Date) bool {
	_, ok := c.makeup[d]
	return ok
}

// IsWorkingDay reports whether the date counts as an attended working day.
func (c *Calendar) IsWorkingDay(d Date) bool {
	if d.IsWeekend() {
		return c.IsMakeupWorkday(d)
	}
	_, legal := c.IsLegalHoliday(d)
	return !legal
}

// =============================================================================
// MONTH COUNTS - Inputs to wage proration
// =============================================================================

// MonthWorkingDays counts working days in the month
// (weekdays minus legal holidays, plus make-up workdays).
func (c *Calendar) MonthWorkingDays(m Month) int {
	count := 0
	for d := m.First(); d.BeforeOrEqual(m.Last()); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// MonthLegalHolidays counts legal-holiday days in the month.
func (c *Calendar) MonthLegalHolidays(m Month) int {
	count := 0
	for d := m.First(); d.BeforeOrEqual(m.Last()); d = d.AddDays(1) {
		if _, legal := c.IsLegalHoliday(d); legal {
			count++
		}
	}
	return count
}

// WorkingDaysInRange counts working days in [from, to] inclusive.
func (c *Calendar) WorkingDaysInRange(from, to Date) int {
	count := 0
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// =============================================================================
// DEFAULT HOLIDAYS - Seed helper for a bare installation
// =============================================================================

// DefaultLegalHolidays returns the fixed-date legal holidays for a year.
// Movable holidays (lunar-calendar based) must be loaded from real
// calendar data; this covers only the fixed ones.
func DefaultLegalHolidays(year int) []Entry {
	fixed := []struct {
		month time.Month
		day   int
		name  string
	}{
		{time.January, 1, "New Year's Day"},
		{time.May, 1, "Labour Day"},
		{time.October, 1, "National Day"},
		{time.October, 2, "National Day"},
		{time.October, 3, "National Day"},
	}
	entries := make([]Entry, 0, len(fixed))
	for _, f := range fixed {
		entries = append(entries, Entry{
			Date:           NewDate(year, f.month, f.day),
			Name:           f.name,
			Kind:           KindHoliday,
			IsLegalHoliday: true,
		})
	}
	return entries
}
