package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/calendar"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func holiday(d calendar.Date, name string, legal bool) calendar.Entry {
	return calendar.Entry{Date: d, Name: name, Kind: calendar.KindHoliday, IsLegalHoliday: legal}
}

func makeup(d calendar.Date) calendar.Entry {
	return calendar.Entry{Date: d, Kind: calendar.KindMakeupWorkday}
}

// =============================================================================
// DATE TESTS
// =============================================================================

func TestDate_Parse(t *testing.T) {
	d, err := calendar.ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, calendar.NewDate(2025, time.March, 10), d)

	_, err = calendar.ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestDate_Arithmetic(t *testing.T) {
	d := calendar.NewDate(2025, time.January, 30)

	assert.Equal(t, calendar.NewDate(2025, time.February, 1), d.AddDays(2))
	assert.Equal(t, calendar.NewDate(2024, time.December, 31), d.AddDays(-30))
	assert.Equal(t, 2, calendar.DaysBetween(d, d.AddDays(2)))
	assert.Equal(t, -2, calendar.DaysBetween(d, d.AddDays(-2)))
}

func TestDate_Comparisons(t *testing.T) {
	a := calendar.NewDate(2025, time.May, 1)
	b := calendar.NewDate(2025, time.May, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.False(t, a.Equal(b))
}

func TestMonth_Boundaries(t *testing.T) {
	feb := calendar.Month{Year: 2024, Month: time.February}

	// 2024 is a leap year
	assert.Equal(t, calendar.NewDate(2024, time.February, 1), feb.First())
	assert.Equal(t, calendar.NewDate(2024, time.February, 29), feb.Last())

	dec := calendar.Month{Year: 2024, Month: time.December}
	assert.Equal(t, calendar.Month{Year: 2025, Month: time.January}, dec.Next())
}

func TestMonth_Parse(t *testing.T) {
	m, err := calendar.ParseMonth("2025-07")
	require.NoError(t, err)
	assert.Equal(t, calendar.Month{Year: 2025, Month: time.July}, m)
	assert.Equal(t, "2025-07", m.String())
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestCalendar_IsWorkingDay(t *testing.T) {
	// GIVEN: Oct 1 (Wed) is a legal holiday, Sat Sep 27 is a make-up workday
	oct1 := calendar.NewDate(2025, time.October, 1)
	sep27 := calendar.NewDate(2025, time.September, 27)
	cal := calendar.New([]calendar.Entry{
		holiday(oct1, "National Day", true),
		makeup(sep27),
	})

	// Plain weekday
	assert.True(t, cal.IsWorkingDay(calendar.NewDate(2025, time.September, 29)))
	// Legal holiday on a weekday
	assert.False(t, cal.IsWorkingDay(oct1))
	// Make-up weekend day
	assert.True(t, cal.IsWorkingDay(sep27))
	// Plain weekend day
	assert.False(t, cal.IsWorkingDay(calendar.NewDate(2025, time.September, 28)))
}

func TestCalendar_CompanyHolidayIsNotLegal(t *testing.T) {
	// GIVEN: a company-declared (non-legal) holiday
	// THEN: it shows up as a holiday but never as a legal one,
	//       and does not block the working-day classification
	d := calendar.NewDate(2025, time.June, 16) // Monday
	cal := calendar.New([]calendar.Entry{holiday(d, "Company Anniversary", false)})

	assert.True(t, cal.IsHoliday(d))
	_, legal := cal.IsLegalHoliday(d)
	assert.False(t, legal)
	assert.True(t, cal.IsWorkingDay(d))
}

func TestCalendar_EmptyDefaults(t *testing.T) {
	cal := calendar.Empty()

	assert.True(t, cal.IsWorkingDay(calendar.NewDate(2025, time.March, 10))) // Monday
	assert.False(t, cal.IsWorkingDay(calendar.NewDate(2025, time.March, 8))) // Saturday
}

// =============================================================================
// MONTH COUNT TESTS
// =============================================================================

func TestCalendar_MonthCounts(t *testing.T) {
	// October 2025: 31 days, 23 weekdays, 8 weekend days.
	// Oct 1-3 (Wed-Fri) are legal holidays, Sat Oct 11 is a make-up workday.
	cal := calendar.New([]calendar.Entry{
		holiday(calendar.NewDate(2025, time.October, 1), "National Day", true),
		holiday(calendar.NewDate(2025, time.October, 2), "National Day", true),
		holiday(calendar.NewDate(2025, time.October, 3), "National Day", true),
		makeup(calendar.NewDate(2025, time.October, 11)),
	})
	oct := calendar.Month{Year: 2025, Month: time.October}

	// 23 weekdays - 3 legal holidays + 1 make-up = 21
	assert.Equal(t, 21, cal.MonthWorkingDays(oct))
	assert.Equal(t, 3, cal.MonthLegalHolidays(oct))
}

func TestCalendar_WorkingDaysInRange(t *testing.T) {
	cal := calendar.Empty()

	// Mon Mar 3 .. Fri Mar 7 2025: five weekdays
	from := calendar.NewDate(2025, time.March, 3)
	to := calendar.NewDate(2025, time.March, 7)
	assert.Equal(t, 5, cal.WorkingDaysInRange(from, to))

	// Inverted range counts nothing
	assert.Equal(t, 0, cal.WorkingDaysInRange(to, from))
}

// =============================================================================
// DEFAULT HOLIDAY SEED TESTS
// =============================================================================

func TestDefaultLegalHolidays(t *testing.T) {
	entries := calendar.DefaultLegalHolidays(2025)
	require.Len(t, entries, 5)

	cal := calendar.New(entries)
	name, legal := cal.IsLegalHoliday(calendar.NewDate(2025, time.October, 1))
	assert.True(t, legal)
	assert.Equal(t, "National Day", name)

	_, legal = cal.IsLegalHoliday(calendar.NewDate(2025, time.October, 4))
	assert.False(t, legal)
}
