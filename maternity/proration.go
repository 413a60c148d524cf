/*
proration.go - Partial-month wage proration

PURPOSE:
  The calendar months containing the leave start and end are usually
  partial: the employee attends some working days and is on leave for the
  rest. Payroll reconciliation needs the attended share of that month's
  salary:

    prorated wage = salary x attended working days / denominator

  where the denominator is the month's working days (weekdays minus legal
  holidays plus make-up workdays) plus its legal-holiday days, and the
  numerator counts working days attended outside the leave window.

FOLDING:
  A boundary month with zero attended working days, or a leave that starts
  on the month's first day / ends on its last day, is not prorated at all.
  It is folded into the personal-contribution month set instead - the
  employee owes a full month of social insurance for it.
*/
package maternity

import (
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
)

// dateRange is a closed [From, To] span; empty when To precedes From.
type dateRange struct {
	From, To calendar.Date
}

// ProrateBoundaryMonths computes the partial wages for the months
// containing the leave start and end. When both boundaries fall in the
// same month a single proration covers the attended days on both sides
// of the window and the end result is nil.
func ProrateBoundaryMonths(period Period, in EmployeeInput, cal *calendar.Calendar) (start, end *MonthProration) {
	startMonth := period.Start.Month()
	endMonth := period.End.Month()

	if startMonth == endMonth {
		start = prorateMonth(startMonth, in, cal,
			[]dateRange{
				{From: startMonth.First(), To: period.Start.AddDays(-1)},
				{From: period.End.AddDays(1), To: startMonth.Last()},
			},
			period.Start.Equal(startMonth.First()) && period.End.Equal(startMonth.Last()))
		return start, nil
	}

	start = prorateMonth(startMonth, in, cal,
		// Attended days precede the leave start.
		[]dateRange{{From: startMonth.First(), To: period.Start.AddDays(-1)}},
		period.Start.Equal(startMonth.First()))

	end = prorateMonth(endMonth, in, cal,
		// Attended days follow the leave end.
		[]dateRange{{From: period.End.AddDays(1), To: endMonth.Last()}},
		period.End.Equal(endMonth.Last()))

	return start, end
}

func prorateMonth(m calendar.Month, in EmployeeInput, cal *calendar.Calendar,
	attended []dateRange, exactBoundary bool) *MonthProration {

	p := &MonthProration{
		Month:           m,
		DenominatorDays: cal.MonthWorkingDays(m) + cal.MonthLegalHolidays(m),
		AppliedSalary:   in.ProrationSalaryFor(m),
	}

	for _, r := range attended {
		if r.From.BeforeOrEqual(r.To) {
			p.AttendedWorkingDays += cal.WorkingDaysInRange(r.From, r.To)
		}
	}

	if p.AttendedWorkingDays == 0 || exactBoundary {
		p.Folded = true
		return p
	}

	if p.DenominatorDays > 0 {
		wage := p.AppliedSalary.
			Mul(decimal.NewFromInt(int64(p.AttendedWorkingDays))).
			Div(decimal.NewFromInt(int64(p.DenominatorDays)))
		p.Wage = &wage
	}
	return p
}
