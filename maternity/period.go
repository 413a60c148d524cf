/*
period.go - Leave window calculation with holiday extension

PURPOSE:
  Turns a day total plus a start date into a concrete [start, end] window.
  When a reward component is extendable, its days are consumed one
  calendar day at a time: legal holidays are skipped (and logged) without
  decrementing the remaining counter, pushing the end date back.

STATE WALK:
  ConsumingFixedDays:      start + (total - extendable) - 1, no walk
  ConsumingExtendableDays: day-by-day; holidays skip, workable days consume
  FinalHolidayCheck:       the end date must not itself be a legal holiday
  Done

  Without an extendable component the window is simply
  start + totalDays - 1 (or a caller-supplied override end).

OUTPUT:
  Period plus the Extension record (skipped-holiday names, extension
  window) that the caller attaches to the reward ledger entry. Extended
  days are added back into the maternity-day total by the orchestrator.
*/
package maternity

import (
	"fmt"

	"github.com/warp/maternity-engine/calendar"
)

// PeriodInput bundles the period calculation inputs.
type PeriodInput struct {
	Start          calendar.Date
	TotalDays      int
	ExtendableDays int

	// OverrideEnd wins only when ExtendableDays is zero.
	OverrideEnd *calendar.Date
}

// CalculatePeriod resolves the concrete leave window. The returned
// Extension is nil when no extendable component applies.
func CalculatePeriod(in PeriodInput, cal *calendar.Calendar) (Period, *Extension, error) {
	if in.TotalDays <= 0 {
		return Period{}, nil, &ComputationError{
			Stage:  "period",
			Detail: fmt.Sprintf("non-positive total days %d", in.TotalDays),
		}
	}
	if in.ExtendableDays > in.TotalDays {
		return Period{}, nil, &ComputationError{
			Stage:  "period",
			Detail: fmt.Sprintf("extendable days %d exceed total days %d", in.ExtendableDays, in.TotalDays),
		}
	}

	if in.ExtendableDays == 0 {
		end := in.Start.AddDays(in.TotalDays - 1)
		if in.OverrideEnd != nil {
			if in.OverrideEnd.Before(in.Start) {
				return Period{}, nil, &ComputationError{
					Stage:  "period",
					Detail: fmt.Sprintf("override end %s precedes start %s", in.OverrideEnd, in.Start),
				}
			}
			end = *in.OverrideEnd
		}
		return newPeriod(in.Start, end), nil, nil
	}

	// ConsumingFixedDays: the non-extendable portion runs straight through
	// the calendar, holidays included.
	fixedDays := in.TotalDays - in.ExtendableDays
	ext := &Extension{Start: in.Start.AddDays(fixedDays)}

	// ConsumingExtendableDays: holidays skip without consuming.
	remaining := in.ExtendableDays
	day := ext.Start
	for {
		if name, legal := cal.IsLegalHoliday(day); legal {
			ext.ExtendedDays++
			ext.Holidays = append(ext.Holidays, name)
		} else {
			remaining--
			if remaining == 0 {
				break
			}
		}
		day = day.AddDays(1)
	}

	// FinalHolidayCheck: the last day of leave must never itself be a
	// legal holiday. Terminates on the first non-holiday day.
	for {
		name, legal := cal.IsLegalHoliday(day)
		if !legal {
			break
		}
		ext.ExtendedDays++
		ext.Holidays = append(ext.Holidays, name)
		day = day.AddDays(1)
	}

	ext.End = day
	return newPeriod(in.Start, day), ext, nil
}

func newPeriod(start, end calendar.Date) Period {
	actual := calendar.DaysBetween(start, end) + 1
	return Period{
		Start:               start,
		End:                 end,
		ActualDays:          actual,
		WorkingDaysEstimate: actual * 5 / 7,
	}
}
