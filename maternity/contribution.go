/*
contribution.go - Personal social-insurance withholding during leave

PURPOSE:
  For every calendar month fully covered by the leave window the employee
  still owes their personal social-insurance and housing-fund share.
  Boundary months fold in when proration declined them (no attended days,
  or an exact month-boundary start/end).

MONTHLY AMOUNT PRECEDENCE:
  1. SocialSecurityAdjustment: explicit before/after monthly amounts,
     split at the adjustment's effective month
  2. PersonalSSMonthly override: one explicit monthly amount
  3. BasicSalary x DefaultContributionRate
*/
package maternity

import (
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
)

// DefaultContributionRate is the combined personal share of pension,
// medical, unemployment and housing-fund contributions.
var DefaultContributionRate = decimal.RequireFromString("0.205")

// PersonalContribution enumerates the fully-covered leave months (plus any
// folded boundary months) and totals the monthly withholding.
func PersonalContribution(period Period, startFolded, endFolded bool, in EmployeeInput) ContributionBreakdown {
	months := contributionMonths(period, startFolded, endFolded)

	if in.SocialSecurityAdjustment != nil {
		return adjustedContribution(months, *in.SocialSecurityAdjustment)
	}

	monthly := in.BasicSalary.Mul(DefaultContributionRate)
	if in.PersonalSSMonthly != nil {
		monthly = *in.PersonalSSMonthly
	}

	b := ContributionBreakdown{
		Mode:    ContributionUniform,
		Monthly: monthly,
		Months:  months,
		Total:   decimal.Zero,
	}
	for range months {
		b.Total = b.Total.Add(monthly)
	}
	return b
}

func adjustedContribution(months []calendar.Month, adj Adjustment) ContributionBreakdown {
	b := ContributionBreakdown{
		Mode:          ContributionAdjusted,
		BeforeMonthly: adj.Before,
		AfterMonthly:  adj.After,
		Total:         decimal.Zero,
	}
	for _, m := range months {
		if m.Before(adj.EffectiveMonth) {
			b.BeforeMonths = append(b.BeforeMonths, m)
			b.Total = b.Total.Add(adj.Before)
		} else {
			b.AfterMonths = append(b.AfterMonths, m)
			b.Total = b.Total.Add(adj.After)
		}
	}
	return b
}

// contributionMonths lists months fully inside the window, by calendar,
// plus folded boundary months.
func contributionMonths(period Period, startFolded, endFolded bool) []calendar.Month {
	startMonth := period.Start.Month()
	endMonth := period.End.Month()

	var months []calendar.Month
	for m := startMonth; m.BeforeOrEqual(endMonth); m = m.Next() {
		switch {
		case m == startMonth && m == endMonth:
			// Single-month leave: its one proration already judged both
			// boundaries, so the start flag decides.
			if startFolded {
				months = append(months, m)
			}
		case m == startMonth:
			if startFolded {
				months = append(months, m)
			}
		case m == endMonth:
			if endFolded {
				months = append(months, m)
			}
		default:
			months = append(months, m)
		}
	}
	return months
}
