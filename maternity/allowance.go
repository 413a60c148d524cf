/*
allowance.go - Allowance orchestration and the per-city formula

PURPOSE:
  Runs the full pipeline for one employee and applies the city's formula
  variant to produce the three money figures: the government-paid
  allowance, the employee receivable, and the employer supplement.

FORMULA:
  allowanceBase      = min(socialInsuranceLimit, companyAverageWage)
  socialInsuranceLimit defaults to 3 x socialAverageWage
  dailyAllowance     = allowanceBase at the city's daily-rate convention
                       (/30 default, /30.4, or x12/365)
  governmentPaid     = dailyAllowance x allowance-eligible days
  receivableBase     = max(employee basic salary, companyAverageWage)
  employeeReceivable = receivableBase daily rate x total maternity days
  companySupplement  = max(0, employeeReceivable - governmentPaid)

  The supplement is computed from the full-precision receivable and
  government figures before rounding; it is the authoritative value, and
  the derivation text reads it from DebugInfo rather than re-subtracting
  rounded outputs.

ERROR POLICY:
  A non-positive allowance or receivable base is a ComputationError, not
  a zero result. Rule lookups fail with the rules package's not-found
  error. Validation failures surface before any math runs.
*/
package maternity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/rules"
)

var (
	three         = decimal.NewFromInt(3)
	twelve        = decimal.NewFromInt(12)
	daysPerMonth  = decimal.NewFromInt(30)
	daysPerMonth4 = decimal.RequireFromString("30.4")
	daysPerYear   = decimal.NewFromInt(365)
)

// Calculator runs the engine against one holiday calendar. It is
// stateless apart from the calendar and safe for concurrent use.
type Calculator struct {
	cal *calendar.Calendar
}

// NewCalculator builds a Calculator over the given holiday calendar.
func NewCalculator(cal *calendar.Calendar) *Calculator {
	if cal == nil {
		cal = calendar.Empty()
	}
	return &Calculator{cal: cal}
}

// Compute runs the full calculation for one employee against an immutable
// rule snapshot. The snapshot is never mutated; reloading rules means
// building a new snapshot and calling again.
func (c *Calculator) Compute(snap *rules.Snapshot, in EmployeeInput) (*CalculationResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	allowRule, err := snap.AllowanceRule(in.City)
	if err != nil {
		return nil, err
	}

	resolution := ResolveLeaveDays(snap.MaternityRules(in.City), in)

	period, ext, err := CalculatePeriod(PeriodInput{
		Start:          in.StartDate,
		TotalDays:      resolution.TotalDays,
		ExtendableDays: resolution.ExtendableRewardDays,
		OverrideEnd:    in.OverrideEndDate,
	}, c.cal)
	if err != nil {
		return nil, err
	}

	applied := attachExtension(resolution.Applied, ext)
	totalDays := resolution.TotalDays
	if ext != nil {
		totalDays += ext.ExtendedDays
	}

	startP, endP := ProrateBoundaryMonths(period, in, c.cal)
	endFolded := endP != nil && endP.Folded
	contribution := PersonalContribution(period, startP.Folded, endFolded, in)

	debug, err := c.applyFormula(allowRule, in, resolution, totalDays)
	if err != nil {
		return nil, err
	}
	debug.PersonalContribution = contribution.Total

	result := &CalculationResult{
		City:                       allowRule.City,
		Identity:                   in.Identity(),
		TotalMaternityDays:         totalDays,
		TotalAllowanceEligibleDays: resolution.AllowanceEligibleDays(),
		AppliedRules:               applied,
		Period:                     period,
		GovernmentPaidAmount:       debug.GovernmentPaid.Round(2),
		EmployeeReceivable:         debug.EmployeeReceivable.Round(2),
		CompanySupplement:          debug.CompanySupplement.Round(2),
		PersonalSocialSecurity:     debug.PersonalContribution.Round(2),
		StartMonthProration:        startP,
		EndMonthProration:          endP,
		Contribution:               contribution,
		Debug:                      debug,
	}
	result.Derivation = FormatBreakdown(result)
	return result, nil
}

// applyFormula computes the money figures at full precision.
func (c *Calculator) applyFormula(rule rules.AllowanceRule, in EmployeeInput,
	resolution LeaveResolution, totalDays int) (DebugInfo, error) {

	debug := DebugInfo{
		Variant:           rule.Variant,
		SocialAverageWage: rule.SocialAverageWage,
	}

	debug.SocialInsuranceLimit = rule.SocialAverageWage.Mul(three)
	if in.SocialInsuranceLimit != nil {
		debug.SocialInsuranceLimit = *in.SocialInsuranceLimit
		debug.LimitOverridden = true
	}

	debug.CompanyAverageWage = rule.CompanyWage()
	if in.CompanyAverageWage != nil {
		debug.CompanyAverageWage = *in.CompanyAverageWage
		debug.CompanyWageOverridden = true
	}

	debug.AllowanceBase = decimal.Min(debug.SocialInsuranceLimit, debug.CompanyAverageWage)
	if !debug.AllowanceBase.IsPositive() {
		return DebugInfo{}, &ComputationError{
			Stage:  "allowance",
			Detail: fmt.Sprintf("allowance base %s is not positive", debug.AllowanceBase),
		}
	}
	debug.DailyAllowance = dailyRate(rule.Variant, debug.AllowanceBase)

	// Eligible days fall back to the full day total when no applied rule
	// carries the allowance flag.
	debug.PayableAllowanceDays = resolution.AllowanceEligibleDays()
	if debug.PayableAllowanceDays == 0 {
		debug.PayableAllowanceDays = totalDays
	}

	debug.GovernmentPaid = debug.DailyAllowance.Mul(decimal.NewFromInt(int64(debug.PayableAllowanceDays)))
	if in.GovernmentPaidAmount != nil {
		debug.GovernmentPaid = *in.GovernmentPaidAmount
		debug.GovernmentPaidOverridden = true
	}

	debug.ReceivableBase = decimal.Max(in.BasicSalary, debug.CompanyAverageWage)
	if !debug.ReceivableBase.IsPositive() {
		return DebugInfo{}, &ComputationError{
			Stage:  "receivable",
			Detail: fmt.Sprintf("receivable base %s is not positive", debug.ReceivableBase),
		}
	}
	debug.DailyReceivable = dailyRate(rule.Variant, debug.ReceivableBase)
	debug.ReceivableDays = totalDays
	debug.EmployeeReceivable = debug.DailyReceivable.Mul(decimal.NewFromInt(int64(totalDays)))

	debug.CompanySupplement = decimal.Max(decimal.Zero,
		debug.EmployeeReceivable.Sub(debug.GovernmentPaid))

	return debug, nil
}

// dailyRate converts a monthly base into a daily rate per the city's
// convention.
func dailyRate(variant rules.FormulaVariant, monthlyBase decimal.Decimal) decimal.Decimal {
	switch variant {
	case rules.VariantMonthly304:
		return monthlyBase.Div(daysPerMonth4)
	case rules.VariantAnnual365:
		return monthlyBase.Mul(twelve).Div(daysPerYear)
	default:
		return monthlyBase.Div(daysPerMonth)
	}
}

// attachExtension copies the ledger and sets the extension record on the
// extendable reward entry. The resolution itself stays untouched.
func attachExtension(applied []AppliedRule, ext *Extension) []AppliedRule {
	out := make([]AppliedRule, len(applied))
	copy(out, applied)
	if ext == nil {
		return out
	}
	for i := range out {
		if out[i].Type == rules.LeaveReward || out[i].Type == rules.LeaveRewardSecondThird {
			e := *ext
			out[i].Extension = &e
			break
		}
	}
	return out
}
