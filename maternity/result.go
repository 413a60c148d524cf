/*
result.go - Calculation output types

PURPOSE:
  CalculationResult is produced fresh per call and never mutated after
  creation. The narrative derivation text is re-derived from the result's
  own DebugInfo, never recomputed independently, so the numbers in the
  trace always agree with the authoritative outputs.

ROUNDING CONTRACT:
  Currency fields on CalculationResult are rounded to 2 decimal places.
  DebugInfo carries the same quantities at full precision; rounding any
  DebugInfo value to 2 places reproduces the corresponding output field.
*/
package maternity

import (
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/rules"
)

// =============================================================================
// APPLIED RULE LEDGER - One entry per contributing leave component
// =============================================================================

// RuleSource annotates where a ledger entry's day count came from.
type RuleSource string

const (
	// SourceCityRule: the day count came from a matching city rule.
	SourceCityRule RuleSource = "city_rule"

	// SourceDoctorAdvice: a doctor-advice override won outright.
	SourceDoctorAdvice RuleSource = "doctor_advice"

	// SourceDefaultTable: no city rule matched; the built-in default
	// day table supplied the count.
	SourceDefaultTable RuleSource = "default_missing_rule"

	// SourceFallback: the city has no rules at all; the hard-coded
	// fallback total applied.
	SourceFallback RuleSource = "fallback"
)

// Extension records the legal-holiday push-back applied to an extendable
// reward component.
type Extension struct {
	ExtendedDays int
	Start        calendar.Date
	End          calendar.Date
	Holidays     []string // names of the legal holidays skipped
}

// AppliedRule is one ordered ledger entry in the day resolution.
type AppliedRule struct {
	Type         rules.LeaveType
	Stage        rules.MiscarriageStage
	Days         int
	HasAllowance bool
	Source       RuleSource
	Note         string

	// Extension is set on the extendable reward entry after the period
	// walk, nil everywhere else.
	Extension *Extension
}

// =============================================================================
// LEAVE RESOLUTION - Output of the day resolver
// =============================================================================

// LeaveResolution is the combined day total with its per-rule ledger.
type LeaveResolution struct {
	TotalDays            int
	Applied              []AppliedRule
	ExtendableRewardDays int

	// ExtendableRewardRule is the reward rule whose days are consumed with
	// holiday skipping, nil when no extendable component applies.
	ExtendableRewardRule *rules.MaternityRule
}

// AllowanceEligibleDays sums ledger-entry days carrying allowance.
func (r LeaveResolution) AllowanceEligibleDays() int {
	total := 0
	for _, a := range r.Applied {
		if a.HasAllowance {
			total += a.Days
		}
	}
	return total
}

// =============================================================================
// PERIOD - Concrete leave window
// =============================================================================

// Period is the resolved leave window.
type Period struct {
	Start      calendar.Date
	End        calendar.Date
	ActualDays int

	// WorkingDaysEstimate = floor(ActualDays x 5/7), a payroll heuristic.
	WorkingDaysEstimate int
}

// =============================================================================
// PRORATION & CONTRIBUTION OUTPUTS
// =============================================================================

// MonthProration is the partial-wage computation for one boundary month.
type MonthProration struct {
	Month               calendar.Month
	AttendedWorkingDays int
	DenominatorDays     int // working days + legal-holiday days in month
	AppliedSalary       decimal.Decimal

	// Wage is nil when no working day was attended; the month is then
	// folded into the contribution set instead.
	Wage *decimal.Decimal

	// Folded marks the month as handed to the contribution calculator.
	Folded bool
}

// ContributionMode tags how the monthly amounts were derived.
type ContributionMode string

const (
	ContributionUniform  ContributionMode = "uniform"
	ContributionAdjusted ContributionMode = "adjusted"
)

// ContributionBreakdown records the personal social-insurance withholding
// across fully-covered leave months.
type ContributionBreakdown struct {
	Mode  ContributionMode
	Total decimal.Decimal

	// Uniform mode.
	Monthly decimal.Decimal
	Months  []calendar.Month

	// Adjusted mode: amounts before/from the adjustment's effective month.
	BeforeMonthly decimal.Decimal
	AfterMonthly  decimal.Decimal
	BeforeMonths  []calendar.Month
	AfterMonths   []calendar.Month
}

// MonthCount returns how many months contribute to the total.
func (b ContributionBreakdown) MonthCount() int {
	if b.Mode == ContributionAdjusted {
		return len(b.BeforeMonths) + len(b.AfterMonths)
	}
	return len(b.Months)
}

// =============================================================================
// DEBUG INFO - Full-precision intermediates for audit and re-derivation
// =============================================================================

// DebugInfo carries every intermediate value the allowance formula used,
// at full precision, so the breakdown formatter (or an auditor) can
// reconstruct any output without re-deriving the math.
type DebugInfo struct {
	Variant              rules.FormulaVariant
	SocialAverageWage    decimal.Decimal
	SocialInsuranceLimit decimal.Decimal
	CompanyAverageWage   decimal.Decimal
	AllowanceBase        decimal.Decimal
	DailyAllowance       decimal.Decimal
	PayableAllowanceDays int
	ReceivableBase       decimal.Decimal
	DailyReceivable      decimal.Decimal
	ReceivableDays       int
	GovernmentPaid       decimal.Decimal // full precision, pre-rounding
	EmployeeReceivable   decimal.Decimal
	CompanySupplement    decimal.Decimal
	PersonalContribution decimal.Decimal

	GovernmentPaidOverridden bool
	LimitOverridden          bool
	CompanyWageOverridden    bool
}

// =============================================================================
// CALCULATION RESULT
// =============================================================================

// CalculationResult is the engine's complete answer for one employee.
// Currency fields are rounded to 2 decimal places; DebugInfo keeps the
// full-precision counterparts.
type CalculationResult struct {
	City     string
	Identity string

	TotalMaternityDays         int
	TotalAllowanceEligibleDays int
	AppliedRules               []AppliedRule
	Period                     Period

	GovernmentPaidAmount   decimal.Decimal
	EmployeeReceivable     decimal.Decimal
	CompanySupplement      decimal.Decimal
	PersonalSocialSecurity decimal.Decimal

	StartMonthProration *MonthProration
	EndMonthProration   *MonthProration
	Contribution        ContributionBreakdown

	Debug DebugInfo

	// Derivation is the human-readable audit trace, re-derived from Debug.
	// Advisory only; degraded sections carry the unavailable marker.
	Derivation Derivation
}

// Derivation holds the breakdown text fields.
type Derivation struct {
	LeaveDays    string
	Allowance    string
	Receivable   string
	Supplement   string
	Contribution string
}
