/*
Package maternity implements the maternity-leave and allowance engine.

PURPOSE:
  Given one city's rule set, one employee's salary and pregnancy-condition
  inputs, and a holiday calendar, the engine computes the eligible leave
  days, the concrete leave window (with legal-holiday extension), the
  government-paid allowance, the employee receivable, the employer
  supplement, the personal social-insurance withholding, and an auditable
  derivation trace. Every call is pure: immutable inputs in, a fresh
  CalculationResult out, no I/O anywhere.

PIPELINE:
  ResolveLeaveDays -> CalculatePeriod -> ProrateBoundaryMonths /
  PersonalContribution -> allowance formula (per-city variant)

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal end to end; rounding only at the output
     boundary, never inside a formula.
  2. Numeric errors propagate; narrative (breakdown text) errors never do.
  3. One typed input struct; every optional override is a named field with
     documented precedence, not a runtime property check.

KEY CONCEPTS IN THIS FILE (input.go):
  - EmployeeInput: the one input struct, with override precedence notes
  - Adjustment: a mid-leave before/after amount change
  - Input validation producing field-level errors

SEE ALSO:
  - leavedays.go:    rule matching into a day total + ledger
  - period.go:       holiday-extension walk
  - proration.go:    partial-month wage proration
  - contribution.go: personal social-insurance months
  - allowance.go:    orchestration and the per-city formula
*/
package maternity

import (
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/rules"
)

// =============================================================================
// ADJUSTMENT - Mid-leave amount change
// =============================================================================

// Adjustment describes a value that changes partway through the leave.
// Months strictly before EffectiveMonth use Before; months from
// EffectiveMonth onward use After.
type Adjustment struct {
	Before         decimal.Decimal
	After          decimal.Decimal
	EffectiveMonth calendar.Month
}

// AmountFor returns the amount applicable to the given month.
func (a Adjustment) AmountFor(m calendar.Month) decimal.Decimal {
	if m.Before(a.EffectiveMonth) {
		return a.Before
	}
	return a.After
}

// =============================================================================
// EMPLOYEE INPUT - All per-calculation inputs in one struct
// =============================================================================

// EmployeeInput carries everything the engine needs for one calculation.
// All override fields are optional; nil means "derive it".
type EmployeeInput struct {
	EmployeeID   string
	EmployeeName string
	City         string

	// BasicSalary is the pre-leave 12-month average salary. Required.
	// Feeds the receivable base and the default contribution amount.
	BasicSalary decimal.Decimal

	// CurrentBaseSalary, when set, replaces BasicSalary as the proration
	// base for boundary months.
	CurrentBaseSalary *decimal.Decimal

	// StartDate is the first day of leave. Required.
	StartDate calendar.Date

	// OverrideEndDate pins the leave end. Honored only when no extendable
	// reward component applies; the extension walk otherwise owns the end.
	OverrideEndDate *calendar.Date

	// Pregnancy conditions.
	IsDifficultBirth bool
	NumberOfBabies   int // 0 is treated as 1
	IsMiscarriage    bool
	PregnancyPeriod  rules.MiscarriageStage // required when IsMiscarriage

	// DoctorAdviceDays, when positive, overrides the miscarriage day count
	// outright. Ignored unless IsMiscarriage.
	DoctorAdviceDays int

	// City-restricted flags; each takes effect only where the city defines
	// the corresponding rule.
	MeetsSupplementalDifficultBirth bool
	IsSecondThirdChild              bool

	PayoutMethod rules.PayoutMethod

	// Numeric overrides. Each wins over the derived value when set.
	GovernmentPaidAmount *decimal.Decimal // replaces daily x payable days
	PersonalSSMonthly    *decimal.Decimal // replaces BasicSalary x flat rate
	CompanyAverageWage   *decimal.Decimal // replaces the rule's company wage
	SocialInsuranceLimit *decimal.Decimal // replaces 3 x social average wage

	// Mid-leave changes. SalaryAdjustment carries monthly salaries for the
	// proration base; SocialSecurityAdjustment carries monthly contribution
	// amounts directly.
	SalaryAdjustment         *Adjustment
	SocialSecurityAdjustment *Adjustment
}

// Babies returns the effective baby count (at least 1).
func (in EmployeeInput) Babies() int {
	if in.NumberOfBabies < 1 {
		return 1
	}
	return in.NumberOfBabies
}

// Identity returns the best human-readable identifier for error reporting.
func (in EmployeeInput) Identity() string {
	if in.EmployeeName != "" {
		return in.EmployeeName
	}
	if in.EmployeeID != "" {
		return in.EmployeeID
	}
	return "unknown"
}

// ProrationSalaryFor returns the salary feeding the proration for a month,
// applying the precedence: SalaryAdjustment > CurrentBaseSalary > BasicSalary.
func (in EmployeeInput) ProrationSalaryFor(m calendar.Month) decimal.Decimal {
	if in.SalaryAdjustment != nil {
		return in.SalaryAdjustment.AmountFor(m)
	}
	if in.CurrentBaseSalary != nil {
		return *in.CurrentBaseSalary
	}
	return in.BasicSalary
}

// Validate checks required fields and numeric sanity.
// Returns ValidationErrors listing every failure, or nil.
func (in EmployeeInput) Validate() error {
	var errs ValidationErrors

	if in.City == "" {
		errs = append(errs, ValidationError{Field: "city", Message: "city is required"})
	}
	if in.StartDate.IsZero() {
		errs = append(errs, ValidationError{Field: "startDate", Message: "start date is required"})
	}
	if !in.BasicSalary.IsPositive() {
		errs = append(errs, ValidationError{Field: "basicSalary", Message: "basic salary must be positive"})
	}
	if in.CurrentBaseSalary != nil && !in.CurrentBaseSalary.IsPositive() {
		errs = append(errs, ValidationError{Field: "currentBaseSalary", Message: "current base salary must be positive"})
	}
	if in.NumberOfBabies < 0 {
		errs = append(errs, ValidationError{Field: "numberOfBabies", Message: "number of babies cannot be negative"})
	}
	if in.DoctorAdviceDays < 0 {
		errs = append(errs, ValidationError{Field: "doctorAdviceDays", Message: "doctor advice days cannot be negative"})
	}
	if in.IsMiscarriage && in.PregnancyPeriod == rules.StageNone && in.DoctorAdviceDays == 0 {
		errs = append(errs, ValidationError{Field: "pregnancyPeriod", Message: "pregnancy period is required for miscarriage leave"})
	}
	if in.PayoutMethod != "" {
		if _, err := rules.NormalizePayoutMethod(string(in.PayoutMethod)); err != nil {
			errs = append(errs, ValidationError{Field: "payoutMethod", Message: "unknown payout method"})
		}
	}
	for field, v := range map[string]*decimal.Decimal{
		"governmentPaidAmount": in.GovernmentPaidAmount,
		"personalSSMonthly":    in.PersonalSSMonthly,
		"companyAverageWage":   in.CompanyAverageWage,
		"socialInsuranceLimit": in.SocialInsuranceLimit,
	} {
		if v != nil && v.IsNegative() {
			errs = append(errs, ValidationError{Field: field, Message: "override cannot be negative"})
		}
	}
	if in.OverrideEndDate != nil && !in.StartDate.IsZero() && in.OverrideEndDate.Before(in.StartDate) {
		errs = append(errs, ValidationError{Field: "overrideEndDate", Message: "end date precedes start date"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
