/*
Package rules defines city maternity and allowance rule sets.

PURPOSE:
  Each city publishes its own maternity-leave composition (legal days,
  difficult-birth bonus, multiple-birth bonus, reward leave variants,
  miscarriage day tables) and its own allowance formula inputs (average
  wages, calculation base, payout method). This package models those rules
  as strongly-typed values and bundles them into an immutable Snapshot
  that the calculation engine consumes.

KEY CONCEPTS:
  - MaternityRule:  one (city, leave type, miscarriage stage) day grant
  - AllowanceRule:  one city's formula inputs, unique per city
  - Snapshot:       immutable, normalized bundle passed into every
                    calculation; "reloading" means building a new one

DESIGN PRINCIPLES:
  1. Normalization at the edge: legacy string labels are mapped to canonical
     enums exactly once, when a Snapshot is built. The engine never sees a
     raw label.
  2. Immutability: a Snapshot is never mutated after construction.
  3. Type safety: leave types, stages, payout methods and formula variants
     are distinct string types, not bare strings.

SEE ALSO:
  - snapshot.go: Snapshot construction, normalization and lookup
  - maternity package: the engine consuming these rules
*/
package rules

import "github.com/shopspring/decimal"

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveType identifies one component of a maternity leave grant.
type LeaveType string

const (
	LeaveLegal                  LeaveType = "legal"
	LeaveDifficultBirth         LeaveType = "difficult_birth"
	LeaveAssistedDifficultBirth LeaveType = "assisted_difficult_birth"
	LeaveMultipleBirth          LeaveType = "multiple_birth"
	LeaveReward                 LeaveType = "reward"
	LeaveRewardSecondThird      LeaveType = "reward_second_third_child"
	LeaveMiscarriage            LeaveType = "miscarriage"
)

// MiscarriageStage subdivides miscarriage leave by pregnancy period.
// Empty for every other leave type.
type MiscarriageStage string

const (
	StageNone         MiscarriageStage = ""
	StageBelow4Months MiscarriageStage = "below_4_months"
	Stage4To7Months   MiscarriageStage = "4_to_7_months"
	StageAbove7Months MiscarriageStage = "above_7_months"
)

// =============================================================================
// MATERNITY RULE - Day grant for one leave component
// =============================================================================

// MaternityRule grants Days of leave for one component in one city.
// Uniqueness: (City, Type, Stage).
type MaternityRule struct {
	ID    string
	City  string
	Type  LeaveType
	Stage MiscarriageStage

	// Days granted. For LeaveMultipleBirth this is per additional baby.
	Days int

	// Extendable marks the component eligible for legal-holiday push-back:
	// its days are consumed on non-holidays only, extending the leave end.
	Extendable bool

	// HasAllowance controls whether the component's days count toward the
	// allowance-eligible day total.
	HasAllowance bool
}

// =============================================================================
// ALLOWANCE RULE - Per-city formula inputs
// =============================================================================

// CalculationBase selects which company wage figure feeds the formula.
type CalculationBase string

const (
	BaseAverageWage      CalculationBase = "average_wage"
	BaseContributionWage CalculationBase = "average_contribution_wage"
)

// PayoutMethod identifies where the government allowance lands.
type PayoutMethod string

const (
	PayoutCompanyAccount  PayoutMethod = "company_account"
	PayoutPersonalAccount PayoutMethod = "personal_account"
)

// FormulaVariant selects the daily-rate convention for a city.
type FormulaVariant string

const (
	// VariantMonthly30: daily rate = monthly base / 30. The default.
	VariantMonthly30 FormulaVariant = "monthly_30"

	// VariantMonthly304: daily rate = monthly base / 30.4.
	VariantMonthly304 FormulaVariant = "monthly_30_4"

	// VariantAnnual365: daily rate = monthly base * 12 / 365.
	VariantAnnual365 FormulaVariant = "annual_365"
)

// AllowanceRule holds one city's allowance formula inputs.
// Uniqueness: City.
type AllowanceRule struct {
	ID   string
	City string

	// City-published social average wage; caps the allowance base at
	// 3x this figure unless the caller overrides the limit.
	SocialAverageWage decimal.Decimal

	// Company-level average wage and average contribution wage.
	// Base selects which of the two feeds the formula.
	CompanyAverageWage      decimal.Decimal
	CompanyContributionWage decimal.Decimal
	Base                    CalculationBase

	Payout  PayoutMethod
	Variant FormulaVariant

	// Free-text policy notes, advisory only.
	Notes string
}

// CompanyWage returns the wage figure selected by Base.
func (r AllowanceRule) CompanyWage() decimal.Decimal {
	if r.Base == BaseContributionWage {
		return r.CompanyContributionWage
	}
	return r.CompanyAverageWage
}
