/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  engine's domain types from the wire contract. Dates travel as
  "2006-01-02" strings, months as "2006-01", and money as JSON numbers
  (decoded into decimal.Decimal without float round-trips).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  DTO conversion catches wire-level problems (unparseable dates, unknown
  labels) and reports them as the engine's field-level validation errors.
  Numeric sanity stays with the engine's own Validate.

SEE ALSO:
  - handlers.go: Uses these types
  - maternity package: the engine types being mapped
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/maternity-engine/batch"
	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/maternity"
	"github.com/warp/maternity-engine/rules"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// AdjustmentRequest carries a mid-leave before/after change.
type AdjustmentRequest struct {
	Before         decimal.Decimal `json:"before"`
	After          decimal.Decimal `json:"after"`
	EffectiveMonth string          `json:"effective_month"` // "2006-01"
}

// CalculateRequest is one employee's calculation input.
type CalculateRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	City         string `json:"city"`

	BasicSalary       decimal.Decimal  `json:"basic_salary"`
	CurrentBaseSalary *decimal.Decimal `json:"current_base_salary,omitempty"`

	StartDate       string `json:"start_date"` // "2006-01-02"
	OverrideEndDate string `json:"override_end_date,omitempty"`

	IsDifficultBirth                bool   `json:"is_difficult_birth"`
	NumberOfBabies                  int    `json:"number_of_babies"`
	IsMiscarriage                   bool   `json:"is_miscarriage"`
	PregnancyPeriod                 string `json:"pregnancy_period,omitempty"`
	DoctorAdviceDays                int    `json:"doctor_advice_days,omitempty"`
	MeetsSupplementalDifficultBirth bool   `json:"meets_supplemental_difficult_birth"`
	IsSecondThirdChild              bool   `json:"is_second_third_child"`
	PayoutMethod                    string `json:"payout_method,omitempty"`

	GovernmentPaidAmount *decimal.Decimal `json:"government_paid_amount,omitempty"`
	PersonalSSMonthly    *decimal.Decimal `json:"personal_ss_monthly,omitempty"`
	CompanyAverageWage   *decimal.Decimal `json:"company_average_wage,omitempty"`
	SocialInsuranceLimit *decimal.Decimal `json:"social_insurance_limit,omitempty"`

	SalaryAdjustment         *AdjustmentRequest `json:"salary_adjustment,omitempty"`
	SocialSecurityAdjustment *AdjustmentRequest `json:"social_security_adjustment,omitempty"`
}

// BatchRequest runs many rows against one snapshot.
type BatchRequest struct {
	Rows      []CalculateRequest `json:"rows"`
	Employees []EmployeeDTO      `json:"employees,omitempty"` // directory for city resolution
}

// EmployeeDTO is one employee-directory record.
type EmployeeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// =============================================================================
// REQUEST CONVERSION
// =============================================================================

// ToInput converts the wire request into the engine's input struct.
// Wire-level failures come back as the engine's validation errors.
func (req CalculateRequest) ToInput() (maternity.EmployeeInput, error) {
	var errs maternity.ValidationErrors

	in := maternity.EmployeeInput{
		EmployeeID:                      req.EmployeeID,
		EmployeeName:                    req.EmployeeName,
		City:                            req.City,
		BasicSalary:                     req.BasicSalary,
		CurrentBaseSalary:               req.CurrentBaseSalary,
		IsDifficultBirth:                req.IsDifficultBirth,
		NumberOfBabies:                  req.NumberOfBabies,
		IsMiscarriage:                   req.IsMiscarriage,
		DoctorAdviceDays:                req.DoctorAdviceDays,
		MeetsSupplementalDifficultBirth: req.MeetsSupplementalDifficultBirth,
		IsSecondThirdChild:              req.IsSecondThirdChild,
		GovernmentPaidAmount:            req.GovernmentPaidAmount,
		PersonalSSMonthly:               req.PersonalSSMonthly,
		CompanyAverageWage:              req.CompanyAverageWage,
		SocialInsuranceLimit:            req.SocialInsuranceLimit,
	}

	if req.StartDate != "" {
		start, err := calendar.ParseDate(req.StartDate)
		if err != nil {
			errs = append(errs, maternity.ValidationError{Field: "start_date", Message: "unparseable date"})
		} else {
			in.StartDate = start
		}
	}
	if req.OverrideEndDate != "" {
		end, err := calendar.ParseDate(req.OverrideEndDate)
		if err != nil {
			errs = append(errs, maternity.ValidationError{Field: "override_end_date", Message: "unparseable date"})
		} else {
			in.OverrideEndDate = &end
		}
	}
	if req.PregnancyPeriod != "" {
		stage, err := rules.NormalizeStage(req.PregnancyPeriod)
		if err != nil {
			errs = append(errs, maternity.ValidationError{Field: "pregnancy_period", Message: "unknown pregnancy period"})
		} else {
			in.PregnancyPeriod = stage
		}
	}
	if req.PayoutMethod != "" {
		payout, err := rules.NormalizePayoutMethod(req.PayoutMethod)
		if err != nil {
			errs = append(errs, maternity.ValidationError{Field: "payout_method", Message: "unknown payout method"})
		} else {
			in.PayoutMethod = payout
		}
	}
	if adj, verr := req.SalaryAdjustment.toAdjustment("salary_adjustment"); verr != nil {
		errs = append(errs, *verr)
	} else {
		in.SalaryAdjustment = adj
	}
	if adj, verr := req.SocialSecurityAdjustment.toAdjustment("social_security_adjustment"); verr != nil {
		errs = append(errs, *verr)
	} else {
		in.SocialSecurityAdjustment = adj
	}

	if len(errs) > 0 {
		return maternity.EmployeeInput{}, errs
	}
	return in, nil
}

func (a *AdjustmentRequest) toAdjustment(field string) (*maternity.Adjustment, *maternity.ValidationError) {
	if a == nil {
		return nil, nil
	}
	m, err := calendar.ParseMonth(a.EffectiveMonth)
	if err != nil {
		return nil, &maternity.ValidationError{Field: field, Message: "unparseable effective month"}
	}
	return &maternity.Adjustment{Before: a.Before, After: a.After, EffectiveMonth: m}, nil
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AppliedRuleDTO is one ledger entry in the day resolution.
type AppliedRuleDTO struct {
	Type         string        `json:"type"`
	Stage        string        `json:"stage,omitempty"`
	Days         int           `json:"days"`
	HasAllowance bool          `json:"has_allowance"`
	Source       string        `json:"source"`
	Note         string        `json:"note,omitempty"`
	Extension    *ExtensionDTO `json:"extension,omitempty"`
}

// ExtensionDTO records a legal-holiday push-back.
type ExtensionDTO struct {
	ExtendedDays int      `json:"extended_days"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Holidays     []string `json:"holidays,omitempty"`
}

// PeriodDTO is the resolved leave window.
type PeriodDTO struct {
	Start               string `json:"start"`
	End                 string `json:"end"`
	ActualDays          int    `json:"actual_days"`
	WorkingDaysEstimate int    `json:"working_days_estimate"`
}

// ProrationDTO is one boundary month's partial wage.
type ProrationDTO struct {
	Month               string           `json:"month"`
	AttendedWorkingDays int              `json:"attended_working_days"`
	DenominatorDays     int              `json:"denominator_days"`
	Wage                *decimal.Decimal `json:"wage,omitempty"`
	Folded              bool             `json:"folded_into_contribution"`
}

// ContributionDTO summarizes the withholding months.
type ContributionDTO struct {
	Mode          string           `json:"mode"`
	Total         decimal.Decimal  `json:"total"`
	Monthly       *decimal.Decimal `json:"monthly,omitempty"`
	Months        []string         `json:"months,omitempty"`
	BeforeMonthly *decimal.Decimal `json:"before_monthly,omitempty"`
	AfterMonthly  *decimal.Decimal `json:"after_monthly,omitempty"`
	BeforeMonths  []string         `json:"before_months,omitempty"`
	AfterMonths   []string         `json:"after_months,omitempty"`
}

// DerivationDTO is the audit narrative.
type DerivationDTO struct {
	LeaveDays    string `json:"leave_days"`
	Allowance    string `json:"allowance"`
	Receivable   string `json:"receivable"`
	Supplement   string `json:"supplement"`
	Contribution string `json:"contribution"`
}

// DebugDTO exposes the full-precision intermediates.
type DebugDTO struct {
	Variant              string          `json:"variant"`
	SocialInsuranceLimit decimal.Decimal `json:"social_insurance_limit"`
	CompanyAverageWage   decimal.Decimal `json:"company_average_wage"`
	AllowanceBase        decimal.Decimal `json:"allowance_base"`
	DailyAllowance       decimal.Decimal `json:"daily_allowance"`
	PayableAllowanceDays int             `json:"payable_allowance_days"`
	ReceivableBase       decimal.Decimal `json:"receivable_base"`
	DailyReceivable      decimal.Decimal `json:"daily_receivable"`
	ReceivableDays       int             `json:"receivable_days"`
	GovernmentPaid       decimal.Decimal `json:"government_paid"`
	EmployeeReceivable   decimal.Decimal `json:"employee_receivable"`
	CompanySupplement    decimal.Decimal `json:"company_supplement"`
}

// CalculationResultDTO is the engine's complete answer on the wire.
type CalculationResultDTO struct {
	City                       string           `json:"city"`
	Identity                   string           `json:"identity"`
	TotalMaternityDays         int              `json:"total_maternity_days"`
	TotalAllowanceEligibleDays int              `json:"total_allowance_eligible_days"`
	AppliedRules               []AppliedRuleDTO `json:"applied_rules"`
	Period                     PeriodDTO        `json:"calculated_period"`
	GovernmentPaidAmount       decimal.Decimal  `json:"government_paid_amount"`
	EmployeeReceivable         decimal.Decimal  `json:"employee_receivable"`
	CompanySupplement          decimal.Decimal  `json:"company_supplement"`
	PersonalSocialSecurity     decimal.Decimal  `json:"personal_social_security"`
	StartMonthProration        *ProrationDTO    `json:"start_month_proration,omitempty"`
	EndMonthProration          *ProrationDTO    `json:"end_month_proration,omitempty"`
	Contribution               ContributionDTO  `json:"personal_contribution_breakdown"`
	Derivation                 DerivationDTO    `json:"derivation"`
	Debug                      DebugDTO         `json:"debug_info"`
}

// BatchResultDTO is the batch outcome: both lists in row order.
type BatchResultDTO struct {
	Results []BatchRowResultDTO `json:"results"`
	Errors  []BatchRowErrorDTO  `json:"errors"`
}

type BatchRowResultDTO struct {
	RowIndex    int                  `json:"row_index"`
	Identity    string               `json:"identity"`
	Calculation CalculationResultDTO `json:"calculation"`
}

type BatchRowErrorDTO struct {
	RowIndex int      `json:"row_index"`
	Identity string   `json:"identity"`
	Errors   []string `json:"errors"`
}

// MaternityRuleDTO mirrors a raw maternity rule row.
type MaternityRuleDTO struct {
	ID           string `json:"id,omitempty"`
	City         string `json:"city"`
	LeaveType    string `json:"leave_type"`
	Stage        string `json:"stage,omitempty"`
	Days         int    `json:"days"`
	Extendable   bool   `json:"extendable"`
	HasAllowance bool   `json:"has_allowance"`
}

// AllowanceRuleDTO mirrors a raw allowance rule row.
type AllowanceRuleDTO struct {
	ID                      string          `json:"id,omitempty"`
	City                    string          `json:"city"`
	SocialAverageWage       decimal.Decimal `json:"social_average_wage"`
	CompanyAverageWage      decimal.Decimal `json:"company_average_wage"`
	CompanyContributionWage decimal.Decimal `json:"company_contribution_wage"`
	CalculationBase         string          `json:"calculation_base,omitempty"`
	PayoutMethod            string          `json:"payout_method"`
	Notes                   string          `json:"notes,omitempty"`
}

// HolidayDTO mirrors one calendar entry.
type HolidayDTO struct {
	Date           string `json:"date"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	IsLegalHoliday bool   `json:"is_legal_holiday"`
}

// =============================================================================
// RESPONSE CONVERSION
// =============================================================================

func toResultDTO(r *maternity.CalculationResult) CalculationResultDTO {
	dto := CalculationResultDTO{
		City:                       r.City,
		Identity:                   r.Identity,
		TotalMaternityDays:         r.TotalMaternityDays,
		TotalAllowanceEligibleDays: r.TotalAllowanceEligibleDays,
		Period: PeriodDTO{
			Start:               r.Period.Start.String(),
			End:                 r.Period.End.String(),
			ActualDays:          r.Period.ActualDays,
			WorkingDaysEstimate: r.Period.WorkingDaysEstimate,
		},
		GovernmentPaidAmount:   r.GovernmentPaidAmount,
		EmployeeReceivable:     r.EmployeeReceivable,
		CompanySupplement:      r.CompanySupplement,
		PersonalSocialSecurity: r.PersonalSocialSecurity,
		StartMonthProration:    toProrationDTO(r.StartMonthProration),
		EndMonthProration:      toProrationDTO(r.EndMonthProration),
		Contribution:           toContributionDTO(r.Contribution),
		Derivation: DerivationDTO{
			LeaveDays:    r.Derivation.LeaveDays,
			Allowance:    r.Derivation.Allowance,
			Receivable:   r.Derivation.Receivable,
			Supplement:   r.Derivation.Supplement,
			Contribution: r.Derivation.Contribution,
		},
		Debug: DebugDTO{
			Variant:              string(r.Debug.Variant),
			SocialInsuranceLimit: r.Debug.SocialInsuranceLimit,
			CompanyAverageWage:   r.Debug.CompanyAverageWage,
			AllowanceBase:        r.Debug.AllowanceBase,
			DailyAllowance:       r.Debug.DailyAllowance,
			PayableAllowanceDays: r.Debug.PayableAllowanceDays,
			ReceivableBase:       r.Debug.ReceivableBase,
			DailyReceivable:      r.Debug.DailyReceivable,
			ReceivableDays:       r.Debug.ReceivableDays,
			GovernmentPaid:       r.Debug.GovernmentPaid,
			EmployeeReceivable:   r.Debug.EmployeeReceivable,
			CompanySupplement:    r.Debug.CompanySupplement,
		},
	}
	for _, a := range r.AppliedRules {
		dto.AppliedRules = append(dto.AppliedRules, toAppliedRuleDTO(a))
	}
	return dto
}

func toAppliedRuleDTO(a maternity.AppliedRule) AppliedRuleDTO {
	dto := AppliedRuleDTO{
		Type:         string(a.Type),
		Stage:        string(a.Stage),
		Days:         a.Days,
		HasAllowance: a.HasAllowance,
		Source:       string(a.Source),
		Note:         a.Note,
	}
	if a.Extension != nil {
		dto.Extension = &ExtensionDTO{
			ExtendedDays: a.Extension.ExtendedDays,
			Start:        a.Extension.Start.String(),
			End:          a.Extension.End.String(),
			Holidays:     a.Extension.Holidays,
		}
	}
	return dto
}

func toProrationDTO(p *maternity.MonthProration) *ProrationDTO {
	if p == nil {
		return nil
	}
	return &ProrationDTO{
		Month:               p.Month.String(),
		AttendedWorkingDays: p.AttendedWorkingDays,
		DenominatorDays:     p.DenominatorDays,
		Wage:                roundPtr(p.Wage),
		Folded:              p.Folded,
	}
}

func toContributionDTO(b maternity.ContributionBreakdown) ContributionDTO {
	dto := ContributionDTO{
		Mode:  string(b.Mode),
		Total: b.Total.Round(2),
	}
	switch b.Mode {
	case maternity.ContributionAdjusted:
		before := b.BeforeMonthly.Round(2)
		after := b.AfterMonthly.Round(2)
		dto.BeforeMonthly = &before
		dto.AfterMonthly = &after
		dto.BeforeMonths = monthStrings(b.BeforeMonths)
		dto.AfterMonths = monthStrings(b.AfterMonths)
	default:
		monthly := b.Monthly.Round(2)
		dto.Monthly = &monthly
		dto.Months = monthStrings(b.Months)
	}
	return dto
}

func toBatchDTO(res batch.Result) BatchResultDTO {
	dto := BatchResultDTO{
		Results: []BatchRowResultDTO{},
		Errors:  []BatchRowErrorDTO{},
	}
	for _, r := range res.Results {
		dto.Results = append(dto.Results, BatchRowResultDTO{
			RowIndex:    r.RowIndex,
			Identity:    r.Identity,
			Calculation: toResultDTO(r.Calculation),
		})
	}
	for _, e := range res.Errors {
		dto.Errors = append(dto.Errors, BatchRowErrorDTO{
			RowIndex: e.RowIndex,
			Identity: e.Identity,
			Errors:   e.Errors,
		})
	}
	return dto
}

func monthStrings(months []calendar.Month) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.String()
	}
	return out
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}
