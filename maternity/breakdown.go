/*
breakdown.go - Human-readable derivation trace

PURPOSE:
  Formats the audit narrative for a CalculationResult. Every number in
  the text is read back from the result's DebugInfo - the same
  full-precision values the formulas used - so the trace can never
  disagree with the authoritative outputs.

DEGRADATION:
  The narrative is advisory. When a section's inputs are insufficient it
  degrades to the BreakdownUnavailable marker instead of erroring;
  formatting never fails a calculation.
*/
package maternity

import (
	"fmt"
	"strings"

	"github.com/warp/maternity-engine/rules"
)

// BreakdownUnavailable marks a derivation section that could not be
// populated from the available inputs.
const BreakdownUnavailable = "derivation unavailable"

// FormatBreakdown re-derives the narrative trace from a result's fields.
// It never fails; degraded sections carry BreakdownUnavailable.
func FormatBreakdown(r *CalculationResult) Derivation {
	return Derivation{
		LeaveDays:    formatLeaveDays(r),
		Allowance:    formatAllowance(r),
		Receivable:   formatReceivable(r),
		Supplement:   formatSupplement(r),
		Contribution: formatContribution(r),
	}
}

func formatLeaveDays(r *CalculationResult) string {
	if len(r.AppliedRules) == 0 {
		if r.TotalMaternityDays > 0 {
			return fmt.Sprintf("no city rules; fallback of %d days applied", r.TotalMaternityDays)
		}
		return BreakdownUnavailable
	}

	parts := make([]string, 0, len(r.AppliedRules)+1)
	for _, a := range r.AppliedRules {
		part := fmt.Sprintf("%s: %d days", leaveTypeLabel(a.Type), a.Days)
		if a.Note != "" {
			part += " (" + a.Note + ")"
		}
		if a.Extension != nil && a.Extension.ExtendedDays > 0 {
			part += fmt.Sprintf(", extended %d days past legal holidays (%s)",
				a.Extension.ExtendedDays, strings.Join(a.Extension.Holidays, ", "))
		}
		parts = append(parts, part)
	}
	parts = append(parts, fmt.Sprintf("total %d days, %d allowance-eligible",
		r.TotalMaternityDays, r.TotalAllowanceEligibleDays))
	return strings.Join(parts, "; ")
}

func formatAllowance(r *CalculationResult) string {
	d := r.Debug
	if !d.AllowanceBase.IsPositive() || d.PayableAllowanceDays <= 0 {
		return BreakdownUnavailable
	}
	if d.GovernmentPaidOverridden {
		return fmt.Sprintf("government-paid amount %s supplied by caller", r.GovernmentPaidAmount)
	}
	return fmt.Sprintf("allowance base min(%s, %s) = %s; daily %s = %s; x %d days = %s",
		d.SocialInsuranceLimit.Round(2), d.CompanyAverageWage.Round(2),
		d.AllowanceBase.Round(2), variantLabel(d.Variant),
		d.DailyAllowance.Round(2), d.PayableAllowanceDays, r.GovernmentPaidAmount)
}

func formatReceivable(r *CalculationResult) string {
	d := r.Debug
	if !d.ReceivableBase.IsPositive() || d.ReceivableDays <= 0 {
		return BreakdownUnavailable
	}
	return fmt.Sprintf("receivable base %s; daily %s = %s; x %d days = %s",
		d.ReceivableBase.Round(2), variantLabel(d.Variant),
		d.DailyReceivable.Round(2), d.ReceivableDays, r.EmployeeReceivable)
}

func formatSupplement(r *CalculationResult) string {
	d := r.Debug
	if d.EmployeeReceivable.IsZero() && d.GovernmentPaid.IsZero() {
		return BreakdownUnavailable
	}
	// Read the authoritative supplement; never re-subtract rounded outputs.
	return fmt.Sprintf("max(0, %s - %s) = %s",
		d.EmployeeReceivable.Round(2), d.GovernmentPaid.Round(2), r.CompanySupplement)
}

func formatContribution(r *CalculationResult) string {
	b := r.Contribution
	if b.MonthCount() == 0 {
		return "no fully-covered months; no personal contribution withheld"
	}
	switch b.Mode {
	case ContributionAdjusted:
		return fmt.Sprintf("%d months at %s + %d months at %s = %s",
			len(b.BeforeMonths), b.BeforeMonthly.Round(2),
			len(b.AfterMonths), b.AfterMonthly.Round(2),
			r.PersonalSocialSecurity)
	default:
		return fmt.Sprintf("%d months at %s = %s",
			len(b.Months), b.Monthly.Round(2), r.PersonalSocialSecurity)
	}
}

func leaveTypeLabel(t rules.LeaveType) string {
	switch t {
	case rules.LeaveLegal:
		return "legal leave"
	case rules.LeaveDifficultBirth:
		return "difficult-birth leave"
	case rules.LeaveAssistedDifficultBirth:
		return "assisted difficult-birth leave"
	case rules.LeaveMultipleBirth:
		return "multiple-birth leave"
	case rules.LeaveReward:
		return "reward leave"
	case rules.LeaveRewardSecondThird:
		return "second/third-child reward leave"
	case rules.LeaveMiscarriage:
		return "miscarriage leave"
	default:
		return string(t)
	}
}

func variantLabel(v rules.FormulaVariant) string {
	switch v {
	case rules.VariantMonthly304:
		return "base/30.4"
	case rules.VariantAnnual365:
		return "base*12/365"
	default:
		return "base/30"
	}
}
