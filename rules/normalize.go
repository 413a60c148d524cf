/*
normalize.go - Legacy label canonicalization

PURPOSE:
  Rule data imported from spreadsheets and older databases carries
  free-form labels, including the original Chinese policy wording. All of
  them are mapped to canonical enum values here, exactly once, when a
  Snapshot is built. The calculation engine never sees a raw label.

WHY AT THE EDGE?
  Matching strings ad hoc inside the formulas would spread aliasing rules
  across the engine and make every comparison a potential silent miss.
  Normalizing at load time turns a bad label into a loud load-time error.
*/
package rules

import "strings"

// leaveTypeAliases maps raw labels (canonical values included) to enums.
// Keys are lower-cased before lookup.
var leaveTypeAliases = map[string]LeaveType{
	"legal":                     LeaveLegal,
	"legal_leave":               LeaveLegal,
	"产假":                        LeaveLegal,
	"法定产假":                      LeaveLegal,
	"difficult_birth":           LeaveDifficultBirth,
	"difficult-birth":           LeaveDifficultBirth,
	"难产假":                       LeaveDifficultBirth,
	"assisted_difficult_birth":  LeaveAssistedDifficultBirth,
	"assisted-difficult-birth":  LeaveAssistedDifficultBirth,
	"吸引产助产假":                    LeaveAssistedDifficultBirth,
	"multiple_birth":            LeaveMultipleBirth,
	"multiple-birth":            LeaveMultipleBirth,
	"多胞胎假":                      LeaveMultipleBirth,
	"reward":                    LeaveReward,
	"reward_leave":              LeaveReward,
	"奖励假":                       LeaveReward,
	"生育奖励假":                     LeaveReward,
	"reward_second_third_child": LeaveRewardSecondThird,
	"reward-second-third-child": LeaveRewardSecondThird,
	"二孩三孩奖励假":                   LeaveRewardSecondThird,
	"miscarriage":               LeaveMiscarriage,
	"流产假":                       LeaveMiscarriage,
}

var stageAliases = map[string]MiscarriageStage{
	"":                StageNone,
	"below_4_months":  StageBelow4Months,
	"below-4-months":  StageBelow4Months,
	"未满4个月":           StageBelow4Months,
	"4_to_7_months":   Stage4To7Months,
	"4-to-7-months":   Stage4To7Months,
	"满4个月未满7个月":       Stage4To7Months,
	"above_7_months":  StageAbove7Months,
	"above-7-months":  StageAbove7Months,
	"满7个月":            StageAbove7Months,
}

var payoutAliases = map[string]PayoutMethod{
	"company_account":  PayoutCompanyAccount,
	"company-account":  PayoutCompanyAccount,
	"单位账户":             PayoutCompanyAccount,
	"对公":               PayoutCompanyAccount,
	"personal_account": PayoutPersonalAccount,
	"personal-account": PayoutPersonalAccount,
	"个人账户":             PayoutPersonalAccount,
	"对私":               PayoutPersonalAccount,
}

var baseAliases = map[string]CalculationBase{
	"":                          BaseAverageWage,
	"average_wage":              BaseAverageWage,
	"average-wage":              BaseAverageWage,
	"单位平均工资":                    BaseAverageWage,
	"average_contribution_wage": BaseContributionWage,
	"average-contribution-wage": BaseContributionWage,
	"单位平均缴费工资":                  BaseContributionWage,
}

// cityVariants pins the known non-default daily-rate conventions.
// Every other city uses VariantMonthly30.
var cityVariants = map[string]FormulaVariant{
	"beijing":  VariantMonthly304,
	"shanghai": VariantAnnual365,
}

// NormalizeLeaveType canonicalizes a leave type label.
func NormalizeLeaveType(label string) (LeaveType, error) {
	if lt, ok := leaveTypeAliases[normalizeKey(label)]; ok {
		return lt, nil
	}
	return "", &NormalizeError{Field: "leave type", Label: label, Err: ErrUnknownLeaveType}
}

// NormalizeStage canonicalizes a miscarriage stage label.
func NormalizeStage(label string) (MiscarriageStage, error) {
	if st, ok := stageAliases[normalizeKey(label)]; ok {
		return st, nil
	}
	return "", &NormalizeError{Field: "miscarriage stage", Label: label, Err: ErrUnknownStage}
}

// NormalizePayoutMethod canonicalizes a payout method label.
func NormalizePayoutMethod(label string) (PayoutMethod, error) {
	if pm, ok := payoutAliases[normalizeKey(label)]; ok {
		return pm, nil
	}
	return "", &NormalizeError{Field: "payout method", Label: label, Err: ErrUnknownPayoutMethod}
}

// NormalizeCalculationBase canonicalizes a calculation base label.
// An empty label defaults to the average wage base.
func NormalizeCalculationBase(label string) (CalculationBase, error) {
	if b, ok := baseAliases[normalizeKey(label)]; ok {
		return b, nil
	}
	return "", &NormalizeError{Field: "calculation base", Label: label, Err: ErrInvalidRule}
}

// NormalizeCity lower-cases and trims a city name so lookups are
// insensitive to import formatting.
func NormalizeCity(city string) string {
	return normalizeKey(city)
}

// VariantForCity returns the daily-rate convention for a city.
func VariantForCity(city string) FormulaVariant {
	if v, ok := cityVariants[NormalizeCity(city)]; ok {
		return v
	}
	return VariantMonthly30
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
