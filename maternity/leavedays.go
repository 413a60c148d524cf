/*
leavedays.go - Leave day resolution

PURPOSE:
  Combines a city's maternity rules with the employee's pregnancy
  conditions into a total day count plus an ordered per-rule ledger.

RESOLUTION ORDER:
  Miscarriage is mutually exclusive with everything else and resolves
  first: doctor advice > matching city rule > built-in default table.

  The standard path accumulates, in ledger order:
    legal -> difficult birth -> assisted difficult birth ->
    multiple birth x (babies - 1) -> exactly one reward variant

  A city with no rules at all degrades to a fixed fallback total with an
  empty ledger rather than failing; downstream formulas still work.
*/
package maternity

import (
	"fmt"

	"github.com/warp/maternity-engine/rules"
)

// FallbackLeaveDays applies when a city has no maternity rules at all.
const FallbackLeaveDays = 98

// defaultMiscarriageDays is the built-in day table used when no city rule
// matches the pregnancy stage.
var defaultMiscarriageDays = map[rules.MiscarriageStage]int{
	rules.StageBelow4Months: 15,
	rules.Stage4To7Months:   42,
	rules.StageAbove7Months: 75,
}

// ResolveLeaveDays combines the city's rules with the employee's
// conditions into a day total and ledger. cityRules may be empty.
func ResolveLeaveDays(cityRules []rules.MaternityRule, in EmployeeInput) LeaveResolution {
	if in.IsMiscarriage {
		return resolveMiscarriage(cityRules, in)
	}

	if len(cityRules) == 0 {
		// Degrade gracefully: a missing rule set should not abort payroll.
		return LeaveResolution{TotalDays: FallbackLeaveDays}
	}

	var res LeaveResolution

	if rule, ok := findRule(cityRules, rules.LeaveLegal, rules.StageNone); ok {
		res.append(rule, rule.Days, SourceCityRule, "")
	}
	if in.IsDifficultBirth {
		if rule, ok := findRule(cityRules, rules.LeaveDifficultBirth, rules.StageNone); ok {
			res.append(rule, rule.Days, SourceCityRule, "")
		}
	}
	if in.MeetsSupplementalDifficultBirth {
		if rule, ok := findRule(cityRules, rules.LeaveAssistedDifficultBirth, rules.StageNone); ok {
			res.append(rule, rule.Days, SourceCityRule, "")
		}
	}
	if babies := in.Babies(); babies > 1 {
		if rule, ok := findRule(cityRules, rules.LeaveMultipleBirth, rules.StageNone); ok {
			extra := rule.Days * (babies - 1)
			res.append(rule, extra, SourceCityRule,
				fmt.Sprintf("%d days per additional baby x %d", rule.Days, babies-1))
		}
	}

	// Exactly one reward variant. The second/third-child variant applies
	// only where the city defines it and the flag is set.
	reward, ok := selectRewardRule(cityRules, in)
	if ok {
		res.append(reward, reward.Days, SourceCityRule, "")
		if reward.Extendable {
			res.ExtendableRewardDays = reward.Days
			r := reward
			res.ExtendableRewardRule = &r
		}
	}

	return res
}

func resolveMiscarriage(cityRules []rules.MaternityRule, in EmployeeInput) LeaveResolution {
	var res LeaveResolution

	rule, found := findRule(cityRules, rules.LeaveMiscarriage, in.PregnancyPeriod)

	// Doctor advice wins outright over any rule or default.
	if in.DoctorAdviceDays > 0 {
		entry := AppliedRule{
			Type:         rules.LeaveMiscarriage,
			Stage:        in.PregnancyPeriod,
			Days:         in.DoctorAdviceDays,
			HasAllowance: true,
			Source:       SourceDoctorAdvice,
			Note:         "per doctor's advice",
		}
		if found {
			entry.HasAllowance = rule.HasAllowance
		}
		res.Applied = append(res.Applied, entry)
		res.TotalDays = in.DoctorAdviceDays
		return res
	}

	if found {
		res.append(rule, rule.Days, SourceCityRule, "")
		return res
	}

	days := defaultMiscarriageDays[in.PregnancyPeriod]
	res.Applied = append(res.Applied, AppliedRule{
		Type:         rules.LeaveMiscarriage,
		Stage:        in.PregnancyPeriod,
		Days:         days,
		HasAllowance: true,
		Source:       SourceDefaultTable,
		Note:         "default - rule not found",
	})
	res.TotalDays = days
	return res
}

func selectRewardRule(cityRules []rules.MaternityRule, in EmployeeInput) (rules.MaternityRule, bool) {
	if in.IsSecondThirdChild {
		if rule, ok := findRule(cityRules, rules.LeaveRewardSecondThird, rules.StageNone); ok {
			return rule, true
		}
	}
	return findRule(cityRules, rules.LeaveReward, rules.StageNone)
}

func findRule(cityRules []rules.MaternityRule, typ rules.LeaveType, stage rules.MiscarriageStage) (rules.MaternityRule, bool) {
	for _, r := range cityRules {
		if r.Type == typ && r.Stage == stage {
			return r, true
		}
	}
	return rules.MaternityRule{}, false
}

// append records a contributing rule in the ledger and adds its days.
func (r *LeaveResolution) append(rule rules.MaternityRule, days int, source RuleSource, note string) {
	r.Applied = append(r.Applied, AppliedRule{
		Type:         rule.Type,
		Stage:        rule.Stage,
		Days:         days,
		HasAllowance: rule.HasAllowance,
		Source:       source,
		Note:         note,
	})
	r.TotalDays += days
}
