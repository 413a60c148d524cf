package maternity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/maternity"
	"github.com/warp/maternity-engine/rules"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func maternityRule(typ rules.LeaveType, days int) rules.MaternityRule {
	return rules.MaternityRule{
		City:         "chengdu",
		Type:         typ,
		Days:         days,
		HasAllowance: true,
	}
}

// chengduRules mirrors a typical full city rule set.
func chengduRules() []rules.MaternityRule {
	reward := maternityRule(rules.LeaveReward, 60)
	reward.Extendable = true
	reward.HasAllowance = false
	return []rules.MaternityRule{
		maternityRule(rules.LeaveLegal, 98),
		maternityRule(rules.LeaveDifficultBirth, 15),
		maternityRule(rules.LeaveAssistedDifficultBirth, 15),
		maternityRule(rules.LeaveMultipleBirth, 15),
		reward,
	}
}

func appliedDays(res maternity.LeaveResolution, typ rules.LeaveType) (int, bool) {
	for _, a := range res.Applied {
		if a.Type == typ {
			return a.Days, true
		}
	}
	return 0, false
}

// =============================================================================
// STANDARD ACCUMULATION TESTS
// =============================================================================

func TestResolveLeaveDays_LegalPlusReward(t *testing.T) {
	res := maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{})

	assert.Equal(t, 158, res.TotalDays) // 98 legal + 60 reward
	assert.Len(t, res.Applied, 2)
	assert.Equal(t, 60, res.ExtendableRewardDays)
	require.NotNil(t, res.ExtendableRewardRule)
	assert.Equal(t, rules.LeaveReward, res.ExtendableRewardRule.Type)
}

func TestResolveLeaveDays_DifficultBirth(t *testing.T) {
	res := maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{
		IsDifficultBirth: true,
	})

	assert.Equal(t, 173, res.TotalDays) // 98 + 15 + 60
	days, ok := appliedDays(res, rules.LeaveDifficultBirth)
	require.True(t, ok)
	assert.Equal(t, 15, days)
}

func TestResolveLeaveDays_MultipleBirths(t *testing.T) {
	// GIVEN: twins and a 15-day multiple-birth rule
	// THEN:  15 x (2 - 1) = 15 extra days as a distinct ledger entry

	res := maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{
		NumberOfBabies: 2,
	})

	days, ok := appliedDays(res, rules.LeaveMultipleBirth)
	require.True(t, ok)
	assert.Equal(t, 15, days)
	assert.Equal(t, 173, res.TotalDays) // 98 + 15 + 60

	// Triplets double the extra.
	res = maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{
		NumberOfBabies: 3,
	})
	days, _ = appliedDays(res, rules.LeaveMultipleBirth)
	assert.Equal(t, 30, days)
}

func TestResolveLeaveDays_AssistedDifficultBirthStacks(t *testing.T) {
	res := maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{
		IsDifficultBirth:                true,
		MeetsSupplementalDifficultBirth: true,
	})

	assert.Equal(t, 188, res.TotalDays) // 98 + 15 + 15 + 60
}

func TestResolveLeaveDays_SecondThirdChildVariant(t *testing.T) {
	// Exactly one reward component applies.
	variant := maternityRule(rules.LeaveRewardSecondThird, 90)
	cityRules := append(chengduRules(), variant)

	// Flag set and the city defines the variant: it wins.
	res := maternity.ResolveLeaveDays(cityRules, maternity.EmployeeInput{
		IsSecondThirdChild: true,
	})
	days, ok := appliedDays(res, rules.LeaveRewardSecondThird)
	require.True(t, ok)
	assert.Equal(t, 90, days)
	_, ok = appliedDays(res, rules.LeaveReward)
	assert.False(t, ok)

	// Flag set but no variant defined: plain reward applies.
	res = maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{
		IsSecondThirdChild: true,
	})
	_, ok = appliedDays(res, rules.LeaveReward)
	assert.True(t, ok)
}

func TestResolveLeaveDays_NoRulesFallback(t *testing.T) {
	// A city with no rules degrades to the fixed fallback, empty ledger.
	res := maternity.ResolveLeaveDays(nil, maternity.EmployeeInput{})

	assert.Equal(t, maternity.FallbackLeaveDays, res.TotalDays)
	assert.Empty(t, res.Applied)
	assert.Zero(t, res.ExtendableRewardDays)
}

// =============================================================================
// MISCARRIAGE TESTS
// =============================================================================

func TestResolveLeaveDays_Miscarriage_MutuallyExclusive(t *testing.T) {
	// GIVEN: a miscarriage with every other condition also flagged
	// THEN:  only the miscarriage component applies

	cityRules := append(chengduRules(),
		rules.MaternityRule{
			City: "chengdu", Type: rules.LeaveMiscarriage,
			Stage: rules.Stage4To7Months, Days: 42, HasAllowance: true,
		})

	res := maternity.ResolveLeaveDays(cityRules, maternity.EmployeeInput{
		IsMiscarriage:    true,
		PregnancyPeriod:  rules.Stage4To7Months,
		IsDifficultBirth: true,
		NumberOfBabies:   2,
	})

	assert.Equal(t, 42, res.TotalDays)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, rules.LeaveMiscarriage, res.Applied[0].Type)
	assert.Equal(t, maternity.SourceCityRule, res.Applied[0].Source)
}

func TestResolveLeaveDays_Miscarriage_DefaultTable(t *testing.T) {
	// GIVEN: below-4-months miscarriage, no matching city rule, no advice
	// THEN:  15 days from the built-in table, annotated as a default

	res := maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{
		IsMiscarriage:   true,
		PregnancyPeriod: rules.StageBelow4Months,
	})

	assert.Equal(t, 15, res.TotalDays)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, maternity.SourceDefaultTable, res.Applied[0].Source)
	assert.Equal(t, "default - rule not found", res.Applied[0].Note)
}

func TestResolveLeaveDays_Miscarriage_DoctorAdviceWins(t *testing.T) {
	// Doctor advice overrides any matching rule's day count outright.
	cityRules := append(chengduRules(),
		rules.MaternityRule{
			City: "chengdu", Type: rules.LeaveMiscarriage,
			Stage: rules.Stage4To7Months, Days: 42, HasAllowance: true,
		})

	res := maternity.ResolveLeaveDays(cityRules, maternity.EmployeeInput{
		IsMiscarriage:    true,
		PregnancyPeriod:  rules.Stage4To7Months,
		DoctorAdviceDays: 20,
	})

	assert.Equal(t, 20, res.TotalDays)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, maternity.SourceDoctorAdvice, res.Applied[0].Source)
	assert.Equal(t, 20, res.Applied[0].Days)
}

// =============================================================================
// ALLOWANCE ELIGIBILITY TESTS
// =============================================================================

func TestLeaveResolution_AllowanceEligibleDays(t *testing.T) {
	// The reward component in chengduRules carries no allowance.
	res := maternity.ResolveLeaveDays(chengduRules(), maternity.EmployeeInput{
		IsDifficultBirth: true,
	})

	assert.Equal(t, 173, res.TotalDays)
	assert.Equal(t, 113, res.AllowanceEligibleDays()) // 98 + 15
}
