package rules_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/rules"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func rawMaternity(city, leaveType string, days int) rules.RawMaternityRule {
	return rules.RawMaternityRule{City: city, LeaveType: leaveType, Days: days}
}

func rawAllowance(city string) rules.RawAllowanceRule {
	return rules.RawAllowanceRule{
		City:               city,
		SocialAverageWage:  decimal.NewFromInt(10000),
		CompanyAverageWage: decimal.NewFromInt(20000),
		PayoutMethod:       "company_account",
	}
}

// =============================================================================
// NORMALIZATION TESTS
// =============================================================================

func TestBuildSnapshot_NormalizesLegacyLabels(t *testing.T) {
	// GIVEN: rule rows carrying legacy Chinese labels
	// WHEN:  the snapshot is built
	// THEN:  lookups only ever see canonical enum values

	snap, err := rules.BuildSnapshot([]rules.RawMaternityRule{
		{City: "Chengdu", LeaveType: "产假", Days: 98},
		{City: "Chengdu", LeaveType: "难产假", Days: 15},
		{City: "Chengdu", LeaveType: "流产假", Stage: "未满4个月", Days: 15},
	}, nil)
	require.NoError(t, err)

	rule, ok := snap.FindMaternityRule("chengdu", rules.LeaveLegal, rules.StageNone)
	require.True(t, ok)
	assert.Equal(t, 98, rule.Days)

	rule, ok = snap.FindMaternityRule("chengdu", rules.LeaveMiscarriage, rules.StageBelow4Months)
	require.True(t, ok)
	assert.Equal(t, 15, rule.Days)
}

func TestBuildSnapshot_CityLookupIsCaseInsensitive(t *testing.T) {
	snap, err := rules.BuildSnapshot(
		[]rules.RawMaternityRule{rawMaternity("  Chengdu ", "legal", 98)},
		[]rules.RawAllowanceRule{rawAllowance("Chengdu")})
	require.NoError(t, err)

	assert.Len(t, snap.MaternityRules("CHENGDU"), 1)
	assert.True(t, snap.HasCity("chengdu"))
}

func TestBuildSnapshot_UnknownLabelFailsLoudly(t *testing.T) {
	// A bad label must be a load-time error, never a silent lookup miss.
	_, err := rules.BuildSnapshot(
		[]rules.RawMaternityRule{rawMaternity("chengdu", "vacation", 98)}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrUnknownLeaveType)

	var nerr *rules.NormalizeError
	assert.ErrorAs(t, err, &nerr)
	assert.Equal(t, "vacation", nerr.Label)
}

func TestBuildSnapshot_RejectsDuplicates(t *testing.T) {
	_, err := rules.BuildSnapshot([]rules.RawMaternityRule{
		rawMaternity("chengdu", "legal", 98),
		rawMaternity("chengdu", "legal_leave", 90), // same canonical key
	}, nil)
	assert.ErrorIs(t, err, rules.ErrDuplicateRule)

	_, err = rules.BuildSnapshot(nil, []rules.RawAllowanceRule{
		rawAllowance("chengdu"),
		rawAllowance("Chengdu"),
	})
	assert.ErrorIs(t, err, rules.ErrDuplicateRule)
}

func TestBuildSnapshot_RejectsInvalidValues(t *testing.T) {
	_, err := rules.BuildSnapshot(
		[]rules.RawMaternityRule{rawMaternity("chengdu", "legal", 0)}, nil)
	assert.ErrorIs(t, err, rules.ErrInvalidRule)

	bad := rawAllowance("chengdu")
	bad.SocialAverageWage = decimal.NewFromInt(-1)
	_, err = rules.BuildSnapshot(nil, []rules.RawAllowanceRule{bad})
	assert.ErrorIs(t, err, rules.ErrInvalidRule)
}

// =============================================================================
// FORMULA VARIANT & BASE SELECTION TESTS
// =============================================================================

func TestVariantForCity(t *testing.T) {
	assert.Equal(t, rules.VariantMonthly304, rules.VariantForCity("Beijing"))
	assert.Equal(t, rules.VariantAnnual365, rules.VariantForCity("shanghai"))
	assert.Equal(t, rules.VariantMonthly30, rules.VariantForCity("chengdu"))
}

func TestAllowanceRule_CompanyWageSelection(t *testing.T) {
	raw := rawAllowance("hangzhou")
	raw.CompanyContributionWage = decimal.NewFromInt(18000)
	raw.CalculationBase = "average_contribution_wage"

	snap, err := rules.BuildSnapshot(nil, []rules.RawAllowanceRule{raw})
	require.NoError(t, err)

	rule, err := snap.AllowanceRule("hangzhou")
	require.NoError(t, err)
	assert.True(t, rule.CompanyWage().Equal(decimal.NewFromInt(18000)))
}

// =============================================================================
// LOOKUP TESTS
// =============================================================================

func TestSnapshot_UnknownCity(t *testing.T) {
	snap, err := rules.BuildSnapshot(nil, []rules.RawAllowanceRule{rawAllowance("chengdu")})
	require.NoError(t, err)

	// Maternity rules degrade to empty; the resolver falls back.
	assert.Empty(t, snap.MaternityRules("atlantis"))

	// The allowance rule is the hard gate.
	_, err = snap.AllowanceRule("atlantis")
	require.Error(t, err)
	assert.True(t, rules.IsNotFound(err))

	var nf *rules.RuleNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "atlantis", nf.City)
}

func TestNormalizePayoutMethod(t *testing.T) {
	pm, err := rules.NormalizePayoutMethod("对私")
	require.NoError(t, err)
	assert.Equal(t, rules.PayoutPersonalAccount, pm)

	_, err = rules.NormalizePayoutMethod("cash")
	assert.ErrorIs(t, err, rules.ErrUnknownPayoutMethod)
}
