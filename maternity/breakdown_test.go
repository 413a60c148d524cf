package maternity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/maternity"
)

// =============================================================================
// DERIVATION CONTENT TESTS
// =============================================================================

func TestFormatBreakdown_AgreesWithOutputs(t *testing.T) {
	// Every number in the narrative must come from the result itself.
	snap := testSnapshot(t, "chengdu", 10000, 20000)
	calc := maternity.NewCalculator(calendar.Empty())

	result, err := calc.Compute(snap, standardInput("chengdu", 25000))
	require.NoError(t, err)

	d := result.Derivation
	assert.Contains(t, d.LeaveDays, "legal leave: 98 days")
	assert.Contains(t, d.LeaveDays, "total 98 days")
	assert.Contains(t, d.Allowance, "666.67")
	assert.Contains(t, d.Allowance, "65333.33")
	assert.Contains(t, d.Receivable, "81666.67")

	// The supplement line shows the rounded operands but states the
	// authoritative result, not their difference.
	assert.Contains(t, d.Supplement, "= 16333.33")
	assert.Contains(t, d.Contribution, "2 months")
}

func TestFormatBreakdown_OverrideNoted(t *testing.T) {
	snap := testSnapshot(t, "chengdu", 10000, 20000)
	calc := maternity.NewCalculator(calendar.Empty())

	paid := money("50000")
	in := standardInput("chengdu", 25000)
	in.GovernmentPaidAmount = &paid

	result, err := calc.Compute(snap, in)
	require.NoError(t, err)

	assert.Contains(t, result.Derivation.Allowance, "supplied by caller")
}

// =============================================================================
// DEGRADATION TESTS
// =============================================================================

func TestFormatBreakdown_NeverFails(t *testing.T) {
	// A zero-value result degrades to markers, not a panic or error.
	d := maternity.FormatBreakdown(&maternity.CalculationResult{})

	assert.Equal(t, maternity.BreakdownUnavailable, d.LeaveDays)
	assert.Equal(t, maternity.BreakdownUnavailable, d.Allowance)
	assert.Equal(t, maternity.BreakdownUnavailable, d.Receivable)
	assert.Equal(t, maternity.BreakdownUnavailable, d.Supplement)
	assert.NotEmpty(t, d.Contribution)
}

func TestFormatBreakdown_FallbackNarrative(t *testing.T) {
	d := maternity.FormatBreakdown(&maternity.CalculationResult{
		TotalMaternityDays: maternity.FallbackLeaveDays,
	})
	assert.Contains(t, d.LeaveDays, "fallback of 98 days")
}
