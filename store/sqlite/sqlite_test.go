package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/rules"
	"github.com/warp/maternity-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// MATERNITY RULE TESTS
// =============================================================================

func TestStore_MaternityRuleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveMaternityRule(ctx, rules.RawMaternityRule{
		City:         "chengdu",
		LeaveType:    "legal",
		Days:         98,
		HasAllowance: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id, "a missing id gets generated")

	rows, err := store.ListMaternityRules(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].ID)
	assert.Equal(t, 98, rows[0].Days)
	assert.True(t, rows[0].HasAllowance)
}

func TestStore_MaternityRuleUpsert(t *testing.T) {
	// Saving the same (city, type, stage) again replaces the row.
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveMaternityRule(ctx, rules.RawMaternityRule{
		City: "chengdu", LeaveType: "legal", Days: 98,
	})
	require.NoError(t, err)

	_, err = store.SaveMaternityRule(ctx, rules.RawMaternityRule{
		City: "chengdu", LeaveType: "legal", Days: 158,
	})
	require.NoError(t, err)

	rows, err := store.ListMaternityRules(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 158, rows[0].Days)
}

func TestStore_DeleteMaternityRule(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveMaternityRule(ctx, rules.RawMaternityRule{
		City: "chengdu", LeaveType: "legal", Days: 98,
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteMaternityRule(ctx, id))

	rows, err := store.ListMaternityRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// =============================================================================
// ALLOWANCE RULE TESTS
// =============================================================================

func TestStore_AllowanceRuleRoundTrip(t *testing.T) {
	// Wages survive the TEXT round trip at full precision.
	store := newTestStore(t)
	ctx := context.Background()

	wage := decimal.RequireFromString("12345.6789")
	_, err := store.SaveAllowanceRule(ctx, rules.RawAllowanceRule{
		City:                    "chengdu",
		SocialAverageWage:       wage,
		CompanyAverageWage:      decimal.NewFromInt(20000),
		CompanyContributionWage: decimal.NewFromInt(18000),
		PayoutMethod:            "company_account",
		Notes:                   "policy 2025-03",
	})
	require.NoError(t, err)

	rows, err := store.ListAllowanceRules(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].SocialAverageWage.Equal(wage), "got %s", rows[0].SocialAverageWage)
	assert.Equal(t, "policy 2025-03", rows[0].Notes)
}

func TestStore_AllowanceRuleUpsertPerCity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	save := func(socialAvg int64) {
		_, err := store.SaveAllowanceRule(ctx, rules.RawAllowanceRule{
			City:               "chengdu",
			SocialAverageWage:  decimal.NewFromInt(socialAvg),
			CompanyAverageWage: decimal.NewFromInt(20000),
			PayoutMethod:       "company_account",
		})
		require.NoError(t, err)
	}
	save(10000)
	save(11000)

	rows, err := store.ListAllowanceRules(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].SocialAverageWage.Equal(decimal.NewFromInt(11000)))
}

// =============================================================================
// HOLIDAY TESTS
// =============================================================================

func TestStore_HolidayRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := calendar.Entry{
		Date:           calendar.NewDate(2025, time.October, 1),
		Name:           "National Day",
		Kind:           calendar.KindHoliday,
		IsLegalHoliday: true,
	}
	_, err := store.SaveHoliday(ctx, entry)
	require.NoError(t, err)

	entries, err := store.ListHolidays(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])

	// A different year lists nothing.
	entries, err = store.ListHolidays(ctx, 2026)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_SeedDefaultHolidays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaultHolidays(ctx, 2025))
	// Seeding twice must not duplicate.
	require.NoError(t, store.SeedDefaultHolidays(ctx, 2025))

	entries, err := store.ListHolidays(ctx, 2025)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestStore_DeleteHoliday(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := calendar.NewDate(2025, time.May, 1)
	_, err := store.SaveHoliday(ctx, calendar.Entry{
		Date: d, Name: "Labour Day", Kind: calendar.KindHoliday, IsLegalHoliday: true,
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteHoliday(ctx, d, calendar.KindHoliday))

	entries, err := store.ListHolidays(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// =============================================================================
// SNAPSHOT & CALENDAR LOADING TESTS
// =============================================================================

func TestStore_LoadSnapshot(t *testing.T) {
	// Raw labels (including legacy ones) normalize at load time.
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveMaternityRule(ctx, rules.RawMaternityRule{
		City: "Chengdu", LeaveType: "产假", Days: 98, HasAllowance: true,
	})
	require.NoError(t, err)
	_, err = store.SaveAllowanceRule(ctx, rules.RawAllowanceRule{
		City:               "Chengdu",
		SocialAverageWage:  decimal.NewFromInt(10000),
		CompanyAverageWage: decimal.NewFromInt(20000),
		PayoutMethod:       "对公",
	})
	require.NoError(t, err)

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	assert.True(t, snap.HasCity("chengdu"))
	rule, ok := snap.FindMaternityRule("chengdu", rules.LeaveLegal, rules.StageNone)
	require.True(t, ok)
	assert.Equal(t, 98, rule.Days)

	allow, err := snap.AllowanceRule("chengdu")
	require.NoError(t, err)
	assert.Equal(t, rules.PayoutCompanyAccount, allow.Payout)
}

func TestStore_LoadSnapshot_BadLabelFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveMaternityRule(ctx, rules.RawMaternityRule{
		City: "chengdu", LeaveType: "vacation", Days: 98,
	})
	require.NoError(t, err, "the store accepts raw labels; normalization happens at load")

	_, err = store.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, rules.ErrUnknownLeaveType)
}

func TestStore_LoadCalendar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaultHolidays(ctx, 2025))
	_, err := store.SaveHoliday(ctx, calendar.Entry{
		Date: calendar.NewDate(2025, time.September, 27),
		Name: "make-up",
		Kind: calendar.KindMakeupWorkday,
	})
	require.NoError(t, err)

	cal, err := store.LoadCalendar(ctx, 2025, 2026)
	require.NoError(t, err)

	_, legal := cal.IsLegalHoliday(calendar.NewDate(2025, time.October, 1))
	assert.True(t, legal)
	assert.True(t, cal.IsWorkingDay(calendar.NewDate(2025, time.September, 27)))
}
