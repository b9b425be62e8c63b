package compliance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/compliance"
	"github.com/warp/roster-engine/compliance/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) (*compliance.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return compliance.NewEngine(mem, mem), mem
}

func seedShift(t *testing.T, mem *store.Memory, id string, start, end time.Time) {
	t.Helper()
	s := testShift(id, start, end)
	require.NoError(t, mem.CreateShift(context.Background(), &s))
}

// =============================================================================
// PER-SHIFT VALIDATION
// =============================================================================

func TestValidateShiftAssignment_CleanShift(t *testing.T) {
	// GIVEN: An empty calendar
	// WHEN: Validating a plain 8h Monday shift
	// THEN: Valid, no violations, no warnings

	engine, _ := newTestEngine(t)
	shift := testShift("", monday(9, 0), monday(17, 0))

	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", shift, "")
	require.NoError(t, err)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Violations)
	assert.Empty(t, result.Warnings)
}

func TestValidateShiftAssignment_CollectsAllIssues(t *testing.T) {
	// GIVEN: 35h already this week, none today
	// WHEN: Validating a 10h shift
	// THEN: One result carrying both the daily violation and the weekly
	// violation; no early exit

	engine, mem := newTestEngine(t)
	// 35h spread over Tue-Sat so only the weekly total reacts to them
	tue := monday(0, 0).AddDate(0, 0, 1)
	for i := 0; i < 5; i++ {
		day := tue.AddDate(0, 0, i)
		seedShift(t, mem, "", day.Add(9*time.Hour), day.Add(16*time.Hour)) // 7h each
	}

	shift := testShift("", monday(8, 0), monday(18, 0)) // 10h
	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", shift, "")
	require.NoError(t, err)

	require.Len(t, result.Violations, 2)
	assert.Equal(t, compliance.RuleDailyLimit, result.Violations[0].Rule)
	assert.Equal(t, compliance.RuleWeeklyLimit, result.Violations[1].Rule)
	assert.Equal(t, "weekly total 45.0h exceeds 40h regular limit", result.Violations[1].Message)
	assert.False(t, result.Valid())
}

func TestValidateShiftAssignment_RestAfterNightShift(t *testing.T) {
	// GIVEN: A night shift Mon 22:00 - Tue 06:00 on the calendar
	// WHEN: Validating a shift starting Tue 14:00
	// THEN: Critical rest violation with the 8.0h gap in the message

	engine, mem := newTestEngine(t)
	seedShift(t, mem, "night", monday(22, 0), monday(22, 0).Add(8*time.Hour))

	tue := monday(0, 0).AddDate(0, 0, 1)
	shift := testShift("", tue.Add(14*time.Hour), tue.Add(20*time.Hour))

	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", shift, "")
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, compliance.RuleRestPeriod, result.Violations[0].Rule)
	assert.Equal(t, "only 8.0h rest since previous shift, minimum 12h required", result.Violations[0].Message)
}

func TestValidateShiftAssignment_BoundaryTouchDoubleBooking(t *testing.T) {
	// GIVEN: An existing shift ending at exactly 17:00
	// WHEN: Validating a new shift starting at exactly 17:00
	// THEN: Double-booking violation (boundary-inclusive)

	engine, mem := newTestEngine(t)
	seedShift(t, mem, "existing", monday(9, 0), monday(17, 0))

	shift := testShift("", monday(17, 0), monday(21, 0))
	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", shift, "")
	require.NoError(t, err)

	var rules []compliance.Rule
	for _, v := range result.Violations {
		rules = append(rules, v.Rule)
	}
	assert.Contains(t, rules, compliance.RuleDoubleBooking)
}

func TestValidateShiftAssignment_EditExcludesSelf(t *testing.T) {
	// GIVEN: A stored shift being edited
	// WHEN: Validating the edit with excludeID set
	// THEN: No self-conflict

	engine, mem := newTestEngine(t)
	seedShift(t, mem, "editing", monday(9, 0), monday(17, 0))

	edited := testShift("editing", monday(10, 0), monday(18, 0))
	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", edited, "editing")
	require.NoError(t, err)
	assert.True(t, result.Valid(), "violations: %+v", result.Violations)
}

func TestValidateShiftAssignment_OrgOverrideRunsAlongsideStatute(t *testing.T) {
	// GIVEN: An organization override of 6h
	// WHEN: Validating a 10h shift
	// THEN: Both the statutory daily violation and the override violation
	// appear, in evaluator order

	engine, mem := newTestEngine(t)
	override := decimal.NewFromInt(6)
	require.NoError(t, mem.SetMaxDailyHours(context.Background(), "org-1", &override))

	shift := testShift("", monday(8, 0), monday(18, 0))
	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", shift, "")
	require.NoError(t, err)

	require.Len(t, result.Violations, 2)
	assert.Equal(t, compliance.RuleDailyLimit, result.Violations[0].Rule)
	assert.Equal(t, compliance.RuleOrgDailyLimit, result.Violations[1].Rule)
}

func TestValidateShiftAssignment_StraddlingShiftCountsAgainstStartWeek(t *testing.T) {
	// GIVEN: An 8h shift starting Sunday 20:00 and ending Monday 04:00
	// (it belongs to the week it starts in), plus 34h inside the new week
	// WHEN: Validating a 6h Saturday shift (start-attributed total 40h)
	// THEN: No weekly violation; the straddler is not double-counted

	engine, mem := newTestEngine(t)
	sunday := monday(0, 0).AddDate(0, 0, -1)
	seedShift(t, mem, "straddler", sunday.Add(20*time.Hour), monday(4, 0))
	for i := 1; i <= 4; i++ { // Tue-Fri, 8.5h each
		day := monday(0, 0).AddDate(0, 0, i)
		seedShift(t, mem, "", day.Add(9*time.Hour), day.Add(17*time.Hour+30*time.Minute))
	}

	sat := monday(0, 0).AddDate(0, 0, 5)
	shift := testShift("", sat.Add(10*time.Hour), sat.Add(16*time.Hour))
	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", shift, "")
	require.NoError(t, err)
	assert.True(t, result.Valid(), "violations: %+v", result.Violations)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, compliance.RuleWeeklyLimit, result.Warnings[0].Rule)
	assert.Equal(t, compliance.SeverityLow, result.Warnings[0].Severity)
	assert.Equal(t, "weekly total 40.0h is approaching the 40h regular limit", result.Warnings[0].Message)
}

// =============================================================================
// FAILURE POLICY
// =============================================================================

type failingShifts struct{ compliance.ShiftStore }

func (f failingShifts) ListForUserInRange(context.Context, compliance.OrgID, compliance.UserID, time.Time, time.Time) ([]compliance.Shift, error) {
	return nil, errors.New("db down")
}

type failingSettings struct{}

func (failingSettings) MaxDailyHours(context.Context, compliance.OrgID) (*decimal.Decimal, error) {
	return nil, errors.New("settings down")
}

func TestEngine_ShiftStoreFailure_FailsClosed(t *testing.T) {
	mem := store.NewMemory()
	engine := compliance.NewEngine(failingShifts{mem}, mem)

	_, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", testShift("", monday(9, 0), monday(17, 0)), "")
	require.Error(t, err)

	var storeErr *compliance.StoreError
	assert.True(t, errors.As(err, &storeErr))
}

func TestEngine_SettingsFailure_FailsOpen(t *testing.T) {
	// Settings-store failure must behave as "no override": validation
	// completes, no override issue

	mem := store.NewMemory()
	engine := compliance.NewEngine(mem, failingSettings{})

	result, err := engine.ValidateShiftAssignment(context.Background(), "org-1", "user-1", testShift("", monday(9, 0), monday(17, 0)), "")
	require.NoError(t, err)
	assert.True(t, result.Valid())
}

// =============================================================================
// ROSTER SWEEP
// =============================================================================

func TestValidateRosterForPublish_FlagsOverloadedUser(t *testing.T) {
	// GIVEN: One user drafted 50h, another drafted 20h
	// WHEN: Sweeping the week
	// THEN: One critical violation for the overloaded user only

	engine, mem := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		day := monday(0, 0).AddDate(0, 0, i)
		heavy := compliance.Shift{OrgID: "org-1", UserID: "user-a", StartAt: day.Add(8 * time.Hour), EndAt: day.Add(18 * time.Hour), Status: compliance.StatusDraft}
		require.NoError(t, mem.CreateShift(ctx, &heavy))
		light := compliance.Shift{OrgID: "org-1", UserID: "user-b", StartAt: day.Add(9 * time.Hour), EndAt: day.Add(13 * time.Hour), Status: compliance.StatusDraft}
		require.NoError(t, mem.CreateShift(ctx, &light))
	}

	result, err := engine.ValidateRosterForPublish(ctx, "org-1", compliance.WeekStart(monday(0, 0)), compliance.WeekEnd(monday(0, 0)))
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "user user-a")
	assert.Contains(t, result.Violations[0].Message, "exceeds 48h absolute ceiling")
}

func TestValidateRosterForPublish_RestGapBetweenDrafts(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	a := compliance.Shift{OrgID: "org-1", UserID: "user-a", StartAt: monday(14, 0), EndAt: monday(22, 0), Status: compliance.StatusDraft}
	require.NoError(t, mem.CreateShift(ctx, &a))
	tue := monday(0, 0).AddDate(0, 0, 1)
	b := compliance.Shift{OrgID: "org-1", UserID: "user-a", StartAt: tue.Add(6 * time.Hour), EndAt: tue.Add(12 * time.Hour), Status: compliance.StatusDraft}
	require.NoError(t, mem.CreateShift(ctx, &b))

	result, err := engine.ValidateRosterForPublish(ctx, "org-1", compliance.WeekStart(monday(0, 0)), compliance.WeekEnd(monday(0, 0)))
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "user user-a: only 8.0h rest between shifts, minimum 12h required", result.Violations[0].Message)
}

func TestValidateRosterForPublish_UnassignedDraftsIgnored(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	// 60h of open (unassigned) drafts must not trip anything
	for i := 0; i < 5; i++ {
		day := monday(0, 0).AddDate(0, 0, i)
		open := compliance.Shift{OrgID: "org-1", StartAt: day.Add(6 * time.Hour), EndAt: day.Add(18 * time.Hour), Status: compliance.StatusDraft}
		require.NoError(t, mem.CreateShift(ctx, &open))
	}

	result, err := engine.ValidateRosterForPublish(ctx, "org-1", compliance.WeekStart(monday(0, 0)), compliance.WeekEnd(monday(0, 0)))
	require.NoError(t, err)
	assert.True(t, result.Valid())
}

func TestValidateRosterForPublish_StraddlerBelongsToPriorWeek(t *testing.T) {
	// GIVEN: A draft starting Sunday 20:00 and ending Monday 04:00, plus
	// 44h of drafts inside the week
	// WHEN: Sweeping the week
	// THEN: The straddler counts against the week it started in; 44h is
	// only a warning, and the 3h gap to the straddler does not fire

	engine, mem := newTestEngine(t)
	ctx := context.Background()

	sunday := monday(0, 0).AddDate(0, 0, -1)
	straddler := compliance.Shift{OrgID: "org-1", UserID: "user-a", StartAt: sunday.Add(20 * time.Hour), EndAt: monday(4, 0), Status: compliance.StatusDraft}
	require.NoError(t, mem.CreateShift(ctx, &straddler))
	for i := 0; i < 4; i++ { // Mon-Thu, 11h each
		day := monday(0, 0).AddDate(0, 0, i)
		s := compliance.Shift{OrgID: "org-1", UserID: "user-a", StartAt: day.Add(7 * time.Hour), EndAt: day.Add(18 * time.Hour), Status: compliance.StatusDraft}
		require.NoError(t, mem.CreateShift(ctx, &s))
	}

	result, err := engine.ValidateRosterForPublish(ctx, "org-1", compliance.WeekStart(monday(0, 0)), compliance.WeekEnd(monday(0, 0)))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "violations: %+v", result.Violations)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "exceeds 40h regular limit")
}

func TestValidateRosterForPublish_Idempotent(t *testing.T) {
	// Re-running over an unchanged draft set yields an identical result

	engine, mem := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		day := monday(0, 0).AddDate(0, 0, i)
		s := compliance.Shift{OrgID: "org-1", UserID: "user-a", StartAt: day.Add(8 * time.Hour), EndAt: day.Add(17 * time.Hour), Status: compliance.StatusDraft}
		require.NoError(t, mem.CreateShift(ctx, &s))
	}

	first, err := engine.ValidateRosterForPublish(ctx, "org-1", compliance.WeekStart(monday(0, 0)), compliance.WeekEnd(monday(0, 0)))
	require.NoError(t, err)
	second, err := engine.ValidateRosterForPublish(ctx, "org-1", compliance.WeekStart(monday(0, 0)), compliance.WeekEnd(monday(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// =============================================================================
// WEEKLY SUMMARY
// =============================================================================

func TestWeeklySummary(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedShift(t, mem, "", monday(9, 0), monday(17, 0))
	tue := monday(0, 0).AddDate(0, 0, 1)
	seedShift(t, mem, "", tue.Add(9*time.Hour), tue.Add(13*time.Hour))

	cancelled := testShift("", tue.Add(15*time.Hour), tue.Add(19*time.Hour))
	cancelled.Status = compliance.StatusCancelled
	require.NoError(t, mem.CreateShift(ctx, &cancelled))

	summary, err := engine.WeeklySummary(ctx, "org-1", "user-1", monday(12, 0))
	require.NoError(t, err)
	assert.Equal(t, compliance.UserID("user-1"), summary.UserID)
	assert.True(t, summary.WeekStart.Equal(monday(0, 0)))
	assert.True(t, summary.TotalNetHours.Equal(decimal.NewFromInt(12)), "got %s", summary.TotalNetHours)
	assert.Equal(t, 2, summary.ShiftCount)
}

func TestWeeklySummary_StraddlerBelongsToPriorWeek(t *testing.T) {
	// A shift ending Monday morning but started Sunday stays in the
	// previous week's summary

	engine, mem := newTestEngine(t)
	sunday := monday(0, 0).AddDate(0, 0, -1)
	seedShift(t, mem, "straddler", sunday.Add(20*time.Hour), monday(4, 0))
	seedShift(t, mem, "inside", monday(9, 0), monday(17, 0))

	summary, err := engine.WeeklySummary(context.Background(), "org-1", "user-1", monday(12, 0))
	require.NoError(t, err)
	assert.True(t, summary.TotalNetHours.Equal(decimal.NewFromInt(8)), "got %s", summary.TotalNetHours)
	assert.Equal(t, 1, summary.ShiftCount)

	prior, err := engine.WeeklySummary(context.Background(), "org-1", "user-1", sunday)
	require.NoError(t, err)
	assert.True(t, prior.TotalNetHours.Equal(decimal.NewFromInt(8)), "got %s", prior.TotalNetHours)
	assert.Equal(t, 1, prior.ShiftCount)
}
