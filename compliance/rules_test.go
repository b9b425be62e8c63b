package compliance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/compliance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func hrs(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// monday is a fixed Monday used across tests: 2025-03-03.
func monday(hour, min int) time.Time {
	return time.Date(2025, time.March, 3, hour, min, 0, 0, time.UTC)
}

func testShift(id string, start, end time.Time) compliance.Shift {
	return compliance.Shift{
		ID:      compliance.ShiftID(id),
		OrgID:   "org-1",
		UserID:  "user-1",
		StartAt: start,
		EndAt:   end,
		Status:  compliance.StatusPublished,
	}
}

// =============================================================================
// DAILY HOURS
// =============================================================================

func TestDailyHours_UnderLimit_Passes(t *testing.T) {
	// GIVEN: 4h already worked today
	// WHEN: Adding a 3h shift (projected 7h)
	// THEN: No issue

	issue := compliance.EvaluateDailyHours(compliance.DefaultLimits(), hrs(3), hrs(4))
	if issue != nil {
		t.Fatalf("expected no issue, got %+v", issue)
	}
}

func TestDailyHours_ExactlyAtLimit_WarnsButPasses(t *testing.T) {
	// GIVEN: 4h already worked today
	// WHEN: Adding a 5h shift (projected exactly 9h)
	// THEN: Warning-class issue, not a violation

	issue := compliance.EvaluateDailyHours(compliance.DefaultLimits(), hrs(5), hrs(4))
	if issue == nil {
		t.Fatal("expected a warning at exactly 9h")
	}
	if issue.Severity.Class() != compliance.ClassWarning {
		t.Fatalf("expected warning class, got %s", issue.Severity)
	}
	if issue.Rule != compliance.RuleDailyLimit {
		t.Fatalf("wrong rule: %s", issue.Rule)
	}
}

func TestDailyHours_OverLimit_CriticalViolation(t *testing.T) {
	// GIVEN: 4h already worked today
	// WHEN: Adding a 6h shift (projected 10h)
	// THEN: Critical violation citing the limit

	issue := compliance.EvaluateDailyHours(compliance.DefaultLimits(), hrs(6), hrs(4))
	if issue == nil {
		t.Fatal("expected a violation at 10h")
	}
	if issue.Severity != compliance.SeverityCritical {
		t.Fatalf("expected critical, got %s", issue.Severity)
	}
	if issue.Message != "daily total 10.0h exceeds 9h limit" {
		t.Fatalf("unexpected message: %q", issue.Message)
	}
	if issue.Statute != compliance.StatuteDailyLimit {
		t.Fatalf("missing statute, got %q", issue.Statute)
	}
}

func TestDailyHours_WarningBandLowerEdge_Passes(t *testing.T) {
	// GIVEN: Projected total exactly 8h (max minus band)
	// THEN: No issue; band is (8, 9]

	issue := compliance.EvaluateDailyHours(compliance.DefaultLimits(), hrs(8), hrs(0))
	if issue != nil {
		t.Fatalf("expected no issue at exactly 8h, got %+v", issue)
	}
}

// =============================================================================
// WEEKLY HOURS
// =============================================================================

func TestWeeklyHours_Thresholds(t *testing.T) {
	limits := compliance.DefaultLimits()

	tests := []struct {
		name     string
		other    float64
		shift    float64
		severity compliance.Severity
		class    compliance.SeverityClass
	}{
		{"under warning threshold", 30, 7.9, "", ""},
		{"exactly 38 warns", 30, 8, compliance.SeverityLow, compliance.ClassWarning},
		{"exactly 40 still a warning", 32, 8, compliance.SeverityLow, compliance.ClassWarning},
		{"over 40 is high", 35, 10, compliance.SeverityHigh, compliance.ClassError},
		{"exactly 48 stays high", 40, 8, compliance.SeverityHigh, compliance.ClassError},
		{"over 48 is critical", 42, 8, compliance.SeverityCritical, compliance.ClassError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := compliance.EvaluateWeeklyHours(limits, hrs(tt.shift), hrs(tt.other))
			if tt.severity == "" {
				if issue != nil {
					t.Fatalf("expected no issue, got %+v", issue)
				}
				return
			}
			if issue == nil {
				t.Fatal("expected an issue")
			}
			if issue.Severity != tt.severity {
				t.Fatalf("expected %s, got %s", tt.severity, issue.Severity)
			}
			if issue.Severity.Class() != tt.class {
				t.Fatalf("expected class %s, got %s", tt.class, issue.Severity.Class())
			}
		})
	}
}

func TestWeeklyHours_MessageCarriesProjectedTotal(t *testing.T) {
	issue := compliance.EvaluateWeeklyHours(compliance.DefaultLimits(), hrs(10), hrs(35))
	if issue == nil {
		t.Fatal("expected an issue")
	}
	if issue.Message != "weekly total 45.0h exceeds 40h regular limit" {
		t.Fatalf("unexpected message: %q", issue.Message)
	}
}

// =============================================================================
// DOUBLE BOOKING
// =============================================================================

func TestDoubleBooking_ExactBoundaryTouch_Conflicts(t *testing.T) {
	// GIVEN: An existing shift ending 17:00
	// WHEN: A new shift starts at exactly 17:00
	// THEN: Boundary-inclusive overlap fires

	existing := testShift("s1", monday(9, 0), monday(17, 0))
	proposed := testShift("s2", monday(17, 0), monday(21, 0))

	if !compliance.Overlaps(existing, proposed) {
		t.Fatal("touching boundaries must overlap")
	}
	issue := compliance.EvaluateDoubleBooking(proposed, []compliance.Shift{existing})
	if issue == nil {
		t.Fatal("expected a double-booking violation")
	}
	if issue.Severity != compliance.SeverityCritical {
		t.Fatalf("expected critical, got %s", issue.Severity)
	}
	if issue.Message != "a shift already exists at this time" {
		t.Fatalf("unexpected message: %q", issue.Message)
	}
}

func TestDoubleBooking_DisjointShifts_Pass(t *testing.T) {
	existing := testShift("s1", monday(9, 0), monday(12, 0))
	proposed := testShift("s2", monday(12, 1), monday(17, 0))

	if compliance.Overlaps(existing, proposed) {
		t.Fatal("disjoint shifts must not overlap")
	}
	if issue := compliance.EvaluateDoubleBooking(proposed, []compliance.Shift{existing}); issue != nil {
		t.Fatalf("expected no issue, got %+v", issue)
	}
}

func TestDoubleBooking_CancelledShift_Ignored(t *testing.T) {
	existing := testShift("s1", monday(9, 0), monday(17, 0))
	existing.Status = compliance.StatusCancelled
	proposed := testShift("s2", monday(10, 0), monday(14, 0))

	if issue := compliance.EvaluateDoubleBooking(proposed, []compliance.Shift{existing}); issue != nil {
		t.Fatalf("cancelled shifts must not conflict, got %+v", issue)
	}
}

// =============================================================================
// ORGANIZATION OVERRIDE
// =============================================================================

func TestOrgDailyHours_NoOverride_NeverFires(t *testing.T) {
	if issue := compliance.EvaluateOrgDailyHours(nil, hrs(20), hrs(20)); issue != nil {
		t.Fatalf("nil override must never fire, got %+v", issue)
	}
}

func TestOrgDailyHours_TighterThanStatute(t *testing.T) {
	// GIVEN: Organization caps the day at 6h
	// WHEN: Projected total is 7h (statute-legal)
	// THEN: Override violation fires independently

	override := hrs(6)
	issue := compliance.EvaluateOrgDailyHours(&override, hrs(7), hrs(0))
	if issue == nil {
		t.Fatal("expected an override violation")
	}
	if issue.Rule != compliance.RuleOrgDailyLimit {
		t.Fatalf("wrong rule: %s", issue.Rule)
	}
	if issue.Severity != compliance.SeverityHigh {
		t.Fatalf("expected high, got %s", issue.Severity)
	}
	if issue.Message != "daily total 7.0h exceeds the organization limit of 6h" {
		t.Fatalf("unexpected message: %q", issue.Message)
	}
}

func TestOrgDailyHours_AtOverride_Passes(t *testing.T) {
	override := hrs(6)
	if issue := compliance.EvaluateOrgDailyHours(&override, hrs(6), hrs(0)); issue != nil {
		t.Fatalf("exactly at the override must pass, got %+v", issue)
	}
}
