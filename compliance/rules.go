/*
rules.go - Pure rule evaluators

PURPOSE:
  The individual statutory evaluators. Each is a pure function of the
  proposed shift's hours plus context already fetched by the engine;
  none touches a store, holds state, or throws for well-formed input.
  A nil return means the rule passed.

BOUNDARY POLICIES (fixed, relied on by callers and tests):
  Daily:   projected == max passes; the warning band is (max-1, max]
  Weekly:  48 is the ceiling, strictly-greater fires; 38 warning is
           inclusive; at most one outcome fires, checked in order
  Overlap: closed-interval, boundary-inclusive - shifts that merely
           touch conflict

SEE ALSO:
  - rest.go: The rest-period evaluator (two call shapes)
  - engine.go: Fetches context and composes these in a fixed order
*/
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAILY HOURS
// =============================================================================

// EvaluateDailyHours checks the projected daily total (hours already on
// the calendar day plus the proposed shift's net hours) against the cap.
// Exceeding the cap is a critical violation; landing within the last
// warning-band hour below it is a medium warning. Never both.
func EvaluateDailyHours(limits Limits, shiftHours, existingDayHours decimal.Decimal) *Issue {
	projected := existingDayHours.Add(shiftHours)

	if projected.GreaterThan(limits.MaxDailyHours) {
		return &Issue{
			Rule:     RuleDailyLimit,
			Severity: SeverityCritical,
			Statute:  StatuteDailyLimit,
			Message: fmt.Sprintf("daily total %sh exceeds %sh limit",
				projected.StringFixed(1), limits.MaxDailyHours.String()),
		}
	}
	if projected.GreaterThan(limits.MaxDailyHours.Sub(limits.DailyWarningBand)) {
		return &Issue{
			Rule:     RuleDailyLimit,
			Severity: SeverityMedium,
			Statute:  StatuteDailyLimit,
			Message: fmt.Sprintf("daily total %sh is within one hour of the %sh limit",
				projected.StringFixed(1), limits.MaxDailyHours.String()),
		}
	}
	return nil
}

// =============================================================================
// WEEKLY HOURS
// =============================================================================

// EvaluateWeeklyHours checks the projected Monday-week total. Strictly in
// order, at most one outcome: over the absolute ceiling is critical, over
// the regular cap is high, at or above the warning threshold is a low
// warning.
func EvaluateWeeklyHours(limits Limits, shiftHours, otherWeekHours decimal.Decimal) *Issue {
	projected := otherWeekHours.Add(shiftHours)

	switch {
	case projected.GreaterThan(limits.MaxWeeklyHours):
		return &Issue{
			Rule:     RuleWeeklyLimit,
			Severity: SeverityCritical,
			Statute:  StatuteWeeklyLimit,
			Message: fmt.Sprintf("weekly total %sh exceeds %sh absolute ceiling",
				projected.StringFixed(1), limits.MaxWeeklyHours.String()),
		}
	case projected.GreaterThan(limits.RegularWeeklyHours):
		return &Issue{
			Rule:     RuleWeeklyLimit,
			Severity: SeverityHigh,
			Statute:  StatuteWeeklyLimit,
			Message: fmt.Sprintf("weekly total %sh exceeds %sh regular limit",
				projected.StringFixed(1), limits.RegularWeeklyHours.String()),
		}
	case projected.GreaterThanOrEqual(limits.WeeklyWarningHours):
		return &Issue{
			Rule:     RuleWeeklyLimit,
			Severity: SeverityLow,
			Statute:  StatuteWeeklyLimit,
			Message: fmt.Sprintf("weekly total %sh is approaching the %sh regular limit",
				projected.StringFixed(1), limits.RegularWeeklyHours.String()),
		}
	}
	return nil
}

// =============================================================================
// DOUBLE BOOKING
// =============================================================================

// Overlaps reports whether the existing shift shares any instant with
// [newStart, newEnd], boundary inclusive. Shifts whose boundaries
// exactly touch conflict; a zero-length gap is not a gap.
func Overlaps(existing Shift, proposed Shift) bool {
	return !existing.StartAt.After(proposed.EndAt) && !existing.EndAt.Before(proposed.StartAt)
}

// EvaluateDoubleBooking returns a single critical violation when any of
// the candidate shifts overlaps the proposal. The message is fixed; the
// engine must already have excluded the shift being edited, otherwise
// every update self-conflicts.
func EvaluateDoubleBooking(proposed Shift, overlapping []Shift) *Issue {
	for _, existing := range overlapping {
		if existing.Status == StatusCancelled {
			continue
		}
		if Overlaps(existing, proposed) {
			return &Issue{
				Rule:     RuleDoubleBooking,
				Severity: SeverityCritical,
				Message:  "a shift already exists at this time",
			}
		}
	}
	return nil
}

// =============================================================================
// ORGANIZATION OVERRIDE
// =============================================================================

// EvaluateOrgDailyHours runs the organization's custom daily ceiling as
// a second, independent daily check. A nil override means no custom
// policy and never fires. The statutory check still runs separately, so
// one shift can carry both daily issues.
func EvaluateOrgDailyHours(override *decimal.Decimal, shiftHours, existingDayHours decimal.Decimal) *Issue {
	if override == nil {
		return nil
	}
	projected := existingDayHours.Add(shiftHours)
	if projected.GreaterThan(*override) {
		return &Issue{
			Rule:     RuleOrgDailyLimit,
			Severity: SeverityHigh,
			Message: fmt.Sprintf("daily total %sh exceeds the organization limit of %sh",
				projected.StringFixed(1), override.String()),
		}
	}
	return nil
}
