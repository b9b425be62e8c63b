/*
rest.go - Rest-period evaluator, both call shapes

PURPOSE:
  Minimum inter-shift rest. Two call shapes share one gap rule:

  Single-adjacency (shift validation): the most recent other shift
  ending at or before the proposal's start, within the lookback window.
  Absence of history is not a failure.

  Bidirectional (clock-out cross-check): rest-after (previous neighbor's
  end to this entry's start) and rest-before (this entry's end to the
  next neighbor's start) are evaluated independently - both always run,
  so a single entry may fail zero, one, or two sides. An entry that is
  still clocked in has no end yet; its end is approximated as
  start + Limits.AssumedShiftDuration. Callers that know a scheduled end
  (e.g. a shift template) should close the entry with it instead.

SEE ALSO:
  - rules.go: The other evaluators
  - limits.go: MinRestHours, RestLookback, AssumedShiftDuration
*/
package compliance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SINGLE-ADJACENCY SHAPE - used by shift-assignment validation
// =============================================================================

// EvaluatePriorRest finds the most recent other shift ending at or
// before newStart within the lookback window and checks the gap. No
// qualifying prior shift means no violation.
func EvaluatePriorRest(limits Limits, prior []Shift, newStart time.Time, excludeID ShiftID) *Issue {
	var latestEnd time.Time
	cutoff := newStart.Add(-limits.RestLookback)

	for _, s := range prior {
		if s.Status == StatusCancelled {
			continue
		}
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if s.EndAt.After(newStart) || s.EndAt.Before(cutoff) {
			continue
		}
		if s.EndAt.After(latestEnd) {
			latestEnd = s.EndAt
		}
	}

	if latestEnd.IsZero() {
		return nil
	}
	return restIssue(limits, newStart.Sub(latestEnd), "since previous shift")
}

// restIssue converts a gap into a critical violation when it falls short
// of the minimum, nil otherwise.
func restIssue(limits Limits, gap time.Duration, context string) *Issue {
	gapHours := decimal.NewFromFloat(gap.Hours())
	if gapHours.GreaterThanOrEqual(limits.MinRestHours) {
		return nil
	}
	return &Issue{
		Rule:     RuleRestPeriod,
		Severity: SeverityCritical,
		Statute:  StatuteRestPeriod,
		Message: fmt.Sprintf("only %sh rest %s, minimum %sh required",
			gapHours.StringFixed(1), context, limits.MinRestHours.String()),
	}
}

// =============================================================================
// BIDIRECTIONAL SHAPE - clock-out cross-check
// =============================================================================

// ClockOutCheck is one per-rule outcome of the clock-out cross-check.
// Severity uses the coarse warning/error vocabulary; it is empty when
// the check passed.
type ClockOutCheck struct {
	Rule     Rule
	Passed   bool
	Severity SeverityClass
	Statute  string
	Message  string
}

// ClockOutChecks cross-checks the entry being closed against the full
// week's entries for the user: daily total, weekly total, rest-after,
// and rest-before, in that order. Every check runs regardless of
// earlier failures. closingBreaks carries the break minutes tied to the
// entry being closed (the entry itself may predate the final tally).
func ClockOutChecks(limits Limits, entries []TimeEntry, closingID ShiftID, closingBreaks int) ([]ClockOutCheck, error) {
	closing, ok := findEntry(entries, closingID)
	if !ok {
		return nil, ErrEntryNotFound
	}
	closing.BreakMinutes = closingBreaks
	closingEnd := closing.endOrAssumed(limits.AssumedShiftDuration)

	checks := make([]ClockOutCheck, 0, 4)
	checks = append(checks, dailyClockOutCheck(limits, entries, closing))
	checks = append(checks, weeklyClockOutCheck(limits, entries, closing))
	checks = append(checks, restAfterCheck(limits, entries, closing))
	checks = append(checks, restBeforeCheck(limits, entries, closing, closingEnd))
	return checks, nil
}

func findEntry(entries []TimeEntry, id ShiftID) (TimeEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return TimeEntry{}, false
}

func dailyClockOutCheck(limits Limits, entries []TimeEntry, closing TimeEntry) ClockOutCheck {
	others := decimal.Zero
	for _, e := range entries {
		if e.ID == closing.ID || !SameDay(e.StartAt, closing.StartAt) {
			continue
		}
		others = others.Add(e.netHours(limits.AssumedShiftDuration))
	}
	issue := EvaluateDailyHours(limits, closing.netHours(limits.AssumedShiftDuration), others)
	return toCheck(RuleDailyLimit, StatuteDailyLimit, issue,
		fmt.Sprintf("daily total %sh within %sh limit",
			others.Add(closing.netHours(limits.AssumedShiftDuration)).StringFixed(1),
			limits.MaxDailyHours.String()))
}

func weeklyClockOutCheck(limits Limits, entries []TimeEntry, closing TimeEntry) ClockOutCheck {
	weekStart := WeekStart(closing.StartAt)
	weekEnd := WeekEnd(closing.StartAt)
	others := decimal.Zero
	for _, e := range entries {
		if e.ID == closing.ID || e.StartAt.Before(weekStart) || e.StartAt.After(weekEnd) {
			continue
		}
		others = others.Add(e.netHours(limits.AssumedShiftDuration))
	}
	issue := EvaluateWeeklyHours(limits, closing.netHours(limits.AssumedShiftDuration), others)
	return toCheck(RuleWeeklyLimit, StatuteWeeklyLimit, issue,
		fmt.Sprintf("weekly total %sh within %sh limit",
			others.Add(closing.netHours(limits.AssumedShiftDuration)).StringFixed(1),
			limits.RegularWeeklyHours.String()))
}

// restAfterCheck: gap between the previous neighbor's end and this
// entry's start.
func restAfterCheck(limits Limits, entries []TimeEntry, closing TimeEntry) ClockOutCheck {
	var latestEnd time.Time
	cutoff := closing.StartAt.Add(-limits.RestLookback)
	for _, e := range entries {
		if e.ID == closing.ID {
			continue
		}
		end := e.endOrAssumed(limits.AssumedShiftDuration)
		if end.After(closing.StartAt) || end.Before(cutoff) {
			continue
		}
		if end.After(latestEnd) {
			latestEnd = end
		}
	}
	if latestEnd.IsZero() {
		return passedCheck(RuleRestPeriod, StatuteRestPeriod, "no adjacent shift before this entry")
	}
	issue := restIssue(limits, closing.StartAt.Sub(latestEnd), "since previous shift")
	return toCheck(RuleRestPeriod, StatuteRestPeriod, issue,
		fmt.Sprintf("%sh rest since previous shift",
			decimal.NewFromFloat(closing.StartAt.Sub(latestEnd).Hours()).StringFixed(1)))
}

// restBeforeCheck: gap between this entry's end (actual or assumed) and
// the next neighbor's start.
func restBeforeCheck(limits Limits, entries []TimeEntry, closing TimeEntry, closingEnd time.Time) ClockOutCheck {
	var nextStart time.Time
	for _, e := range entries {
		if e.ID == closing.ID || e.StartAt.Before(closing.StartAt) || e.StartAt.Equal(closing.StartAt) {
			continue
		}
		if nextStart.IsZero() || e.StartAt.Before(nextStart) {
			nextStart = e.StartAt
		}
	}
	if nextStart.IsZero() {
		return passedCheck(RuleRestPeriod, StatuteRestPeriod, "no adjacent shift after this entry")
	}
	issue := restIssue(limits, nextStart.Sub(closingEnd), "before next shift")
	return toCheck(RuleRestPeriod, StatuteRestPeriod, issue,
		fmt.Sprintf("%sh rest before next shift",
			decimal.NewFromFloat(nextStart.Sub(closingEnd).Hours()).StringFixed(1)))
}

func toCheck(rule Rule, statute string, issue *Issue, passMessage string) ClockOutCheck {
	if issue == nil {
		return passedCheck(rule, statute, passMessage)
	}
	return ClockOutCheck{
		Rule:     rule,
		Passed:   false,
		Severity: issue.Severity.Class(),
		Statute:  statute,
		Message:  issue.Message,
	}
}

func passedCheck(rule Rule, statute string, message string) ClockOutCheck {
	return ClockOutCheck{Rule: rule, Passed: true, Statute: statute, Message: message}
}
