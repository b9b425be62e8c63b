/*
engine.go - Orchestration of the rule evaluators

PURPOSE:
  Composes the evaluators for (a) a single proposed shift, (b) the
  clock-out cross-check, and (c) the roster-wide publish sweep, and
  aggregates their outcomes into one Result.

AGGREGATION CONTRACT:
  ValidateShiftAssignment runs the evaluators unconditionally in a fixed
  order - daily-limit, double-booking, rest-period, weekly-hours,
  org-override - appending each outcome to the ordered lists. No
  evaluator is skipped because an earlier one failed: callers always
  receive the complete issue set ("show all problems at once"), and
  tests can assert on ordering deterministically.

FAILURE POLICY:
  Shift-store failure fails closed (error returned, caller blocks the
  write). Settings-store failure fails open (treated as "no override")
  because the override is an optional tightening, never a requirement.

CONCURRENCY:
  The engine holds no mutable state and takes no locks; concurrent
  validations are safe. It provides no cross-call atomicity - two
  concurrent validations of conflicting unsaved shifts can both pass.
  Mutual exclusion at write time belongs to the persistence layer.
*/
package compliance

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine composes the rule evaluators over the external read interfaces.
type Engine struct {
	Shifts   ShiftStore
	Settings SettingsStore
	Limits   Limits
}

// NewEngine creates an engine with the statutory default limits.
func NewEngine(shifts ShiftStore, settings SettingsStore) *Engine {
	return &Engine{Shifts: shifts, Settings: settings, Limits: DefaultLimits()}
}

// =============================================================================
// PER-SHIFT VALIDATION
// =============================================================================

// ValidateShiftAssignment validates one proposed or updated shift.
// excludeID identifies the shift being edited so it never conflicts
// with its own prior state; pass "" for a new shift. The caller is
// responsible for rejecting structurally malformed shifts (end before
// start, negative break) before calling.
func (e *Engine) ValidateShiftAssignment(ctx context.Context, orgID OrgID, userID UserID, shift Shift, excludeID ShiftID) (Result, error) {
	shiftHours := shift.NetHours()

	dayFrom, dayTo := DayBounds(shift.StartAt)
	dayShifts, err := e.Shifts.ListForUserInRange(ctx, orgID, userID, dayFrom, dayTo)
	if err != nil {
		return Result{}, &StoreError{Op: "list_day", Org: orgID, User: userID, From: dayFrom, To: dayTo, Err: err}
	}
	dayHours := SumNetHours(startsIn(dayShifts, dayFrom, dayTo), excludeID)

	overlapping, err := e.Shifts.ListOverlapping(ctx, orgID, userID, shift.StartAt, shift.EndAt, excludeID)
	if err != nil {
		return Result{}, &StoreError{Op: "list_overlapping", Org: orgID, User: userID, From: shift.StartAt, To: shift.EndAt, Err: err}
	}

	restFrom := shift.StartAt.Add(-e.Limits.RestLookback)
	restCandidates, err := e.Shifts.ListForUserInRange(ctx, orgID, userID, restFrom, shift.StartAt)
	if err != nil {
		return Result{}, &StoreError{Op: "list_rest", Org: orgID, User: userID, From: restFrom, To: shift.StartAt, Err: err}
	}

	weekFrom := WeekStart(shift.StartAt)
	weekTo := weekFrom.AddDate(0, 0, 7)
	weekShifts, err := e.Shifts.ListForUserInRange(ctx, orgID, userID, weekFrom, weekTo)
	if err != nil {
		return Result{}, &StoreError{Op: "list_week", Org: orgID, User: userID, From: weekFrom, To: weekTo, Err: err}
	}
	weekHours := SumNetHours(startsIn(weekShifts, weekFrom, weekTo), excludeID)

	// Resolver failure or absence means "no custom policy", never a block.
	override, err := e.Settings.MaxDailyHours(ctx, orgID)
	if err != nil {
		override = nil
	}

	var result Result
	result.add(EvaluateDailyHours(e.Limits, shiftHours, dayHours))
	result.add(EvaluateDoubleBooking(shift, overlapping))
	result.add(EvaluatePriorRest(e.Limits, restCandidates, shift.StartAt, excludeID))
	result.add(EvaluateWeeklyHours(e.Limits, shiftHours, weekHours))
	result.add(EvaluateOrgDailyHours(override, shiftHours, dayHours))
	return result, nil
}

// =============================================================================
// CLOCK-OUT CROSS-CHECK
// =============================================================================

// CheckClockOut runs the bidirectional rest/clock-out cross-check over
// the full week's entries for the user. Pure: the caller supplies the
// entries plus the break minutes tied to the entry being closed.
func (e *Engine) CheckClockOut(entries []TimeEntry, closingID ShiftID, closingBreaks int) ([]ClockOutCheck, error) {
	return ClockOutChecks(e.Limits, entries, closingID, closingBreaks)
}

// =============================================================================
// ROSTER-WIDE PUBLISH SWEEP
// =============================================================================

// ValidateRosterForPublish validates an organization's entire draft week
// prior to publish: one batched read, then pure in-memory grouping.
// Per user: weekly sum over the absolute ceiling is a critical
// violation, over the regular cap (but within the ceiling) only a
// warning - intentionally asymmetric versus the per-shift weekly rule -
// and every adjacent pair under the minimum rest is a critical
// violation. The draft->published transition is permitted only when the
// returned result carries zero violations; warnings never block.
// Rerunning over an unchanged draft set yields an identical result.
func (e *Engine) ValidateRosterForPublish(ctx context.Context, orgID OrgID, weekStart, weekEnd time.Time) (Result, error) {
	drafts, err := e.Shifts.ListDraftsInRange(ctx, orgID, weekStart, weekEnd)
	if err != nil {
		return Result{}, &StoreError{Op: "list_drafts", Org: orgID, From: weekStart, To: weekEnd, Err: err}
	}

	byUser := make(map[UserID][]Shift)
	for _, s := range startsIn(drafts, weekStart, weekStart.AddDate(0, 0, 7)) {
		if !s.Assigned() {
			continue
		}
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}

	users := make([]UserID, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	var result Result
	for _, userID := range users {
		shifts := append([]Shift(nil), byUser[userID]...)

		total := SumNetHours(shifts, "")
		switch {
		case total.GreaterThan(e.Limits.MaxWeeklyHours):
			result.add(&Issue{
				Rule:     RuleWeeklyLimit,
				Severity: SeverityCritical,
				Statute:  StatuteWeeklyLimit,
				Message: fmt.Sprintf("user %s: weekly total %sh exceeds %sh absolute ceiling",
					userID, total.StringFixed(1), e.Limits.MaxWeeklyHours.String()),
			})
		case total.GreaterThan(e.Limits.RegularWeeklyHours):
			result.add(&Issue{
				Rule:     RuleWeeklyLimit,
				Severity: SeverityMedium,
				Statute:  StatuteWeeklyLimit,
				Message: fmt.Sprintf("user %s: weekly total %sh exceeds %sh regular limit",
					userID, total.StringFixed(1), e.Limits.RegularWeeklyHours.String()),
			})
		}

		// Adjacent-pair rest walk requires ascending start order.
		sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartAt.Before(shifts[j].StartAt) })
		for i := 1; i < len(shifts); i++ {
			issue := restIssue(e.Limits, shifts[i].StartAt.Sub(shifts[i-1].EndAt), "between shifts")
			if issue != nil {
				issue.Message = fmt.Sprintf("user %s: %s", userID, issue.Message)
				result.add(issue)
			}
		}
	}
	return result, nil
}

// =============================================================================
// WEEKLY SUMMARY
// =============================================================================

// WeeklySummary derives the read-only display aggregate for a user's
// week. weekOf may be any instant inside the week.
func (e *Engine) WeeklySummary(ctx context.Context, orgID OrgID, userID UserID, weekOf time.Time) (WeeklyHoursSummary, error) {
	weekFrom := WeekStart(weekOf)
	weekTo := weekFrom.AddDate(0, 0, 7)
	shifts, err := e.Shifts.ListForUserInRange(ctx, orgID, userID, weekFrom, weekTo)
	if err != nil {
		return WeeklyHoursSummary{}, &StoreError{Op: "list_week", Org: orgID, User: userID, From: weekFrom, To: weekTo, Err: err}
	}

	shifts = startsIn(shifts, weekFrom, weekTo)
	summary := WeeklyHoursSummary{UserID: userID, WeekStart: weekFrom, TotalNetHours: SumNetHours(shifts, "")}
	for _, s := range shifts {
		if s.Status != StatusCancelled {
			summary.ShiftCount++
		}
	}
	return summary, nil
}

// =============================================================================
// ATTRIBUTION
// =============================================================================

// startsIn filters to shifts whose StartAt lies in [from, to). Hour
// totals attribute a shift to the day and week in which it starts, so
// an overnight or boundary-straddling shift never counts twice.
func startsIn(shifts []Shift, from, to time.Time) []Shift {
	out := shifts[:0:0]
	for _, s := range shifts {
		if !s.StartAt.Before(from) && s.StartAt.Before(to) {
			out = append(out, s)
		}
	}
	return out
}
