/*
Package compliance provides the labor-compliance validation engine.

PURPOSE:
  This package contains the core types and rule evaluators for deciding
  whether a shift assignment satisfies statutory scheduling limits: the
  daily hour cap, the weekly hour cap, minimum rest between shifts, and
  no double-booking, plus optional per-organization overrides.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift: A scheduled block of work with start, end, and break minutes
  - TimeEntry: A clock-in/clock-out record (end may still be unknown)
  - OrgSettings: Per-organization policy overrides
  - WeeklyHoursSummary: Read-only aggregate for display

DESIGN PRINCIPLES:
  1. Purity: Evaluators are pure functions over materialized data
  2. Precision: Uses decimal.Decimal for hour arithmetic
  3. Type Safety: Strong typing for IDs prevents mixing org/user/shift IDs
  4. Report, never mutate: The engine only describes problems; the caller
     decides to block, warn, or proceed

SEE ALSO:
  - issue.go: Issue and Result contract shared by every evaluator
  - rules.go: Daily, weekly, double-booking, and override evaluators
  - engine.go: Orchestration per shift and per roster-week
*/
package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OrgID string
type UserID string
type ShiftID string
type LocationID string

// =============================================================================
// SHIFT - A scheduled block of work
// =============================================================================

type ShiftStatus string

const (
	StatusDraft        ShiftStatus = "draft"
	StatusPublished    ShiftStatus = "published"
	StatusAcknowledged ShiftStatus = "acknowledged"
	StatusCompleted    ShiftStatus = "completed"
	StatusCancelled    ShiftStatus = "cancelled"
)

// Shift is a scheduled block of work. Invariants (enforced by the caller,
// not re-checked by the evaluators): EndAt > StartAt, and
// 0 <= BreakMinutes < duration in minutes.
type Shift struct {
	ID           ShiftID
	OrgID        OrgID
	UserID       UserID // empty = unassigned
	StartAt      time.Time
	EndAt        time.Time
	BreakMinutes int
	Status       ShiftStatus
	LocationID   LocationID
}

// Assigned reports whether the shift has an assigned user.
func (s Shift) Assigned() bool { return s.UserID != "" }

// NetHours returns the shift duration minus break, in hours.
// A missing break counts as zero rather than failing.
func (s Shift) NetHours() decimal.Decimal {
	mins := decimal.NewFromFloat(s.EndAt.Sub(s.StartAt).Minutes())
	if s.BreakMinutes > 0 {
		mins = mins.Sub(decimal.NewFromInt(int64(s.BreakMinutes)))
	}
	return mins.Div(decimal.NewFromInt(60))
}

// SumNetHours folds net hours over a slice of shifts, skipping cancelled
// ones and the shift identified by excludeID (the shift being edited).
func SumNetHours(shifts []Shift, excludeID ShiftID) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shifts {
		if s.Status == StatusCancelled {
			continue
		}
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		total = total.Add(s.NetHours())
	}
	return total
}

// =============================================================================
// TIME ENTRY - Clock-in/clock-out record for the clock-out cross-check
// =============================================================================

// TimeEntry is a clock record. A zero EndAt means the user is still
// clocked in; the engine then assumes a nominal duration (see Limits).
type TimeEntry struct {
	ID           ShiftID
	StartAt      time.Time
	EndAt        time.Time
	BreakMinutes int
}

// Open reports whether the entry has not been clocked out yet.
func (e TimeEntry) Open() bool { return e.EndAt.IsZero() }

// endOrAssumed returns the entry's end, substituting start+assumed for an
// open entry.
func (e TimeEntry) endOrAssumed(assumed time.Duration) time.Time {
	if e.Open() {
		return e.StartAt.Add(assumed)
	}
	return e.EndAt
}

// netHours returns duration minus break in hours, using the assumed
// duration when the entry is still open.
func (e TimeEntry) netHours(assumed time.Duration) decimal.Decimal {
	end := e.endOrAssumed(assumed)
	mins := decimal.NewFromFloat(end.Sub(e.StartAt).Minutes())
	if e.BreakMinutes > 0 {
		mins = mins.Sub(decimal.NewFromInt(int64(e.BreakMinutes)))
	}
	return mins.Div(decimal.NewFromInt(60))
}

// =============================================================================
// ORGANIZATION SETTINGS
// =============================================================================

// OrgSettings carries per-organization policy overrides. A nil
// MaxDailyHours means "use the statutory default".
type OrgSettings struct {
	OrgID         OrgID
	MaxDailyHours *decimal.Decimal
}

// =============================================================================
// WEEKLY SUMMARY - Derived display aggregate
// =============================================================================

// WeeklyHoursSummary is a read-only aggregate of a user's week.
// The engine derives it; it owns no state.
type WeeklyHoursSummary struct {
	UserID        UserID
	WeekStart     time.Time
	TotalNetHours decimal.Decimal
	ShiftCount    int
}
