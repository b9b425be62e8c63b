/*
calendar.go - Monday-start week calendar

PURPOSE:
  Week and day arithmetic used by the weekly rules, the roster sweep,
  and hour attribution. Weeks run Monday 00:00 through Sunday
  23:59:59.999 in the input's location; Sunday belongs to the week that
  began six days earlier.

  Kept separate from the rule evaluators so a jurisdiction with a
  different week start touches only this file.

SEE ALSO:
  - rules.go: Weekly evaluator consuming these bounds
  - engine.go: Week windows for fetching and attribution
*/
package compliance

import (
	"time"
)

// =============================================================================
// WEEK CALENDAR - Monday-start week arithmetic, isolated from the rules
// =============================================================================

// WeekStart returns Monday 00:00 of the week containing t, in t's
// location. Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := int(t.Weekday())
	offset := 1 - day
	if day == 0 { // Sunday
		offset = -6
	}
	t = t.AddDate(0, 0, offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekEnd returns Sunday 23:59:59.999 of the week containing t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 7).Add(-time.Millisecond)
}

// DayBounds returns [start of day, start of next day) for t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
