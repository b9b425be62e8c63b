/*
limits.go - Statutory limits and tunable thresholds

PURPOSE:
  Bundles every numeric threshold the evaluators consume. The statutory
  values model a single jurisdiction; organizations may tighten the
  daily cap via OrgSettings but never loosen the statute.

THRESHOLDS:
  MaxDailyHours        9h   hard daily cap (inclusive pass at exactly 9)
  DailyWarningBand     1h   warn when projected is in (max-1, max]
  MaxWeeklyHours       48h  absolute weekly ceiling
  RegularWeeklyHours   40h  regular weekly cap
  WeeklyWarningHours   38h  approach warning threshold (inclusive)
  MinRestHours         12h  minimum rest between shifts
  RestLookback         24h  how far back to search for an adjacent shift
  AssumedShiftDuration 8h   nominal length of a still-open clock entry

The assumed duration is a named parameter rather than a constant inside
the rest rule: callers that know a scheduled end (e.g. from a shift
template) should prefer it over the nominal value.
*/
package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Limits carries every threshold the evaluators use. Zero value is not
// usable; start from DefaultLimits.
type Limits struct {
	MaxDailyHours      decimal.Decimal
	DailyWarningBand   decimal.Decimal
	MaxWeeklyHours     decimal.Decimal
	RegularWeeklyHours decimal.Decimal
	WeeklyWarningHours decimal.Decimal
	MinRestHours       decimal.Decimal

	RestLookback         time.Duration
	AssumedShiftDuration time.Duration
}

// DefaultLimits returns the statutory rule set.
func DefaultLimits() Limits {
	return Limits{
		MaxDailyHours:        decimal.NewFromInt(9),
		DailyWarningBand:     decimal.NewFromInt(1),
		MaxWeeklyHours:       decimal.NewFromInt(48),
		RegularWeeklyHours:   decimal.NewFromInt(40),
		WeeklyWarningHours:   decimal.NewFromInt(38),
		MinRestHours:         decimal.NewFromInt(12),
		RestLookback:         24 * time.Hour,
		AssumedShiftDuration: 8 * time.Hour,
	}
}
