/*
issue.go - Issue and Result contract shared by every evaluator

PURPOSE:
  Defines the single shape every rule evaluator emits into. Two severity
  vocabularies exist in the callers ({low, medium, high, critical} for
  shift-assignment validation, {warning, error} for the clock-out
  cross-check); they are unified here behind one Severity type with a
  Class() mapping instead of two parallel enums.

SEVERITY MAPPING:
  low, medium      -> warning (informs, never blocks)
  high, critical   -> error   (blocks absent explicit override)

SEE ALSO:
  - rules.go: Evaluators that produce Issues
  - engine.go: Aggregation into Results
*/
package compliance

// =============================================================================
// RULES - Fixed identifiers, one per statutory check
// =============================================================================

type Rule string

const (
	RuleDailyLimit    Rule = "daily_limit"
	RuleWeeklyLimit   Rule = "weekly_limit"
	RuleRestPeriod    Rule = "rest_period"
	RuleDoubleBooking Rule = "double_booking"
	RuleOrgDailyLimit Rule = "org_daily_limit"
)

// Statute references cited by the rules that encode them.
// Double-booking and organization overrides are scheduling policy,
// not statute, so they carry no citation.
const (
	StatuteDailyLimit  = "Working Time Act §4(1)"
	StatuteWeeklyLimit = "Working Time Act §6(2)"
	StatuteRestPeriod  = "Working Time Act §9"
)

// =============================================================================
// SEVERITY - One tagged type, two caller vocabularies
// =============================================================================

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityClass is the coarse vocabulary used by the clock-out path.
type SeverityClass string

const (
	ClassWarning SeverityClass = "warning"
	ClassError   SeverityClass = "error"
)

// Class maps the fine-grained severity onto warning/error.
func (s Severity) Class() SeverityClass {
	switch s {
	case SeverityHigh, SeverityCritical:
		return ClassError
	default:
		return ClassWarning
	}
}

// Blocks reports whether an issue of this severity is a violation
// (intended to block the triggering action) rather than a warning.
func (s Severity) Blocks() bool { return s.Class() == ClassError }

// =============================================================================
// ISSUE - What a single rule evaluation reports
// =============================================================================

type Issue struct {
	Rule     Rule
	Message  string
	Severity Severity
	Statute  string // optional citation
}

// =============================================================================
// RESULT - Aggregated outcome of one validation call
// =============================================================================

// Result is the complete issue set for one validation call. Ordering of
// both lists follows the fixed evaluator order, which callers rely on.
type Result struct {
	Violations []Issue
	Warnings   []Issue
}

// Valid reports whether the action may proceed without override.
// Warnings never block.
func (r Result) Valid() bool { return len(r.Violations) == 0 }

// add routes an issue into violations or warnings by severity class.
// Nil issues (rule passed) are ignored so evaluators can be appended
// unconditionally.
func (r *Result) add(issue *Issue) {
	if issue == nil {
		return
	}
	if issue.Severity.Blocks() {
		r.Violations = append(r.Violations, *issue)
	} else {
		r.Warnings = append(r.Warnings, *issue)
	}
}
