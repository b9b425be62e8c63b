/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place. For any structurally well-formed shift,
  validation never returns an error from rule logic - it returns a
  Result. Errors here cover data access (fail closed for hard checks)
  and caller mistakes (unknown entry, malformed range).

USAGE:
  if errors.Is(err, compliance.ErrShiftNotFound) { ... }
*/
package compliance

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrShiftNotFound is returned by stores when a referenced shift
	// does not exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrEntryNotFound is returned by the clock-out check when the
	// closing entry is not among the supplied week entries.
	ErrEntryNotFound = errors.New("time entry not found")

	// ErrInvalidShift is returned by callers that pre-validate shape
	// (end before start, negative break). The evaluators themselves do
	// not re-check shape.
	ErrInvalidShift = errors.New("invalid shift: end before start or negative break")

	// ErrInvalidRange is returned for a query window whose end does not
	// follow its start.
	ErrInvalidRange = errors.New("invalid range: end before start")
)

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) || errors.Is(err, ErrEntryNotFound)
}

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// StoreError wraps a shift-store failure with the query that caused it.
// Hard compliance checks fail closed on these: the caller must block
// the write rather than assume a clean history.
type StoreError struct {
	Op   string // e.g. "list_day", "list_overlapping"
	Org  OrgID
	User UserID
	From time.Time
	To   time.Time
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("shift store %s failed for org %s user %s: %v", e.Op, e.Org, e.User, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
