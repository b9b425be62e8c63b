/*
store.go - Read interfaces consumed from external collaborators

PURPOSE:
  The engine owns no persistence. It consumes a narrow read surface from
  a shift store and an organization-settings store; the concrete
  technology (SQLite here, anything elsewhere) is a collaborator's
  concern. True write-time mutual exclusion is also the persistence
  layer's job - two concurrent validations against not-yet-committed
  shifts can both pass.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - compliance/store: in-memory store for tests and development

SEE ALSO:
  - engine.go: The only consumer of these interfaces
*/
package compliance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SHIFT STORE - Read access to shift intervals
// =============================================================================

// ShiftStore is the read surface the engine needs from persistence.
// All list methods return shifts ordered by start time ascending.
type ShiftStore interface {
	// ListForUserInRange returns the user's shifts overlapping the
	// half-open window [from, to).
	ListForUserInRange(ctx context.Context, orgID OrgID, userID UserID, from, to time.Time) ([]Shift, error)

	// ListOverlapping returns the user's shifts whose closed interval
	// shares at least one instant with [startAt, endAt], excluding the
	// shift identified by excludeID (empty = exclude nothing).
	ListOverlapping(ctx context.Context, orgID OrgID, userID UserID, startAt, endAt time.Time, excludeID ShiftID) ([]Shift, error)

	// ListDraftsInRange returns every draft shift for the organization
	// overlapping [from, to), across all users. Batch read for the
	// roster sweep.
	ListDraftsInRange(ctx context.Context, orgID OrgID, from, to time.Time) ([]Shift, error)
}

// =============================================================================
// SETTINGS STORE - Organization policy resolution with fallback
// =============================================================================

// SettingsStore resolves per-organization policy overrides.
type SettingsStore interface {
	// MaxDailyHours returns the organization's daily-hour ceiling
	// override, or nil when the organization has no custom policy.
	// Absence is not an error.
	MaxDailyHours(ctx context.Context, orgID OrgID) (*decimal.Decimal, error)
}
