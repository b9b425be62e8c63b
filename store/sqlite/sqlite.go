/*
Package sqlite provides a SQLite-backed implementation of the
compliance store interfaces.

PURPOSE:
  Implements compliance.ShiftStore and compliance.SettingsStore plus the
  shift CRUD the API layer needs. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  shifts:        Shift intervals with status and break minutes
  org_settings:  Optional per-organization daily-hour ceiling

INDEXES:
  idx_shifts_org_user_start:   Range and overlap queries (hot path)
  idx_shifts_org_status_start: Roster-sweep batch read

TIMESTAMPS:
  Stored as fixed-width UTC text ("2006-01-02 15:04:05.000") so that
  lexicographic comparison in SQL matches chronological order.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  engine := compliance.NewEngine(store, store)

SEE ALSO:
  - compliance/store.go: Interface definitions
  - compliance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/compliance"
)

// timeLayout is fixed-width so text comparison orders chronologically.
const timeLayout = "2006-01-02 15:04:05.000"

func encodeTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func decodeTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

// Store implements the compliance store interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		location_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_org_user_start
		ON shifts(org_id, user_id, start_at);
	CREATE INDEX IF NOT EXISTS idx_shifts_org_status_start
		ON shifts(org_id, status, start_at);

	CREATE TABLE IF NOT EXISTS org_settings (
		org_id TEXT PRIMARY KEY,
		max_daily_hours TEXT,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHIFT CRUD
// =============================================================================

// CreateShift inserts a shift, assigning a fresh ID when empty.
func (s *Store) CreateShift(ctx context.Context, shift *compliance.Shift) error {
	if shift.ID == "" {
		shift.ID = compliance.ShiftID(uuid.NewString())
	}
	now := encodeTime(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, org_id, user_id, start_at, end_at, break_minutes, status, location_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(shift.ID), string(shift.OrgID), string(shift.UserID),
		encodeTime(shift.StartAt), encodeTime(shift.EndAt),
		shift.BreakMinutes, string(shift.Status), string(shift.LocationID), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// UpdateShift replaces a shift's mutable fields.
func (s *Store) UpdateShift(ctx context.Context, shift compliance.Shift) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts
		SET user_id = ?, start_at = ?, end_at = ?, break_minutes = ?, status = ?, location_id = ?, updated_at = ?
		WHERE id = ? AND org_id = ?`,
		string(shift.UserID), encodeTime(shift.StartAt), encodeTime(shift.EndAt),
		shift.BreakMinutes, string(shift.Status), string(shift.LocationID),
		encodeTime(time.Now()), string(shift.ID), string(shift.OrgID))
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return compliance.ErrShiftNotFound
	}
	return nil
}

// GetShift loads one shift by ID.
func (s *Store) GetShift(ctx context.Context, id compliance.ShiftID) (compliance.Shift, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, user_id, start_at, end_at, break_minutes, status, location_id
		FROM shifts WHERE id = ?`, string(id))
	shift, err := scanShift(row)
	if err == sql.ErrNoRows {
		return compliance.Shift{}, compliance.ErrShiftNotFound
	}
	return shift, err
}

// DeleteShift removes a shift.
func (s *Store) DeleteShift(ctx context.Context, id compliance.ShiftID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return compliance.ErrShiftNotFound
	}
	return nil
}

// =============================================================================
// COMPLIANCE READ INTERFACE
// =============================================================================

// ListForUserInRange returns the user's shifts overlapping [from, to),
// ordered by start time.
func (s *Store) ListForUserInRange(ctx context.Context, orgID compliance.OrgID, userID compliance.UserID, from, to time.Time) ([]compliance.Shift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, user_id, start_at, end_at, break_minutes, status, location_id
		FROM shifts
		WHERE org_id = ? AND user_id = ? AND start_at < ? AND end_at > ?
		ORDER BY start_at ASC, id ASC`,
		string(orgID), string(userID), encodeTime(to), encodeTime(from))
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()
	return scanShifts(rows)
}

// ListOverlapping returns the user's shifts sharing any instant with the
// closed interval [startAt, endAt], excluding excludeID. Exact boundary
// touch counts.
func (s *Store) ListOverlapping(ctx context.Context, orgID compliance.OrgID, userID compliance.UserID, startAt, endAt time.Time, excludeID compliance.ShiftID) ([]compliance.Shift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, user_id, start_at, end_at, break_minutes, status, location_id
		FROM shifts
		WHERE org_id = ? AND user_id = ? AND start_at <= ? AND end_at >= ? AND id != ?
		ORDER BY start_at ASC, id ASC`,
		string(orgID), string(userID), encodeTime(endAt), encodeTime(startAt), string(excludeID))
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping shifts: %w", err)
	}
	defer rows.Close()
	return scanShifts(rows)
}

// ListDraftsInRange returns every draft shift for the organization
// overlapping [from, to), across all users.
func (s *Store) ListDraftsInRange(ctx context.Context, orgID compliance.OrgID, from, to time.Time) ([]compliance.Shift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, user_id, start_at, end_at, break_minutes, status, location_id
		FROM shifts
		WHERE org_id = ? AND status = ? AND start_at < ? AND end_at > ?
		ORDER BY start_at ASC, id ASC`,
		string(orgID), string(compliance.StatusDraft), encodeTime(to), encodeTime(from))
	if err != nil {
		return nil, fmt.Errorf("failed to query draft shifts: %w", err)
	}
	defer rows.Close()
	return scanShifts(rows)
}

// PublishDrafts flips every draft overlapping [from, to) to published
// and returns how many changed. Runs in one statement; the roster sweep
// must have passed first.
func (s *Store) PublishDrafts(ctx context.Context, orgID compliance.OrgID, from, to time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET status = ?, updated_at = ?
		WHERE org_id = ? AND status = ? AND start_at < ? AND end_at > ?`,
		string(compliance.StatusPublished), encodeTime(time.Now()),
		string(orgID), string(compliance.StatusDraft), encodeTime(to), encodeTime(from))
	if err != nil {
		return 0, fmt.Errorf("failed to publish drafts: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// =============================================================================
// ORGANIZATION SETTINGS
// =============================================================================

// MaxDailyHours returns the organization's daily-hour ceiling override,
// nil when the organization has no custom policy.
func (s *Store) MaxDailyHours(ctx context.Context, orgID compliance.OrgID) (*decimal.Decimal, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT max_daily_hours FROM org_settings WHERE org_id = ?`, string(orgID)).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query org settings: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	hours, err := decimal.NewFromString(raw.String)
	if err != nil {
		return nil, fmt.Errorf("corrupt max_daily_hours for org %s: %w", orgID, err)
	}
	return &hours, nil
}

// SetMaxDailyHours stores or clears (nil) the organization's override.
func (s *Store) SetMaxDailyHours(ctx context.Context, orgID compliance.OrgID, hours *decimal.Decimal) error {
	var raw any
	if hours != nil {
		raw = hours.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO org_settings (org_id, max_daily_hours, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(org_id) DO UPDATE SET max_daily_hours = excluded.max_daily_hours, updated_at = excluded.updated_at`,
		string(orgID), raw, encodeTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to upsert org settings: %w", err)
	}
	return nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (compliance.Shift, error) {
	var (
		shift                      compliance.Shift
		id, org, user, status, loc string
		startRaw, endRaw           string
	)
	if err := row.Scan(&id, &org, &user, &startRaw, &endRaw, &shift.BreakMinutes, &status, &loc); err != nil {
		return compliance.Shift{}, err
	}
	startAt, err := decodeTime(startRaw)
	if err != nil {
		return compliance.Shift{}, fmt.Errorf("corrupt start_at for shift %s: %w", id, err)
	}
	endAt, err := decodeTime(endRaw)
	if err != nil {
		return compliance.Shift{}, fmt.Errorf("corrupt end_at for shift %s: %w", id, err)
	}
	shift.ID = compliance.ShiftID(id)
	shift.OrgID = compliance.OrgID(org)
	shift.UserID = compliance.UserID(user)
	shift.StartAt = startAt
	shift.EndAt = endAt
	shift.Status = compliance.ShiftStatus(status)
	shift.LocationID = compliance.LocationID(loc)
	return shift, nil
}

func scanShifts(rows *sql.Rows) ([]compliance.Shift, error) {
	var result []compliance.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, shift)
	}
	return result, rows.Err()
}
