// Package store provides in-memory implementations of the compliance
// store interfaces, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/compliance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	shifts   map[compliance.ShiftID]compliance.Shift
	settings map[compliance.OrgID]*decimal.Decimal
}

func NewMemory() *Memory {
	return &Memory{
		shifts:   make(map[compliance.ShiftID]compliance.Shift),
		settings: make(map[compliance.OrgID]*decimal.Decimal),
	}
}

// CreateShift inserts a shift, assigning an ID when the caller left it
// empty.
func (m *Memory) CreateShift(_ context.Context, shift *compliance.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift.ID == "" {
		shift.ID = compliance.ShiftID(uuid.NewString())
	}
	m.shifts[shift.ID] = *shift
	return nil
}

// UpdateShift replaces an existing shift.
func (m *Memory) UpdateShift(_ context.Context, shift compliance.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[shift.ID]; !ok {
		return compliance.ErrShiftNotFound
	}
	m.shifts[shift.ID] = shift
	return nil
}

func (m *Memory) GetShift(_ context.Context, id compliance.ShiftID) (compliance.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shift, ok := m.shifts[id]
	if !ok {
		return compliance.Shift{}, compliance.ErrShiftNotFound
	}
	return shift, nil
}

func (m *Memory) DeleteShift(_ context.Context, id compliance.ShiftID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[id]; !ok {
		return compliance.ErrShiftNotFound
	}
	delete(m.shifts, id)
	return nil
}

// =============================================================================
// SHIFT STORE INTERFACE
// =============================================================================

// ListForUserInRange returns the user's shifts overlapping [from, to),
// ordered by start time.
func (m *Memory) ListForUserInRange(_ context.Context, orgID compliance.OrgID, userID compliance.UserID, from, to time.Time) ([]compliance.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []compliance.Shift
	for _, s := range m.shifts {
		if s.OrgID != orgID || s.UserID != userID {
			continue
		}
		if s.StartAt.Before(to) && s.EndAt.After(from) {
			result = append(result, s)
		}
	}
	sortByStart(result)
	return result, nil
}

// ListOverlapping returns the user's shifts sharing any instant with the
// closed interval [startAt, endAt], excluding excludeID.
func (m *Memory) ListOverlapping(_ context.Context, orgID compliance.OrgID, userID compliance.UserID, startAt, endAt time.Time, excludeID compliance.ShiftID) ([]compliance.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []compliance.Shift
	for _, s := range m.shifts {
		if s.OrgID != orgID || s.UserID != userID {
			continue
		}
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		// Boundary-inclusive: exact touch is an overlap.
		if !s.StartAt.After(endAt) && !s.EndAt.Before(startAt) {
			result = append(result, s)
		}
	}
	sortByStart(result)
	return result, nil
}

// ListDraftsInRange returns every draft shift for the organization
// overlapping [from, to), across all users.
func (m *Memory) ListDraftsInRange(_ context.Context, orgID compliance.OrgID, from, to time.Time) ([]compliance.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []compliance.Shift
	for _, s := range m.shifts {
		if s.OrgID != orgID || s.Status != compliance.StatusDraft {
			continue
		}
		if s.StartAt.Before(to) && s.EndAt.After(from) {
			result = append(result, s)
		}
	}
	sortByStart(result)
	return result, nil
}

// PublishDrafts flips every draft in [from, to) to published and
// returns how many changed. The caller must have run the roster sweep
// first; this store does not re-validate.
func (m *Memory) PublishDrafts(_ context.Context, orgID compliance.OrgID, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for id, s := range m.shifts {
		if s.OrgID != orgID || s.Status != compliance.StatusDraft {
			continue
		}
		if s.StartAt.Before(to) && s.EndAt.After(from) {
			s.Status = compliance.StatusPublished
			m.shifts[id] = s
			count++
		}
	}
	return count, nil
}

// =============================================================================
// SETTINGS STORE INTERFACE
// =============================================================================

// MaxDailyHours returns the organization's override, nil when none.
func (m *Memory) MaxDailyHours(_ context.Context, orgID compliance.OrgID) (*decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	override, ok := m.settings[orgID]
	if !ok || override == nil {
		return nil, nil
	}
	v := *override
	return &v, nil
}

// SetMaxDailyHours stores or clears (nil) the organization's override.
func (m *Memory) SetMaxDailyHours(_ context.Context, orgID compliance.OrgID, hours *decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hours == nil {
		delete(m.settings, orgID)
		return nil
	}
	v := *hours
	m.settings[orgID] = &v
	return nil
}

func sortByStart(shifts []compliance.Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].StartAt.Equal(shifts[j].StartAt) {
			return shifts[i].ID < shifts[j].ID
		}
		return shifts[i].StartAt.Before(shifts[j].StartAt)
	})
}
