/*
handlers.go - HTTP API handlers for the compliance engine

PURPOSE:
  Exposes the validation engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates every decision to the engine; the
  handlers never mutate a shift to make it compliant.

ENDPOINTS:
  Validation:
    POST /api/shifts/validate        Validate a proposed/updated shift
    POST /api/clockout/check         Bidirectional rest cross-check
    POST /api/rosters/validate       Roster sweep for a week
    POST /api/rosters/publish        Sweep, then draft->published iff clean

  Shifts:
    POST /api/shifts                 Create (validates first; 422 on violations)
    GET  /api/shifts/{id}            Get
    PUT  /api/shifts/{id}            Update (validates first; 422 on violations)

  Summary & settings:
    GET  /api/users/{id}/weekly-summary
    GET  /api/organizations/{id}/settings
    PUT  /api/organizations/{id}/settings

ERROR HANDLING:
  - 400: Malformed payloads, structural shift problems
  - 404: Unknown shift or closing entry
  - 409: Publish attempted against a week with violations
  - 422: Create/update blocked by validation violations
  - 500: Store failures (hard checks fail closed)

SECURITY NOTE:
  No authentication middleware here; routing and auth are external
  collaborators of the engine.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/compliance"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence surface the API needs: the engine's read
// interfaces plus shift CRUD and the publish transition.
type Store interface {
	compliance.ShiftStore
	compliance.SettingsStore

	CreateShift(ctx context.Context, shift *compliance.Shift) error
	UpdateShift(ctx context.Context, shift compliance.Shift) error
	GetShift(ctx context.Context, id compliance.ShiftID) (compliance.Shift, error)
	PublishDrafts(ctx context.Context, orgID compliance.OrgID, from, to time.Time) (int, error)
	SetMaxDailyHours(ctx context.Context, orgID compliance.OrgID, hours *decimal.Decimal) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  Store
	Engine *compliance.Engine
}

// NewHandler creates a new handler with the given store.
func NewHandler(store Store) *Handler {
	return &Handler{Store: store, Engine: compliance.NewEngine(store, store)}
}

// =============================================================================
// VALIDATION ENDPOINTS
// =============================================================================

// ValidateShift validates a proposed or updated shift without saving.
func (h *Handler) ValidateShift(w http.ResponseWriter, r *http.Request) {
	var req ValidateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shift, err := fromShiftDTO(req.Shift)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	result, err := h.Engine.ValidateShiftAssignment(r.Context(), shift.OrgID, shift.UserID, shift, compliance.ShiftID(req.ExcludeID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Validation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// ClockOutCheck runs the bidirectional rest/clock-out cross-check.
func (h *Handler) ClockOutCheck(w http.ResponseWriter, r *http.Request) {
	var req ClockOutCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entries := make([]compliance.TimeEntry, len(req.Entries))
	for i, dto := range req.Entries {
		entry, err := fromTimeEntryDTO(dto)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid time entry", err)
			return
		}
		entries[i] = entry
	}

	checks, err := h.Engine.CheckClockOut(entries, compliance.ShiftID(req.ClosingID), req.BreakMinutes)
	if err != nil {
		if errors.Is(err, compliance.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "Closing entry not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Clock-out check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckDTOs(checks))
}

// ValidateRoster runs the roster-wide sweep for a week.
func (h *Handler) ValidateRoster(w http.ResponseWriter, r *http.Request) {
	result, _, ok := h.runSweep(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// PublishRoster runs the sweep, then flips the week's drafts to
// published only when the sweep returned zero violations. Warnings
// never block.
func (h *Handler) PublishRoster(w http.ResponseWriter, r *http.Request) {
	result, week, ok := h.runSweep(w, r)
	if !ok {
		return
	}
	if !result.Valid() {
		writeJSON(w, http.StatusConflict, PublishResultDTO{Result: toResultDTO(result)})
		return
	}

	published, err := h.Store.PublishDrafts(r.Context(), week.org, week.start, week.start.AddDate(0, 0, 7))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to publish roster", err)
		return
	}
	writeJSON(w, http.StatusOK, PublishResultDTO{Result: toResultDTO(result), Published: published})
}

type sweepWeek struct {
	org   compliance.OrgID
	start time.Time
}

// runSweep parses the week request and executes the sweep, writing the
// HTTP error itself when something fails.
func (h *Handler) runSweep(w http.ResponseWriter, r *http.Request) (compliance.Result, sweepWeek, bool) {
	var req RosterWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return compliance.Result{}, sweepWeek{}, false
	}
	weekOf, err := parseWeekOf(req.WeekOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_of", err)
		return compliance.Result{}, sweepWeek{}, false
	}

	orgID := compliance.OrgID(req.OrgID)
	weekStart := compliance.WeekStart(weekOf)
	weekEnd := compliance.WeekEnd(weekOf)

	result, err := h.Engine.ValidateRosterForPublish(r.Context(), orgID, weekStart, weekEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Roster sweep failed", err)
		return compliance.Result{}, sweepWeek{}, false
	}
	return result, sweepWeek{org: orgID, start: weekStart}, true
}

// =============================================================================
// SHIFT CRUD
// =============================================================================

// CreateShift validates and then persists a new shift. Violations block
// with 422; warnings are returned but do not block.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var dto ShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	shift, err := fromShiftDTO(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	result, err := h.Engine.ValidateShiftAssignment(r.Context(), shift.OrgID, shift.UserID, shift, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Validation failed", err)
		return
	}
	if !result.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, toResultDTO(result))
		return
	}

	if err := h.Store.CreateShift(r.Context(), &shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Shift  ShiftDTO  `json:"shift"`
		Result ResultDTO `json:"result"`
	}{toShiftDTO(shift), toResultDTO(result)})
}

// GetShift returns a single shift.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id := compliance.ShiftID(chi.URLParam(r, "id"))
	shift, err := h.Store.GetShift(r.Context(), id)
	if err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Shift not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(shift))
}

// UpdateShift validates and persists changed time bounds or assignment.
// The shift being edited is excluded from its own validation so it
// never self-conflicts.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := compliance.ShiftID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetShift(r.Context(), id); err != nil {
		if compliance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Shift not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get shift", err)
		return
	}

	var dto ShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	dto.ID = string(id)
	shift, err := fromShiftDTO(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	result, err := h.Engine.ValidateShiftAssignment(r.Context(), shift.OrgID, shift.UserID, shift, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Validation failed", err)
		return
	}
	if !result.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, toResultDTO(result))
		return
	}

	if err := h.Store.UpdateShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update shift", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Shift  ShiftDTO  `json:"shift"`
		Result ResultDTO `json:"result"`
	}{toShiftDTO(shift), toResultDTO(result)})
}

// =============================================================================
// SUMMARY & SETTINGS
// =============================================================================

// GetWeeklySummary returns the user's weekly display aggregate.
func (h *Handler) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	userID := compliance.UserID(chi.URLParam(r, "id"))
	orgID := compliance.OrgID(r.URL.Query().Get("org_id"))
	weekOf, err := parseWeekOf(r.URL.Query().Get("week_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_of", err)
		return
	}

	summary, err := h.Engine.WeeklySummary(r.Context(), orgID, userID, weekOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}
	total, _ := summary.TotalNetHours.Float64()
	writeJSON(w, http.StatusOK, WeeklySummaryDTO{
		UserID:        string(summary.UserID),
		WeekStart:     summary.WeekStart.Format("2006-01-02"),
		TotalNetHours: total,
		ShiftCount:    summary.ShiftCount,
	})
}

// GetOrgSettings returns the organization's override, null when none.
func (h *Handler) GetOrgSettings(w http.ResponseWriter, r *http.Request) {
	orgID := compliance.OrgID(chi.URLParam(r, "id"))
	override, err := h.Store.MaxDailyHours(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	dto := OrgSettingsDTO{OrgID: string(orgID)}
	if override != nil {
		v, _ := override.Float64()
		dto.MaxDailyHours = &v
	}
	writeJSON(w, http.StatusOK, dto)
}

// PutOrgSettings stores or clears the organization's daily ceiling.
func (h *Handler) PutOrgSettings(w http.ResponseWriter, r *http.Request) {
	orgID := compliance.OrgID(chi.URLParam(r, "id"))
	var dto OrgSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var hours *decimal.Decimal
	if dto.MaxDailyHours != nil {
		if *dto.MaxDailyHours <= 0 {
			writeError(w, http.StatusBadRequest, "max_daily_hours must be positive", nil)
			return
		}
		v := decimal.NewFromFloat(*dto.MaxDailyHours)
		hours = &v
	}

	if err := h.Store.SetMaxDailyHours(r.Context(), orgID, hours); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	dto.OrgID = string(orgID)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

// parseWeekOf accepts an RFC3339 timestamp or a plain date.
func parseWeekOf(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
