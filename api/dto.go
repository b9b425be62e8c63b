/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  compliance domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEVERITY NOTE:
  Issue DTOs carry the fine-grained severity (low/medium/high/critical)
  plus its coarse class (warning/error) so clients on either vocabulary
  can consume one payload without re-mapping.

SEE ALSO:
  - handlers.go: Uses these types
  - compliance/issue.go: Domain-side contract
*/
package api

import (
	"time"

	"github.com/warp/roster-engine/compliance"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ShiftDTO represents a shift in API requests and responses.
type ShiftDTO struct {
	ID           string `json:"id,omitempty"`
	OrgID        string `json:"org_id"`
	UserID       string `json:"user_id,omitempty"`
	StartAt      string `json:"start_at"` // RFC3339
	EndAt        string `json:"end_at"`   // RFC3339
	BreakMinutes int    `json:"break_minutes,omitempty"`
	Status       string `json:"status,omitempty"`
	LocationID   string `json:"location_id,omitempty"`
}

// ValidateShiftRequest asks for validation of a proposed or updated
// shift. ExcludeID identifies the shift being edited, if any.
type ValidateShiftRequest struct {
	Shift     ShiftDTO `json:"shift"`
	ExcludeID string   `json:"exclude_id,omitempty"`
}

// IssueDTO represents one validation issue.
type IssueDTO struct {
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Class    string `json:"class"`
	Statute  string `json:"statute,omitempty"`
}

// ResultDTO is the aggregated validation outcome.
type ResultDTO struct {
	Valid      bool       `json:"valid"`
	Violations []IssueDTO `json:"violations"`
	Warnings   []IssueDTO `json:"warnings"`
}

// TimeEntryDTO represents a clock record. A missing end_at means the
// user is still clocked in.
type TimeEntryDTO struct {
	ID           string `json:"id"`
	StartAt      string `json:"start_at"`
	EndAt        string `json:"end_at,omitempty"`
	BreakMinutes int    `json:"break_minutes,omitempty"`
}

// ClockOutCheckRequest carries the full week's entries for the user
// plus the break minutes tied to the entry being closed.
type ClockOutCheckRequest struct {
	Entries      []TimeEntryDTO `json:"entries"`
	ClosingID    string         `json:"closing_id"`
	BreakMinutes int            `json:"break_minutes,omitempty"`
}

// ClockOutCheckDTO is one per-rule outcome of the clock-out cross-check.
type ClockOutCheckDTO struct {
	Rule     string `json:"rule"`
	Passed   bool   `json:"passed"`
	Severity string `json:"severity,omitempty"` // warning/error; empty when passed
	Statute  string `json:"statute,omitempty"`
	Message  string `json:"message"`
}

// RosterWeekRequest identifies an organization's week. WeekOf may be
// any instant inside the week; the server snaps it to Monday.
type RosterWeekRequest struct {
	OrgID  string `json:"org_id"`
	WeekOf string `json:"week_of"` // RFC3339 or date
}

// PublishResultDTO reports the outcome of a publish attempt.
type PublishResultDTO struct {
	Result    ResultDTO `json:"result"`
	Published int       `json:"published"`
}

// WeeklySummaryDTO is the read-only weekly aggregate.
type WeeklySummaryDTO struct {
	UserID        string  `json:"user_id"`
	WeekStart     string  `json:"week_start"`
	TotalNetHours float64 `json:"total_net_hours"`
	ShiftCount    int     `json:"shift_count"`
}

// OrgSettingsDTO carries the per-organization override. A null
// max_daily_hours clears the override.
type OrgSettingsDTO struct {
	OrgID         string   `json:"org_id"`
	MaxDailyHours *float64 `json:"max_daily_hours"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toIssueDTO(issue compliance.Issue) IssueDTO {
	return IssueDTO{
		Rule:     string(issue.Rule),
		Message:  issue.Message,
		Severity: string(issue.Severity),
		Class:    string(issue.Severity.Class()),
		Statute:  issue.Statute,
	}
}

func toResultDTO(result compliance.Result) ResultDTO {
	dto := ResultDTO{
		Valid:      result.Valid(),
		Violations: make([]IssueDTO, len(result.Violations)),
		Warnings:   make([]IssueDTO, len(result.Warnings)),
	}
	for i, issue := range result.Violations {
		dto.Violations[i] = toIssueDTO(issue)
	}
	for i, issue := range result.Warnings {
		dto.Warnings[i] = toIssueDTO(issue)
	}
	return dto
}

func toCheckDTOs(checks []compliance.ClockOutCheck) []ClockOutCheckDTO {
	dtos := make([]ClockOutCheckDTO, len(checks))
	for i, c := range checks {
		dtos[i] = ClockOutCheckDTO{
			Rule:     string(c.Rule),
			Passed:   c.Passed,
			Severity: string(c.Severity),
			Statute:  c.Statute,
			Message:  c.Message,
		}
	}
	return dtos
}

func toShiftDTO(shift compliance.Shift) ShiftDTO {
	return ShiftDTO{
		ID:           string(shift.ID),
		OrgID:        string(shift.OrgID),
		UserID:       string(shift.UserID),
		StartAt:      shift.StartAt.Format(time.RFC3339),
		EndAt:        shift.EndAt.Format(time.RFC3339),
		BreakMinutes: shift.BreakMinutes,
		Status:       string(shift.Status),
		LocationID:   string(shift.LocationID),
	}
}

// fromShiftDTO parses and shape-checks a shift payload. This is the
// caller-side structural validation the engine does not repeat.
func fromShiftDTO(dto ShiftDTO) (compliance.Shift, error) {
	startAt, err := time.Parse(time.RFC3339, dto.StartAt)
	if err != nil {
		return compliance.Shift{}, err
	}
	endAt, err := time.Parse(time.RFC3339, dto.EndAt)
	if err != nil {
		return compliance.Shift{}, err
	}
	if !endAt.After(startAt) || dto.BreakMinutes < 0 {
		return compliance.Shift{}, compliance.ErrInvalidShift
	}
	if float64(dto.BreakMinutes) >= endAt.Sub(startAt).Minutes() {
		return compliance.Shift{}, compliance.ErrInvalidShift
	}

	status := compliance.ShiftStatus(dto.Status)
	if status == "" {
		status = compliance.StatusDraft
	}
	return compliance.Shift{
		ID:           compliance.ShiftID(dto.ID),
		OrgID:        compliance.OrgID(dto.OrgID),
		UserID:       compliance.UserID(dto.UserID),
		StartAt:      startAt,
		EndAt:        endAt,
		BreakMinutes: dto.BreakMinutes,
		Status:       status,
		LocationID:   compliance.LocationID(dto.LocationID),
	}, nil
}

func fromTimeEntryDTO(dto TimeEntryDTO) (compliance.TimeEntry, error) {
	startAt, err := time.Parse(time.RFC3339, dto.StartAt)
	if err != nil {
		return compliance.TimeEntry{}, err
	}
	entry := compliance.TimeEntry{
		ID:           compliance.ShiftID(dto.ID),
		StartAt:      startAt,
		BreakMinutes: dto.BreakMinutes,
	}
	if dto.EndAt != "" {
		endAt, err := time.Parse(time.RFC3339, dto.EndAt)
		if err != nil {
			return compliance.TimeEntry{}, err
		}
		entry.EndAt = endAt
	}
	return entry, nil
}
