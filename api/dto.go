/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific formatting (decimal rates as strings, dates as keys)
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - report/report.go: the domain types these shapes are built from
*/
package api

import (
	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/report"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents a known employee.
type EmployeeDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// StarEntryDTO is one display row of the daily summary.
type StarEntryDTO struct {
	Employee EmployeeDTO `json:"employee"`
	Stars    int         `json:"stars"`
	Color    string      `json:"color"`
}

// DailyReportDTO is the assembled daily summary.
type DailyReportDTO struct {
	Date           string         `json:"date"`
	Reported       []StarEntryDTO `json:"reported"`
	NotReported    []StarEntryDTO `json:"not_reported"`
	TotalEmployees int            `json:"total_employees"`
	PerfectDay     bool           `json:"perfect_day"`
	Subject        string         `json:"subject"`
}

// LeaderboardEntryDTO is one line of the weekly ranking.
type LeaderboardEntryDTO struct {
	Employee       EmployeeDTO `json:"employee"`
	Rank           int         `json:"rank"`
	Medal          string      `json:"medal,omitempty"`
	TotalReports   int         `json:"total_reports"`
	CompletionRate string      `json:"completion_rate"`
	Streak         int         `json:"streak"`
	Trend          string      `json:"trend"`
	DailyReports   []bool      `json:"daily_reports"`
}

// HeatmapDayDTO is one cell of the per-day completion strip.
type HeatmapDayDTO struct {
	Date     string `json:"date"`
	Reported int    `json:"reported"`
	Total    int    `json:"total"`
	Rate     string `json:"rate"`
	Lowest   bool   `json:"lowest"`
	Perfect  bool   `json:"perfect"`
	Off      bool   `json:"off"`
}

// WeeklyReportDTO is the full-week dashboard.
type WeeklyReportDTO struct {
	Date        string                `json:"date"`
	Leaderboard []LeaderboardEntryDTO `json:"leaderboard"`
	Heatmap     []HeatmapDayDTO       `json:"heatmap"`
	Subject     string                `json:"subject"`
}

// SendResultDTO reports the outcome of a triggered report run.
type SendResultDTO struct {
	Date           string `json:"date"`
	Weekly         bool   `json:"weekly"`
	Subject        string `json:"subject"`
	DroppedRecords int    `json:"dropped_records"`
}

// IngestResultDTO acknowledges ingested rows.
type IngestResultDTO struct {
	Inserted int `json:"inserted"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SendReportRequest triggers a report run. An empty date means today; the
// engine decides daily vs weekly from the resolved day of week.
type SendReportRequest struct {
	Date string `json:"date"`
}

// IngestRequest appends raw observations to the check-in log.
type IngestRequest struct {
	SourceID string      `json:"source_id"`
	Rows     []IngestRow `json:"rows"`
}

// IngestRow is one raw observation.
type IngestRow struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	Check        string `json:"check"`
	LeaveType    string `json:"leave_type,omitempty"`
	Note         string `json:"note,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e attendance.Employee) EmployeeDTO {
	return EmployeeDTO{ID: e.ID, Name: e.Name}
}

func toStarEntryDTOs(entries []report.StarEntry) []StarEntryDTO {
	dtos := make([]StarEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = StarEntryDTO{
			Employee: toEmployeeDTO(e.Employee),
			Stars:    e.Stars,
			Color:    string(e.Color),
		}
	}
	return dtos
}

func toDailyReportDTO(r *report.DailyReport) DailyReportDTO {
	return DailyReportDTO{
		Date:           r.Day.Key(),
		Reported:       toStarEntryDTOs(r.Reported),
		NotReported:    toStarEntryDTOs(r.NotReported),
		TotalEmployees: r.TotalEmployees,
		PerfectDay:     r.PerfectDay,
		Subject:        r.Subject(),
	}
}

func toWeeklyReportDTO(r *report.WeeklyReport) WeeklyReportDTO {
	dto := WeeklyReportDTO{
		Date:        r.Day.Key(),
		Leaderboard: make([]LeaderboardEntryDTO, len(r.Leaderboard)),
		Heatmap:     make([]HeatmapDayDTO, len(r.Heatmap)),
		Subject:     r.Subject(),
	}
	for i, e := range r.Leaderboard {
		dto.Leaderboard[i] = LeaderboardEntryDTO{
			Employee:       toEmployeeDTO(e.Stats.Employee),
			Rank:           e.Rank,
			Medal:          string(e.Medal),
			TotalReports:   e.Stats.TotalReports,
			CompletionRate: e.Stats.CompletionRate.StringFixed(4),
			Streak:         e.Stats.Streak,
			Trend:          string(e.Stats.Trend),
			DailyReports:   e.Stats.DailyReports[:],
		}
	}
	for i, d := range r.Heatmap {
		dto.Heatmap[i] = HeatmapDayDTO{
			Date:     d.Day.Key(),
			Reported: d.Reported,
			Total:    d.Total,
			Rate:     d.Rate.StringFixed(4),
			Lowest:   d.Lowest,
			Perfect:  d.Perfect,
			Off:      d.Off,
		}
	}
	return dto
}
