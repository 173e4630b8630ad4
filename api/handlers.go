/*
handlers.go - HTTP API handlers for the attendance reporting system

PURPOSE:
  Exposes the reporting engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Reports:
    GET    /api/reports/daily        Assemble today's (or ?date=) daily summary
    GET    /api/reports/weekly       Assemble the weekly dashboard for ?date=
    POST   /api/reports/send         Generate and mail the report for a date
    POST   /api/reports/yesterday    Generate and mail yesterday's report
    POST   /api/reports/last-sunday  Generate and mail the latest weekly dashboard

  Leave:
    POST   /api/leave/notify         Run the leave notification pass

  Data:
    GET    /api/employees            List every known employee
    GET    /api/sources              List ingested source identifiers
    POST   /api/records              Append raw check-in rows

  Admin:
    POST   /api/admin/reset          Clear the check-in log

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (index build, report assembly, runner)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Unparseable date input, invalid request body
  - 404: Unknown data source, no data for the requested date
  - 502: Mail transport failure after retries
  - 500: Internal errors

  The GET preview endpoints never send mail; the POST trigger endpoints
  send exactly what the preview would show.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - report/runner.go: the run orchestration behind the POST triggers
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/notify"
	"github.com/pulse/attendance-engine/report"
	"github.com/pulse/attendance-engine/source/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Cfg    attendance.Config
	Store  *sqlite.Store
	Runner *report.Runner
	Leave  *report.LeaveNotifier

	// SourceID scopes preview queries; empty means the whole log.
	SourceID string
}

// NewHandler creates a new handler with the given collaborators.
func NewHandler(cfg attendance.Config, store *sqlite.Store, runner *report.Runner, leave *report.LeaveNotifier, sourceID string) *Handler {
	return &Handler{
		Cfg:      cfg,
		Store:    store,
		Runner:   runner,
		Leave:    leave,
		SourceID: sourceID,
	}
}

// buildIndex loads the scoped log and indexes it.
func (h *Handler) buildIndex(r *http.Request) (*attendance.Index, error) {
	records, err := h.Store.LoadAttendance(r.Context(), h.SourceID)
	if err != nil {
		return nil, err
	}
	return attendance.BuildIndex(h.Cfg, records, nil), nil
}

// =============================================================================
// REPORT PREVIEW HANDLERS
// =============================================================================

// GetDailyReport assembles the daily summary without sending it.
func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	dateInput := r.URL.Query().Get("date")
	day, err := attendance.ParseTargetDate(h.Cfg, dateInput)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}

	ix, err := h.buildIndex(r)
	if err != nil {
		writeDomainError(w, "Failed to load attendance", err)
		return
	}

	daily, err := report.BuildDaily(ix, day, dateInput != "")
	if err != nil {
		writeDomainError(w, "Failed to build daily report", err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyReportDTO(daily))
}

// GetWeeklyReport assembles the full-week dashboard for the week containing
// the requested date (today when omitted).
func (h *Handler) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	day, err := attendance.ParseTargetDate(h.Cfg, r.URL.Query().Get("date"))
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}

	ix, err := h.buildIndex(r)
	if err != nil {
		writeDomainError(w, "Failed to load attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, toWeeklyReportDTO(report.BuildWeekly(ix, day)))
}

// =============================================================================
// REPORT TRIGGER HANDLERS
// =============================================================================

// SendReport generates and mails the report for the requested date. An
// empty date means today; Sundays produce the weekly dashboard.
func (h *Handler) SendReport(w http.ResponseWriter, r *http.Request) {
	var req SendReportRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	result, err := h.Runner.Run(r.Context(), req.Date)
	if err != nil {
		writeDomainError(w, "Report run failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toSendResultDTO(result))
}

// SendYesterdayReport generates and mails the report for yesterday.
func (h *Handler) SendYesterdayReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.Runner.RunYesterday(r.Context())
	if err != nil {
		writeDomainError(w, "Report run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toSendResultDTO(result))
}

// SendLastSundayReport generates and mails the most recent weekly dashboard.
func (h *Handler) SendLastSundayReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.Runner.RunLastSunday(r.Context())
	if err != nil {
		writeDomainError(w, "Report run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toSendResultDTO(result))
}

func toSendResultDTO(result *report.RunResult) SendResultDTO {
	return SendResultDTO{
		Date:           result.Day.Key(),
		Weekly:         result.Weekly,
		Subject:        result.Subject,
		DroppedRecords: result.Dropped,
	}
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// NotifyLeave runs the leave notification pass: unsent registrations are
// mailed and marked, stale ones marked silently.
func (h *Handler) NotifyLeave(w http.ResponseWriter, r *http.Request) {
	if err := h.Leave.Run(r.Context()); err != nil {
		writeDomainError(w, "Leave notification failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// DATA HANDLERS
// =============================================================================

// ListEmployees returns every employee known to the check-in log.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ix, err := h.buildIndex(r)
	if err != nil {
		writeDomainError(w, "Failed to load attendance", err)
		return
	}

	employees := ix.Employees()
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListSources returns the distinct source identifiers present in the log.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.Store.Sources(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sources", err)
		return
	}
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, sources)
}

// IngestRecords appends raw check-in rows to the log.
func (h *Handler) IngestRecords(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SourceID == "" {
		writeError(w, http.StatusBadRequest, "source_id is required", nil)
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "At least one row is required", nil)
		return
	}

	rows := make([]sqlite.RecordRow, len(req.Rows))
	for i, row := range req.Rows {
		if row.EmployeeID == "" && row.EmployeeName == "" {
			writeError(w, http.StatusBadRequest, "Each row needs an employee id or name", nil)
			return
		}
		rows[i] = sqlite.RecordRow{
			SourceID:     req.SourceID,
			EmployeeID:   row.EmployeeID,
			EmployeeName: row.EmployeeName,
			Date:         row.Date,
			Check:        row.Check,
			LeaveType:    row.LeaveType,
			Note:         row.Note,
		}
	}

	if err := h.Store.AddRecords(r.Context(), rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to ingest records", err)
		return
	}

	writeJSON(w, http.StatusCreated, IngestResultDTO{Inserted: len(rows)})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

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

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, attendance.ErrInvalidDateInput):
		status = http.StatusBadRequest
	case errors.Is(err, attendance.ErrNoDataForDate),
		errors.Is(err, attendance.ErrSourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, notify.ErrTransport):
		status = http.StatusBadGateway
	}
	writeError(w, status, message, err)
}
