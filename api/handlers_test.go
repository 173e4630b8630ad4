package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/report"
	"github.com/pulse/attendance-engine/source/sqlite"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================

type sentMail struct {
	Recipients []string
	Subject    string
	Body       string
}

type fakeNotifier struct {
	sent []sentMail
	fail error
}

func (f *fakeNotifier) Send(_ context.Context, recipients []string, subject, body string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{Recipients: recipients, Subject: subject, Body: body})
	return nil
}

type fixture struct {
	store    *sqlite.Store
	notifier *fakeNotifier
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := attendance.DefaultConfig()
	notifier := &fakeNotifier{}
	log := zerolog.Nop()

	runner := report.NewRunner(cfg, store, notifier, "", []string{"team@example.com"}, log)
	leave := report.NewLeaveNotifier(cfg, store, notifier, []string{"team@example.com"}, log)

	h := NewHandler(cfg, store, runner, leave, "")
	return &fixture{store: store, notifier: notifier, router: NewRouter(h)}
}

func (f *fixture) seed(t *testing.T, rows []sqlite.RecordRow) {
	t.Helper()
	require.NoError(t, f.store.AddRecords(context.Background(), rows))
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// tuesdayRows covers Tue 2025-07-01: Alice reported, Bob did not.
func tuesdayRows() []sqlite.RecordRow {
	return []sqlite.RecordRow{
		{SourceID: "tick", EmployeeID: "e1", EmployeeName: "Alice", Date: "2025-07-01", Check: "X"},
		{SourceID: "tick", EmployeeID: "e2", EmployeeName: "Bob", Date: "2025-07-01", Check: ""},
	}
}

// =============================================================================
// REPORT PREVIEW TESTS
// =============================================================================

func TestGetDailyReport(t *testing.T) {
	// GIVEN: Alice reported on 7/1, Bob did not
	// WHEN: Previewing the daily report for that date
	// THEN: The summary splits them and no mail goes out

	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodGet, "/api/reports/daily?date=2025-07-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[DailyReportDTO](t, rec)
	assert.Equal(t, "7/1/2025", dto.Date)
	require.Len(t, dto.Reported, 1)
	assert.Equal(t, "Alice", dto.Reported[0].Employee.Name)
	require.Len(t, dto.NotReported, 1)
	assert.Equal(t, "Bob", dto.NotReported[0].Employee.Name)
	assert.Equal(t, 2, dto.TotalEmployees)
	assert.False(t, dto.PerfectDay)

	assert.Empty(t, f.notifier.sent, "preview must not send mail")
}

func TestGetDailyReport_BadDate(t *testing.T) {
	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodGet, "/api/reports/daily?date=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDailyReport_NoDataForDate(t *testing.T) {
	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodGet, "/api/reports/daily?date=2025-08-01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetWeeklyReport(t *testing.T) {
	// GIVEN: One reported day in the week of 6/30..7/5
	// WHEN: Previewing the weekly dashboard for the closing Sunday 7/6
	// THEN: Leaderboard ranks Alice above Bob, heatmap covers six days

	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodGet, "/api/reports/weekly?date=2025-07-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[WeeklyReportDTO](t, rec)
	require.Len(t, dto.Leaderboard, 2)
	assert.Equal(t, "Alice", dto.Leaderboard[0].Employee.Name)
	assert.Equal(t, 1, dto.Leaderboard[0].Rank)
	assert.Equal(t, "1st", dto.Leaderboard[0].Medal)
	assert.Equal(t, "Bob", dto.Leaderboard[1].Employee.Name)
	assert.Len(t, dto.Heatmap, 6)
}

// =============================================================================
// REPORT TRIGGER TESTS
// =============================================================================

func TestSendReport_Daily(t *testing.T) {
	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodPost, "/api/reports/send", SendReportRequest{Date: "2025-07-01"})
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[SendResultDTO](t, rec)
	assert.False(t, dto.Weekly)
	assert.Contains(t, dto.Subject, "7/1/2025")

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, []string{"team@example.com"}, f.notifier.sent[0].Recipients)
}

func TestSendReport_SundayIsWeekly(t *testing.T) {
	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodPost, "/api/reports/send", SendReportRequest{Date: "2025-07-06"})
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[SendResultDTO](t, rec)
	assert.True(t, dto.Weekly)
	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0].Subject, "THỐNG KÊ TUẦN")
}

func TestSendReport_NoMailOnFailure(t *testing.T) {
	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodPost, "/api/reports/send", SendReportRequest{Date: "2025-08-01"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.notifier.sent)
}

// =============================================================================
// LEAVE TESTS
// =============================================================================

func TestNotifyLeave(t *testing.T) {
	// GIVEN: One upcoming leave registration
	// WHEN: Triggering the leave pass
	// THEN: The notification is mailed and the row marked sent

	f := newFixture(t)
	future := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	f.seed(t, []sqlite.RecordRow{
		{SourceID: "tick", EmployeeName: "Alice", Date: future, LeaveType: "Nghỉ phép sáng"},
	})

	rec := f.do(t, http.MethodPost, "/api/leave/notify", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, report.LeaveSubject, f.notifier.sent[0].Subject)

	leaves, err := f.store.LoadLeave(context.Background())
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.True(t, leaves[0].MailSent)
}

// =============================================================================
// DATA ENDPOINT TESTS
// =============================================================================

func TestIngestAndListEmployees(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/records", IngestRequest{
		SourceID: "tick",
		Rows: []IngestRow{
			{EmployeeID: "e1", EmployeeName: "Alice", Date: "2025-07-01", Check: "X"},
			{EmployeeID: "e2", EmployeeName: "Bob", Date: "2025-07-01"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, decode[IngestResultDTO](t, rec).Inserted)

	rec = f.do(t, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	employees := decode[[]EmployeeDTO](t, rec)
	require.Len(t, employees, 2)
	assert.Equal(t, "Alice", employees[0].Name)
	assert.Equal(t, "Bob", employees[1].Name)
}

func TestIngest_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  IngestRequest
	}{
		{"missing source", IngestRequest{Rows: []IngestRow{{EmployeeName: "Alice", Date: "2025-07-01"}}}},
		{"no rows", IngestRequest{SourceID: "tick"}},
		{"identityless row", IngestRequest{SourceID: "tick", Rows: []IngestRow{{Date: "2025-07-01", Check: "X"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/records", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListSources(t *testing.T) {
	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodGet, "/api/sources", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tick"}, decode[[]string](t, rec))
}

func TestResetDatabase(t *testing.T) {
	f := newFixture(t)
	f.seed(t, tuesdayRows())

	rec := f.do(t, http.MethodPost, "/api/admin/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := f.store.CountRecords(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
