package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse/attendance-engine/attendance"
)

func leaveRecord(id int64, name, date, leaveType string, sent bool) LeaveRecord {
	return LeaveRecord{
		ID:           id,
		EmployeeName: name,
		Date:         attendance.TextDay(date),
		LeaveType:    leaveType,
		Note:         "note",
		MailSent:     sent,
	}
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestKindOfLeaveType(t *testing.T) {
	assert.Equal(t, KindLeave, KindOfLeaveType("Nghỉ phép sáng"))
	assert.Equal(t, KindLeave, KindOfLeaveType("Nghỉ phép cả ngày"))
	assert.Equal(t, KindBusinessTrip, KindOfLeaveType("Công tác chiều"))
	assert.Equal(t, KindUnknown, KindOfLeaveType("something else"))
}

func TestClassifyLeave(t *testing.T) {
	// GIVEN: A mix of sent, past, upcoming leave and trip registrations
	// WHEN: Classifying against today
	// THEN: Sent ones are excluded, past ones go to the auto-mark set,
	//       the rest split by kind in date order

	cfg := attendance.DefaultConfig()
	today := attendance.NewDay(cfg, 2025, time.July, 10)

	records := []LeaveRecord{
		leaveRecord(1, "Alice", "2025-07-15", "Nghỉ phép sáng", false),
		leaveRecord(2, "Bob", "2025-07-01", "Nghỉ phép cả ngày", false), // past
		leaveRecord(3, "Carol", "2025-07-12", "Công tác sáng", false),
		leaveRecord(4, "Dan", "2025-07-11", "Nghỉ phép chiều", true), // already sent
		leaveRecord(5, "Eve", "2025-07-10", "Nghỉ phép sáng", false), // today counts as upcoming
	}

	batch := ClassifyLeave(cfg, records, today, nil)

	require.Len(t, batch.Leaves, 2)
	assert.Equal(t, "Eve", batch.Leaves[0].EmployeeName) // date ascending
	assert.Equal(t, "Alice", batch.Leaves[1].EmployeeName)

	require.Len(t, batch.Trips, 1)
	assert.Equal(t, "Carol", batch.Trips[0].EmployeeName)

	require.Len(t, batch.Past, 1)
	assert.Equal(t, int64(2), batch.Past[0].ID)

	assert.False(t, batch.Empty())
}

func TestClassifyLeave_DropsBadDates(t *testing.T) {
	cfg := attendance.DefaultConfig()
	today := attendance.NewDay(cfg, 2025, time.July, 10)

	var dropped int
	batch := ClassifyLeave(cfg, []LeaveRecord{
		leaveRecord(1, "Alice", "garbage", "Nghỉ phép sáng", false),
	}, today, func(error) { dropped++ })

	assert.True(t, batch.Empty())
	assert.Equal(t, 1, dropped)
}

// =============================================================================
// PIPELINE TESTS
// =============================================================================

type fakeLeaveStore struct {
	records []LeaveRecord
	marked  [][]int64
	markErr error
}

func (s *fakeLeaveStore) LoadLeave(context.Context) ([]LeaveRecord, error) {
	return s.records, nil
}

func (s *fakeLeaveStore) MarkMailSent(_ context.Context, ids []int64) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, ids)
	return nil
}

type fakeNotifier struct {
	sent     int
	subject  string
	body     string
	sendErr  error
	lastRcpt []string
}

func (n *fakeNotifier) Send(_ context.Context, recipients []string, subject, htmlBody string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent++
	n.lastRcpt = recipients
	n.subject = subject
	n.body = htmlBody
	return nil
}

func TestLeaveNotifier_MarksOnlyAfterSend(t *testing.T) {
	cfg := attendance.DefaultConfig()
	future := attendance.Today(cfg).AddDays(3)

	store := &fakeLeaveStore{records: []LeaveRecord{
		{ID: 7, EmployeeName: "Alice", Date: attendance.NativeDay(future.Time()), LeaveType: "Nghỉ phép sáng", Note: "n"},
	}}
	mailer := &fakeNotifier{}

	n := NewLeaveNotifier(cfg, store, mailer, []string{"team@example.com"}, testLogger())
	require.NoError(t, n.Run(context.Background()))

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, LeaveSubject, mailer.subject)
	assert.Contains(t, mailer.body, "Alice")
	require.Len(t, store.marked, 1)
	assert.Equal(t, []int64{7}, store.marked[0])
}

func TestLeaveNotifier_SendFailureLeavesUnmarked(t *testing.T) {
	cfg := attendance.DefaultConfig()
	future := attendance.Today(cfg).AddDays(3)

	store := &fakeLeaveStore{records: []LeaveRecord{
		{ID: 7, EmployeeName: "Alice", Date: attendance.NativeDay(future.Time()), LeaveType: "Nghỉ phép sáng"},
	}}
	mailer := &fakeNotifier{sendErr: assert.AnError}

	n := NewLeaveNotifier(cfg, store, mailer, []string{"team@example.com"}, testLogger())
	require.Error(t, n.Run(context.Background()))
	assert.Empty(t, store.marked, "a failed send must not mark anything")
}

func TestLeaveNotifier_PastAutoMarkedWithoutMail(t *testing.T) {
	cfg := attendance.DefaultConfig()
	past := attendance.Today(cfg).AddDays(-5)

	store := &fakeLeaveStore{records: []LeaveRecord{
		{ID: 3, EmployeeName: "Bob", Date: attendance.NativeDay(past.Time()), LeaveType: "Nghỉ phép sáng"},
	}}
	mailer := &fakeNotifier{}

	n := NewLeaveNotifier(cfg, store, mailer, []string{"team@example.com"}, testLogger())
	require.NoError(t, n.Run(context.Background()))

	assert.Zero(t, mailer.sent, "past registrations never trigger mail")
	require.Len(t, store.marked, 1)
	assert.Equal(t, []int64{3}, store.marked[0])
}

// =============================================================================
// RENDER TESTS
// =============================================================================

func TestRenderLeaveHTML_GroupsByMonthAndDate(t *testing.T) {
	cfg := attendance.DefaultConfig()
	batch := LeaveBatch{
		Leaves: []LeaveRecord{
			leaveRecord(1, "Bob", "2025-07-15", "Nghỉ phép sáng", false),
			leaveRecord(2, "Alice", "2025-07-15", "Nghỉ phép chiều", false),
			leaveRecord(3, "Carol", "2025-08-02", "Nghỉ phép cả ngày", false),
		},
	}

	html, err := RenderLeaveHTML(cfg, batch)
	require.NoError(t, err)

	assert.Contains(t, html, "Tháng 07/2025")
	assert.Contains(t, html, "Tháng 08/2025")
	assert.Contains(t, html, "15/07/2025 (2)")
	assert.Contains(t, html, "02/08/2025 (1)")
	// Alphabetical within the date.
	assert.Less(t, strings.Index(html, "Alice"), strings.Index(html, "Bob"))
}
