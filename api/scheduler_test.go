package api

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/report"
	"github.com/pulse/attendance-engine/source/sqlite"
)

func newTestScheduler(t *testing.T) (*ReportScheduler, *fakeNotifier) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := attendance.DefaultConfig()
	notifier := &fakeNotifier{}
	log := zerolog.Nop()

	// Seed a check-in for today so the daily build has a bucket.
	today := attendance.Today(cfg)
	require.NoError(t, store.AddRecords(context.Background(), []sqlite.RecordRow{
		{SourceID: "tick", EmployeeID: "e1", EmployeeName: "Alice", Date: today.Key(), Check: "X"},
	}))

	runner := report.NewRunner(cfg, store, notifier, "", []string{"team@example.com"}, log)
	leave := report.NewLeaveNotifier(cfg, store, notifier, []string{"team@example.com"}, log)

	rs := NewReportScheduler(cfg, runner, leave, log)
	rs.SendHour = 0
	rs.SendMinute = 0
	return rs, notifier
}

func TestScheduler_SendsOncePerDay(t *testing.T) {
	// GIVEN: The send time has already passed today
	// WHEN: Two ticks fire
	// THEN: Exactly one report goes out

	rs, notifier := newTestScheduler(t)

	rs.RunNow()
	require.Len(t, notifier.sent, 1)

	rs.RunNow()
	assert.Len(t, notifier.sent, 1, "a second tick must not double-send")
}

func TestScheduler_WaitsForSendTime(t *testing.T) {
	rs, notifier := newTestScheduler(t)
	// Push the send time to the end of the day.
	rs.SendHour = 23
	rs.SendMinute = 59

	rs.RunNow()
	assert.Empty(t, notifier.sent)
}

func TestScheduler_StartStop(t *testing.T) {
	rs, _ := newTestScheduler(t)
	rs.SendHour = 23
	rs.SendMinute = 59
	rs.CheckInterval = 10 * time.Millisecond

	rs.Start()
	time.Sleep(30 * time.Millisecond)
	rs.Stop()
}

func TestScheduler_DisabledDoesNotStart(t *testing.T) {
	rs, _ := newTestScheduler(t)
	rs.Enabled = false

	rs.Start()
	// Stop on a never-started scheduler is a no-op.
	rs.Stop()
}
