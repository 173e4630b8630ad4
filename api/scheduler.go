/*
scheduler.go - Automated daily report scheduler

PURPOSE:
  Periodically checks whether today's report send time has passed and,
  once per day, runs the report pipeline (daily summary Mon..Sat, weekly
  dashboard on Sunday) followed by the leave notification pass.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Fires once the configured local send time has been crossed
  - Remembers the last sent day so a tick never double-sends
  - A failed run is retried on the next tick (the day stays unmarked)

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 minute)
  - SendHour/SendMinute: Local send time (default: 17:00)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReportScheduler(cfg, runner, leave, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: SendReport endpoint (manual trigger)
  - report/runner.go: the run the scheduler drives
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/report"
)

// ReportScheduler fires the daily report at a fixed local time.
type ReportScheduler struct {
	Cfg           attendance.Config
	Runner        *report.Runner
	Leave         *report.LeaveNotifier
	CheckInterval time.Duration
	SendHour      int
	SendMinute    int
	Enabled       bool

	log    zerolog.Logger
	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	// sentMu guards lastSent separately from the lifecycle mutex so the
	// worker never contends with Stop's wg.Wait.
	sentMu   sync.Mutex
	lastSent string
}

// NewReportScheduler creates a new scheduler. The leave notifier may be nil
// when leave notifications are disabled.
func NewReportScheduler(cfg attendance.Config, runner *report.Runner, leave *report.LeaveNotifier, log zerolog.Logger) *ReportScheduler {
	return &ReportScheduler{
		Cfg:           cfg,
		Runner:        runner,
		Leave:         leave,
		CheckInterval: 1 * time.Minute,
		SendHour:      17,
		Enabled:       true,
		log:           log,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *ReportScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.log.Info().Msg("scheduler disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	rs.log.Info().
		Dur("interval", rs.CheckInterval).
		Int("hour", rs.SendHour).
		Int("minute", rs.SendMinute).
		Msg("scheduler started")
}

// Stop stops the scheduler.
func (rs *ReportScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.log.Info().Msg("scheduler stopped")
	}
}

func (rs *ReportScheduler) run() {
	defer rs.wg.Done()

	// Check immediately on start
	rs.checkAndProcess()

	for {
		select {
		case <-rs.ticker.C:
			rs.checkAndProcess()
		case <-rs.stop:
			return
		}
	}
}

// checkAndProcess sends today's report once the send time has passed.
func (rs *ReportScheduler) checkAndProcess() {
	today := attendance.Today(rs.Cfg)
	if rs.alreadySent(today) || !rs.sendTimePassed(today) {
		return
	}

	ctx := context.Background()
	if _, err := rs.Runner.RunFor(ctx, today, false); err != nil {
		// Fatal run errors are not retried today: rerunning with the same
		// data would fail the same way and spam the log.
		if attendance.IsFatal(err) {
			rs.markSent(today)
		}
		rs.log.Error().Err(err).Str("date", today.Key()).Msg("scheduled report failed")
		return
	}
	rs.markSent(today)

	if rs.Leave != nil {
		if err := rs.Leave.Run(ctx); err != nil {
			rs.log.Error().Err(err).Msg("scheduled leave notification failed")
		}
	}
}

func (rs *ReportScheduler) sendTimePassed(today attendance.Day) bool {
	sendAt := today.Time().Add(
		time.Duration(rs.SendHour)*time.Hour + time.Duration(rs.SendMinute)*time.Minute,
	)
	return !time.Now().In(today.Time().Location()).Before(sendAt)
}

func (rs *ReportScheduler) alreadySent(today attendance.Day) bool {
	rs.sentMu.Lock()
	defer rs.sentMu.Unlock()
	return rs.lastSent == today.Key()
}

func (rs *ReportScheduler) markSent(today attendance.Day) {
	rs.sentMu.Lock()
	defer rs.sentMu.Unlock()
	rs.lastSent = today.Key()
}

// RunNow triggers an immediate check (for testing/admin).
func (rs *ReportScheduler) RunNow() {
	rs.checkAndProcess()
}
