/*
runner.go - End-to-end report run orchestration

PURPOSE:
  One Run call is one report: load records, build the index, assemble the
  day's report (or the weekly dashboard on the week-closing day), render,
  send. Fatal errors abort before any send; nothing goes out on a failed
  run.

SEE ALSO:
  - report.go / render.go: assembly and rendering
  - api/scheduler.go: the daily trigger driving Run
*/
package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/notify"
)

// Runner drives one report generation end to end.
type Runner struct {
	cfg        attendance.Config
	source     attendance.DataSource
	notifier   notify.Notifier
	sourceID   string
	recipients []string
	log        zerolog.Logger
}

// NewRunner wires a runner from its collaborators.
func NewRunner(cfg attendance.Config, source attendance.DataSource, notifier notify.Notifier, sourceID string, recipients []string, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		source:     source,
		notifier:   notifier,
		sourceID:   sourceID,
		recipients: recipients,
		log:        log,
	}
}

// RunResult describes what a completed run produced.
type RunResult struct {
	Day    attendance.Day
	Weekly bool

	// Daily is set for Mon..Sat runs, Weekly dashboard runs leave it nil.
	Daily *DailyReport
	// WeeklyReport is set on week-closing-day runs.
	WeeklyReport *WeeklyReport

	Subject string
	Dropped int
}

// Run generates and sends the report for a raw date input. Empty input
// selects today; bad input fails the run before anything is loaded or sent.
func (r *Runner) Run(ctx context.Context, dateInput string) (*RunResult, error) {
	day, err := attendance.ParseTargetDate(r.cfg, dateInput)
	if err != nil {
		r.log.Error().Err(err).Str("input", dateInput).Msg("report run rejected")
		return nil, err
	}
	return r.RunFor(ctx, day, dateInput != "")
}

// RunYesterday generates the report for the day before today.
func (r *Runner) RunYesterday(ctx context.Context) (*RunResult, error) {
	return r.RunFor(ctx, attendance.Today(r.cfg).AddDays(-1), true)
}

// RunLastSunday generates the weekly dashboard for the most recent Sunday.
func (r *Runner) RunLastSunday(ctx context.Context) (*RunResult, error) {
	day := attendance.Today(r.cfg)
	for !day.IsSunday() {
		day = day.AddDays(-1)
	}
	return r.RunFor(ctx, day, true)
}

// RunFor generates and sends the report for an explicit day.
func (r *Runner) RunFor(ctx context.Context, day attendance.Day, customDate bool) (*RunResult, error) {
	records, err := r.source.LoadAttendance(ctx, r.sourceID)
	if err != nil {
		r.log.Error().Err(err).Str("source", r.sourceID).Msg("attendance load failed")
		return nil, fmt.Errorf("load attendance: %w", err)
	}

	ix := attendance.BuildIndex(r.cfg, records, func(dropErr error) {
		r.log.Warn().Err(dropErr).Msg("skipping malformed record")
	})

	result := &RunResult{Day: day, Weekly: day.IsWeekClosingDay(), Dropped: ix.DroppedCount()}

	var body string
	if result.Weekly {
		weekly := BuildWeekly(ix, day)
		if body, err = weekly.RenderHTML(); err != nil {
			return nil, err
		}
		result.WeeklyReport = weekly
		result.Subject = weekly.Subject()
	} else {
		daily, buildErr := BuildDaily(ix, day, customDate)
		if buildErr != nil {
			r.log.Error().Err(buildErr).Str("date", day.Key()).Msg("daily report aborted")
			return nil, buildErr
		}
		if body, err = daily.RenderHTML(); err != nil {
			return nil, err
		}
		result.Daily = daily
		result.Subject = daily.Subject()
	}

	if err := r.notifier.Send(ctx, r.recipients, result.Subject, body); err != nil {
		r.log.Error().Err(err).Str("date", day.Key()).Msg("report send failed")
		return nil, err
	}

	r.log.Info().
		Str("date", day.Key()).
		Bool("weekly", result.Weekly).
		Int("dropped", result.Dropped).
		Msg("report sent")
	return result, nil
}
