/*
Package report assembles daily and weekly attendance summaries and turns
them into ready-to-send messages.

PURPOSE:
  The engine (package attendance) answers membership and scoring queries;
  this package drives those queries for one run, shapes the results for
  display, renders the HTML body, and hands the message to a notifier.

KEY FLOWS:
  Daily (Mon..Sat): resolve the target day, attach weekly stars to every
  name, sort by stars, render the completed/pending sections.

  Weekly (Sunday): compute full-week stats for everyone, build the
  leaderboard and heatmap, render the dashboard instead of the lists.

  Leave: collect unsent leave registrations, auto-mark the past ones,
  mail the upcoming ones, mark them sent only after a confirmed send.

SEE ALSO:
  - render.go: HTML/subject rendering
  - runner.go: the end-to-end run orchestration
  - leave.go: the leave notification pipeline
*/
package report

import (
	"sort"

	"github.com/pulse/attendance-engine/attendance"
)

// =============================================================================
// DAILY REPORT
// =============================================================================

// StarEntry is one display row: an employee plus their stars so far this
// week and the matching color bucket.
type StarEntry struct {
	Employee attendance.Employee
	Stars    int
	Color    attendance.ColorToken
}

// DailyReport is everything the daily summary shows for one target date.
type DailyReport struct {
	Day attendance.Day

	// Reported and NotReported carry stars-so-far per name, both sorted by
	// stars descending then name ascending.
	Reported    []StarEntry
	NotReported []StarEntry

	TotalEmployees int
	PerfectDay     bool

	// CustomDate marks a run for an explicitly requested date rather than
	// the scheduler's "today".
	CustomDate bool
}

// BuildDaily resolves the target date and attaches weekly star scores to
// every employee. Fails with the resolver's error when the date has no data.
func BuildDaily(ix *attendance.Index, day attendance.Day, customDate bool) (*DailyReport, error) {
	res, err := attendance.Resolve(ix, day)
	if err != nil {
		return nil, err
	}

	rep := &DailyReport{
		Day:            day,
		Reported:       starEntries(ix, res.Reported, day),
		NotReported:    starEntries(ix, res.NotReported, day),
		TotalEmployees: res.TotalEmployees,
		PerfectDay:     res.IsPerfectDay(),
		CustomDate:     customDate,
	}
	return rep, nil
}

func starEntries(ix *attendance.Index, emps []attendance.Employee, ref attendance.Day) []StarEntry {
	entries := make([]StarEntry, 0, len(emps))
	for _, emp := range emps {
		stars := attendance.WeeklyStars(ix, emp.Key(), ref)
		entries = append(entries, StarEntry{
			Employee: emp,
			Stars:    stars,
			Color:    attendance.StarColor(stars),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Stars != entries[j].Stars {
			return entries[i].Stars > entries[j].Stars
		}
		return entries[i].Employee.Name < entries[j].Employee.Name
	})
	return entries
}

// =============================================================================
// WEEKLY REPORT
// =============================================================================

// WeeklyReport is the full-week dashboard generated on the week-closing day.
type WeeklyReport struct {
	Day         attendance.Day
	Leaderboard []attendance.RankedEntry
	Heatmap     []attendance.HeatmapDay
}

// BuildWeekly computes the complete Mon..Sat dashboard for the week
// containing day. Days without data degrade to zero contributions; the
// weekly report never aborts on a missing bucket.
func BuildWeekly(ix *attendance.Index, day attendance.Day) *WeeklyReport {
	stats := attendance.ComputeAllWeeklyStats(ix, day)
	return &WeeklyReport{
		Day:         day,
		Leaderboard: attendance.BuildLeaderboard(stats),
		Heatmap:     attendance.BuildHeatmap(stats, day),
	}
}
