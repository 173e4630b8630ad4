/*
score.go - Weekly stars and full-week performance statistics

PURPOSE:
  Two deliberately different windows over the same index:

  WeeklyStars - "so far this week": Monday up to and including the reference
  date. Appears in the daily report next to each name. Bounded by
  WorkingDaysElapsed, so stars only accumulate Mon -> Sat and cover the full
  six days when the reference date is Sunday.

  WeeklyStats - the complete fixed Mon..Sat week. Feeds the weekly dashboard
  (leaderboard + heatmap) generated on the week-closing day.

SEE ALSO:
  - day.go: MondayOfWeek / WorkingDaysElapsed
  - leaderboard.go: ranking over WeeklyStats
*/
package attendance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// WEEKLY STARS - Partial-week score for the daily report
// =============================================================================

// WeeklyStars counts the days the employee reported between the week's
// Monday and the reference date inclusive. Always within [0, 6] and never
// above WorkingDaysElapsed(ref).
func WeeklyStars(ix *Index, employeeKey string, ref Day) int {
	monday := ref.MondayOfWeek()
	daysToCheck := ref.WorkingDaysElapsed()

	stars := 0
	for offset := 0; offset < daysToCheck; offset++ {
		if ix.HasReport(employeeKey, monday.AddDays(offset)) {
			stars++
		}
	}
	return stars
}

// =============================================================================
// STAR COLOR - Monotonic step function over star counts
// =============================================================================

// ColorToken is an abstract display bucket for a star count. The renderer
// maps tokens to concrete colors.
type ColorToken string

const (
	ColorPerfect   ColorToken = "perfect"
	ColorExcellent ColorToken = "excellent"
	ColorGood      ColorToken = "good"
	ColorFair      ColorToken = "fair"
	ColorLow       ColorToken = "low"
	ColorMinimal   ColorToken = "minimal"
	ColorNone      ColorToken = "none"
)

// StarColor maps a star count to its display bucket. Total over all
// non-negative integers; counts above six clamp to perfect.
func StarColor(stars int) ColorToken {
	switch {
	case stars >= 6:
		return ColorPerfect
	case stars == 5:
		return ColorExcellent
	case stars == 4:
		return ColorGood
	case stars == 3:
		return ColorFair
	case stars == 2:
		return ColorLow
	case stars == 1:
		return ColorMinimal
	default:
		return ColorNone
	}
}

// =============================================================================
// WEEKLY STATS - Full Mon..Sat week per employee
// =============================================================================

// Trend compares first-half (Mon..Wed) vs second-half (Thu..Sat) reporting.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// WeeklyStats is one employee's performance over the complete six-day week.
//
// Invariants: 0 <= TotalReports <= 6, Streak <= TotalReports, and Trend is a
// pure function of DailyReports.
type WeeklyStats struct {
	Employee Employee

	// DailyReports holds Monday..Saturday in order.
	DailyReports [6]bool

	TotalReports   int
	CompletionRate decimal.Decimal
	Streak         int
	Trend          Trend
}

var weekLength = decimal.NewFromInt(workWeekDays)

// ComputeWeeklyStats evaluates the full Mon..Sat week containing ref for one
// employee. Days with no indexed data simply contribute false - the weekly
// dashboard degrades gracefully instead of aborting.
func ComputeWeeklyStats(ix *Index, emp Employee, ref Day) WeeklyStats {
	stats := WeeklyStats{Employee: emp}

	monday := ref.MondayOfWeek()
	for offset := 0; offset < workWeekDays; offset++ {
		reported := ix.HasReport(emp.Key(), monday.AddDays(offset))
		stats.DailyReports[offset] = reported
		if reported {
			stats.TotalReports++
		}
	}

	stats.CompletionRate = decimal.NewFromInt(int64(stats.TotalReports)).Div(weekLength)
	stats.Streak = trailingStreak(stats.DailyReports)
	stats.Trend = weeklyTrend(stats.DailyReports)
	return stats
}

// ComputeAllWeeklyStats evaluates every known employee for the week of ref.
func ComputeAllWeeklyStats(ix *Index, ref Day) []WeeklyStats {
	employees := ix.Employees()
	out := make([]WeeklyStats, 0, len(employees))
	for _, emp := range employees {
		out = append(out, ComputeWeeklyStats(ix, emp, ref))
	}
	return out
}

// trailingStreak counts consecutive reported days ending at Saturday.
func trailingStreak(daily [6]bool) int {
	streak := 0
	for i := len(daily) - 1; i >= 0; i-- {
		if !daily[i] {
			break
		}
		streak++
	}
	return streak
}

// weeklyTrend compares Mon..Wed against Thu..Sat.
func weeklyTrend(daily [6]bool) Trend {
	first, second := 0, 0
	for i := 0; i < 3; i++ {
		if daily[i] {
			first++
		}
		if daily[i+3] {
			second++
		}
	}
	switch {
	case second > first:
		return TrendUp
	case second < first:
		return TrendDown
	default:
		return TrendStable
	}
}
