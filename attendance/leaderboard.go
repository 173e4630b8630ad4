/*
leaderboard.go - Weekly ranking and per-day heatmap

RANKING RULES:
  1. De-duplicate by employee key, keeping the entry with more total reports
     (tolerates the same employee appearing in more than one data region).
  2. Group by total reports, groups ordered descending.
  3. Names ascending within a group.
  4. The top three GROUPS carry medal markers shared by every entry in the
     group; every entry also carries a plain rank number that keeps counting
     across groups (two entries sharing 1st push the next group's first
     entry to rank 3).

HEATMAP RULES:
  Per week-day fraction of employees who reported. Every day tied for the
  minimum fraction (below 100%) is flagged low; 100% days are flagged
  perfect; 0% days are off days.
*/
package attendance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEADERBOARD
// =============================================================================

// Medal marks one of the top three score groups.
type Medal string

const (
	MedalFirst  Medal = "1st"
	MedalSecond Medal = "2nd"
	MedalThird  Medal = "3rd"
	MedalNone   Medal = ""
)

var medalForGroup = []Medal{MedalFirst, MedalSecond, MedalThird}

// RankedEntry is one leaderboard line.
type RankedEntry struct {
	Stats WeeklyStats

	// Rank is the per-entry position, monotonically increasing across the
	// whole board.
	Rank int

	// Medal is set for every entry of the top three groups, empty below.
	Medal Medal
}

// BuildLeaderboard ranks weekly stats per the rules above.
func BuildLeaderboard(stats []WeeklyStats) []RankedEntry {
	unique := dedupeByKey(stats)

	groups := make(map[int][]WeeklyStats)
	for _, s := range unique {
		groups[s.TotalReports] = append(groups[s.TotalReports], s)
	}

	levels := make([]int, 0, len(groups))
	for level := range groups {
		levels = append(levels, level)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))

	var entries []RankedEntry
	rank := 1
	for groupIndex, level := range levels {
		group := groups[level]
		sort.Slice(group, func(i, j int) bool {
			return group[i].Employee.Name < group[j].Employee.Name
		})

		medal := MedalNone
		if groupIndex < len(medalForGroup) {
			medal = medalForGroup[groupIndex]
		}

		for _, s := range group {
			entries = append(entries, RankedEntry{Stats: s, Rank: rank, Medal: medal})
			rank++
		}
	}
	return entries
}

// dedupeByKey keeps one entry per employee, preferring higher TotalReports.
func dedupeByKey(stats []WeeklyStats) []WeeklyStats {
	best := make(map[string]WeeklyStats)
	var order []string
	for _, s := range stats {
		key := s.Employee.Key()
		existing, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = s
			continue
		}
		if s.TotalReports > existing.TotalReports {
			best[key] = s
		}
	}

	out := make([]WeeklyStats, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// =============================================================================
// HEATMAP
// =============================================================================

// HeatmapDay is one cell of the weekly per-day completion strip.
type HeatmapDay struct {
	Day      Day
	Reported int
	Total    int
	Rate     decimal.Decimal

	// Lowest marks every day tied for the minimum fraction (below 100%).
	Lowest bool
	// Perfect marks a 100% day.
	Perfect bool
	// Off marks a 0% day (nobody worked).
	Off bool
}

// BuildHeatmap computes the six per-day completion fractions for the week
// containing ref, over the given (already de-duplicated) stats.
func BuildHeatmap(stats []WeeklyStats, ref Day) []HeatmapDay {
	unique := dedupeByKey(stats)
	total := len(unique)
	monday := ref.MondayOfWeek()

	days := make([]HeatmapDay, workWeekDays)
	one := decimal.NewFromInt(1)
	minRate := one
	for i := range days {
		reported := 0
		for _, s := range unique {
			if s.DailyReports[i] {
				reported++
			}
		}
		rate := decimal.Zero
		if total > 0 {
			rate = decimal.NewFromInt(int64(reported)).Div(decimal.NewFromInt(int64(total)))
		}
		days[i] = HeatmapDay{
			Day:      monday.AddDays(i),
			Reported: reported,
			Total:    total,
			Rate:     rate,
			Perfect:  total > 0 && rate.Equal(one),
			Off:      rate.IsZero(),
		}
		if rate.LessThan(minRate) {
			minRate = rate
		}
	}

	// All days tied for the minimum (and short of 100%) get the flag.
	for i := range days {
		if days[i].Rate.Equal(minRate) && minRate.LessThan(one) {
			days[i].Lowest = true
		}
	}
	return days
}
