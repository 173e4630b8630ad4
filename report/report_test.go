package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pulse/attendance-engine/attendance"
)

func dayRecord(name, date string, check any) attendance.Record {
	return attendance.Record{
		EmployeeName: name,
		Date:         attendance.TextDay(date),
		Check:        check,
	}
}

// =============================================================================
// DAILY ASSEMBLY TESTS
// =============================================================================

func TestBuildDaily_SortsByStarsThenName(t *testing.T) {
	// GIVEN: Three reporters with different star counts on Thursday
	// WHEN: Building the daily report
	// THEN: Rows come back stars-descending, names breaking ties

	cfg := attendance.DefaultConfig()
	records := []attendance.Record{
		// Week of Mon 2025-06-30. Thursday is 7/3.
		dayRecord("Alice", "2025-07-03", "X"),
		dayRecord("Bob", "2025-06-30", "X"),
		dayRecord("Bob", "2025-07-01", "X"),
		dayRecord("Bob", "2025-07-03", "X"),
		dayRecord("Carol", "2025-07-01", "X"),
		dayRecord("Carol", "2025-07-03", "X"),
	}

	ix := attendance.BuildIndex(cfg, records, nil)
	thursday := attendance.NewDay(cfg, 2025, time.July, 3)

	rep, err := BuildDaily(ix, thursday, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.TotalEmployees != 3 || !rep.PerfectDay {
		t.Errorf("expected perfect day with 3 employees, got perfect=%v total=%d", rep.PerfectDay, rep.TotalEmployees)
	}

	wantOrder := []string{"Bob", "Carol", "Alice"}
	wantStars := []int{3, 2, 1}
	for i, entry := range rep.Reported {
		if entry.Employee.Name != wantOrder[i] || entry.Stars != wantStars[i] {
			t.Errorf("row %d: expected %s with %d stars, got %s with %d",
				i, wantOrder[i], wantStars[i], entry.Employee.Name, entry.Stars)
		}
	}
	if rep.Reported[0].Color != attendance.ColorFair {
		t.Errorf("3 stars should map to fair, got %s", rep.Reported[0].Color)
	}
}

func TestBuildDaily_NotReportedKeepStars(t *testing.T) {
	cfg := attendance.DefaultConfig()
	records := []attendance.Record{
		dayRecord("Alice", "2025-07-03", "X"),
		dayRecord("Bob", "2025-07-01", "X"), // earlier in the week only
	}

	ix := attendance.BuildIndex(cfg, records, nil)
	rep, err := BuildDaily(ix, attendance.NewDay(cfg, 2025, time.July, 3), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.NotReported) != 1 || rep.NotReported[0].Employee.Name != "Bob" {
		t.Fatalf("expected Bob pending, got %+v", rep.NotReported)
	}
	if rep.NotReported[0].Stars != 1 {
		t.Errorf("Bob still has 1 star from Tuesday, got %d", rep.NotReported[0].Stars)
	}
	if rep.PerfectDay {
		t.Error("day with a pending employee must not be perfect")
	}
}

func TestBuildDaily_NoDataPropagates(t *testing.T) {
	cfg := attendance.DefaultConfig()
	ix := attendance.BuildIndex(cfg, []attendance.Record{dayRecord("Alice", "2025-07-01", "X")}, nil)

	_, err := BuildDaily(ix, attendance.NewDay(cfg, 2025, time.July, 2), false)
	if !errors.Is(err, attendance.ErrNoDataForDate) {
		t.Fatalf("expected ErrNoDataForDate, got %v", err)
	}
}

// =============================================================================
// WEEKLY ASSEMBLY TESTS
// =============================================================================

func TestBuildWeekly_DegradesOnMissingDays(t *testing.T) {
	// GIVEN: Records for only two days of the week
	// WHEN: Building the Sunday dashboard
	// THEN: It still produces a full board; missing days count as zero

	cfg := attendance.DefaultConfig()
	records := []attendance.Record{
		dayRecord("Alice", "2025-06-30", "X"),
		dayRecord("Alice", "2025-07-01", "X"),
		dayRecord("Bob", "2025-06-30", "X"),
	}

	ix := attendance.BuildIndex(cfg, records, nil)
	sunday := attendance.NewDay(cfg, 2025, time.July, 6)

	rep := BuildWeekly(ix, sunday)

	if len(rep.Leaderboard) != 2 {
		t.Fatalf("expected 2 leaderboard entries, got %d", len(rep.Leaderboard))
	}
	if rep.Leaderboard[0].Stats.Employee.Name != "Alice" || rep.Leaderboard[0].Medal != attendance.MedalFirst {
		t.Errorf("expected Alice first with a medal, got %+v", rep.Leaderboard[0])
	}
	if len(rep.Heatmap) != 6 {
		t.Fatalf("expected 6 heatmap days, got %d", len(rep.Heatmap))
	}
	if !rep.Heatmap[0].Perfect {
		t.Error("Monday had everyone reporting, expected perfect")
	}
	for i := 2; i < 6; i++ {
		if !rep.Heatmap[i].Off {
			t.Errorf("day %d has no data, expected off", i)
		}
	}
}

// =============================================================================
// RENDERING TESTS
// =============================================================================

func TestDailySubject(t *testing.T) {
	cfg := attendance.DefaultConfig()
	rep := &DailyReport{Day: attendance.NewDay(cfg, 2025, time.July, 1)}

	if got := rep.Subject(); got != "HMSG | P.KD - TỔNG HỢP BÁO CÁO NGÀY 7/1/2025" {
		t.Errorf("unexpected subject: %s", got)
	}

	rep.CustomDate = true
	if got := rep.Subject(); !strings.HasSuffix(got, "⭐") {
		t.Errorf("custom-date subject should carry the star marker, got %s", got)
	}
}

func TestWeeklySubject(t *testing.T) {
	rep := &WeeklyReport{}
	if got := rep.Subject(); got != "HMSG | P.KD - THỐNG KÊ TUẦN" {
		t.Errorf("unexpected subject: %s", got)
	}
}

func TestDetailedDate(t *testing.T) {
	cfg := attendance.DefaultConfig()
	day := attendance.NewDay(cfg, 2025, time.July, 1) // Tuesday
	if got, want := DetailedDate(day), "Thứ ba, ngày 1 tháng 7 năm 2025"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRenderHTML_DailySections(t *testing.T) {
	cfg := attendance.DefaultConfig()
	records := []attendance.Record{
		dayRecord("Alice", "2025-07-01", "X"),
		dayRecord("Bob", "2025-07-01", ""),
	}
	ix := attendance.BuildIndex(cfg, records, nil)

	rep, err := BuildDaily(ix, attendance.NewDay(cfg, 2025, time.July, 1), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html, err := rep.RenderHTML()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"Đã báo cáo", "Chưa báo cáo", "Alice", "Bob", "1/2", "Trân trọng"} {
		if !strings.Contains(html, want) {
			t.Errorf("body missing %q", want)
		}
	}
	// Not a perfect day: pending title stays red.
	if !strings.Contains(html, "#dc3545") {
		t.Error("pending section should use the regular palette")
	}
}

func TestRenderHTML_PerfectDayPalette(t *testing.T) {
	cfg := attendance.DefaultConfig()
	ix := attendance.BuildIndex(cfg, []attendance.Record{dayRecord("Alice", "2025-07-01", "X")}, nil)

	rep, err := BuildDaily(ix, attendance.NewDay(cfg, 2025, time.July, 1), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rep.PerfectDay {
		t.Fatal("expected a perfect day")
	}

	html, err := rep.RenderHTML()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "Tất cả đã báo cáo") {
		t.Error("perfect day should switch the completed section title")
	}
	if strings.Contains(html, "Chưa báo cáo") {
		t.Error("perfect day must not render the pending section")
	}
}

func TestRenderHTML_WeeklyDashboard(t *testing.T) {
	cfg := attendance.DefaultConfig()
	records := []attendance.Record{
		dayRecord("Alice", "2025-06-30", "X"),
		dayRecord("Bob", "2025-06-30", "X"),
	}
	ix := attendance.BuildIndex(cfg, records, nil)
	rep := BuildWeekly(ix, attendance.NewDay(cfg, 2025, time.July, 6))

	html, err := rep.RenderHTML()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	// Both share 1st: gold medal entity appears, heatmap shows 100 and x.
	for _, want := range []string{"&#x1F947;", "T2", "100", ">x<", "Thống kê tuần"} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}
