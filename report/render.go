/*
render.go - Subject and HTML body rendering

PURPOSE:
  Renders the assembled reports into the email-client-safe HTML the
  distribution list receives: table-based layout, inline styles, HTML
  entity medals. Display strings stay in the source locale.

SEE ALSO:
  - report.go: the view models rendered here
  - leave.go: the leave notification renderer
*/
package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pulse/attendance-engine/attendance"
)

// =============================================================================
// SUBJECT
// =============================================================================

const subjectPrefix = "HMSG | P.KD"

// Subject returns the mail subject for a daily report. A custom-date run
// gets a trailing star marker so it stands out from the scheduled sends.
func (r *DailyReport) Subject() string {
	s := fmt.Sprintf("%s - TỔNG HỢP BÁO CÁO NGÀY %s", subjectPrefix, r.Day.Key())
	if r.CustomDate {
		s += " ⭐"
	}
	return s
}

// Subject returns the fixed weekly dashboard subject.
func (r *WeeklyReport) Subject() string {
	return subjectPrefix + " - THỐNG KÊ TUẦN"
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

var dayNames = []string{"Chủ nhật", "Thứ hai", "Thứ ba", "Thứ tư", "Thứ năm", "Thứ sáu", "Thứ bảy"}

// heatmapDayLabels are the short Mon..Sat column headers.
var heatmapDayLabels = []string{"T2", "T3", "T4", "T5", "T6", "T7"}

// DetailedDate renders a day in the long local form, e.g.
// "Thứ ba, ngày 1 tháng 7 năm 2025".
func DetailedDate(d attendance.Day) string {
	t := d.Time()
	return fmt.Sprintf("%s, ngày %d tháng %d năm %d",
		dayNames[int(t.Weekday())], t.Day(), int(t.Month()), t.Year())
}

// colorHex maps the engine's abstract color buckets onto the palette the
// email uses.
var colorHex = map[attendance.ColorToken]string{
	attendance.ColorPerfect:   "#22c55e",
	attendance.ColorExcellent: "#84cc16",
	attendance.ColorGood:      "#22c55e",
	attendance.ColorFair:      "#eab308",
	attendance.ColorLow:       "#f97316",
	attendance.ColorMinimal:   "#94a3b8",
	attendance.ColorNone:      "#d1d5db",
}

// medalEntity maps medals onto HTML entities; emoji glyphs render
// inconsistently across mail clients, the entities do not.
var medalEntity = map[attendance.Medal]template.HTML{
	attendance.MedalFirst:  "&#x1F947;",
	attendance.MedalSecond: "&#x1F948;",
	attendance.MedalThird:  "&#x1F949;",
}

// starSpan renders a row of colored star glyphs, empty at zero stars.
func starSpan(stars int, color attendance.ColorToken) template.HTML {
	if stars <= 0 {
		return ""
	}
	star := fmt.Sprintf(`<span style="color: %s; font-size: 16px;">★</span>`, colorHex[color])
	return template.HTML(strings.Repeat(star, stars))
}

// badgeStyle picks the completion badge gradient from the completed
// fraction: 100%, at least 80%, at least 60%, below.
func badgeStyle(completed, total int) template.CSS {
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total)
	}
	switch {
	case rate == 1:
		return "background: linear-gradient(135deg, #22c55e, #16a34a); color: white;"
	case rate >= 0.8:
		return "background: linear-gradient(135deg, #84cc16, #65a30d); color: white;"
	case rate >= 0.6:
		return "background: linear-gradient(135deg, #eab308, #ca8a04); color: white;"
	default:
		return "background: linear-gradient(135deg, #ef4444, #dc2626); color: white;"
	}
}

// palette is the perfect-day/regular-day color switch applied across the
// whole body.
type palette struct {
	Border       template.CSS
	HeaderTitle  template.CSS
	Subtitle     template.CSS
	DateText     template.CSS
	SectionTitle template.CSS
	PendingTitle template.CSS
	NamesList    template.CSS
	FooterLabel  template.CSS
}

func paletteFor(perfect bool) palette {
	if perfect {
		green := template.CSS("#22c55e")
		return palette{
			Border: green, HeaderTitle: green, Subtitle: green, DateText: green,
			SectionTitle: green, PendingTitle: green, NamesList: green, FooterLabel: green,
		}
	}
	return palette{
		Border:       "#000000",
		HeaderTitle:  "#1a1a1a",
		Subtitle:     "#8e8e93",
		DateText:     "#495057",
		SectionTitle: "#1a1a1a",
		PendingTitle: "#dc3545",
		NamesList:    "#1a1a1a",
		FooterLabel:  "#1a1a1a",
	}
}

// =============================================================================
// TEMPLATES
// =============================================================================

var reportFuncs = template.FuncMap{
	"stars":       starSpan,
	"badge":       badgeStyle,
	"starColorOf": attendance.StarColor,
	"sub":         func(a, b int) int { return a - b },
	"pct": func(d attendance.HeatmapDay) string {
		if d.Off {
			return "x"
		}
		return d.Rate.Mul(hundred).Round(0).String()
	},
	"dayLabel": func(i int) string { return heatmapDayLabels[i] },
	"medal": func(e attendance.RankedEntry) template.HTML {
		if m, ok := medalEntity[e.Medal]; ok {
			return m
		}
		return template.HTML(fmt.Sprintf("%d", e.Rank))
	},
}

var hundred = decimal.NewFromInt(100)

var pageTmpl = template.Must(template.New("page").Funcs(reportFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; background-color: #ffffff; font-family: Arial, sans-serif;">
<table width="100%" cellpadding="0" cellspacing="0" border="0" style="background-color: #ffffff;">
<tr><td style="padding: 20px;">
<table width="600" cellpadding="0" cellspacing="0" border="0" style="max-width: 600px; margin: 0 auto;">
<tr><td style="padding: 20px;">

<div style="text-align: center; margin-bottom: 48px;">
  <h1 style="margin: 0; font-size: 28px; font-weight: 300; color: {{.Colors.HeaderTitle}}; letter-spacing: -0.5px;">{{.Heading}}</h1>
  <p style="margin: 8px 0 0; font-size: 16px; font-weight: 400; color: {{.Colors.Subtitle}};">Phòng Kinh Doanh</p>
</div>

<div style="margin-bottom: 32px;">
  <span style="font-size: 14px; font-weight: 500; color: {{.Colors.DateText}};">{{.DetailedDate}}</span>
</div>

{{.Content}}

<div style="text-align: center; padding-top: 32px;">
  <p style="margin: 0; font-size: 12px; font-weight: 400; color: {{.Colors.FooterLabel}};">Trân trọng</p>
</div>

</td></tr>
</table>
</td></tr>
</table>
</body>
</html>
`))

var dailySectionsTmpl = template.Must(template.New("daily").Funcs(reportFuncs).Parse(`
<div style="margin-bottom: 32px; background-color: #ffffff; border-radius: 6px; overflow: hidden;">
  <div style="padding: 20px 24px 16px;">
    <table width="100%" cellpadding="0" cellspacing="0" border="0">
      <tr>
        <td style="vertical-align: middle;">
          <h2 style="margin: 0; font-size: 18px; font-weight: 500; color: {{.Colors.SectionTitle}};">{{if .PerfectDay}}Tất cả đã báo cáo{{else}}Đã báo cáo{{end}}</h2>
        </td>
        <td style="vertical-align: middle; text-align: right;">
          <span style="{{badge (len .Reported) .TotalEmployees}} padding: 6px 12px; border-radius: 4px; font-weight: 600; font-size: 13px; min-width: 60px; text-align: center; display: inline-block;">{{len .Reported}}/{{.TotalEmployees}}</span>
        </td>
      </tr>
    </table>
  </div>
  <div style="padding: 0 24px 8px;">
    {{if .Reported}}{{range .Reported}}
    <table width="100%" cellpadding="0" cellspacing="0" border="0" style="padding: 16px 0;">
      <tr>
        <td style="font-size: 15px; font-weight: 400; color: {{$.Colors.NamesList}}; vertical-align: middle;">{{.Employee.Name}}</td>
        <td style="text-align: right; vertical-align: middle;"><span style="white-space: nowrap;">{{stars .Stars .Color}}</span></td>
      </tr>
    </table>
    {{end}}{{else}}<div style="padding: 16px 0; font-size: 15px; color: #8e8e93; font-style: italic;">Chưa có báo cáo nào</div>{{end}}
  </div>
</div>
{{if not .PerfectDay}}
<div style="margin-bottom: 40px; background-color: #ffffff; border-radius: 6px; overflow: hidden;">
  <div style="padding: 20px 24px 16px;">
    <table width="100%" cellpadding="0" cellspacing="0" border="0">
      <tr>
        <td style="vertical-align: middle;">
          <h2 style="margin: 0; font-size: 18px; font-weight: 500; color: {{.Colors.PendingTitle}};">Chưa báo cáo</h2>
        </td>
        <td style="vertical-align: middle; text-align: right;">
          <span style="{{badge (sub .TotalEmployees (len .NotReported)) .TotalEmployees}} padding: 6px 12px; border-radius: 4px; font-weight: 600; font-size: 13px; min-width: 60px; text-align: center; display: inline-block;">{{len .NotReported}}/{{.TotalEmployees}}</span>
        </td>
      </tr>
    </table>
  </div>
  <div style="padding: 0 24px 8px;">
    {{range .NotReported}}
    <table width="100%" cellpadding="0" cellspacing="0" border="0" style="padding: 16px 0;">
      <tr>
        <td style="font-size: 15px; font-weight: 400; color: {{$.Colors.NamesList}}; vertical-align: middle;">{{.Employee.Name}}</td>
        <td style="text-align: right; vertical-align: middle;"><span style="white-space: nowrap;">{{stars .Stars .Color}}</span></td>
      </tr>
    </table>
    {{end}}
  </div>
</div>
{{end}}
`))

var weeklyDashboardTmpl = template.Must(template.New("weekly").Funcs(reportFuncs).Parse(`
<div style="margin-bottom: 32px; background-color: #ffffff; border-radius: 6px; padding: 20px;">
  <table width="100%" cellpadding="0" cellspacing="0" border="0">
    <tr>
      {{range $i, $d := .Heatmap}}
      <td style="text-align: center; width: 16.66%;">
        <div style="background-color: #ffffff; padding: 12px 4px; border-radius: 6px; margin: 0 2px;">
          <div style="font-size: 10px; font-weight: 600; margin-bottom: 6px; color: {{if $d.Perfect}}#22c55e{{else}}#1a1a1a{{end}};">{{dayLabel $i}}</div>
          <div style="font-size: 14px; font-weight: 700; color: {{if $d.Perfect}}#22c55e{{else}}#1a1a1a{{end}};">{{pct $d}}</div>
        </div>
      </td>
      {{end}}
    </tr>
  </table>
</div>
<div style="border-top: 1px solid #22c55e; margin: 20px 0;"></div>
<div style="margin-bottom: 16px; background-color: #ffffff; border-radius: 6px; padding: 16px;">
  {{range .Leaderboard}}
  <table width="100%" cellpadding="0" cellspacing="0" border="0" style="padding: 12px 0;">
    <tr>
      <td style="width: 40px; text-align: center; font-size: 16px; vertical-align: middle;">{{medal .}}</td>
      <td style="padding-left: 12px; vertical-align: middle;">
        <div style="font-size: 14px; font-weight: 400; color: #22c55e;">{{.Stats.Employee.Name}}</div>
      </td>
      <td style="text-align: right; vertical-align: middle;">
        <span style="white-space: nowrap;">{{if gt .Stats.TotalReports 0}}{{stars .Stats.TotalReports (starColorOf .Stats.TotalReports)}}{{else}}<span style="color: #94a3b8; font-size: 14px;">Chưa báo cáo</span>{{end}}</span>
      </td>
    </tr>
  </table>
  {{end}}
</div>
`))

// =============================================================================
// RENDER ENTRY POINTS
// =============================================================================

type pageData struct {
	Title        string
	Heading      string
	DetailedDate string
	Colors       palette
	Content      template.HTML
}

// RenderHTML renders the daily summary body.
func (r *DailyReport) RenderHTML() (string, error) {
	colors := paletteFor(r.PerfectDay)

	var sections strings.Builder
	err := dailySectionsTmpl.Execute(&sections, struct {
		*DailyReport
		Colors palette
	}{r, colors})
	if err != nil {
		return "", fmt.Errorf("render daily sections: %w", err)
	}

	heading := "Báo cáo tổng hợp"
	if r.PerfectDay {
		heading += " ⭐"
	}
	return renderPage(pageData{
		Title:        "Báo cáo ngày " + r.Day.Key(),
		Heading:      heading,
		DetailedDate: DetailedDate(r.Day),
		Colors:       colors,
		Content:      template.HTML(sections.String()),
	})
}

// RenderHTML renders the weekly dashboard body.
func (r *WeeklyReport) RenderHTML() (string, error) {
	var dashboard strings.Builder
	if err := weeklyDashboardTmpl.Execute(&dashboard, r); err != nil {
		return "", fmt.Errorf("render weekly dashboard: %w", err)
	}

	return renderPage(pageData{
		Title:        "Thống kê tuần " + r.Day.Key(),
		Heading:      "Thống kê tuần",
		DetailedDate: DetailedDate(r.Day),
		Colors:       paletteFor(false),
		Content:      template.HTML(dashboard.String()),
	})
}

func renderPage(data pageData) (string, error) {
	var out strings.Builder
	if err := pageTmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return out.String(), nil
}
