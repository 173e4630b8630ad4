/*
leave.go - Leave and business-trip notification pipeline

PURPOSE:
  Scans leave registrations across every configured source, mails a
  consolidated notification for upcoming entries, and marks entries as
  notified. The sent flag is a monotonic transition: records are only
  marked after a confirmed successful send, so a failed run re-sends on
  the next attempt and a marked record is never processed again.

FLOW:
  1. Load every registration carrying a leave type.
  2. Keep the ones not yet marked as sent.
  3. Entries dated before today are auto-marked without mail (stale
     backlog; notifying about the past helps nobody).
  4. Today-or-later entries are grouped month -> date -> name and mailed.
  5. On confirmed delivery, mark the mailed entries.

SEE ALSO:
  - render.go: page frame shared with the daily report
  - source/sqlite: the LeaveStore implementation
*/
package report

import (
	"context"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/notify"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveKind distinguishes the two registration families.
type LeaveKind string

const (
	KindLeave        LeaveKind = "leave"
	KindBusinessTrip LeaveKind = "business-trip"
	KindUnknown      LeaveKind = "unknown"
)

// leaveKindByType maps the source dropdown values onto kinds. The strings
// are exact matches against the sheet's dropdown, diacritics included.
var leaveKindByType = map[string]LeaveKind{
	"Nghỉ phép sáng":   KindLeave,
	"Nghỉ phép chiều":  KindLeave,
	"Nghỉ phép cả ngày": KindLeave,
	"Công tác sáng":    KindBusinessTrip,
	"Công tác chiều":   KindBusinessTrip,
	"Công tác cả ngày":  KindBusinessTrip,
}

// KindOfLeaveType classifies a raw dropdown value.
func KindOfLeaveType(leaveType string) LeaveKind {
	if kind, ok := leaveKindByType[strings.TrimSpace(leaveType)]; ok {
		return kind
	}
	return KindUnknown
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

// LeaveRecord is one leave or business-trip registration row.
type LeaveRecord struct {
	// ID identifies the row within its store for the sent-flag write-back.
	ID int64

	SourceID     string
	EmployeeID   string
	EmployeeName string
	Date         attendance.DayValue
	LeaveType    string
	Note         string
	MailSent     bool
}

// LeaveStore reads registrations and records the sent flag.
type LeaveStore interface {
	// LoadLeave returns every registration that carries a leave type.
	LoadLeave(ctx context.Context) ([]LeaveRecord, error)

	// MarkMailSent sets the sent flag on the given rows. Idempotent: a row
	// already marked stays marked.
	MarkMailSent(ctx context.Context, ids []int64) error
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// leaveEntry is a registration with its date resolved.
type leaveEntry struct {
	LeaveRecord
	Day attendance.Day
}

// LeaveBatch is the outcome of classifying unsent registrations against
// today.
type LeaveBatch struct {
	// Leaves and Trips are today-or-later entries to notify, date-ascending.
	Leaves []LeaveRecord
	Trips  []LeaveRecord

	// Past entries get the sent flag without a mail.
	Past []LeaveRecord
}

// Empty reports whether there is nothing to mail.
func (b LeaveBatch) Empty() bool { return len(b.Leaves) == 0 && len(b.Trips) == 0 }

func (b LeaveBatch) mailedIDs() []int64 {
	ids := make([]int64, 0, len(b.Leaves)+len(b.Trips))
	for _, r := range b.Leaves {
		ids = append(ids, r.ID)
	}
	for _, r := range b.Trips {
		ids = append(ids, r.ID)
	}
	return ids
}

func pastIDs(past []LeaveRecord) []int64 {
	ids := make([]int64, 0, len(past))
	for _, r := range past {
		ids = append(ids, r.ID)
	}
	return ids
}

// ClassifyLeave splits unsent registrations into mail-worthy and stale
// sets. Records whose date cannot be resolved are skipped (counted by the
// caller's drop handler if given).
func ClassifyLeave(cfg attendance.Config, records []LeaveRecord, today attendance.Day, onDrop attendance.DropHandler) LeaveBatch {
	var entries []leaveEntry
	for _, r := range records {
		if r.MailSent || strings.TrimSpace(r.LeaveType) == "" {
			continue
		}
		day, err := r.Date.Resolve(cfg)
		if err != nil {
			if onDrop != nil {
				onDrop(err)
			}
			continue
		}
		entries = append(entries, leaveEntry{LeaveRecord: r, Day: day})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Day.Before(entries[j].Day) })

	var batch LeaveBatch
	for _, e := range entries {
		if e.Day.Before(today) {
			batch.Past = append(batch.Past, e.LeaveRecord)
			continue
		}
		switch KindOfLeaveType(e.LeaveType) {
		case KindLeave:
			batch.Leaves = append(batch.Leaves, e.LeaveRecord)
		case KindBusinessTrip:
			batch.Trips = append(batch.Trips, e.LeaveRecord)
		}
	}
	return batch
}

// =============================================================================
// GROUPING FOR DISPLAY
// =============================================================================

type leaveDateGroup struct {
	Day     attendance.Day
	Label   string // dd/MM/yyyy
	Entries []LeaveRecord
}

type leaveMonthGroup struct {
	Label string // Tháng MM/yyyy
	Dates []leaveDateGroup
}

// groupLeaveForDisplay arranges the mailed entries month -> date -> name,
// months and dates ascending, names alphabetical within a date.
func groupLeaveForDisplay(cfg attendance.Config, batch LeaveBatch) []leaveMonthGroup {
	byDate := make(map[string]*leaveDateGroup)
	var dayKeys []string

	all := append(append([]LeaveRecord{}, batch.Leaves...), batch.Trips...)
	for _, r := range all {
		day, err := r.Date.Resolve(cfg)
		if err != nil {
			continue
		}
		key := day.String()
		g, ok := byDate[key]
		if !ok {
			g = &leaveDateGroup{Day: day, Label: day.Time().Format("02/01/2006")}
			byDate[key] = g
			dayKeys = append(dayKeys, key)
		}
		g.Entries = append(g.Entries, r)
	}
	sort.Strings(dayKeys)

	byMonth := make(map[string]*leaveMonthGroup)
	var monthKeys []string
	for _, key := range dayKeys {
		g := byDate[key]
		sort.Slice(g.Entries, func(i, j int) bool {
			return g.Entries[i].EmployeeName < g.Entries[j].EmployeeName
		})

		monthKey := g.Day.Time().Format("2006-01")
		m, ok := byMonth[monthKey]
		if !ok {
			m = &leaveMonthGroup{Label: "Tháng " + g.Day.Time().Format("01/2006")}
			byMonth[monthKey] = m
			monthKeys = append(monthKeys, monthKey)
		}
		m.Dates = append(m.Dates, *g)
	}
	sort.Strings(monthKeys)

	out := make([]leaveMonthGroup, 0, len(monthKeys))
	for _, key := range monthKeys {
		out = append(out, *byMonth[key])
	}
	return out
}

// =============================================================================
// RENDERING
// =============================================================================

var leaveTmpl = template.Must(template.New("leave").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Thông báo nghỉ phép và công tác</title>
</head>
<body style="margin: 0; padding: 0; background-color: #ffffff; font-family: Arial, sans-serif;">
<table width="100%" cellpadding="0" cellspacing="0" border="0" style="background-color: #ffffff;">
<tr><td style="padding: 20px;">
<table width="600" cellpadding="0" cellspacing="0" border="0" style="max-width: 600px; margin: 0 auto;">
<tr><td style="padding: 20px;">

<div style="margin-bottom: 40px;">
{{range .Months}}
  <div style="margin-bottom: 32px;">
    <div style="font-size: 16px; font-weight: 600; color: #1a1a1a; margin-bottom: 16px; padding-bottom: 8px; border-bottom: 2px solid #e0e0e0;">{{.Label}}</div>
    <div style="padding-left: 12px;">
    {{range .Dates}}
      <div style="margin-bottom: 20px;">
        <div style="font-size: 15px; font-weight: 500; color: #1a1a1a; margin-bottom: 12px;">{{.Label}} ({{len .Entries}})</div>
        <div style="padding-left: 16px;">
        {{range .Entries}}
          <div style="padding: 8px 0; border-bottom: 1px solid #f5f5f5;">
            <div style="font-size: 14px; font-weight: 500; color: #1a1a1a; margin-bottom: 4px;">{{.EmployeeName}}</div>
            <div style="font-size: 13px; color: #8e8e93; margin-bottom: 4px;">{{.LeaveType}}</div>
            <div style="font-size: 13px; color: #495057; font-style: italic;">{{.Note}}</div>
          </div>
        {{end}}
        </div>
      </div>
    {{end}}
    </div>
  </div>
{{end}}
</div>

<div style="text-align: left; padding-top: 8px;">
  <p style="margin: 0; font-size: 12px; font-weight: 400; color: #1a1a1a;">Trân trọng</p>
</div>

</td></tr>
</table>
</td></tr>
</table>
</body>
</html>
`))

// LeaveSubject is the fixed notification subject.
const LeaveSubject = subjectPrefix + " - THÔNG BÁO NGHỈ PHÉP & CÔNG TÁC"

// RenderLeaveHTML renders the consolidated notification body.
func RenderLeaveHTML(cfg attendance.Config, batch LeaveBatch) (string, error) {
	var out strings.Builder
	err := leaveTmpl.Execute(&out, struct{ Months []leaveMonthGroup }{groupLeaveForDisplay(cfg, batch)})
	if err != nil {
		return "", fmt.Errorf("render leave notification: %w", err)
	}
	return out.String(), nil
}

// =============================================================================
// PIPELINE
// =============================================================================

// LeaveNotifier runs the end-to-end leave notification flow.
type LeaveNotifier struct {
	cfg        attendance.Config
	store      LeaveStore
	notifier   notify.Notifier
	recipients []string
	log        zerolog.Logger
}

// NewLeaveNotifier wires the pipeline.
func NewLeaveNotifier(cfg attendance.Config, store LeaveStore, notifier notify.Notifier, recipients []string, log zerolog.Logger) *LeaveNotifier {
	return &LeaveNotifier{cfg: cfg, store: store, notifier: notifier, recipients: recipients, log: log}
}

// Run loads, classifies, mails, and marks. Returns nil when there was
// nothing new to send.
func (n *LeaveNotifier) Run(ctx context.Context) error {
	records, err := n.store.LoadLeave(ctx)
	if err != nil {
		return fmt.Errorf("load leave registrations: %w", err)
	}

	today := attendance.Today(n.cfg)
	batch := ClassifyLeave(n.cfg, records, today, func(err error) {
		n.log.Warn().Err(err).Msg("skipping leave record")
	})

	// Stale entries get the flag without a mail.
	if len(batch.Past) > 0 {
		if err := n.store.MarkMailSent(ctx, pastIDs(batch.Past)); err != nil {
			return fmt.Errorf("mark past leave: %w", err)
		}
		n.log.Info().Int("count", len(batch.Past)).Msg("auto-marked past leave registrations")
	}

	if batch.Empty() {
		n.log.Info().Msg("no new leave registrations")
		return nil
	}

	body, err := RenderLeaveHTML(n.cfg, batch)
	if err != nil {
		return err
	}
	if err := n.notifier.Send(ctx, n.recipients, LeaveSubject, body); err != nil {
		return fmt.Errorf("send leave notification: %w", err)
	}

	// Only after the confirmed send.
	if err := n.store.MarkMailSent(ctx, batch.mailedIDs()); err != nil {
		return fmt.Errorf("mark sent leave: %w", err)
	}
	n.log.Info().Int("leaves", len(batch.Leaves)).Int("trips", len(batch.Trips)).Msg("leave notification sent")
	return nil
}
