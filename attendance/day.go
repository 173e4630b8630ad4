package attendance

import (
	"time"
)

// =============================================================================
// DAY - Calendar day in the configured time zone
// =============================================================================

// Day is a calendar day. The time-of-day component never participates in
// comparisons; two Days are equal iff they name the same calendar date in the
// same location.
type Day struct {
	t time.Time
}

// keyLayout is the canonical date-key format shared by every lookup:
// month/day/4-digit-year without zero padding, e.g. "7/1/2025".
const keyLayout = "1/2/2006"

// NewDay constructs a Day from components in the given config's location.
func NewDay(cfg Config, year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, cfg.location())}
}

// DayOf truncates an arbitrary time value to its calendar day in the
// config's location.
func DayOf(cfg Config, t time.Time) Day {
	local := t.In(cfg.location())
	return Day{t: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, cfg.location())}
}

// Today returns the current calendar day in the config's location.
func Today(cfg Config) Day {
	return DayOf(cfg, time.Now())
}

// Key returns the canonical date key for this day.
func (d Day) Key() string { return d.t.Format(keyLayout) }

func (d Day) Equal(other Day) bool  { return d.Key() == other.Key() }
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) IsZero() bool          { return d.t.IsZero() }

func (d Day) AddDays(n int) Day       { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) Weekday() time.Weekday   { return d.t.Weekday() }
func (d Day) Time() time.Time         { return d.t }
func (d Day) String() string          { return d.t.Format("2006-01-02") }
func (d Day) IsSunday() bool          { return d.t.Weekday() == time.Sunday }

// IsWeekClosingDay reports whether the full-week dashboard is generated on
// this day instead of the daily report. Sunday closes the Mon..Sat week.
func (d Day) IsWeekClosingDay() bool { return d.IsSunday() }

// =============================================================================
// DATE WINDOW - Monday rule and working-day counting
// =============================================================================

// MondayOfWeek returns the Monday that starts this day's reporting week.
//
// Sunday is the week's trailing reporting day, not the start of a new week:
// for a Sunday the relevant Monday is six days back, covering the Mon..Sat
// stretch just completed. For Mon..Sat the offset is -(weekday-1).
func (d Day) MondayOfWeek() Day {
	dow := int(d.t.Weekday()) // Sunday=0 .. Saturday=6
	if dow == 0 {
		return d.AddDays(-6)
	}
	return d.AddDays(-(dow - 1))
}

// WorkingDaysElapsed returns how many days of the Mon..Sat work week have
// elapsed up to and including this day: 6 on Sunday (the completed week),
// otherwise the weekday index (Tuesday -> 2: Monday and Tuesday count).
func (d Day) WorkingDaysElapsed() int {
	dow := int(d.t.Weekday())
	if dow == 0 {
		return workWeekDays
	}
	return dow
}

// workWeekDays is the fixed Mon..Sat window every weekly statistic runs over.
const workWeekDays = 6

// WeekDays returns the six Mon..Sat days of the week containing d.
func (d Day) WeekDays() []Day {
	monday := d.MondayOfWeek()
	days := make([]Day, workWeekDays)
	for i := range days {
		days[i] = monday.AddDays(i)
	}
	return days
}

// =============================================================================
// DAY VALUE - Tagged raw date input from data sources
// =============================================================================

// DayValue is a raw date observation from a data source: either a native
// time value or a string still to be parsed. Sources produce these; the
// engine resolves them exactly once, with explicit failure handling.
type DayValue struct {
	kind dayValueKind
	t    time.Time
	s    string
}

type dayValueKind int

const (
	dayValueNone dayValueKind = iota
	dayValueNative
	dayValueText
)

// NativeDay wraps a date that arrived as a real time value.
func NativeDay(t time.Time) DayValue { return DayValue{kind: dayValueNative, t: t} }

// TextDay wraps a date that arrived as a string of unknown format.
func TextDay(s string) DayValue { return DayValue{kind: dayValueText, s: s} }

// textDayLayouts are the string formats the sources are known to produce.
var textDayLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
}

// Resolve converts the raw value into a Day, or fails with a
// MalformedRecordError the caller can absorb.
func (v DayValue) Resolve(cfg Config) (Day, error) {
	switch v.kind {
	case dayValueNative:
		return DayOf(cfg, v.t), nil
	case dayValueText:
		for _, layout := range textDayLayouts {
			if t, err := time.ParseInLocation(layout, v.s, cfg.location()); err == nil {
				return DayOf(cfg, t), nil
			}
		}
		return Day{}, &MalformedRecordError{Field: "date", Value: v.s, Reason: "unparseable date string"}
	default:
		return Day{}, &MalformedRecordError{Field: "date", Reason: "missing date"}
	}
}

// ParseTargetDate parses a user-supplied report date. An empty input selects
// the current day; anything else must parse, otherwise ErrInvalidDateInput
// surfaces. The run never silently substitutes "now" for bad input.
func ParseTargetDate(cfg Config, input string) (Day, error) {
	if input == "" {
		return Today(cfg), nil
	}
	for _, layout := range []string{"2006-01-02", "1/2/2006", "01/02/2006"} {
		if t, err := time.ParseInLocation(layout, input, cfg.location()); err == nil {
			return DayOf(cfg, t), nil
		}
	}
	return Day{}, &InvalidDateError{Input: input}
}
