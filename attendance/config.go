/*
Package attendance provides the core attendance aggregation engine.

PURPOSE:
  This package contains the layout-agnostic types and algorithms for turning
  raw check-in records into daily resolutions, weekly star scores, and
  leaderboard statistics. Data sources (columnar sheet regions, flat
  transactional logs) feed the same index; the engine never knows which
  physical layout the records came from.

KEY CONCEPTS:
  - Day: a calendar day in one fixed time zone (the only date currency here)
  - Record: one observation of one employee's check status on one day
  - Index: date-key -> records lookup built once per report run
  - WeeklyStats: per-employee Mon..Sat performance (stars, streak, trend)

DESIGN PRINCIPLES:
  1. One canonical date key (M/d/yyyy) produced by a single function
  2. Record-level failures are absorbed and counted, never fatal
  3. All queries go through the index; no linear rescans per employee/day

SEE ALSO:
  - day.go: date-window arithmetic (Monday rule, working days)
  - index.go: the date-keyed index
  - score.go: weekly stars and stats
  - leaderboard.go: ranking and heatmap
*/
package attendance

import (
	"time"
)

// =============================================================================
// CONFIG - Immutable per-run configuration
// =============================================================================

// Config carries the few knobs the engine recognizes. Construct once per run
// and pass by value; the engine never mutates it.
type Config struct {
	// Location is the single time zone all calendar-day comparisons use.
	Location *time.Location

	// TruthyTokens are the string check markers accepted as "reported".
	// Boolean true and numeric 1 are always accepted regardless.
	TruthyTokens []string
}

// DefaultConfig returns the configuration the production sheets use.
func DefaultConfig() Config {
	return Config{
		Location:     time.UTC,
		TruthyTokens: []string{"X", "TRUE", "1"},
	}
}

// NewConfig builds a Config for a named IANA time zone.
func NewConfig(timeZone string, truthyTokens []string) (Config, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return Config{}, &ConfigError{Field: "timeZone", Value: timeZone, Err: err}
	}
	if len(truthyTokens) == 0 {
		truthyTokens = DefaultConfig().TruthyTokens
	}
	return Config{Location: loc, TruthyTokens: truthyTokens}, nil
}

// IsTruthy reports whether a raw check cell counts as "reported".
// Accepted values are bool true, numeric 1, and any configured string token.
func (c Config) IsTruthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		for _, tok := range c.TruthyTokens {
			if x == tok {
				return true
			}
		}
		return false
	case int:
		return x == 1
	case int64:
		return x == 1
	case float64:
		return x == 1
	default:
		return false
	}
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
