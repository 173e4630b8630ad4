/*
Package grid adapts raw spreadsheet cell blocks into attendance records.

PURPOSE:
  Two physical layouts feed the engine: a columnar one (a date header row
  paired with a parallel data block, check marks at the intersection) and
  a flat transactional one (one row per employee/date observation, first
  row is headers). Both adapters produce plain attendance.Record values;
  the engine never learns which layout was behind a load.

  Cell access goes through the ValueFetcher interface so the same adapters
  run against Google Sheets or an in-memory fixture.

SEE ALSO:
  - columnar.go: the header-range/data-range layout
  - flat.go: the flat header+rows table
  - source/sheets: the Google Sheets ValueFetcher
*/
package grid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pulse/attendance-engine/attendance"
)

// ValueFetcher reads a rectangular block of raw cell values.
type ValueFetcher interface {
	// Values returns the cells of one A1-notation range within the named
	// source, row-major. A missing source fails with
	// attendance.ErrSourceNotFound.
	Values(ctx context.Context, sourceID, a1Range string) ([][]any, error)
}

// =============================================================================
// A1 RANGE PARSING
// =============================================================================

// Range is a rectangular cell region with 1-based inclusive bounds.
type Range struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// Width returns the number of columns covered.
func (r Range) Width() int { return r.EndCol - r.StartCol + 1 }

// ParseRange parses A1 notation, e.g. "E3:N3" or "B4:N12". Column letters
// are case-insensitive.
func ParseRange(a1 string) (Range, error) {
	parts := strings.SplitN(strings.TrimSpace(a1), ":", 2)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("range %q: want start:end", a1)
	}
	sc, sr, err := parseCell(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", a1, err)
	}
	ec, er, err := parseCell(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", a1, err)
	}
	if ec < sc || er < sr {
		return Range{}, fmt.Errorf("range %q: end before start", a1)
	}
	return Range{StartCol: sc, StartRow: sr, EndCol: ec, EndRow: er}, nil
}

// parseCell splits "N12" into column 14, row 12.
func parseCell(cell string) (col, row int, err error) {
	cell = strings.ToUpper(strings.TrimSpace(cell))
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A'+1)
		i++
	}
	if col == 0 || i == len(cell) {
		return 0, 0, fmt.Errorf("cell %q: want letters then digits", cell)
	}
	for ; i < len(cell); i++ {
		if cell[i] < '0' || cell[i] > '9' {
			return 0, 0, fmt.Errorf("cell %q: bad row digit", cell)
		}
		row = row*10 + int(cell[i]-'0')
	}
	if row == 0 {
		return 0, 0, fmt.Errorf("cell %q: row starts at 1", cell)
	}
	return col, row, nil
}

// =============================================================================
// CELL COERCION
// =============================================================================

// cellString renders a raw cell as a trimmed string.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", x))
	}
}

// cellDay wraps a raw date cell as a DayValue: native times stay native,
// everything else becomes text for the engine's parser.
func cellDay(v any) attendance.DayValue {
	switch x := v.(type) {
	case time.Time:
		return attendance.NativeDay(x)
	case nil:
		return attendance.DayValue{}
	default:
		s := cellString(v)
		if s == "" {
			return attendance.DayValue{}
		}
		return attendance.TextDay(s)
	}
}
