package attendance

import "context"

// =============================================================================
// DATA SOURCE - Interface to whatever holds the raw rows
// =============================================================================

// DataSource returns raw attendance rows for a named sheet or table. The
// engine never learns which physical layout backs a source: the columnar
// header-range/data-range regions and the flat transactional log both come
// back as plain Records.
//
// Implementations:
//   - source/grid:   columnar sheet regions and flat header+rows tables
//   - source/sqlite: flat transactional log in SQLite
//   - source/sheets: Google Sheets fetch feeding the grid adapters
type DataSource interface {
	// LoadAttendance loads every attendance record of the named source.
	// A missing source fails with ErrSourceNotFound.
	LoadAttendance(ctx context.Context, sourceID string) ([]Record, error)
}
