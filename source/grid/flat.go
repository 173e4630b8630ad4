package grid

import (
	"context"
	"fmt"

	"github.com/pulse/attendance-engine/attendance"
)

// =============================================================================
// FLAT LAYOUT - One row per (employee, date) observation
// =============================================================================

// Flat table header names as they appear in the source's first row.
const (
	headerEmployeeID   = "mã nhân viên"
	headerEmployeeName = "tên nhân viên"
	headerDate         = "date"
	headerCheck        = "check"
)

// FlatSource loads attendance from a flat header+rows table. The first row
// names the columns; every following row is one observation.
type FlatSource struct {
	fetcher ValueFetcher

	// tableRange covers the whole table including the header row.
	tableRange string
}

// NewFlatSource reads the table at the given A1 range, or the sheet's whole
// used range when a1Range is empty (fetcher-dependent).
func NewFlatSource(fetcher ValueFetcher, a1Range string) *FlatSource {
	return &FlatSource{fetcher: fetcher, tableRange: a1Range}
}

// LoadAttendance parses the table into records.
func (s *FlatSource) LoadAttendance(ctx context.Context, sourceID string) ([]attendance.Record, error) {
	values, err := s.fetcher.Values(ctx, sourceID, s.tableRange)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return ParseFlatTable(values), nil
}

// ParseFlatTable turns a header+rows cell block into records. Unknown
// columns are ignored; missing ones leave the corresponding field zero (the
// index build rejects rows that end up without identity or date).
func ParseFlatTable(values [][]any) []attendance.Record {
	if len(values) < 2 {
		return nil
	}

	idx := make(map[string]int, len(values[0]))
	for i, h := range values[0] {
		idx[cellString(h)] = i
	}

	cell := func(row []any, header string) (any, bool) {
		i, ok := idx[header]
		if !ok || i >= len(row) {
			return nil, false
		}
		return row[i], true
	}

	records := make([]attendance.Record, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := attendance.Record{}
		if v, ok := cell(row, headerEmployeeID); ok {
			rec.EmployeeID = cellString(v)
		}
		if v, ok := cell(row, headerEmployeeName); ok {
			rec.EmployeeName = cellString(v)
		}
		if v, ok := cell(row, headerDate); ok {
			rec.Date = cellDay(v)
		}
		if v, ok := cell(row, headerCheck); ok {
			rec.Check = v
		}
		records = append(records, rec)
	}
	return records
}
