package grid

import (
	"context"
	"fmt"

	"github.com/pulse/attendance-engine/attendance"
)

// =============================================================================
// COLUMNAR LAYOUT - Date header row paired with a parallel data block
// =============================================================================

// RegionPair names one header range and its parallel data block. The header
// row holds one date per column; a data row holds the employee identity in
// its leading columns and a check mark under each date column.
type RegionPair struct {
	Header string // e.g. "E3:N3"
	Data   string // e.g. "B4:N12"
}

// Column offsets within a data row, relative to the data range start.
// The source sheets keep the employee ID in the first column and the
// display name two columns later.
const (
	colEmployeeID   = 0
	colEmployeeName = 2
)

// ColumnarSource loads attendance from a fixed set of header/data region
// pairs.
type ColumnarSource struct {
	fetcher ValueFetcher
	regions []RegionPair
}

// NewColumnarSource validates the region list up front so a bad range fails
// at construction, not mid-run.
func NewColumnarSource(fetcher ValueFetcher, regions []RegionPair) (*ColumnarSource, error) {
	for _, reg := range regions {
		if _, err := ParseRange(reg.Header); err != nil {
			return nil, &attendance.ConfigError{Field: "headerRange", Value: reg.Header, Err: err}
		}
		if _, err := ParseRange(reg.Data); err != nil {
			return nil, &attendance.ConfigError{Field: "dataRange", Value: reg.Data, Err: err}
		}
	}
	return &ColumnarSource{fetcher: fetcher, regions: regions}, nil
}

// LoadAttendance flattens every region pair into records: one record per
// (employee row, dated column) intersection. Rows without an identity and
// columns without a date simply produce no records here; deeper validation
// belongs to the index build.
func (s *ColumnarSource) LoadAttendance(ctx context.Context, sourceID string) ([]attendance.Record, error) {
	var records []attendance.Record

	for _, reg := range s.regions {
		headerRange, _ := ParseRange(reg.Header)
		dataRange, _ := ParseRange(reg.Data)

		headerRows, err := s.fetcher.Values(ctx, sourceID, reg.Header)
		if err != nil {
			return nil, fmt.Errorf("read header %s: %w", reg.Header, err)
		}
		if len(headerRows) == 0 {
			continue
		}
		dates := headerRows[0]

		dataRows, err := s.fetcher.Values(ctx, sourceID, reg.Data)
		if err != nil {
			return nil, fmt.Errorf("read data %s: %w", reg.Data, err)
		}

		for _, row := range dataRows {
			if len(row) <= colEmployeeName {
				continue
			}
			id := cellString(row[colEmployeeID])
			name := cellString(row[colEmployeeName])
			if id == "" && name == "" {
				continue
			}

			for i, rawDate := range dates {
				date := cellDay(rawDate)
				// Check mark sits at the header column's offset within
				// the data row.
				checkIdx := headerRange.StartCol - dataRange.StartCol + i
				var check any
				if checkIdx >= 0 && checkIdx < len(row) {
					check = row[checkIdx]
				}
				records = append(records, attendance.Record{
					EmployeeID:   id,
					EmployeeName: name,
					Date:         date,
					Check:        check,
				})
			}
		}
	}
	return records, nil
}
