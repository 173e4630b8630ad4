/*
index.go - Date-keyed attendance index

PURPOSE:
  Builds a date-key -> records lookup once per report run, replacing the
  per-employee-per-day rescans of the record set (and, in the columnar
  layout, rescans of every header/data range pair) with O(1) bucket lookups.

BUILD CONTRACT:
  - Every well-formed record lands in exactly one date bucket.
  - Records with an unparseable date or no employee identity are dropped,
    counted, and reported to the caller's logger; the build never fails.
  - The employee universe is derived from the FULL record set, not any single
    day, so "not reported" is the complement within everyone known.

SEE ALSO:
  - resolver.go: daily reported/not-reported classification
  - score.go: weekly stars and stats queries against the index
*/
package attendance

import (
	"sort"
)

// =============================================================================
// INDEX
// =============================================================================

// Index maps canonical date keys to the records observed on that day.
// Built once per report generation, discarded after.
type Index struct {
	cfg       Config
	buckets   map[string][]Record
	employees []Employee
	dropped   []error
}

// DropHandler receives each record-level defect absorbed during a build.
// Typically wired to a logger; may be nil.
type DropHandler func(err error)

// BuildIndex indexes the record set by calendar date. Building is O(n) in
// total records.
func BuildIndex(cfg Config, records []Record, onDrop DropHandler) *Index {
	ix := &Index{
		cfg:     cfg,
		buckets: make(map[string][]Record, len(records)/4+1),
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		if !rec.HasIdentity() {
			ix.drop(&MalformedRecordError{Field: "employee", Reason: "missing employee identity"}, onDrop)
			continue
		}
		day, err := rec.Date.Resolve(cfg)
		if err != nil {
			ix.drop(err, onDrop)
			continue
		}

		key := day.Key()
		ix.buckets[key] = append(ix.buckets[key], rec)

		if ek := rec.Key(); !seen[ek] {
			seen[ek] = true
			ix.employees = append(ix.employees, Employee{ID: rec.EmployeeID, Name: rec.EmployeeName})
		}
	}

	sort.Slice(ix.employees, func(i, j int) bool {
		return ix.employees[i].Name < ix.employees[j].Name
	})

	return ix
}

func (ix *Index) drop(err error, onDrop DropHandler) {
	ix.dropped = append(ix.dropped, err)
	if onDrop != nil {
		onDrop(err)
	}
}

// Lookup returns the records observed on the given day. Empty slice when the
// day has no bucket.
func (ix *Index) Lookup(day Day) []Record {
	return ix.buckets[day.Key()]
}

// HasData reports whether any record at all was indexed for the day.
func (ix *Index) HasData(day Day) bool {
	return len(ix.buckets[day.Key()]) > 0
}

// HasReport reports whether the employee has at least one truthy-checked
// record on the given day. This is the membership test every score and
// resolution reduces to.
func (ix *Index) HasReport(employeeKey string, day Day) bool {
	for _, rec := range ix.buckets[day.Key()] {
		if rec.Key() == employeeKey && rec.Reported(ix.cfg) {
			return true
		}
	}
	return false
}

// Employees returns the universe of known employees, name-sorted.
func (ix *Index) Employees() []Employee {
	out := make([]Employee, len(ix.employees))
	copy(out, ix.employees)
	return out
}

// DroppedCount returns how many records were excluded as malformed.
func (ix *Index) DroppedCount() int { return len(ix.dropped) }

// Config returns the configuration the index was built with.
func (ix *Index) Config() Config { return ix.cfg }
