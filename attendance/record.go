package attendance

import "strings"

// =============================================================================
// RECORD - One check-in observation
// =============================================================================

// Record is one observation of one employee's check status on one date, as
// produced by a data source. Records are immutable once loaded; the engine
// never writes them back.
type Record struct {
	EmployeeID   string
	EmployeeName string

	// Date is the raw date observation; resolved once during indexing.
	Date DayValue

	// Check is the raw check marker cell ("X", true, "TRUE", 1, "", ...).
	Check any
}

// Key returns the grouping key for this record's employee. The employee ID
// wins when present; the display name is the compatibility fallback for rows
// without one. (The source sheets key everything on display name, which
// silently merges same-named people - preferring the ID avoids that.)
func (r Record) Key() string {
	if id := strings.TrimSpace(r.EmployeeID); id != "" {
		return id
	}
	return strings.TrimSpace(r.EmployeeName)
}

// HasIdentity reports whether the record names an employee at all.
func (r Record) HasIdentity() bool { return r.Key() != "" }

// Reported reports whether the check marker counts as a positive report
// under the configured truthy tokens.
func (r Record) Reported(cfg Config) bool { return cfg.IsTruthy(r.Check) }

// =============================================================================
// EMPLOYEE - Identity within one report run
// =============================================================================

// Employee is a de-duplicated identity derived from the record set.
type Employee struct {
	ID   string
	Name string
}

// Key mirrors Record.Key: ID when present, name otherwise.
func (e Employee) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name
}
