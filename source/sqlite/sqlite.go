/*
Package sqlite provides the SQLite-backed attendance log.

PURPOSE:
  Holds the flat transactional check-in log (one row per employee/date
  observation, mirroring the spreadsheet's raw table) and the leave
  registrations with their sent flag. Implements both data interfaces the
  report pipeline consumes:

    attendance.DataSource: LoadAttendance feeding the index build
    report.LeaveStore:     LoadLeave / MarkMailSent

SENT FLAG:
  mail_sent is a monotonic transition. MarkMailSent only ever sets it, so
  re-running a notification pass is idempotent: already-marked rows are
  never picked up again.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; report runs only read, the ingest
  and mark paths write.

WAL MODE:
  SQLite is opened with WAL so report reads don't block ingest writes.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - attendance/source.go: the DataSource contract
  - report/leave.go: the LeaveStore contract
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/report"
)

// Store implements the attendance and leave storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Flat check-in log: one row per (employee, date) observation,
	-- mirroring the spreadsheet's raw 'tick' table.
	CREATE TABLE IF NOT EXISTS attendance_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id TEXT NOT NULL,
		employee_id TEXT NOT NULL DEFAULT '',
		employee_name TEXT NOT NULL DEFAULT '',
		record_date TEXT NOT NULL,
		check_mark TEXT NOT NULL DEFAULT '',
		leave_type TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		mail_sent INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_source
		ON attendance_records(source_id);
	CREATE INDEX IF NOT EXISTS idx_records_date
		ON attendance_records(record_date);

	-- Hot path for the leave pass: registrations not yet notified.
	CREATE INDEX IF NOT EXISTS idx_records_leave_unsent
		ON attendance_records(leave_type, mail_sent)
		WHERE leave_type != '';
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INGEST
// =============================================================================

// RecordRow is one row of the check-in log as written by the ingest path.
type RecordRow struct {
	SourceID     string
	EmployeeID   string
	EmployeeName string
	Date         string // YYYY-MM-DD or M/d/yyyy; parsed by the engine
	Check        string
	LeaveType    string
	Note         string
}

// AddRecords appends rows to the log atomically.
func (s *Store) AddRecords(ctx context.Context, rows []RecordRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO attendance_records
		(source_id, employee_id, employee_name, record_date, check_mark, leave_type, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, query,
			r.SourceID, r.EmployeeID, r.EmployeeName, r.Date, r.Check, r.LeaveType, r.Note, now,
		); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return tx.Commit()
}

// =============================================================================
// ATTENDANCE SOURCE (attendance.DataSource interface)
// =============================================================================

// LoadAttendance returns every check-in observation of the named source.
// An empty sourceID loads the whole log. A named source with no rows at all
// fails with ErrSourceNotFound: the run must not mistake a missing sheet
// for an empty one.
func (s *Store) LoadAttendance(ctx context.Context, sourceID string) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, employee_name, record_date, check_mark
		FROM attendance_records
	`
	var args []any
	if sourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, sourceID)
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var id, name, date, check string
		if err := rows.Scan(&id, &name, &date, &check); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, attendance.Record{
			EmployeeID:   id,
			EmployeeName: name,
			Date:         attendance.TextDay(date),
			Check:        check,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(records) == 0 && sourceID != "" {
		known, err := s.sourceExists(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, fmt.Errorf("source %q: %w", sourceID, attendance.ErrSourceNotFound)
		}
	}
	return records, nil
}

func (s *Store) sourceExists(ctx context.Context, sourceID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance_records WHERE source_id = ?", sourceID,
	).Scan(&count)
	return count > 0, err
}

// Sources returns the distinct source identifiers present in the log.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT source_id FROM attendance_records ORDER BY source_id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		sources = append(sources, id)
	}
	return sources, rows.Err()
}

// =============================================================================
// LEAVE STORE (report.LeaveStore interface)
// =============================================================================

// LoadLeave returns every registration carrying a leave type, across all
// sources, oldest first.
func (s *Store) LoadLeave(ctx context.Context) ([]report.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, source_id, employee_id, employee_name, record_date, leave_type, note, mail_sent
		FROM attendance_records
		WHERE leave_type != ''
		ORDER BY record_date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave records: %w", err)
	}
	defer rows.Close()

	var records []report.LeaveRecord
	for rows.Next() {
		var r report.LeaveRecord
		var date string
		var sent int
		if err := rows.Scan(&r.ID, &r.SourceID, &r.EmployeeID, &r.EmployeeName, &date, &r.LeaveType, &r.Note, &sent); err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}
		r.Date = attendance.TextDay(date)
		r.MailSent = sent != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// MarkMailSent sets the sent flag on the given rows. The flag only ever
// goes from 0 to 1; marking an already-marked row is a no-op.
func (s *Store) MarkMailSent(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := "UPDATE attendance_records SET mail_sent = 1 WHERE id IN (" + placeholders + ")"

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark mail sent: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM attendance_records")
	return err
}

// CountRecords returns the total number of rows in the log.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance_records").Scan(&count)
	return count, err
}
