package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"paysheet/timesheet"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrSourceNotFound = errors.New("source not found")

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS sources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE,
	size INTEGER NOT NULL,
	modified_at TEXT NOT NULL,
	imported_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_file TEXT NOT NULL,
	period_name TEXT NOT NULL,
	sheet_row INTEGER NOT NULL,
	provider TEXT NOT NULL,
	reporting_year INTEGER NOT NULL,
	period_end TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL,
	last_name TEXT NOT NULL,
	first_name TEXT NOT NULL,
	class TEXT NOT NULL,
	month TEXT NOT NULL,
	day TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	duration TEXT NOT NULL,
	notes TEXT NOT NULL,
	position_key TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL DEFAULT '',
	start_seconds INTEGER,
	end_seconds INTEGER,
	end_corrected INTEGER NOT NULL DEFAULT 0,
	computed_hours REAL,
	declared_hours REAL,
	rounded_hours REAL,
	UNIQUE(source_file, period_name, sheet_row)
);

CREATE TABLE IF NOT EXISTS findings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_file TEXT NOT NULL,
	period_name TEXT NOT NULL,
	sheet_row INTEGER NOT NULL,
	provider TEXT NOT NULL,
	severity TEXT NOT NULL,
	message TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SourceFingerprint identifies one imported file's content by size and
// modification time. A changed fingerprint invalidates everything previously
// stored for that path.
type SourceFingerprint struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// Fingerprint stats a source file.
func Fingerprint(path string) (SourceFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceFingerprint{}, fmt.Errorf("stat source %s: %w", path, err)
	}
	return SourceFingerprint{
		Path:       path,
		Size:       info.Size(),
		ModifiedAt: info.ModTime().UTC(),
	}, nil
}

// SourceUnchanged reports whether the stored fingerprint for the path
// matches the given one. An unknown path is simply "changed".
func (s *SQLiteStore) SourceUnchanged(fp SourceFingerprint) (bool, error) {
	var (
		size       int64
		modifiedAt string
	)
	err := s.db.QueryRow(`SELECT size, modified_at FROM sources WHERE path = ?;`, fp.Path).Scan(&size, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query source %s: %w", fp.Path, err)
	}

	stored, err := time.Parse(time.RFC3339Nano, modifiedAt)
	if err != nil {
		return false, fmt.Errorf("parse stored modified_at %q: %w", modifiedAt, err)
	}
	return size == fp.Size && stored.Equal(fp.ModifiedAt), nil
}

// ReplaceSource atomically swaps everything stored for one source file:
// the old entries and findings are deleted and the fresh results inserted
// under the new fingerprint. A stale snapshot can therefore never outlive a
// change to its source.
func (s *SQLiteStore) ReplaceSource(
	fp SourceFingerprint,
	entries []timesheet.Entry,
	parsed []timesheet.ParsedEntry,
	findings []timesheet.Finding,
) (int, error) {
	if len(entries) != len(parsed) {
		return 0, fmt.Errorf("entries and parsed views differ in length: %d vs %d", len(entries), len(parsed))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE source_file = ?;`, fp.Path); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete entries for %s: %w", fp.Path, err)
	}
	if _, err := tx.Exec(`DELETE FROM findings WHERE source_file = ?;`, fp.Path); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete findings for %s: %w", fp.Path, err)
	}

	const upsertSource = `
INSERT INTO sources (path, size, modified_at) VALUES (?, ?, ?)
ON CONFLICT(path) DO UPDATE SET size = excluded.size, modified_at = excluded.modified_at, imported_at = CURRENT_TIMESTAMP;`
	if _, err := tx.Exec(upsertSource, fp.Path, fp.Size, fp.ModifiedAt.Format(time.RFC3339Nano)); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("upsert source %s: %w", fp.Path, err)
	}

	inserted, err := insertEntries(tx, entries, parsed)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := insertFindings(tx, findings); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

func insertEntries(tx *sql.Tx, entries []timesheet.Entry, parsed []timesheet.ParsedEntry) (int, error) {
	const insertStmt = `
INSERT INTO entries (
	source_file, period_name, sheet_row, provider, reporting_year, period_end,
	position, last_name, first_name, class, month, day, start_time, end_time, duration, notes,
	position_key, date, start_seconds, end_seconds, end_corrected,
	computed_hours, declared_hours, rounded_hours
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		return 0, fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i, entry := range entries {
		view := parsed[i]

		periodEnd := ""
		if !entry.PeriodEnd.IsZero() {
			periodEnd = entry.PeriodEnd.Format(time.RFC3339)
		}
		date := ""
		if view.DateOK {
			date = view.Date.Format(time.RFC3339)
		}

		_, err := stmt.Exec(
			entry.SourceFile, entry.PeriodName, entry.SheetRow, entry.Provider, entry.ReportingYear, periodEnd,
			entry.Position, entry.LastName, entry.FirstName, entry.Class, entry.Month, entry.Day,
			entry.StartTime, entry.EndTime, entry.Duration, entry.Notes,
			view.PositionKey, date,
			nullableSeconds(view.Start, view.StartOK), nullableSeconds(view.End, view.EndOK),
			boolToInt(view.EndCorrected),
			nullableFloat(view.ComputedHours, view.ComputedOK),
			nullableFloat(view.DeclaredHours, view.DeclaredOK),
			nullableFloat(view.RoundedHours, view.DeclaredOK),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert entry %s row %d: %w", entry.PeriodName, entry.SheetRow, err)
		}
		inserted++
	}
	return inserted, nil
}

func insertFindings(tx *sql.Tx, findings []timesheet.Finding) error {
	const insertStmt = `
INSERT INTO findings (source_file, period_name, sheet_row, provider, severity, message)
VALUES (?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		return fmt.Errorf("prepare finding insert: %w", err)
	}
	defer stmt.Close()

	for _, finding := range findings {
		_, err := stmt.Exec(
			finding.SourceFile, finding.PeriodName, finding.SheetRow,
			finding.Provider, finding.Severity.String(), finding.Message,
		)
		if err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}
	return nil
}

// ListEntries returns all stored entries with their parsed views, in
// insertion order (source by source, periods and rows as assembled).
func (s *SQLiteStore) ListEntries() ([]timesheet.Entry, []timesheet.ParsedEntry, error) {
	const query = `
SELECT
	source_file, period_name, sheet_row, provider, reporting_year, period_end,
	position, last_name, first_name, class, month, day, start_time, end_time, duration, notes,
	position_key, date, start_seconds, end_seconds, end_corrected,
	computed_hours, declared_hours, rounded_hours
FROM entries
ORDER BY id;`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]timesheet.Entry, 0, 256)
	parsed := make([]timesheet.ParsedEntry, 0, 256)
	for rows.Next() {
		var (
			entry        timesheet.Entry
			view         timesheet.ParsedEntry
			periodEnd    string
			date         string
			startSeconds sql.NullInt64
			endSeconds   sql.NullInt64
			endCorrected int
			computed     sql.NullFloat64
			declared     sql.NullFloat64
			rounded      sql.NullFloat64
		)

		if err := rows.Scan(
			&entry.SourceFile, &entry.PeriodName, &entry.SheetRow, &entry.Provider, &entry.ReportingYear, &periodEnd,
			&entry.Position, &entry.LastName, &entry.FirstName, &entry.Class, &entry.Month, &entry.Day,
			&entry.StartTime, &entry.EndTime, &entry.Duration, &entry.Notes,
			&view.PositionKey, &date, &startSeconds, &endSeconds, &endCorrected,
			&computed, &declared, &rounded,
		); err != nil {
			return nil, nil, fmt.Errorf("scan entry: %w", err)
		}

		if periodEnd != "" {
			entry.PeriodEnd, err = time.Parse(time.RFC3339, periodEnd)
			if err != nil {
				return nil, nil, fmt.Errorf("parse period end %q: %w", periodEnd, err)
			}
		}
		if date != "" {
			view.Date, err = time.Parse(time.RFC3339, date)
			if err != nil {
				return nil, nil, fmt.Errorf("parse date %q: %w", date, err)
			}
			view.DateOK = true
		}

		// Month/day numbers are not stored; rebuild them from the raw
		// cells the same way the row parser does.
		view.Month, view.MonthOK = timesheet.ParseMonth(entry.Month)
		view.Day, view.DayOK = timesheet.ParseInt(entry.Day)

		if startSeconds.Valid {
			view.Start = timesheet.ClockFromSeconds(int(startSeconds.Int64))
			view.StartOK = true
		}
		if endSeconds.Valid {
			view.End = timesheet.ClockFromSeconds(int(endSeconds.Int64))
			view.EndOK = true
		}
		view.EndCorrected = endCorrected != 0
		if computed.Valid {
			view.ComputedHours = computed.Float64
			view.ComputedOK = true
		}
		if declared.Valid {
			view.DeclaredHours = declared.Float64
			view.DeclaredOK = true
		}
		if rounded.Valid {
			view.RoundedHours = rounded.Float64
		}

		entries = append(entries, entry)
		parsed = append(parsed, view)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, parsed, nil
}

// ListFindings returns all stored findings in insertion order.
func (s *SQLiteStore) ListFindings() ([]timesheet.Finding, error) {
	const query = `
SELECT source_file, period_name, sheet_row, provider, severity, message
FROM findings
ORDER BY id;`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	findings := make([]timesheet.Finding, 0, 64)
	for rows.Next() {
		var (
			finding  timesheet.Finding
			severity string
		)
		if err := rows.Scan(
			&finding.SourceFile, &finding.PeriodName, &finding.SheetRow,
			&finding.Provider, &severity, &finding.Message,
		); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}

		parsed, ok := timesheet.SeverityFromString(severity)
		if !ok {
			return nil, fmt.Errorf("unknown severity %q in findings table", severity)
		}
		finding.Severity = parsed

		findings = append(findings, finding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}
	return findings, nil
}

// DeleteSource removes a source file's fingerprint, entries, and findings.
func (s *SQLiteStore) DeleteSource(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM sources WHERE path = ?;`, path)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete source %s: %w", path, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("read deleted row count: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrSourceNotFound
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE source_file = ?;`, path); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete entries for %s: %w", path, err)
	}
	if _, err := tx.Exec(`DELETE FROM findings WHERE source_file = ?;`, path); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete findings for %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func nullableSeconds(clock timesheet.ClockTime, ok bool) any {
	if !ok {
		return nil
	}
	return clock.Seconds()
}

func nullableFloat(value float64, ok bool) any {
	if !ok {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
