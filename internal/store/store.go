// Package store tracks installed addons in the Kodi Addons database. The
// "installed" table is the persistent record of which addons exist and
// whether each is enabled; it is independent of the addon directories on
// disk, and the two can disagree after out-of-band changes.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store addresses the installed table of one Addons database. Every
// operation opens its own scoped connection and releases it before
// returning, so concurrent kodictl runs only contend inside SQLite's own
// locking. Reads against a database that does not exist yet report empty
// state without creating the file; writes create the schema on demand.
type Store struct {
	path string
}

// StoreError reports a failed state-store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("state store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// New returns a Store for the given database path. No I/O happens until the
// first operation.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// openRead opens the database for a read operation. ok is false when the
// database file does not exist, which reads treat as empty state.
func (s *Store) openRead() (db *sql.DB, ok bool, err error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &StoreError{Op: "stat database", Err: err}
	}
	db, err = sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, false, &StoreError{Op: "open database", Err: err}
	}
	return db, true, nil
}

// dsn adds a busy timeout so concurrent kodictl runs wait on SQLite's file
// lock instead of failing immediately.
func (s *Store) dsn() string {
	return "file:" + s.path + "?_pragma=busy_timeout(5000)"
}

// openWrite opens the database for a write operation, creating the
// containing directory and the installed table if needed.
func (s *Store) openWrite() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, &StoreError{Op: "create database directory", Err: err}
	}
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, &StoreError{Op: "open database", Err: err}
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// IsInstalled reports whether a record exists for the addon.
func (s *Store) IsInstalled(addonID string) (bool, error) {
	db, ok, err := s.openRead()
	if err != nil || !ok {
		return false, err
	}
	defer db.Close()

	var one int
	err = db.QueryRow(`SELECT 1 FROM installed WHERE addonID = ?`, addonID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, &StoreError{Op: "query installed", Err: err}
	}
	return true, nil
}

// IsEnabled reports whether a record exists with the enabled flag set.
// A missing record is not an error; it simply reads as disabled.
func (s *Store) IsEnabled(addonID string) (bool, error) {
	db, ok, err := s.openRead()
	if err != nil || !ok {
		return false, err
	}
	defer db.Close()

	var enabled int
	err = db.QueryRow(`SELECT enabled FROM installed WHERE addonID = ?`, addonID).Scan(&enabled)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, &StoreError{Op: "query enabled", Err: err}
	}
	return enabled != 0, nil
}

// Upsert inserts a record for the addon or updates the enabled flag of the
// existing one. Inserts stamp the install time and rely on SQLite's rowid
// for the surrogate key, so concurrent runs targeting the same addon
// converge to a single row.
func (s *Store) Upsert(addonID string, enabled bool) error {
	db, err := s.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		INSERT INTO installed (addonID, enabled, installDate, lastUpdated, lastUsed, origin)
		VALUES (?, ?, datetime('now'), NULL, NULL, '')
		ON CONFLICT(addonID) DO UPDATE SET enabled = excluded.enabled`,
		addonID, boolInt(enabled))
	if err != nil {
		return &StoreError{Op: "upsert " + addonID, Err: err}
	}
	return nil
}

// EnsurePresent inserts a record with the store's default enabled state if
// none exists, and leaves an existing record completely untouched. Used for
// dependencies pulled in alongside an explicitly requested addon.
func (s *Store) EnsurePresent(addonID string) error {
	db, err := s.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		INSERT INTO installed (addonID, enabled, installDate, lastUpdated, lastUsed, origin)
		VALUES (?, 1, datetime('now'), NULL, NULL, '')
		ON CONFLICT(addonID) DO NOTHING`,
		addonID)
	if err != nil {
		return &StoreError{Op: "ensure " + addonID, Err: err}
	}
	return nil
}

// Delete removes the record for the addon and reports whether a row was
// actually removed. A missing database means there was nothing to delete.
func (s *Store) Delete(addonID string) (bool, error) {
	db, ok, err := s.openRead()
	if err != nil || !ok {
		return false, err
	}
	defer db.Close()

	res, err := db.Exec(`DELETE FROM installed WHERE addonID = ?`, addonID)
	if err != nil {
		return false, &StoreError{Op: "delete " + addonID, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &StoreError{Op: "delete " + addonID, Err: err}
	}
	return n > 0, nil
}

// Record is one row of the installed table.
type Record struct {
	ID          int64
	AddonID     string
	Enabled     bool
	InstallDate string
}

// List returns all records ordered by addon id.
func (s *Store) List() ([]Record, error) {
	db, ok, err := s.openRead()
	if err != nil || !ok {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, addonID, enabled, COALESCE(installDate, '')
		FROM installed ORDER BY addonID`)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var enabled int
		if err := rows.Scan(&r.ID, &r.AddonID, &enabled, &r.InstallDate); err != nil {
			return nil, &StoreError{Op: "scan record", Err: err}
		}
		r.Enabled = enabled != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
