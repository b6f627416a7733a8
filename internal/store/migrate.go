package store

import "database/sql"

// ensureSchema creates the installed table when the database is fresh. The
// layout matches the Kodi Addons27 schema: an existing Kodi database already
// has this table and the statement is a no-op against it.
func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS installed (
			id          INTEGER PRIMARY KEY,
			addonID     TEXT UNIQUE,
			enabled     BOOLEAN,
			installDate TEXT,
			lastUpdated TEXT,
			lastUsed    TEXT,
			origin      TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return &StoreError{Op: "ensure schema", Err: err}
	}
	return nil
}
