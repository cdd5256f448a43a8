package storage

import (
	"database/sql"
)

// Schema version tracking
const currentSchemaVersion = 1

// EnsureSchema creates every table and index if absent. It is idempotent:
// running it against an already-initialized database changes nothing.
func (db *DB) EnsureSchema() error {
	err := db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createAppointmentsTable(tx); err != nil {
			return err
		}
		if err := createCompaniesTable(tx); err != nil {
			return err
		}
		if err := createAuditEventsTable(tx); err != nil {
			return err
		}
		return setSchemaVersionIfNew(tx, currentSchemaVersion)
	})
	if err != nil {
		return err
	}

	db.logger.Debug("schema ensured", "version", currentSchemaVersion)
	return nil
}

func createAppointmentsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company TEXT NOT NULL,
			patient_name TEXT NOT NULL,
			modality TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			report_pdf TEXT,
			evaluation_pdf TEXT,
			status TEXT NOT NULL DEFAULT 'Agendado',
			notes TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
		)
	`)
	if err != nil {
		return classify("create appointments table", err)
	}

	// List and filter operations predicate on date and company.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_company ON appointments(company)`,
	}
	for _, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return classify("create appointments index", err)
		}
	}
	return nil
}

// companies is deduplicated by name; rows are inserted on first reference
// and never overwritten.
func createCompaniesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS companies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
		)
	`)
	if err != nil {
		return classify("create companies table", err)
	}
	return nil
}

// audit_events mirrors the append-only file log inside the store, so the
// action trail survives log rotation. Writes to it are best-effort.
func createAuditEventsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS audit_events (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			details TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
		)
	`)
	if err != nil {
		return classify("create audit_events table", err)
	}
	return nil
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return classify("create schema_version table", err)
	}
	return nil
}

func setSchemaVersionIfNew(tx *sql.Tx, version int) error {
	var existing int
	err := tx.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&existing)
	if err == sql.ErrNoRows {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			return classify("set schema version", err)
		}
		return nil
	}
	if err != nil {
		return classify("read schema version", err)
	}
	// Migrations hook: bump currentSchemaVersion and migrate here when the
	// schema evolves.
	return nil
}

// SchemaVersion reports the version stored in the database.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, classify("read schema version", err)
	}
	return version, nil
}
