package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the single source of truth for the database schema. Repository
// tests load it via GetSchemaSQL() instead of declaring their own tables, so
// a column referenced by code but missing here fails immediately.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run the repository tests to verify alignment
const SchemaSQL = `
-- Participants (every chat user who has interacted at least once)
CREATE TABLE IF NOT EXISTS participants (
	id INTEGER PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	in_queue INTEGER NOT NULL DEFAULT 0 CHECK(in_queue IN (0, 1)),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Queue (id is the sequence number; AUTOINCREMENT never reuses it)
CREATE TABLE IF NOT EXISTS queue (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	participant_id INTEGER NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	notified INTEGER NOT NULL DEFAULT 0 CHECK(notified IN (0, 1)),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (participant_id) REFERENCES participants(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_participant ON queue(participant_id);
CREATE INDEX IF NOT EXISTS idx_queue_notified ON queue(notified, id);
`

// InitSchema creates the database schema on a fresh database, or runs
// pending migrations on an existing one.
func InitSchema(database *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(database)
	}

	// Tables from an unversioned install need the migration path.
	var oldTableCount int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('participants', 'queue')").Scan(&oldTableCount)
	if err != nil {
		return err
	}
	if oldTableCount > 0 {
		return RunMigrations(database)
	}

	// Completely fresh install - create modern schema directly and mark all
	// migrations as applied.
	tx, err := database.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(SchemaSQL); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(schemaVersionSQL); err != nil {
		tx.Rollback()
		return err
	}
	for _, m := range migrations {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
