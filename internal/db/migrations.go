package db

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_participants_and_queue",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_notified_flag_to_queue",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_queue_indexes",
		Up:      migrationV3,
	},
}

const schemaVersionSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// LatestVersion returns the version of the newest migration.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// CurrentVersion returns the highest applied migration version (0 if none).
func CurrentVersion(database *sql.DB) (int, error) {
	if _, err := database.Exec(schemaVersionSQL); err != nil {
		return 0, fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return currentVersion, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB) error {
	currentVersion, err := CurrentVersion(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log.WithFields(log.Fields{"version": migration.Version, "name": migration.Name}).Info("running migration")

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the participant registry and the queue table.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS participants (
			id INTEGER PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			in_queue INTEGER NOT NULL DEFAULT 0 CHECK(in_queue IN (0, 1)),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create participants table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS queue (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id INTEGER NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (participant_id) REFERENCES participants(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create queue table: %w", err)
	}
	return nil
}

// migrationV2 adds the one-shot notification flag to queue entries, and the
// timestamp columns unversioned installs were created without.
func migrationV2(tx *sql.Tx) error {
	columns := []struct{ table, name, def string }{
		{"queue", "notified", "INTEGER NOT NULL DEFAULT 0 CHECK(notified IN (0, 1))"},
		{"queue", "created_at", "DATETIME"},
		{"participants", "created_at", "DATETIME"},
		{"participants", "updated_at", "DATETIME"},
	}
	for _, c := range columns {
		if err := addColumnIfMissing(tx, c.table, c.name, c.def); err != nil {
			return err
		}
	}
	return nil
}

func addColumnIfMissing(tx *sql.Tx, table, column, def string) error {
	var exists int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to inspect %s table: %w", table, err)
	}
	if exists > 0 {
		return nil
	}

	_, err = tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, def))
	if err != nil {
		return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
	}
	return nil
}

// migrationV3 enforces one entry per participant and indexes the notifier scan.
func migrationV3(tx *sql.Tx) error {
	// Keep the earliest entry if an unversioned install left duplicates behind.
	_, err := tx.Exec(`
		DELETE FROM queue WHERE id NOT IN (
			SELECT MIN(id) FROM queue GROUP BY participant_id
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to remove duplicate queue entries: %w", err)
	}

	// Every entry needs a registered participant.
	_, err = tx.Exec(`
		INSERT OR IGNORE INTO participants (id, display_name)
		SELECT participant_id, display_name FROM queue
	`)
	if err != nil {
		return fmt.Errorf("failed to register queued participants: %w", err)
	}

	// in_queue must mirror membership after the clean-up.
	_, err = tx.Exec(`
		UPDATE participants
		SET in_queue = CASE WHEN id IN (SELECT participant_id FROM queue) THEN 1 ELSE 0 END
	`)
	if err != nil {
		return fmt.Errorf("failed to reconcile membership flags: %w", err)
	}

	_, err = tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_participant ON queue(participant_id)")
	if err != nil {
		return fmt.Errorf("failed to create participant index: %w", err)
	}

	_, err = tx.Exec("CREATE INDEX IF NOT EXISTS idx_queue_notified ON queue(notified, id)")
	if err != nil {
		return fmt.Errorf("failed to create notified index: %w", err)
	}
	return nil
}
