// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All setup goes through setupTestDB(), which uses db.GetSchemaSQL()
// so tests run against the authoritative schema.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/queuebot/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Every pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedParticipant inserts a test participant and returns its ID.
func seedParticipant(t *testing.T, db *sql.DB, id int64, name string) int64 {
	t.Helper()
	if name == "" {
		name = "participant"
	}
	_, err := db.Exec("INSERT INTO participants (id, display_name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("failed to seed participant: %v", err)
	}
	return id
}

// seedEntry enqueues an already-seeded participant and returns the sequence number.
func seedEntry(t *testing.T, db *sql.DB, participantID int64, name string) int64 {
	t.Helper()
	result, err := db.Exec("INSERT INTO queue (participant_id, display_name) VALUES (?, ?)", participantID, name)
	if err != nil {
		t.Fatalf("failed to seed queue entry: %v", err)
	}
	seq, _ := result.LastInsertId()
	return seq
}
