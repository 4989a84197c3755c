// Package testutil provides an in-memory database and seed helpers so the
// service tests run without a MySQL instance.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE users (
    id            TEXT NOT NULL PRIMARY KEY,
    employee_id   TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    department    TEXT NOT NULL DEFAULT '',
    created_at    DATETIME NOT NULL
);

CREATE TABLE attendance_records (
    id             TEXT NOT NULL PRIMARY KEY,
    user_id        TEXT NOT NULL REFERENCES users(id),
    day            TEXT NOT NULL,
    check_in_time  DATETIME NOT NULL,
    check_out_time DATETIME NULL,
    status         TEXT NOT NULL,
    total_hours    REAL NULL,
    created_at     DATETIME NOT NULL,
    UNIQUE (user_id, day)
);
`

// OpenDB opens a private in-memory SQLite database with the application
// schema applied. Closed via t.Cleanup.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// a single conn keeps the in-memory database alive across queries
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(schema); err != nil {
		_ = d.Close()
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SeedUser inserts a user row directly and returns its id.
func SeedUser(t *testing.T, d *sql.DB, id, employeeID, name, email, role, department string) string {
	t.Helper()
	_, err := d.ExecContext(context.Background(), `
	INSERT INTO users (id, employee_id, name, email, password_hash, role, department, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, employeeID, name, email, "x", role, department, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed user %s: %v", employeeID, err)
	}
	return id
}
