package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is portable between PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS faculties (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    max_load INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS courses (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('theory', 'lab')),
    sessions_per_week INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS sections (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    student_count INTEGER NOT NULL,
    program TEXT,
    batch TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS rooms (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('theory', 'lab')),
    capacity INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS timeslots (
    id TEXT PRIMARY KEY,
    day TEXT NOT NULL,
    slot INTEGER NOT NULL,
    start_time TEXT,
    end_time TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (day, slot)
)`,
	`CREATE TABLE IF NOT EXISTS faculty_availability (
    id TEXT PRIMARY KEY,
    faculty_id TEXT NOT NULL REFERENCES faculties(id) ON DELETE CASCADE,
    timeslot_id TEXT NOT NULL REFERENCES timeslots(id) ON DELETE CASCADE,
    is_available BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (faculty_id, timeslot_id)
)`,
	`CREATE TABLE IF NOT EXISTS timetable_runs (
    id TEXT PRIMARY KEY,
    strategy TEXT NOT NULL,
    status TEXT NOT NULL,
    entries INTEGER NOT NULL DEFAULT 0,
    error TEXT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS timetable_entries (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES timetable_runs(id),
    position INTEGER NOT NULL,
    section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE RESTRICT,
    course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE RESTRICT,
    faculty_id TEXT NOT NULL REFERENCES faculties(id) ON DELETE RESTRICT,
    room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE RESTRICT,
    timeslot_id TEXT NOT NULL REFERENCES timeslots(id) ON DELETE RESTRICT,
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_timetable_entries_timeslot ON timetable_entries (timeslot_id)`,
	`CREATE TABLE IF NOT EXISTS conflicts (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    kind TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    timeslot_id TEXT NOT NULL,
    reason TEXT NOT NULL,
    entry_a TEXT NOT NULL,
    entry_b TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
)`,
}

// Migrate creates every table the service needs. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
