package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

const entryColumns = "id, run_id, position, section_id, course_id, faculty_id, room_id, timeslot_id, created_at"

// TimetableRepository persists the current timetable and the history of generation runs.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListEntries returns the persisted assignments in scheduling order.
func (r *TimetableRepository) ListEntries(ctx context.Context) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries ORDER BY position ASC", entryColumns)
	var entries []models.Assignment
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// ListEntryViews returns assignments joined with entity names in scheduling order.
func (r *TimetableRepository) ListEntryViews(ctx context.Context) ([]models.TimetableEntryView, error) {
	const query = `SELECT e.id, e.run_id, e.position, e.section_id, e.course_id, e.faculty_id, e.room_id, e.timeslot_id, e.created_at,
s.name AS section_name, c.name AS course_name, c.kind AS course_kind, f.name AS faculty_name, rm.name AS room_name,
t.day, t.slot
FROM timetable_entries e
JOIN sections s ON s.id = e.section_id
JOIN courses c ON c.id = e.course_id
JOIN faculties f ON f.id = e.faculty_id
JOIN rooms rm ON rm.id = e.room_id
JOIN timeslots t ON t.id = e.timeslot_id
ORDER BY e.position ASC`
	var views []models.TimetableEntryView
	if err := r.db.SelectContext(ctx, &views, query); err != nil {
		return nil, fmt.Errorf("list timetable views: %w", err)
	}
	return views, nil
}

// FindEntryByID fetches a single assignment.
func (r *TimetableRepository) FindEntryByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM timetable_entries WHERE id = ?", entryColumns))
	var entry models.Assignment
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReplaceEntries deletes every stored assignment and inserts the new set. Callers pass a transaction so
// readers never observe a partial timetable.
func (r *TimetableRepository) ReplaceEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.Assignment) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, "DELETE FROM timetable_entries"); err != nil {
		return fmt.Errorf("clear timetable entries: %w", err)
	}

	now := time.Now().UTC()
	query := fmt.Sprintf("INSERT INTO timetable_entries (%s) VALUES (:id, :run_id, :position, :section_id, :course_id, :faculty_id, :room_id, :timeslot_id, :created_at)", entryColumns)
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, entry); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}
	return nil
}

// DeleteEntries removes every stored assignment and reports how many were removed.
func (r *TimetableRepository) DeleteEntries(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM timetable_entries")
	if err != nil {
		return 0, fmt.Errorf("delete timetable entries: %w", err)
	}
	return result.RowsAffected()
}

// CreateRun records a generation run.
func (r *TimetableRepository) CreateRun(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	const query = `INSERT INTO timetable_runs (id, strategy, status, entries, error, started_at, finished_at)
VALUES (:id, :strategy, :status, :entries, :error, :started_at, :finished_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, run); err != nil {
		return fmt.Errorf("insert timetable run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (r *TimetableRepository) ListRuns(ctx context.Context, limit int) ([]models.TimetableRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT id, strategy, status, entries, error, started_at, finished_at FROM timetable_runs ORDER BY started_at DESC LIMIT %d", limit)
	var runs []models.TimetableRun
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, fmt.Errorf("list timetable runs: %w", err)
	}
	return runs, nil
}
