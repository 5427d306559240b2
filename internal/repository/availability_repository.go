package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// AvailabilityRepository manages faculty availability records.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns every availability record, optionally restricted to one faculty.
func (r *AvailabilityRepository) List(ctx context.Context, facultyID string) ([]models.Availability, error) {
	query := "SELECT id, faculty_id, timeslot_id, is_available, created_at, updated_at FROM faculty_availability"
	var args []interface{}
	if facultyID != "" {
		query += " WHERE faculty_id = ?"
		args = append(args, facultyID)
	}
	query += " ORDER BY created_at ASC, id ASC"

	var records []models.Availability
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return records, nil
}

// Upsert stores the availability of a faculty at a timeslot, replacing any previous value for the pair.
func (r *AvailabilityRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, record *models.Availability) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `
INSERT INTO faculty_availability (id, faculty_id, timeslot_id, is_available, created_at, updated_at)
VALUES (:id, :faculty_id, :timeslot_id, :is_available, :created_at, :updated_at)
ON CONFLICT (faculty_id, timeslot_id) DO UPDATE
SET is_available = EXCLUDED.is_available,
    updated_at = EXCLUDED.updated_at
RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.exec(exec), query, record)
	if err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&record.ID); err != nil {
			return fmt.Errorf("scan availability: %w", err)
		}
	}
	return rows.Err()
}

// Delete removes a single availability record.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM faculty_availability WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	return expectAffected(result)
}
