package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// ConflictRepository stores the latest conflict audit. Only one set is kept.
type ConflictRepository struct {
	db *sqlx.DB
}

// NewConflictRepository constructs a ConflictRepository.
func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

func (r *ConflictRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Replace clears the previous conflict set and stores the new one.
func (r *ConflictRepository) Replace(ctx context.Context, exec sqlx.ExtContext, conflicts []models.Conflict) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, "DELETE FROM conflicts"); err != nil {
		return fmt.Errorf("clear conflicts: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO conflicts (id, position, kind, entity_id, timeslot_id, reason, entry_a, entry_b, created_at)
VALUES (:id, :position, :kind, :entity_id, :timeslot_id, :reason, :entry_a, :entry_b, :created_at)`
	for i := range conflicts {
		conflict := &conflicts[i]
		if conflict.ID == "" {
			conflict.ID = uuid.NewString()
		}
		conflict.Position = i
		conflict.CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, conflict); err != nil {
			return fmt.Errorf("insert conflict: %w", err)
		}
	}
	return nil
}

// List returns the stored conflicts, optionally filtered by kind, in detection order.
func (r *ConflictRepository) List(ctx context.Context, kind models.ConflictKind) ([]models.Conflict, error) {
	query := "SELECT id, position, kind, entity_id, timeslot_id, reason, entry_a, entry_b, created_at FROM conflicts"
	var args []interface{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY position ASC"

	var conflicts []models.Conflict
	if err := r.db.SelectContext(ctx, &conflicts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	return conflicts, nil
}
