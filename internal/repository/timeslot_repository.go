package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

const timeslotColumns = "id, day, slot, start_time, end_time, created_at, updated_at"

// TimeSlotRepository manages persistence for timeslots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns timeslots in insertion order.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM timeslots ORDER BY created_at ASC, id ASC", timeslotColumns)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// FindByID fetches a timeslot by ID.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM timeslots WHERE id = ?", timeslotColumns))
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ExistsByDaySlot checks whether another timeslot already occupies (day, slot).
func (r *TimeSlotRepository) ExistsByDaySlot(ctx context.Context, day string, slot int) (bool, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM timeslots WHERE day = ? AND slot = ?")
	if err := r.db.GetContext(ctx, &count, query, day, slot); err != nil {
		return false, fmt.Errorf("check timeslot: %w", err)
	}
	return count > 0, nil
}

// Create inserts a timeslot.
func (r *TimeSlotRepository) Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO timeslots (id, day, slot, start_time, end_time, created_at, updated_at)
VALUES (:id, :day, :slot, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot); err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

// Update overwrites a timeslot's day, slot and times.
func (r *TimeSlotRepository) Update(ctx context.Context, slot *models.TimeSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timeslots SET day = :day, slot = :slot, start_time = :start_time, end_time = :end_time,
updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, slot)
	if err != nil {
		return fmt.Errorf("update timeslot: %w", err)
	}
	return expectAffected(result)
}

// Delete removes a timeslot.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM timeslots WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return expectAffected(result)
}
