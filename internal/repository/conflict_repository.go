package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schedulecore/masterschedule/internal/models"
)

// ConflictRepository persists the typed Conflict records the conflict
// detector (C4) emits when auditing a schedule.
type ConflictRepository struct {
	db *sqlx.DB
}

// NewConflictRepository constructs a ConflictRepository.
func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

const conflictColumns = `id, schedule_id, type, severity, category, title, description, suggested_resolution,
	detected_at, is_resolved, is_ignored`

// ReplaceForSchedule atomically swaps a schedule's conflict set for a
// freshly detected one, keeping audits idempotent up to record identity
// per the detector's contract.
func (r *ConflictRepository) ReplaceForSchedule(ctx context.Context, scheduleID string, conflicts []models.Conflict) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace conflicts: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM conflicts WHERE schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("clear conflicts: %w", err)
	}

	now := time.Now().UTC()
	for i := range conflicts {
		c := conflicts[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.DetectedAt.IsZero() {
			c.DetectedAt = now
		}
		const insert = `INSERT INTO conflicts (id, schedule_id, type, severity, category, title, description,
			suggested_resolution, detected_at, is_resolved, is_ignored)
			VALUES (:id, :schedule_id, :type, :severity, :category, :title, :description,
			:suggested_resolution, :detected_at, :is_resolved, :is_ignored)`
		if _, err = sqlx.NamedExecContext(ctx, tx, insert, &c); err != nil {
			return fmt.Errorf("insert conflict: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace conflicts: %w", err)
	}
	return nil
}

// ListForSchedule returns the conflicts currently recorded for a schedule.
func (r *ConflictRepository) ListForSchedule(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	query := fmt.Sprintf(`SELECT %s FROM conflicts WHERE schedule_id = $1 ORDER BY detected_at`, conflictColumns)
	var conflicts []models.Conflict
	if err := r.db.SelectContext(ctx, &conflicts, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	return conflicts, nil
}
