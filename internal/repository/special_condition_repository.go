package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schedulecore/masterschedule/internal/models"
)

// SpecialConditionRepository manages persistence for SpecialConditions.
type SpecialConditionRepository struct {
	db *sqlx.DB
}

// NewSpecialConditionRepository constructs a SpecialConditionRepository.
func NewSpecialConditionRepository(db *sqlx.DB) *SpecialConditionRepository {
	return &SpecialConditionRepository{db: db}
}

const specialConditionColumns = `id, target_kind, target_id, condition_type, severity, day_of_week, start_time,
	end_time, penalty_weight, pairing_ref, created_at`

// ListForSchedule returns the special conditions in force for a schedule's
// entity pool. Conditions are attached to entities, not schedules, so this
// returns every condition; callers filter by target_id against the
// problem's loaded teachers/students/courses/rooms.
func (r *SpecialConditionRepository) ListForSchedule(ctx context.Context, scheduleID string) ([]models.SpecialCondition, error) {
	query := fmt.Sprintf(`SELECT %s FROM special_conditions ORDER BY id`, specialConditionColumns)
	var conditions []models.SpecialCondition
	if err := r.db.SelectContext(ctx, &conditions, query); err != nil {
		return nil, fmt.Errorf("list special conditions: %w", err)
	}
	return conditions, nil
}

// ListByTarget returns the special conditions attached to one entity.
func (r *SpecialConditionRepository) ListByTarget(ctx context.Context, targetKind models.ConditionTarget, targetID string) ([]models.SpecialCondition, error) {
	query := fmt.Sprintf(`SELECT %s FROM special_conditions WHERE target_kind = $1 AND target_id = $2 ORDER BY id`, specialConditionColumns)
	var conditions []models.SpecialCondition
	if err := r.db.SelectContext(ctx, &conditions, query, targetKind, targetID); err != nil {
		return nil, fmt.Errorf("list special conditions by target: %w", err)
	}
	return conditions, nil
}
