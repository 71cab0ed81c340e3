package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schedulecore/masterschedule/internal/models"
)

// LunchWaveRepository manages persistence for LunchWaves.
type LunchWaveRepository struct {
	db *sqlx.DB
}

// NewLunchWaveRepository constructs a LunchWaveRepository.
func NewLunchWaveRepository(db *sqlx.DB) *LunchWaveRepository {
	return &LunchWaveRepository{db: db}
}

const lunchWaveColumns = `id, wave_order, start_time, end_time, max_capacity, grade_level_restriction,
	current_assignments, active, created_at, updated_at`

// ListActive returns every active lunch wave ordered by wave order, the
// slate the lunch-wave assigner partitions students across.
func (r *LunchWaveRepository) ListActive(ctx context.Context) ([]models.LunchWave, error) {
	query := fmt.Sprintf(`SELECT %s FROM lunch_waves WHERE active = TRUE ORDER BY wave_order`, lunchWaveColumns)
	var waves []models.LunchWave
	if err := r.db.SelectContext(ctx, &waves, query); err != nil {
		return nil, fmt.Errorf("list active lunch waves: %w", err)
	}
	return waves, nil
}

// Create inserts a new lunch wave.
func (r *LunchWaveRepository) Create(ctx context.Context, wave *models.LunchWave) error {
	if wave.ID == "" {
		wave.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if wave.CreatedAt.IsZero() {
		wave.CreatedAt = now
	}
	wave.UpdatedAt = now
	const query = `INSERT INTO lunch_waves (id, wave_order, start_time, end_time, max_capacity,
		grade_level_restriction, current_assignments, active, created_at, updated_at)
		VALUES (:id, :wave_order, :start_time, :end_time, :max_capacity, :grade_level_restriction,
		:current_assignments, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, wave); err != nil {
		return fmt.Errorf("create lunch wave: %w", err)
	}
	return nil
}

// UpdateAssignmentCount persists a wave's current_assignments counter after
// a placement or rebalance pass.
func (r *LunchWaveRepository) UpdateAssignmentCount(ctx context.Context, waveID string, count int) error {
	const query = `UPDATE lunch_waves SET current_assignments = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, waveID, count, time.Now().UTC()); err != nil {
		return fmt.Errorf("update lunch wave assignment count: %w", err)
	}
	return nil
}
