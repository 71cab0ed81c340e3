package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schedulecore/masterschedule/internal/models"
)

// ScheduleRepository provides persistence for schedules and their slots,
// and is the concrete binding for the scheduling core's ScheduleStore
// capability (save / save_slots / find_by_id_with_slots).
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, name, period, type, start_date, end_date, school_start_time, school_end_time,
	slot_duration_minutes, status, optimization_score, total_conflicts, teacher_utilization, room_utilization,
	created_at, updated_at`

const scheduleSlotColumns = `id, schedule_id, course_id, teacher_id, room_id, day_of_week, start_time, end_time,
	period_number, pinned, conflict_flag, conflict_reason, status, created_at, updated_at`

// List returns schedules with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	base := "FROM schedules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy != "created_at" && sortBy != "start_date" {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", scheduleColumns, base, sortBy, order, size, offset)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return schedules, total, nil
}

// Save inserts or updates a schedule header (the `save(schedule)` capability).
func (r *ScheduleRepository) Save(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (id, name, period, type, start_date, end_date, school_start_time,
		school_end_time, slot_duration_minutes, status, optimization_score, total_conflicts, teacher_utilization,
		room_utilization, created_at, updated_at)
		VALUES (:id, :name, :period, :type, :start_date, :end_date, :school_start_time, :school_end_time,
		:slot_duration_minutes, :status, :optimization_score, :total_conflicts, :teacher_utilization,
		:room_utilization, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, status = EXCLUDED.status,
		optimization_score = EXCLUDED.optimization_score, total_conflicts = EXCLUDED.total_conflicts,
		teacher_utilization = EXCLUDED.teacher_utilization, room_utilization = EXCLUDED.room_utilization,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

// SaveSlots replaces a schedule's unpinned slots with slots in a single
// transaction (the `save_slots(slots)` capability): it deletes the
// schedule's unpinned slots, keeps its pinned ones, then writes every given
// slot. Grounded on the teacher's bulk-insert-within-a-transaction pattern,
// generalized from append-only inserts since the solver writes back the
// complete best individual, not an incremental delta.
func (r *ScheduleRepository) SaveSlots(ctx context.Context, scheduleID string, slots []models.ScheduleSlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save slots: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedule_slots WHERE schedule_id = $1 AND pinned = FALSE`, scheduleID); err != nil {
		return fmt.Errorf("clear unpinned slots: %w", err)
	}

	if err = r.bulkInsertSlots(ctx, tx, slots); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save slots: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) bulkInsertSlots(ctx context.Context, exec sqlx.ExtContext, slots []models.ScheduleSlot) error {
	now := time.Now().UTC()
	for i := range slots {
		slot := slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		slot.UpdatedAt = now

		const insert = `INSERT INTO schedule_slots (id, schedule_id, course_id, teacher_id, room_id, day_of_week,
			start_time, end_time, period_number, pinned, conflict_flag, conflict_reason, status, created_at, updated_at)
			VALUES (:id, :schedule_id, :course_id, :teacher_id, :room_id, :day_of_week, :start_time, :end_time,
			:period_number, :pinned, :conflict_flag, :conflict_reason, :status, :created_at, :updated_at)
			ON CONFLICT (id) DO UPDATE SET day_of_week = EXCLUDED.day_of_week, start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time, teacher_id = EXCLUDED.teacher_id, room_id = EXCLUDED.room_id,
			conflict_flag = EXCLUDED.conflict_flag, conflict_reason = EXCLUDED.conflict_reason,
			status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
		if _, err := sqlx.NamedExecContext(ctx, exec, insert, &slot); err != nil {
			return fmt.Errorf("bulk insert slot: %w", err)
		}
		slots[i] = slot
	}
	return nil
}

// FindByIDWithSlots loads a schedule header together with every slot
// belonging to it (the `find_by_id_with_slots(id)` capability).
func (r *ScheduleRepository) FindByIDWithSlots(ctx context.Context, id string) (*models.Schedule, []models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE id = $1`, scheduleColumns)
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, nil, fmt.Errorf("find schedule: %w", err)
	}

	slotQuery := fmt.Sprintf(`SELECT %s FROM schedule_slots WHERE schedule_id = $1 ORDER BY day_of_week, start_time`, scheduleSlotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, slotQuery, id); err != nil {
		return nil, nil, fmt.Errorf("find schedule slots: %w", err)
	}

	return &schedule, slots, nil
}

// Delete removes a schedule and cascades to its slots.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
