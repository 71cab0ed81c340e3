package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error)
	Save(ctx context.Context, schedule *models.Schedule) error
	SaveSlots(ctx context.Context, scheduleID string, slots []models.ScheduleSlot) error
	FindByIDWithSlots(ctx context.Context, id string) (*models.Schedule, []models.ScheduleSlot, error)
	Delete(ctx context.Context, id string) error
}

type scheduleConflictRepository interface {
	ListForSchedule(ctx context.Context, scheduleID string) ([]models.Conflict, error)
}

// ScheduleDetail bundles a schedule header with its slots and the
// conflicts currently recorded against it.
type ScheduleDetail struct {
	Schedule  models.Schedule       `json:"schedule"`
	Slots     []models.ScheduleSlot `json:"slots"`
	Conflicts []models.Conflict     `json:"conflicts"`
}

// CreateScheduleRequest describes payload for registering a schedule header,
// ahead of a generation run populating its slots.
type CreateScheduleRequest struct {
	Name                string                `json:"name" validate:"required"`
	Period              models.SchedulePeriod `json:"period" validate:"required"`
	Type                models.ScheduleType   `json:"type" validate:"required"`
	StartDate           string                `json:"start_date" validate:"required"`
	EndDate             string                `json:"end_date" validate:"required"`
	SchoolStartTime     string                `json:"school_start_time" validate:"required"`
	SchoolEndTime       string                `json:"school_end_time" validate:"required"`
	SlotDurationMinutes int                   `json:"slot_duration_minutes" validate:"required,min=1"`
}

// ScheduleService coordinates schedule header CRUD, detail retrieval, and
// deletion; generation itself belongs to ScheduleGeneratorService.
type ScheduleService struct {
	repo      scheduleRepository
	conflicts scheduleConflictRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, conflicts scheduleConflictRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, conflicts: conflicts, validator: validate, logger: logger}
}

// List returns schedules with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return schedules, pagination, nil
}

// Create registers a new schedule header with no slots; slots are
// populated by a subsequent generation run.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start_date")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end_date")
	}

	schedule := &models.Schedule{
		Name:                req.Name,
		Period:              req.Period,
		Type:                req.Type,
		StartDate:           startDate,
		EndDate:             endDate,
		SchoolStartTime:     req.SchoolStartTime,
		SchoolEndTime:       req.SchoolEndTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		Status:              models.ScheduleStatusDraft,
	}
	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return schedule, nil
}

// GetDetail loads a schedule header, its slots, and its recorded conflicts.
func (s *ScheduleService) GetDetail(ctx context.Context, id string) (*ScheduleDetail, error) {
	schedule, slots, err := s.repo.FindByIDWithSlots(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	conflicts, err := s.conflicts.ListForSchedule(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule conflicts")
	}
	return &ScheduleDetail{Schedule: *schedule, Slots: slots, Conflicts: conflicts}, nil
}

// Delete removes a schedule and its slots.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, _, err := s.repo.FindByIDWithSlots(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}
