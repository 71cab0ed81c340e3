package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Deactivate(ctx context.Context, id string) error
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Code                string          `json:"code" validate:"required"`
	Subject             string          `json:"subject" validate:"required"`
	Department          string          `json:"department" validate:"required"`
	RequiredPeriodsWeek int             `json:"required_periods_week" validate:"required,min=1"`
	DurationMinutes     int             `json:"duration_minutes" validate:"required,min=1"`
	RequiredRoomType    models.RoomType `json:"required_room_type"`
	RequiresComputers   bool            `json:"requires_computers"`
	RequiredCerts       []string        `json:"required_certifications"`
	MinGPA              float64         `json:"min_gpa"`
	Singleton           bool            `json:"singleton"`
	MinStudents         int             `json:"min_students" validate:"min=0"`
	MaxStudents         int             `json:"max_students" validate:"min=0"`
	AssignedTeacherID   *string         `json:"assigned_teacher_id"`
	AssignedRoomID      *string         `json:"assigned_room_id"`
}

// UpdateCourseRequest holds payload for updating courses.
type UpdateCourseRequest struct {
	CreateCourseRequest
	Active bool `json:"active"`
}

// CourseService handles course CRUD.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns courses and pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := courseFromRequest(req)
	course.Active = true
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req.CreateCourseRequest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	course := courseFromRequest(req.CreateCourseRequest)
	course.ID = existing.ID
	course.Active = req.Active
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Deactivate marks a course inactive.
func (s *CourseService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate course")
	}
	return nil
}

func courseFromRequest(req CreateCourseRequest) *models.Course {
	course := &models.Course{
		Code:                strings.TrimSpace(req.Code),
		Subject:             strings.TrimSpace(req.Subject),
		Department:          strings.TrimSpace(req.Department),
		RequiredPeriodsWeek: req.RequiredPeriodsWeek,
		DurationMinutes:     req.DurationMinutes,
		RequiredRoomType:    req.RequiredRoomType,
		RequiresComputers:   req.RequiresComputers,
		MinGPA:              req.MinGPA,
		Singleton:           req.Singleton,
		MinStudents:         req.MinStudents,
		MaxStudents:         req.MaxStudents,
		AssignedTeacherID:   req.AssignedTeacherID,
		AssignedRoomID:      req.AssignedRoomID,
	}
	_ = marshalInto(&course.RequiredCertsJSON, req.RequiredCerts)
	return course
}
