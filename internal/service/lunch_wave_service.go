package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/lunch"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

type lunchWaveRepository interface {
	ListActive(ctx context.Context) ([]models.LunchWave, error)
	Create(ctx context.Context, wave *models.LunchWave) error
	UpdateAssignmentCount(ctx context.Context, waveID string, count int) error
}

type lunchStudentRepository interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	AssignLunchWave(ctx context.Context, studentID string, lunchWaveID *string) error
}

type lunchTeacherRepository interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

// CreateLunchWaveRequest holds payload for creating lunch waves.
type CreateLunchWaveRequest struct {
	WaveOrder             int     `json:"wave_order" validate:"required,min=1"`
	StartTime             string  `json:"start_time" validate:"required"`
	EndTime               string  `json:"end_time" validate:"required"`
	MaxCapacity           int     `json:"max_capacity" validate:"required,min=1"`
	GradeLevelRestriction *int    `json:"grade_level_restriction"`
}

// RunAssignmentRequest drives one lunch-wave assignment pass.
type RunAssignmentRequest struct {
	Method   models.LunchAssignmentMethod `json:"method" validate:"required"`
	Manual   map[string]string            `json:"manual,omitempty"`
	Locked   []string                     `json:"locked,omitempty"`
	DutyFree []string                     `json:"duty_free_teacher_ids,omitempty"`
	Seed     int64                        `json:"seed,omitempty"`
}

// AssignmentReport summarizes an assignment pass plus the teacher duty roster.
type AssignmentReport struct {
	Result             lunch.AssignmentResult  `json:"result"`
	TeacherAssignments []lunch.TeacherAssignment `json:"teacher_assignments"`
	Valid              bool                    `json:"valid"`
}

// LunchWaveService orchestrates lunch-wave management and assignment runs.
type LunchWaveService struct {
	waves     lunchWaveRepository
	students  lunchStudentRepository
	teachers  lunchTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLunchWaveService constructs the lunch wave service.
func NewLunchWaveService(waves lunchWaveRepository, students lunchStudentRepository, teachers lunchTeacherRepository, validate *validator.Validate, logger *zap.Logger) *LunchWaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LunchWaveService{waves: waves, students: students, teachers: teachers, validator: validate, logger: logger}
}

// List returns every active lunch wave.
func (s *LunchWaveService) List(ctx context.Context) ([]models.LunchWave, error) {
	waves, err := s.waves.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lunch waves")
	}
	return waves, nil
}

// Create registers a new lunch wave.
func (s *LunchWaveService) Create(ctx context.Context, req CreateLunchWaveRequest) (*models.LunchWave, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lunch wave payload")
	}
	wave := &models.LunchWave{
		WaveOrder:             req.WaveOrder,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		MaxCapacity:           req.MaxCapacity,
		GradeLevelRestriction: req.GradeLevelRestriction,
		Active:                true,
	}
	if err := s.waves.Create(ctx, wave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lunch wave")
	}
	return wave, nil
}

// RunAssignment assigns every active student to a wave, persists the
// placements, and pairs each wave with a non-duty-free teacher.
func (s *LunchWaveService) RunAssignment(ctx context.Context, req RunAssignmentRequest) (*AssignmentReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment request")
	}
	waves, err := s.waves.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lunch waves")
	}
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	locked := make(map[string]bool, len(req.Locked))
	for _, id := range req.Locked {
		locked[id] = true
	}
	dutyFree := make(map[string]bool, len(req.DutyFree))
	for _, id := range req.DutyFree {
		dutyFree[id] = true
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	result := lunch.Assign(req.Method, students, waves, req.Manual, locked, rng)
	for studentID, waveID := range result.Assignments {
		wid := waveID
		if err := s.students.AssignLunchWave(ctx, studentID, &wid); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist lunch wave assignment")
		}
	}

	counts := make(map[string]int, len(waves))
	for _, waveID := range result.Assignments {
		counts[waveID]++
	}
	for _, wave := range waves {
		if err := s.waves.UpdateAssignmentCount(ctx, wave.ID, counts[wave.ID]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lunch wave capacity")
		}
	}

	teacherAssignments := lunch.AssignTeachers(teachers, waves, dutyFree)
	valid := lunch.AreAssignmentsValid(students, waves, result, teacherAssignments)

	return &AssignmentReport{Result: result, TeacherAssignments: teacherAssignments, Valid: valid}, nil
}
