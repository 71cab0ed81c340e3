package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/pkg/config"
)

type mockEntityPool struct {
	teachers   []models.Teacher
	rooms      []models.Room
	courses    []models.Course
	students   []models.Student
	conditions []models.SpecialCondition
	waves      []models.LunchWave
}

func (m *mockEntityPool) ListActiveTeachers(ctx context.Context) ([]models.Teacher, error) { return m.teachers, nil }
func (m *mockEntityPool) ListActiveRooms(ctx context.Context) ([]models.Room, error)        { return m.rooms, nil }
func (m *mockEntityPool) ListActiveCourses(ctx context.Context) ([]models.Course, error)    { return m.courses, nil }
func (m *mockEntityPool) ListActiveStudents(ctx context.Context) ([]models.Student, error)  { return m.students, nil }
func (m *mockEntityPool) ListActiveConditions(ctx context.Context, scheduleID string) ([]models.SpecialCondition, error) {
	return m.conditions, nil
}
func (m *mockEntityPool) ListActiveLunchWaves(ctx context.Context) ([]models.LunchWave, error) {
	return m.waves, nil
}

type mockGeneratorScheduleStore struct {
	schedules map[string]models.Schedule
	slots     map[string][]models.ScheduleSlot
}

func (m *mockGeneratorScheduleStore) Save(ctx context.Context, schedule *models.Schedule) error {
	if m.schedules == nil {
		m.schedules = make(map[string]models.Schedule)
	}
	if schedule.ID == "" {
		schedule.ID = "generated-schedule"
	}
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *mockGeneratorScheduleStore) SaveSlots(ctx context.Context, scheduleID string, slots []models.ScheduleSlot) error {
	if m.slots == nil {
		m.slots = make(map[string][]models.ScheduleSlot)
	}
	m.slots[scheduleID] = slots
	return nil
}

func (m *mockGeneratorScheduleStore) FindByIDWithSlots(ctx context.Context, id string) (*models.Schedule, []models.ScheduleSlot, error) {
	s := m.schedules[id]
	return &s, m.slots[id], nil
}

type mockGeneratorConflictStore struct {
	conflicts map[string][]models.Conflict
}

func (m *mockGeneratorConflictStore) ReplaceForSchedule(ctx context.Context, scheduleID string, conflicts []models.Conflict) error {
	if m.conflicts == nil {
		m.conflicts = make(map[string][]models.Conflict)
	}
	m.conflicts[scheduleID] = conflicts
	return nil
}

func baseGenerationRequest() dto.GenerationRequest {
	return dto.GenerationRequest{
		ScheduleName:            "Fall 2026",
		ScheduleType:            models.ScheduleTypeTraditional,
		StartDate:               time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC),
		SchoolStartTime:         "08:00",
		FirstPeriodStartTime:    "08:00",
		SchoolEndTime:           "09:00",
		PeriodDuration:          50,
		PassingPeriodDuration:   10,
		OptimizationTimeSeconds: 1,
		MaxGenerations:          2,
		PopulationSize:          4,
	}
}

func feasiblePool() *mockEntityPool {
	return &mockEntityPool{
		teachers: []models.Teacher{{ID: "t1", Active: true}},
		rooms:    []models.Room{{ID: "r1", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true}},
		courses:  []models.Course{{ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 1, DurationMinutes: 50, MaxStudents: 20, Active: true}},
	}
}

func TestScheduleGeneratorServiceAnalyze(t *testing.T) {
	svc := NewScheduleGeneratorService(feasiblePool(), &mockGeneratorScheduleStore{}, &mockGeneratorConflictStore{}, nil, config.SolverConfig{}, fitness.DefaultWeights(), validator.New(), zap.NewNop())

	result, err := svc.Analyze(context.Background(), dto.AnalyzeRequest{
		ScheduleType:         models.ScheduleTypeTraditional,
		FirstPeriodStartTime: "08:00",
		SchoolEndTime:        "09:00",
		PeriodDuration:       50,
	})
	require.NoError(t, err)
	assert.False(t, result.HasCritical())
}

func TestScheduleGeneratorServiceGenerate(t *testing.T) {
	scheduleStore := &mockGeneratorScheduleStore{}
	conflictStore := &mockGeneratorConflictStore{}
	svc := NewScheduleGeneratorService(feasiblePool(), scheduleStore, conflictStore, nil, config.SolverConfig{
		PopulationSize: 4, MaxGenerations: 2, MutationRate: 0.1, CrossoverRate: 0.5, EliteSize: 1, TournamentSize: 2,
	}, fitness.DefaultWeights(), validator.New(), zap.NewNop())

	result, err := svc.Generate(context.Background(), baseGenerationRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ScheduleID)
	assert.NotNil(t, scheduleStore.slots[result.ScheduleID])
}

func TestScheduleGeneratorServiceGenerateRejectsCriticalAnalysis(t *testing.T) {
	pool := &mockEntityPool{
		courses: []models.Course{{ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 1, DurationMinutes: 50, MaxStudents: 20, Active: true}},
	}
	svc := NewScheduleGeneratorService(pool, &mockGeneratorScheduleStore{}, &mockGeneratorConflictStore{}, nil, config.SolverConfig{}, fitness.DefaultWeights(), validator.New(), zap.NewNop())

	_, err := svc.Generate(context.Background(), baseGenerationRequest())
	require.Error(t, err)
}

func TestScheduleGeneratorServiceAudit(t *testing.T) {
	scheduleStore := &mockGeneratorScheduleStore{
		schedules: map[string]models.Schedule{"sched-1": {ID: "sched-1", SchoolStartTime: "08:00", SchoolEndTime: "09:00", SlotDurationMinutes: 50}},
		slots:     map[string][]models.ScheduleSlot{"sched-1": {}},
	}
	conflictStore := &mockGeneratorConflictStore{}
	svc := NewScheduleGeneratorService(feasiblePool(), scheduleStore, conflictStore, nil, config.SolverConfig{}, fitness.DefaultWeights(), validator.New(), zap.NewNop())

	conflicts, err := svc.Audit(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

// TestScheduleGeneratorServiceAuditPropagatesScheduleType guards the
// round-trip invariant from spec §8 property 6: Audit must rebuild the grid
// using the persisted schedule's own type rather than assuming traditional,
// or a block/rotating schedule's parity-interleaved grid gets silently
// replaced with a full Mon-Fri grid during re-audit.
func TestScheduleGeneratorServiceAuditPropagatesScheduleType(t *testing.T) {
	scheduleStore := &mockGeneratorScheduleStore{
		schedules: map[string]models.Schedule{"sched-1": {
			ID: "sched-1", Type: models.ScheduleTypeBlock,
			SchoolStartTime: "08:00", SchoolEndTime: "09:40", SlotDurationMinutes: 50,
		}},
		slots: map[string][]models.ScheduleSlot{"sched-1": {}},
	}
	conflictStore := &mockGeneratorConflictStore{}
	svc := NewScheduleGeneratorService(feasiblePool(), scheduleStore, conflictStore, nil, config.SolverConfig{}, fitness.DefaultWeights(), validator.New(), zap.NewNop())

	conflicts, err := svc.Audit(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
