package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/analyzer"
	"github.com/schedulecore/masterschedule/internal/scheduling/conflict"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
	"github.com/schedulecore/masterschedule/internal/scheduling/solver"
	"github.com/schedulecore/masterschedule/pkg/config"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

// entityPool is the snapshot of active planning entities the problem
// builder consumes; it is assembled fresh for every generate/analyze call
// so a run always sees the current roster.
type entityPool interface {
	ListActiveTeachers(ctx context.Context) ([]models.Teacher, error)
	ListActiveRooms(ctx context.Context) ([]models.Room, error)
	ListActiveCourses(ctx context.Context) ([]models.Course, error)
	ListActiveStudents(ctx context.Context) ([]models.Student, error)
	ListActiveConditions(ctx context.Context, scheduleID string) ([]models.SpecialCondition, error)
	ListActiveLunchWaves(ctx context.Context) ([]models.LunchWave, error)
}

type generatorScheduleStore interface {
	Save(ctx context.Context, schedule *models.Schedule) error
	SaveSlots(ctx context.Context, scheduleID string, slots []models.ScheduleSlot) error
	FindByIDWithSlots(ctx context.Context, id string) (*models.Schedule, []models.ScheduleSlot, error)
}

type generatorConflictStore interface {
	ReplaceForSchedule(ctx context.Context, scheduleID string, conflicts []models.Conflict) error
}

// ScheduleGeneratorService orchestrates the generate/analyze/audit
// pipeline: problem.Build feeds the pre-schedule analyzer (C5) and, for a
// full generation, the GA solver (C6); the solver's best individual is
// persisted and re-audited through the conflict detector (C4).
type ScheduleGeneratorService struct {
	pool      entityPool
	schedules generatorScheduleStore
	conflicts generatorConflictStore
	cache     problem.CompatCache
	solverCfg config.SolverConfig
	weights   fitness.Weights
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleGeneratorService constructs the orchestration service.
func NewScheduleGeneratorService(pool entityPool, schedules generatorScheduleStore, conflicts generatorConflictStore, cache problem.CompatCache, solverCfg config.SolverConfig, weights fitness.Weights, validate *validator.Validate, logger *zap.Logger) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if weights == (fitness.Weights{}) {
		weights = fitness.DefaultWeights()
	}
	return &ScheduleGeneratorService{
		pool:      pool,
		schedules: schedules,
		conflicts: conflicts,
		cache:     cache,
		solverCfg: solverCfg,
		weights:   weights,
		validator: validate,
		logger:    logger,
	}
}

func (s *ScheduleGeneratorService) loadInputs(ctx context.Context, scheduleID string) (problem.Inputs, error) {
	teachers, err := s.pool.ListActiveTeachers(ctx)
	if err != nil {
		return problem.Inputs{}, err
	}
	rooms, err := s.pool.ListActiveRooms(ctx)
	if err != nil {
		return problem.Inputs{}, err
	}
	courses, err := s.pool.ListActiveCourses(ctx)
	if err != nil {
		return problem.Inputs{}, err
	}
	students, err := s.pool.ListActiveStudents(ctx)
	if err != nil {
		return problem.Inputs{}, err
	}
	conditions, err := s.pool.ListActiveConditions(ctx, scheduleID)
	if err != nil {
		return problem.Inputs{}, err
	}
	waves, err := s.pool.ListActiveLunchWaves(ctx)
	if err != nil {
		return problem.Inputs{}, err
	}
	return problem.Inputs{
		Teachers:   teachers,
		Rooms:      rooms,
		Courses:    courses,
		Students:   students,
		Conditions: conditions,
		LunchWaves: waves,
	}, nil
}

// Analyze runs C2 (problem build) followed by C5 (pre-schedule analysis),
// with no optimization budget spent.
func (s *ScheduleGeneratorService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*models.AnalysisResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid analyze request")
	}

	full := analyzeRequestToGenerationRequest(req)
	inputs, err := s.loadInputs(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning entities")
	}

	p, err := problem.Build(ctx, "", full, inputs, s.cache)
	if err != nil {
		return nil, err
	}

	result := analyzer.Analyze(p)
	return &result, nil
}

// Generate runs C1→C2→C5→C6→writeback: creates the schedule header from
// the request, builds the problem, short-circuits on a critical
// pre-schedule violation, evolves a solution, persists the best
// individual's slots, and audits it through the conflict detector.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerationRequest) (*dto.OptimizationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	schedule := &models.Schedule{
		Name:                req.ScheduleName,
		Period:              models.SchedulePeriodSemester,
		Type:                req.ScheduleType,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		SchoolStartTime:     req.SchoolStartTime,
		SchoolEndTime:       req.SchoolEndTime,
		SlotDurationMinutes: req.PeriodDuration,
		Status:              models.ScheduleStatusDraft,
	}
	if err := s.schedules.Save(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule header")
	}
	scheduleID := schedule.ID

	inputs, err := s.loadInputs(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning entities")
	}

	p, err := problem.Build(ctx, scheduleID, req, inputs, s.cache)
	if err != nil {
		return nil, err
	}

	analysis := analyzer.Analyze(p)
	if analysis.HasCritical() {
		return nil, appErrors.Clone(appErrors.ErrPreFlightInfeasible, "pre-schedule analysis found unsatisfiable constraints")
	}

	cfg := solver.FromSolverConfig(s.solverCfg, req.PopulationSize, req.MaxGenerations, req.MutationRate,
		req.CrossoverRate, req.EliteSize, req.TournamentSize, req.StagnationLimit, req.TargetFitness,
		req.Parallel, req.ThreadPoolSize)
	if req.OptimizationTimeSeconds > 0 {
		cfg.MaxRuntimeSeconds = req.OptimizationTimeSeconds
	}

	runResult := solver.Run(ctx, p, cfg, nil, s.weights, nil)
	runResult.Result.ScheduleID = scheduleID
	// A run that finished with hard violations left is reported as PARTIAL.
	if runResult.Result.Status == models.StatusCompleted && runResult.Result.BestFitness.Hard < 0 {
		runResult.Result.Status = models.StatusPartial
	}

	if err := s.schedules.SaveSlots(ctx, scheduleID, runResult.Slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWriteBackFailure.Code, appErrors.ErrWriteBackFailure.Status, "failed to persist generated schedule")
	}

	conflicts := conflict.Detect(p, runResult.Slots)
	if err := s.conflicts.ReplaceForSchedule(ctx, scheduleID, conflicts); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWriteBackFailure.Code, appErrors.ErrWriteBackFailure.Status, "failed to persist detected conflicts")
	}
	runResult.Result.FinalConflictCount = len(conflicts)

	return &runResult.Result, nil
}

// Audit runs C4 against a persisted schedule's current slots and returns
// the freshly detected conflict set, without mutating stored slots.
func (s *ScheduleGeneratorService) Audit(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	schedule, slots, err := s.schedules.FindByIDWithSlots(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	inputs, err := s.loadInputs(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning entities")
	}

	req := dto.GenerationRequest{
		ScheduleType:          schedule.Type,
		SchoolStartTime:       schedule.SchoolStartTime,
		FirstPeriodStartTime:  schedule.SchoolStartTime,
		SchoolEndTime:         schedule.SchoolEndTime,
		PeriodDuration:        schedule.SlotDurationMinutes,
		StartDate:             schedule.StartDate,
		EndDate:               schedule.EndDate,
	}
	p, err := problem.Build(ctx, scheduleID, req, inputs, s.cache)
	if err != nil {
		return nil, err
	}

	conflicts := conflict.Detect(p, slots)
	if err := s.conflicts.ReplaceForSchedule(ctx, scheduleID, conflicts); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWriteBackFailure.Code, appErrors.ErrWriteBackFailure.Status, "failed to persist audited conflicts")
	}
	return conflicts, nil
}

func analyzeRequestToGenerationRequest(req dto.AnalyzeRequest) dto.GenerationRequest {
	return dto.GenerationRequest{
		ScheduleName:          "analysis",
		ScheduleType:          req.ScheduleType,
		SchoolStartTime:       req.SchoolStartTime,
		FirstPeriodStartTime:  req.FirstPeriodStartTime,
		SchoolEndTime:         req.SchoolEndTime,
		PeriodDuration:        req.PeriodDuration,
		PassingPeriodDuration: req.PassingPeriodDuration,
		EnableLunch:           req.EnableLunch,
		LunchStartTime:        req.LunchStartTime,
		LunchDuration:         req.LunchDuration,
	}
}
