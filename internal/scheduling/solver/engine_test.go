package solver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
	"github.com/schedulecore/masterschedule/internal/scheduling/solver"
)

func buildSmallProblem(t *testing.T) *problem.Problem {
	t.Helper()
	req := dto.GenerationRequest{
		ScheduleType:          models.ScheduleTypeTraditional,
		FirstPeriodStartTime:  "08:00",
		SchoolEndTime:         "08:50",
		PeriodDuration:        50,
		PassingPeriodDuration: 0,
	}
	inputs := problem.Inputs{
		Teachers: []models.Teacher{{ID: "t1", Active: true}},
		Rooms:    []models.Room{{ID: "r1", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true}},
		Courses:  []models.Course{{ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 5, DurationMinutes: 50, MaxStudents: 20, Active: true}},
	}
	p, err := problem.Build(context.Background(), "sched-1", req, inputs, nil)
	require.NoError(t, err)
	return p
}

func testConfig() solver.Config {
	return solver.Config{
		PopulationSize:    10,
		MaxGenerations:    15,
		MutationRate:      0.10,
		CrossoverRate:     0.80,
		EliteSize:         2,
		TournamentSize:    3,
		MaxRuntimeSeconds: 30,
		StagnationLimit:   10,
		LogFrequency:      5,
		Parallel:          true,
		ThreadPoolSize:    2,
	}
}

func TestRun_ReachesFeasibleSolutionOnTrivialProblem(t *testing.T) {
	p := buildSmallProblem(t)

	result := solver.Run(context.Background(), p, testConfig(), nil, fitness.DefaultWeights(), nil)

	require.Equal(t, models.StatusCompleted, result.Result.Status)
	require.Equal(t, 0, result.Result.BestFitness.Hard)
	require.NotEmpty(t, result.Slots)
	require.Len(t, result.Slots, 5)
}

// buildTwoRoomProblem constructs the S3 boundary scenario: one teacher, two
// rooms (A capacity 10, B capacity 30), one course of 25 students — only
// room B is large enough, so compatibleRooms leaves the course only one
// legal choice and the solver must land on it.
func buildTwoRoomProblem(t *testing.T) *problem.Problem {
	t.Helper()
	req := dto.GenerationRequest{
		ScheduleType:          models.ScheduleTypeTraditional,
		FirstPeriodStartTime:  "08:00",
		SchoolEndTime:         "08:50",
		PeriodDuration:        50,
		PassingPeriodDuration: 0,
	}
	inputs := problem.Inputs{
		Teachers: []models.Teacher{{ID: "t1", Active: true}},
		Rooms: []models.Room{
			{ID: "rA", Type: models.RoomTypeClassroom, CapacityNominal: 10, Active: true},
			{ID: "rB", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true},
		},
		Courses: []models.Course{{ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 5, DurationMinutes: 50, MaxStudents: 25, Active: true}},
	}
	p, err := problem.Build(context.Background(), "sched-1", req, inputs, nil)
	require.NoError(t, err)
	require.Len(t, p.Grid, 5)
	return p
}

func TestRun_PicksOnlyRoomLargeEnoughForCourse(t *testing.T) {
	p := buildTwoRoomProblem(t)

	result := solver.Run(context.Background(), p, testConfig(), nil, fitness.DefaultWeights(), nil)

	require.Equal(t, 0, result.Result.BestFitness.Hard)
	require.NotEmpty(t, result.Slots)
	for _, slot := range result.Slots {
		require.Equal(t, "rB", slot.RoomID)
	}
}

func TestRun_HonorsCancellation(t *testing.T) {
	p := buildSmallProblem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := solver.Run(ctx, p, testConfig(), nil, fitness.DefaultWeights(), nil)

	require.Equal(t, models.StatusCancelled, result.Result.Status)
	require.NotNil(t, result.Slots)
}

// buildAlwaysInfeasibleProblem constructs the S6 boundary scenario: two
// courses each needing 5 periods/week share a single room and a single
// Mon-Fri 8:00 period, so at least one of the ten (course, slot) demands
// must double-book the room no matter how the GA arranges them — H never
// reaches 0.
func buildAlwaysInfeasibleProblem(t *testing.T) *problem.Problem {
	t.Helper()
	req := dto.GenerationRequest{
		ScheduleType:          models.ScheduleTypeTraditional,
		FirstPeriodStartTime:  "08:00",
		SchoolEndTime:         "08:50",
		PeriodDuration:        50,
		PassingPeriodDuration: 0,
	}
	inputs := problem.Inputs{
		Teachers: []models.Teacher{{ID: "t1", Active: true}, {ID: "t2", Active: true}},
		Rooms:    []models.Room{{ID: "r1", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true}},
		Courses: []models.Course{
			{ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 5, DurationMinutes: 50, MaxStudents: 20, Active: true},
			{ID: "c2", Code: "MATH-2", RequiredPeriodsWeek: 5, DurationMinutes: 50, MaxStudents: 20, Active: true},
		},
	}
	p, err := problem.Build(context.Background(), "sched-1", req, inputs, nil)
	require.NoError(t, err)
	require.Len(t, p.Grid, 5)
	return p
}

func TestRun_TimesOutOnUnreachableTarget(t *testing.T) {
	p := buildAlwaysInfeasibleProblem(t)
	cfg := testConfig()
	cfg.MaxRuntimeSeconds = 1
	cfg.MaxGenerations = 1_000_000
	cfg.StagnationLimit = 1_000_000
	target := 0
	cfg.TargetFitness = &target

	result := solver.Run(context.Background(), p, cfg, nil, fitness.DefaultWeights(), nil)

	require.Equal(t, models.StatusTimeout, result.Result.Status)
	require.Greater(t, result.Result.GenerationsExecuted, 0)
	require.Less(t, result.Result.BestFitness.Hard, 0)
}

func TestRun_ReportsProgressAtLogFrequency(t *testing.T) {
	p := buildSmallProblem(t)
	cfg := testConfig()
	cfg.LogFrequency = 1
	cfg.MaxGenerations = 3
	cfg.StagnationLimit = 0

	var updates []dto.ProgressUpdate
	reporter := solver.ProgressReporterFunc(func(u dto.ProgressUpdate) {
		updates = append(updates, u)
	})

	solver.Run(context.Background(), p, cfg, nil, fitness.DefaultWeights(), reporter)

	require.Len(t, updates, 3)
	require.Equal(t, 1, updates[0].Generation)
	require.Equal(t, 3, updates[2].Generation)
}
