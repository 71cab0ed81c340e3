package analyzer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/analyzer"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

func baseRequest() dto.GenerationRequest {
	return dto.GenerationRequest{
		ScheduleType:          models.ScheduleTypeTraditional,
		FirstPeriodStartTime:  "08:00",
		SchoolEndTime:         "09:00",
		PeriodDuration:        50,
		PassingPeriodDuration: 10,
	}
}

func TestAnalyze_FeasibleProblemHasNoCriticalViolations(t *testing.T) {
	inputs := problem.Inputs{
		Teachers: []models.Teacher{{ID: "t1", Active: true}},
		Rooms:    []models.Room{{ID: "r1", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true}},
		Courses:  []models.Course{{ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 1, DurationMinutes: 50, MaxStudents: 20, Active: true}},
	}
	p, err := problem.Build(context.Background(), "sched-1", baseRequest(), inputs, nil)
	require.NoError(t, err)

	result := analyzer.Analyze(p)

	require.False(t, result.HasCritical())
}

// TestAnalyze_SingletonClash exercises S2: two singleton courses share the
// only teacher certified for both.
func TestAnalyze_SingletonClash(t *testing.T) {
	inputs := problem.Inputs{
		Teachers: []models.Teacher{{ID: "t1", Active: true}},
		Rooms:    []models.Room{{ID: "r1", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true}},
		Courses: []models.Course{
			{ID: "c1", Code: "AP-PHYSICS", RequiredPeriodsWeek: 1, DurationMinutes: 50, MaxStudents: 20, Singleton: true, Active: true},
			{ID: "c2", Code: "AP-CHEM", RequiredPeriodsWeek: 1, DurationMinutes: 50, MaxStudents: 20, Singleton: true, Active: true},
		},
	}
	p, err := problem.Build(context.Background(), "sched-1", baseRequest(), inputs, nil)
	require.NoError(t, err)

	result := analyzer.Analyze(p)

	require.True(t, result.HasCritical())
	var sawClash bool
	for _, v := range result.Violations {
		if v.Type == "singleton_clash" {
			sawClash = true
		}
	}
	require.True(t, sawClash)
}

// TestAnalyze_BlockingEventShadowsCourse exercises S4: a blocking event
// removes enough grid cells that a course's weekly demand cannot be met.
func TestAnalyze_BlockingEventShadowsCourse(t *testing.T) {
	req := baseRequest()
	inputs := problem.Inputs{
		Teachers: []models.Teacher{{ID: "t1", Active: true}},
		Rooms:    []models.Room{{ID: "r1", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true}},
		Courses:  []models.Course{{ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 5, DurationMinutes: 50, MaxStudents: 20, Active: true}},
		Events: []models.Event{{
			Name: "Assembly", DayOfWeek: models.Monday, StartTime: "08:00", EndTime: "09:00", BlocksScheduling: true,
		}},
	}
	p, err := problem.Build(context.Background(), "sched-1", req, inputs, nil)
	require.NoError(t, err)

	result := analyzer.Analyze(p)

	require.True(t, result.HasCritical())
	var sawShadow bool
	for _, v := range result.Violations {
		if v.Type == "event_shadows_course" {
			sawShadow = true
		}
	}
	require.True(t, sawShadow)
}
