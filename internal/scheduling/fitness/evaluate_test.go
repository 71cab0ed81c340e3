package fitness_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

// buildSingleCourseProblem constructs the S1 boundary scenario: one teacher,
// one room, one course requiring 5 periods/week of a single Mon-Fri 8:00
// period, with nothing else constraining the assignment.
func buildSingleCourseProblem(t *testing.T) *problem.Problem {
	t.Helper()
	req := dto.GenerationRequest{
		ScheduleType:          models.ScheduleTypeTraditional,
		FirstPeriodStartTime:  "08:00",
		SchoolEndTime:         "08:50",
		PeriodDuration:        50,
		PassingPeriodDuration: 0,
	}
	inputs := problem.Inputs{
		Teachers: []models.Teacher{{ID: "t1", Name: "Teacher One", Active: true}},
		Rooms:    []models.Room{{ID: "r1", Type: models.RoomTypeClassroom, CapacityNominal: 30, Active: true}},
		Courses: []models.Course{{
			ID: "c1", Code: "MATH-1", RequiredPeriodsWeek: 5, DurationMinutes: 50,
			MaxStudents: 20, Active: true,
		}},
	}

	p, err := problem.Build(context.Background(), "sched-1", req, inputs, nil)
	require.NoError(t, err)
	require.Empty(t, p.Infeasible)
	require.Len(t, p.Grid, 5)
	return p
}

func TestEvaluate_FeasibleSingleCourseSchedule(t *testing.T) {
	p := buildSingleCourseProblem(t)

	var slots []models.ScheduleSlot
	for _, cell := range p.Grid {
		slots = append(slots, models.ScheduleSlot{
			ID: uuid.NewString(), ScheduleID: p.ScheduleID, CourseID: "c1",
			TeacherID: "t1", RoomID: "r1",
			DayOfWeek: cell.DayOfWeek, StartTime: cell.StartTime, EndTime: cell.EndTime,
			PeriodNumber: cell.PeriodNumber, Status: models.SlotStatusAssigned,
		})
	}
	require.Len(t, slots, 5)

	score, findings := fitness.Evaluate(p, slots, fitness.DefaultWeights())

	require.Equal(t, 0, score.Hard, "expected a feasible schedule, findings: %+v", findings)
	require.True(t, score.Feasible())
}

func TestEvaluate_TeacherDoubleBookingIsHardPenalized(t *testing.T) {
	p := buildSingleCourseProblem(t)
	cell := p.Grid[0]

	slots := []models.ScheduleSlot{
		{ID: uuid.NewString(), CourseID: "c1", TeacherID: "t1", RoomID: "r1", DayOfWeek: cell.DayOfWeek, StartTime: cell.StartTime, EndTime: cell.EndTime},
		{ID: uuid.NewString(), CourseID: "c1", TeacherID: "t1", RoomID: "r1", DayOfWeek: cell.DayOfWeek, StartTime: cell.StartTime, EndTime: cell.EndTime},
	}

	score, findings := fitness.Evaluate(p, slots, fitness.DefaultWeights())

	require.False(t, score.Feasible())
	var sawDoubleBooking bool
	for _, f := range findings {
		if f.Code == fitness.CodeTeacherDoubleBooked {
			sawDoubleBooking = true
		}
	}
	require.True(t, sawDoubleBooking)
}

func TestHardSoftScore_Better(t *testing.T) {
	better := fitness.HardSoftScore{Hard: 0, Soft: -10}
	worse := fitness.HardSoftScore{Hard: -1, Soft: 0}
	require.True(t, better.Better(worse))
	require.False(t, worse.Better(better))
}
