package lunch_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/lunch"
)

func gradeStr(g int) *int { return &g }

func twoWaves() []models.LunchWave {
	return []models.LunchWave{
		{ID: "w1", WaveOrder: 1, MaxCapacity: 2},
		{ID: "w2", WaveOrder: 2, MaxCapacity: 2},
	}
}

func students(ids ...string) []models.Student {
	out := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Student{ID: id, FullName: id, GradeLevel: 9, Active: true})
	}
	return out
}

func TestAssign_ByGradeLevelRespectsRestriction(t *testing.T) {
	waves := []models.LunchWave{
		{ID: "w9", WaveOrder: 1, MaxCapacity: 5, GradeLevelRestriction: gradeStr(9)},
		{ID: "w10", WaveOrder: 2, MaxCapacity: 5, GradeLevelRestriction: gradeStr(10)},
	}
	ss := []models.Student{
		{ID: "s1", GradeLevel: 9},
		{ID: "s2", GradeLevel: 10},
	}

	result := lunch.Assign(models.LunchMethodByGradeLevel, ss, waves, nil, nil, nil)

	require.Empty(t, result.Unassigned)
	require.Equal(t, "w9", result.Assignments["s1"])
	require.Equal(t, "w10", result.Assignments["s2"])
}

func TestAssign_AlphabeticalFillsWaveOrderInNameOrder(t *testing.T) {
	waves := twoWaves()
	ss := []models.Student{
		{ID: "s1", FullName: "Zoe", GradeLevel: 9},
		{ID: "s2", FullName: "Amy", GradeLevel: 9},
	}

	result := lunch.Assign(models.LunchMethodAlphabetical, ss, waves, nil, nil, nil)

	require.Equal(t, "w1", result.Assignments["s2"])
	require.Equal(t, "w1", result.Assignments["s1"])
}

func TestAssign_ByStudentIDFillsByIDOrder(t *testing.T) {
	waves := []models.LunchWave{{ID: "w1", WaveOrder: 1, MaxCapacity: 1}, {ID: "w2", WaveOrder: 2, MaxCapacity: 1}}
	ss := students("s2", "s1")

	result := lunch.Assign(models.LunchMethodByStudentID, ss, waves, nil, nil, nil)

	require.Equal(t, "w1", result.Assignments["s1"])
	require.Equal(t, "w2", result.Assignments["s2"])
}

func TestAssign_BalancedSpreadsEvenly(t *testing.T) {
	waves := []models.LunchWave{{ID: "w1", WaveOrder: 1, MaxCapacity: 10}, {ID: "w2", WaveOrder: 2, MaxCapacity: 10}}
	ss := students("s1", "s2", "s3", "s4")

	result := lunch.Assign(models.LunchMethodBalanced, ss, waves, nil, nil, nil)

	counts := map[string]int{}
	for _, w := range result.Assignments {
		counts[w]++
	}
	require.Equal(t, 2, counts["w1"])
	require.Equal(t, 2, counts["w2"])
}

func TestAssign_RandomPlacesEveryStudentWithinCapacity(t *testing.T) {
	waves := twoWaves()
	ss := students("s1", "s2", "s3", "s4")
	rng := rand.New(rand.NewSource(1))

	result := lunch.Assign(models.LunchMethodRandom, ss, waves, nil, nil, rng)

	require.Len(t, result.Assignments, 4)
	require.Empty(t, result.Unassigned)
}

func TestAssign_ManualOverridesLockedPriorAssignment(t *testing.T) {
	waves := twoWaves()
	priorWave := "w1"
	ss := []models.Student{{ID: "s1", GradeLevel: 9, LunchWaveID: &priorWave}}
	locked := map[string]bool{"s1": true}
	manual := map[string]string{"s1": "w2"}

	result := lunch.Assign(models.LunchMethodManual, ss, waves, manual, locked, nil)

	require.Equal(t, "w2", result.Assignments["s1"])
}

func TestAssign_NonManualLeavesLockedStudentsInPlace(t *testing.T) {
	waves := twoWaves()
	priorWave := "w2"
	ss := []models.Student{{ID: "s1", GradeLevel: 9, LunchWaveID: &priorWave}}
	locked := map[string]bool{"s1": true}

	result := lunch.Assign(models.LunchMethodBalanced, ss, waves, nil, locked, nil)

	require.Equal(t, "w2", result.Assignments["s1"])
}

func TestAssign_OverCapacityStillPlacesEveryStudent(t *testing.T) {
	waves := []models.LunchWave{{ID: "w1", WaveOrder: 1, MaxCapacity: 1}}
	ss := students("s1", "s2")

	result := lunch.Assign(models.LunchMethodByGradeLevel, ss, waves, nil, nil, nil)

	require.Empty(t, result.Unassigned)
	require.Equal(t, "w1", result.Assignments["s1"])
	require.Equal(t, "w1", result.Assignments["s2"])
}

func TestAssign_OverCapacityBalancedPicksLeastOverbookedWave(t *testing.T) {
	waves := []models.LunchWave{
		{ID: "w1", WaveOrder: 1, MaxCapacity: 1},
		{ID: "w2", WaveOrder: 2, MaxCapacity: 1},
	}
	ss := students("s1", "s2", "s3", "s4")

	result := lunch.Assign(models.LunchMethodBalanced, ss, waves, nil, nil, nil)

	require.Empty(t, result.Unassigned)
	counts := map[string]int{}
	for _, w := range result.Assignments {
		counts[w]++
	}
	require.Equal(t, 2, counts["w1"])
	require.Equal(t, 2, counts["w2"])
}

func TestRebalance_NeverMovesLockedStudents(t *testing.T) {
	waves := twoWaves()
	priorWave := "w2"
	locked := []models.Student{{ID: "s1", GradeLevel: 9, LunchWaveID: &priorWave}}
	unlocked := students("s2", "s3")
	ss := append(locked, unlocked...)
	lockedMap := map[string]bool{"s1": true}

	first := lunch.Assign(models.LunchMethodBalanced, ss, waves, nil, lockedMap, nil)
	second := lunch.Rebalance(models.LunchMethodBalanced, ss, waves, nil, lockedMap, nil)

	require.Equal(t, "w2", first.Assignments["s1"])
	require.Equal(t, "w2", second.Assignments["s1"])
}

func TestAssignTeachers_SkipsDutyFreeAndCoversEveryWave(t *testing.T) {
	teachers := []models.Teacher{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	waves := twoWaves()
	dutyFree := map[string]bool{"t2": true}

	assignments := lunch.AssignTeachers(teachers, waves, dutyFree)

	require.Len(t, assignments, 2)
	covered := map[string]bool{}
	for _, a := range assignments {
		require.NotEqual(t, "t2", a.TeacherID)
		covered[a.WaveID] = true
	}
	require.True(t, covered["w1"])
	require.True(t, covered["w2"])
}

func TestAssignTeachers_EmptyWhenAllDutyFree(t *testing.T) {
	teachers := []models.Teacher{{ID: "t1"}}
	waves := twoWaves()
	dutyFree := map[string]bool{"t1": true}

	assignments := lunch.AssignTeachers(teachers, waves, dutyFree)

	require.Empty(t, assignments)
}

func TestAreAssignmentsValid_TrueForCompleteValidAssignment(t *testing.T) {
	waves := twoWaves()
	ss := students("s1", "s2")
	result := lunch.Assign(models.LunchMethodBalanced, ss, waves, nil, nil, nil)
	teacherAssignments := lunch.AssignTeachers([]models.Teacher{{ID: "t1"}}, waves, nil)

	require.True(t, lunch.AreAssignmentsValid(ss, waves, result, teacherAssignments))
}

func TestAreAssignmentsValid_FalseWhenAWaveHasNoTeacher(t *testing.T) {
	waves := twoWaves()
	ss := students("s1", "s2")
	result := lunch.Assign(models.LunchMethodBalanced, ss, waves, nil, nil, nil)

	require.False(t, lunch.AreAssignmentsValid(ss, waves, result, nil))
}

func TestAreAssignmentsValid_FalseWhenAWaveIsOverCapacity(t *testing.T) {
	waves := []models.LunchWave{{ID: "w1", WaveOrder: 1, MaxCapacity: 1}}
	ss := students("s1", "s2")
	result := lunch.Assign(models.LunchMethodByGradeLevel, ss, waves, nil, nil, nil)
	teacherAssignments := lunch.AssignTeachers([]models.Teacher{{ID: "t1"}}, waves, nil)

	require.Empty(t, result.Unassigned)
	require.False(t, lunch.AreAssignmentsValid(ss, waves, result, teacherAssignments))
}
