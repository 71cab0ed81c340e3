package fitness

import (
	"fmt"
	"math"
	"sort"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

// teacherSoftFindings implements TEACHER_PREFERENCES, ROOM_PREFERENCES,
// MINIMIZE_TEACHER_TRAVEL, MAX_CONSECUTIVE, MAX_DAILY and
// WORKLOAD_BALANCE, all of which key off a teacher's own slot list.
func teacherSoftFindings(slots []models.ScheduleSlot, p *problem.Problem) []Finding {
	var findings []Finding
	weeklyLoad := make(map[string]int)

	for key, indexes := range groupByTeacherDay(slots) {
		teacher := p.TeacherByID(key.entityID)
		sort.Slice(indexes, func(a, b int) bool { return slots[indexes[a]].StartTime < slots[indexes[b]].StartTime })
		weeklyLoad[key.entityID] += len(indexes)

		if teacher != nil && teacher.MaxDailyPeriods > 0 && len(indexes) > teacher.MaxDailyPeriods {
			findings = append(findings, Finding{
				Code: CodeMaxDaily, TeacherIDs: []string{key.entityID}, SlotIDs: slotIDsFor(slots, indexes),
				Description: "teacher exceeds max daily periods",
			})
		}

		run := 1
		for i := 1; i < len(indexes); i++ {
			prev, cur := &slots[indexes[i-1]], &slots[indexes[i]]
			backToBack := prev.EndTime == cur.StartTime
			if backToBack {
				run++
				if roomA, roomB := p.RoomByID(prev.RoomID), p.RoomByID(cur.RoomID); roomA != nil && roomB != nil && roomA.Building != "" && roomA.Building != roomB.Building {
					findings = append(findings, Finding{
						Code: CodeTeacherTravel, TeacherIDs: []string{key.entityID}, SlotIDs: []string{prev.ID, cur.ID},
						Description: "teacher travels between buildings in back-to-back periods",
					})
				}
				continue
			}
			if teacher != nil && teacher.MaxConsecutivePeriods > 0 && run > teacher.MaxConsecutivePeriods {
				findings = append(findings, Finding{
					Code: CodeMaxConsecutive, TeacherIDs: []string{key.entityID},
					Description: "teacher exceeds max consecutive periods",
				})
			}
			run = 1
		}
		if teacher != nil && teacher.MaxConsecutivePeriods > 0 && run > teacher.MaxConsecutivePeriods {
			findings = append(findings, Finding{
				Code: CodeMaxConsecutive, TeacherIDs: []string{key.entityID},
				Description: "teacher exceeds max consecutive periods",
			})
		}

		if teacher == nil {
			continue
		}
		preferred := teacher.PreferredRoomSet()
		if len(preferred) == 0 {
			continue
		}
		for _, idx := range indexes {
			slot := &slots[idx]
			if _, ok := preferred[slot.RoomID]; !ok {
				findings = append(findings, Finding{
					Code: CodeRoomPreference, TeacherIDs: []string{key.entityID}, RoomIDs: []string{slot.RoomID}, SlotIDs: []string{slot.ID},
					Description: "room not in teacher's preferred list",
				})
			}
		}
	}

	findings = append(findings, teacherPreferenceConditionFindings(slots, p)...)
	findings = append(findings, workloadBalanceFindings(weeklyLoad)...)
	return findings
}

func slotIDsFor(slots []models.ScheduleSlot, indexes []int) []string {
	ids := make([]string, len(indexes))
	for i, idx := range indexes {
		ids[i] = slots[idx].ID
	}
	return ids
}

// teacherPreferenceConditionFindings implements the TEACHER_PREFERENCES
// rule's condition-backed half: PREFERRED_TIME, AVOID_TIME, NO_FIRST_PERIOD
// and NO_LAST_PERIOD soft SpecialConditions targeting a teacher.
func teacherPreferenceConditionFindings(slots []models.ScheduleSlot, p *problem.Problem) []Finding {
	var findings []Finding
	for i := range slots {
		slot := &slots[i]
		if slot.TeacherID == "" {
			continue
		}
		for _, cond := range p.Conditions {
			if cond.IsHard() || cond.TargetKind != models.ConditionTargetTeacher || cond.TargetID != slot.TeacherID {
				continue
			}
			switch cond.ConditionType {
			case models.ConditionPreferredTime:
				if !cond.Covers(slot.DayOfWeek, slot.StartTime, slot.EndTime) {
					findings = append(findings, Finding{
						Code: CodeTeacherPreference, TeacherIDs: []string{slot.TeacherID}, SlotIDs: []string{slot.ID},
						Description: "slot falls outside the teacher's preferred time",
					})
				}
			case models.ConditionAvoidTime:
				if cond.Covers(slot.DayOfWeek, slot.StartTime, slot.EndTime) {
					findings = append(findings, Finding{
						Code: CodeTeacherPreference, TeacherIDs: []string{slot.TeacherID}, SlotIDs: []string{slot.ID},
						Description: "slot falls in the teacher's avoid-time window",
					})
				}
			case models.ConditionNoFirstPeriod:
				if slot.PeriodNumber == 1 {
					findings = append(findings, Finding{
						Code: CodeTeacherPreference, TeacherIDs: []string{slot.TeacherID}, SlotIDs: []string{slot.ID},
						Description: "teacher scheduled first period despite a no-first-period preference",
					})
				}
			case models.ConditionNoLastPeriod:
				if isLastPeriodOfDay(slot, p) {
					findings = append(findings, Finding{
						Code: CodeTeacherPreference, TeacherIDs: []string{slot.TeacherID}, SlotIDs: []string{slot.ID},
						Description: "teacher scheduled last period despite a no-last-period preference",
					})
				}
			}
		}
	}
	return findings
}

func isLastPeriodOfDay(slot *models.ScheduleSlot, p *problem.Problem) bool {
	max := 0
	for _, cell := range p.Grid {
		if cell.DayOfWeek == slot.DayOfWeek && !cell.IsLunch && cell.PeriodNumber > max {
			max = cell.PeriodNumber
		}
	}
	return max > 0 && slot.PeriodNumber == max
}

// workloadBalanceFindings implements WORKLOAD_BALANCE: the standard
// deviation of teachers' weekly period counts, penalized past a small
// tolerance rather than on any nonzero spread.
func workloadBalanceFindings(weeklyLoad map[string]int) []Finding {
	if len(weeklyLoad) < 2 {
		return nil
	}
	var mean float64
	for _, total := range weeklyLoad {
		mean += float64(total)
	}
	mean /= float64(len(weeklyLoad))

	var variance float64
	for _, total := range weeklyLoad {
		d := float64(total) - mean
		variance += d * d
	}
	variance /= float64(len(weeklyLoad))
	stddev := math.Sqrt(variance)

	if stddev <= 1.0 {
		return nil
	}
	return []Finding{{
		Code:        CodeWorkloadBalance,
		Description: fmt.Sprintf("teacher weekly load stddev %.2f exceeds the balance tolerance", stddev),
	}}
}

// roomUtilizationFindings implements ROOM_UTILIZATION: rooms whose average
// weekly usage falls outside the [40%, 85%] band are penalized.
func roomUtilizationFindings(slots []models.ScheduleSlot, p *problem.Problem) []Finding {
	totalCells := 0
	for _, cell := range p.Grid {
		if !cell.IsLunch {
			totalCells++
		}
	}
	if totalCells == 0 {
		return nil
	}

	usage := make(map[string]int)
	for i := range slots {
		if slots[i].RoomID != "" {
			usage[slots[i].RoomID]++
		}
	}

	var findings []Finding
	for _, room := range p.Rooms {
		rate := float64(usage[room.ID]) / float64(totalCells)
		switch {
		case rate < 0.4:
			findings = append(findings, Finding{
				Code: CodeRoomUtilization, RoomIDs: []string{room.ID},
				Description: fmt.Sprintf("room utilization %.0f%% is below the 40%% target", rate*100),
			})
		case rate > 0.85:
			findings = append(findings, Finding{
				Code: CodeRoomUtilization, RoomIDs: []string{room.ID},
				Description: fmt.Sprintf("room utilization %.0f%% is above the 85%% target", rate*100),
			})
		}
	}
	return findings
}

// lunchFindings implements H-LUNCH-CAP, H-LUNCH-GRADE and
// LUNCH_SPATIAL_COHESION against the lunch-wave assignments already
// recorded on Problem.Students, independent of the candidate's own slots.
func lunchFindings(p *problem.Problem) []Finding {
	var findings []Finding

	waveByID := make(map[string]*models.LunchWave, len(p.LunchWaves))
	for i := range p.LunchWaves {
		waveByID[p.LunchWaves[i].ID] = &p.LunchWaves[i]
	}

	assignedCounts := make(map[string]int)
	buildingsByWave := make(map[string]map[string]struct{})

	for i := range p.Students {
		student := &p.Students[i]
		if student.LunchWaveID == nil {
			continue
		}
		wave, ok := waveByID[*student.LunchWaveID]
		if !ok {
			continue
		}
		assignedCounts[wave.ID]++
		if !wave.AcceptsGrade(student.GradeLevel) {
			findings = append(findings, Finding{
				Code: CodeLunchGrade, Hard: true, StudentIDs: []string{student.ID},
				Description: "student's grade level is not permitted in its assigned lunch wave",
			})
		}

		for _, courseID := range student.EnrolledCourseIDs() {
			course := p.CourseByID(courseID)
			if course == nil || course.AssignedRoomID == nil {
				continue
			}
			room := p.RoomByID(*course.AssignedRoomID)
			if room == nil || room.Building == "" {
				continue
			}
			set, ok := buildingsByWave[wave.ID]
			if !ok {
				set = make(map[string]struct{})
				buildingsByWave[wave.ID] = set
			}
			set[room.Building] = struct{}{}
		}
	}

	for _, wave := range p.LunchWaves {
		if assignedCounts[wave.ID] > wave.MaxCapacity {
			findings = append(findings, Finding{
				Code: CodeLunchCapacity, Hard: true,
				Description: "lunch wave assignments exceed its max capacity",
			})
		}
	}

	for waveID, buildings := range buildingsByWave {
		if len(buildings) > 1 {
			findings = append(findings, Finding{
				Code: CodeLunchCohesion,
				Description: fmt.Sprintf("lunch wave %s draws students from %d distinct buildings", waveID, len(buildings)),
			})
		}
	}

	return findings
}
