package fitness

import (
	"sort"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

// Evaluate computes a HardSoftScore for a candidate assignment against a
// Problem, and the Findings that produced it. It builds the teacher/room/
// student indexes in one pass (spec §4.2 step 1), sweeps each for overlaps,
// evaluates the structurally-independent hard rules per slot, and folds in
// the soft-constraint penalty table. It is a pure function of (p, slots,
// weights): calling it twice on the same inputs returns bitwise-identical
// output, matching the determinism property the GA's memoization relies on.
func Evaluate(p *problem.Problem, slots []models.ScheduleSlot, weights Weights) (HardSoftScore, []Finding) {
	var score HardSoftScore
	var findings []Finding

	add := func(f Finding) {
		findings = append(findings, f)
		if f.Hard {
			score.Hard--
		} else {
			switch f.Code {
			case CodeTeacherPreference:
				score.Soft -= weights.TeacherPreference
			case CodeRoomPreference:
				score.Soft -= weights.RoomPreference
			case CodeTeacherTravel:
				score.Soft -= weights.TeacherTravel
			case CodeMaxConsecutive:
				score.Soft -= weights.MaxConsecutive
			case CodeMaxDaily:
				score.Soft -= weights.MaxDaily
			case CodeWorkloadBalance:
				score.Soft -= weights.WorkloadBalance
			case CodeRoomUtilization:
				score.Soft -= weights.RoomUtilization
			case CodeLunchCohesion:
				score.Soft -= weights.LunchCohesion
			}
		}
	}

	courseStudents := indexCourseStudents(p.Students)

	for _, f := range teacherDoubleBookings(slots, p.Conditions) {
		add(f)
	}
	for _, f := range roomDoubleBookings(slots, p) {
		add(f)
	}
	for _, f := range studentDoubleBookings(slots, courseStudents) {
		add(f)
	}
	for i := range slots {
		for _, f := range perSlotHardFindings(&slots[i], p, courseStudents) {
			add(f)
		}
	}
	for _, f := range teacherSoftFindings(slots, p) {
		add(f)
	}
	for _, f := range roomUtilizationFindings(slots, p) {
		add(f)
	}
	for _, f := range lunchFindings(p) {
		add(f)
	}

	return score, findings
}

// indexCourseStudents groups enrolled students by course, the roster the
// H-STUDENT and H-CAP checks both key off of.
func indexCourseStudents(students []models.Student) map[string][]string {
	index := make(map[string][]string)
	for i := range students {
		s := &students[i]
		for _, courseID := range s.EnrolledCourseIDs() {
			index[courseID] = append(index[courseID], s.ID)
		}
	}
	return index
}

type slotGroupKey struct {
	entityID string
	day      int
}

func groupByTeacherDay(slots []models.ScheduleSlot) map[slotGroupKey][]int {
	groups := make(map[slotGroupKey][]int)
	for i := range slots {
		if slots[i].TeacherID == "" {
			continue
		}
		key := slotGroupKey{entityID: slots[i].TeacherID, day: slots[i].DayOfWeek}
		groups[key] = append(groups[key], i)
	}
	return groups
}

func groupByRoomDay(slots []models.ScheduleSlot) map[slotGroupKey][]int {
	groups := make(map[slotGroupKey][]int)
	for i := range slots {
		if slots[i].RoomID == "" {
			continue
		}
		key := slotGroupKey{entityID: slots[i].RoomID, day: slots[i].DayOfWeek}
		groups[key] = append(groups[key], i)
	}
	return groups
}

// teacherDoubleBookings implements H-TEACH: two slots sharing a teacher
// whose time ranges overlap, unless a PAIRED_TEACHING condition pins both
// slots to the identical time window.
func teacherDoubleBookings(slots []models.ScheduleSlot, conditions []models.SpecialCondition) []Finding {
	paired := pairedTeachingTeachers(conditions)

	var findings []Finding
	for _, indexes := range groupByTeacherDay(slots) {
		sort.Slice(indexes, func(a, b int) bool { return slots[indexes[a]].StartTime < slots[indexes[b]].StartTime })
		for a := 0; a < len(indexes); a++ {
			for b := a + 1; b < len(indexes); b++ {
				s1, s2 := &slots[indexes[a]], &slots[indexes[b]]
				if !s1.Overlaps(s2) {
					continue
				}
				if paired[s1.TeacherID] && s1.StartTime == s2.StartTime && s1.EndTime == s2.EndTime {
					continue
				}
				findings = append(findings, Finding{
					Code: CodeTeacherDoubleBooked, Hard: true,
					SlotIDs: []string{s1.ID, s2.ID}, TeacherIDs: []string{s1.TeacherID},
					Description: "teacher double-booked",
				})
			}
		}
	}
	return findings
}

func pairedTeachingTeachers(conditions []models.SpecialCondition) map[string]bool {
	paired := make(map[string]bool)
	for _, c := range conditions {
		if c.ConditionType == models.ConditionPairedTeaching && c.TargetKind == models.ConditionTargetTeacher {
			paired[c.TargetID] = true
		}
	}
	return paired
}

// roomDoubleBookings implements H-ROOM: two slots sharing a room whose
// overlap count exceeds the room's concurrency limit.
func roomDoubleBookings(slots []models.ScheduleSlot, p *problem.Problem) []Finding {
	var findings []Finding
	for key, indexes := range groupByRoomDay(slots) {
		room := p.RoomByID(key.entityID)
		limit := 1
		if room != nil {
			limit = room.ConcurrencyLimit()
		}
		sort.Slice(indexes, func(a, b int) bool { return slots[indexes[a]].StartTime < slots[indexes[b]].StartTime })
		for a := 0; a < len(indexes); a++ {
			overlapping := 1
			for b := 0; b < len(indexes); b++ {
				if a == b {
					continue
				}
				if slots[indexes[a]].Overlaps(&slots[indexes[b]]) {
					overlapping++
				}
			}
			if overlapping > limit {
				s := &slots[indexes[a]]
				findings = append(findings, Finding{
					Code: CodeRoomDoubleBooked, Hard: true,
					SlotIDs: []string{s.ID}, RoomIDs: []string{s.RoomID},
					Description: "room double-booked beyond its concurrency limit",
				})
			}
		}
	}
	return findings
}

// studentDoubleBookings implements H-STUDENT: two slots whose enrolled
// rosters intersect and whose time ranges overlap.
func studentDoubleBookings(slots []models.ScheduleSlot, courseStudents map[string][]string) []Finding {
	var findings []Finding
	for a := 0; a < len(slots); a++ {
		for b := a + 1; b < len(slots); b++ {
			s1, s2 := &slots[a], &slots[b]
			if s1.CourseID == s2.CourseID || !s1.Overlaps(s2) {
				continue
			}
			shared := sharedStudents(courseStudents[s1.CourseID], courseStudents[s2.CourseID])
			if len(shared) == 0 {
				continue
			}
			findings = append(findings, Finding{
				Code: CodeStudentDoubleBooked, Hard: true,
				SlotIDs: []string{s1.ID, s2.ID}, StudentIDs: shared,
				Description: "overlapping slots share enrolled students",
			})
		}
	}
	return findings
}

func sharedStudents(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	var shared []string
	for _, id := range b {
		if _, ok := set[id]; ok {
			shared = append(shared, id)
		}
	}
	return shared
}

// perSlotHardFindings evaluates the hard rules that depend only on one
// slot's own assignment: H-CAP, H-CERT, H-ROOMTYPE, H-EVENT, H-AVAIL.
func perSlotHardFindings(slot *models.ScheduleSlot, p *problem.Problem, courseStudents map[string][]string) []Finding {
	var findings []Finding

	course := p.CourseByID(slot.CourseID)
	room := p.RoomByID(slot.RoomID)
	teacher := p.TeacherByID(slot.TeacherID)

	if course != nil && room != nil {
		roster := len(courseStudents[course.ID])
		if roster > room.EffectiveMaxCapacity() {
			findings = append(findings, Finding{
				Code: CodeCapacity, Hard: true, SlotIDs: []string{slot.ID}, RoomIDs: []string{room.ID},
				Description: "roster exceeds room capacity",
			})
		}
		if course.RequiresRoomType() && !roomTypeCompatible(course.RequiredRoomType, room.Type) {
			findings = append(findings, Finding{
				Code: CodeRoomType, Hard: true, SlotIDs: []string{slot.ID}, RoomIDs: []string{room.ID},
				Description: "room does not satisfy the course's facility requirements",
			})
		}
		if course.RequiresComputers && !room.HasComputers {
			findings = append(findings, Finding{
				Code: CodeRoomType, Hard: true, SlotIDs: []string{slot.ID}, RoomIDs: []string{room.ID},
				Description: "room lacks required computers",
			})
		}
	}

	if course != nil && teacher != nil {
		if !hasAllCerts(teacher.CertificationSet(), course.RequiredCertifications()) {
			findings = append(findings, Finding{
				Code: CodeCertification, Hard: true, SlotIDs: []string{slot.ID}, TeacherIDs: []string{teacher.ID},
				Description: "teacher lacks a certification the course requires",
			})
		}
	}

	for _, event := range p.Events {
		if !event.BlocksScheduling {
			continue
		}
		if event.Intersects(slot.DayOfWeek, slot.StartTime, slot.EndTime) {
			findings = append(findings, Finding{
				Code: CodeBlockingEvent, Hard: true, SlotIDs: []string{slot.ID},
				Description: "slot intersects a blocking event",
			})
		}
	}

	if teacher != nil {
		for _, window := range teacher.UnavailableWindows() {
			if window.DayOfWeek == slot.DayOfWeek && slot.StartTime < window.EndTime && window.StartTime < slot.EndTime {
				findings = append(findings, Finding{
					Code: CodeAvailability, Hard: true, SlotIDs: []string{slot.ID}, TeacherIDs: []string{teacher.ID},
					Description: "slot falls in the teacher's unavailable window",
				})
			}
		}
	}

	for _, cond := range p.Conditions {
		if !cond.IsHard() {
			continue
		}
		if cond.ConditionType != models.ConditionUnavailableTime && cond.ConditionType != models.ConditionRequiredTime {
			continue
		}
		matchesTarget := (cond.TargetKind == models.ConditionTargetTeacher && teacher != nil && cond.TargetID == teacher.ID) ||
			(cond.TargetKind == models.ConditionTargetCourse && course != nil && cond.TargetID == course.ID) ||
			(cond.TargetKind == models.ConditionTargetRoom && room != nil && cond.TargetID == room.ID)
		if !matchesTarget {
			continue
		}
		covers := cond.Covers(slot.DayOfWeek, slot.StartTime, slot.EndTime)
		violated := (cond.ConditionType == models.ConditionUnavailableTime && covers) ||
			(cond.ConditionType == models.ConditionRequiredTime && !covers)
		if violated {
			findings = append(findings, Finding{
				Code: CodeAvailability, Hard: true, SlotIDs: []string{slot.ID},
				Description: "slot violates a hard special condition",
			})
		}
	}

	return findings
}

func roomTypeCompatible(required, actual models.RoomType) bool {
	if required == actual {
		return true
	}
	return required == models.RoomTypeLab && actual == models.RoomTypeScienceLab
}

func hasAllCerts(have map[string]struct{}, required []string) bool {
	for _, cert := range required {
		if _, ok := have[cert]; !ok {
			return false
		}
	}
	return true
}
