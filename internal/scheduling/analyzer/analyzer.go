// Package analyzer runs the pre-schedule feasibility audit (C5): a fast,
// non-probabilistic sweep over a Problem that never mutates it and never
// invokes the GA, so an unsatisfiable request can be rejected before
// spending a solver budget on it.
package analyzer

import (
	"fmt"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

// Analyze runs all six checks from spec §4.4 against p and returns the
// aggregated result. p is read only; Analyze never writes back to it.
func Analyze(p *problem.Problem) models.AnalysisResult {
	var violations []models.Violation
	violations = append(violations, noTeacherForCourse(p)...)
	violations = append(violations, noRoomForCourse(p)...)
	violations = append(violations, demandExceedsSupply(p)...)
	violations = append(violations, singletonClash(p)...)
	violations = append(violations, overconstrainedByConditions(p)...)
	violations = append(violations, blockingEventShadowsCourse(p)...)

	result := models.AnalysisResult{Violations: violations, Total: len(violations)}
	for _, v := range violations {
		if v.Critical {
			result.CriticalCount++
		}
	}
	return result
}

// noTeacherForCourse: the course names required certifications but no
// active teacher's certification set covers them.
func noTeacherForCourse(p *problem.Problem) []models.Violation {
	var out []models.Violation
	for _, course := range p.Courses {
		if len(course.RequiredCertifications()) == 0 {
			continue
		}
		if len(p.TeacherCompat[course.ID]) > 0 {
			continue
		}
		out = append(out, models.Violation{
			Type:         "no_teacher_for_course",
			EntityName:   course.Code,
			Description:  fmt.Sprintf("no active teacher holds all certifications required by %s", course.Code),
			SuggestedFix: "certify an existing teacher, or hire/assign one with the required credentials",
			Critical:     true,
		})
	}
	return out
}

// noRoomForCourse: the course's compatible room set is empty.
func noRoomForCourse(p *problem.Problem) []models.Violation {
	var out []models.Violation
	for _, course := range p.Courses {
		if len(p.RoomCompat[course.ID]) > 0 {
			continue
		}
		out = append(out, models.Violation{
			Type:         "no_room_for_course",
			EntityName:   course.Code,
			Description:  fmt.Sprintf("no active room satisfies %s's facility and capacity requirements", course.Code),
			SuggestedFix: "free up or reconfigure a room matching the course's requirements",
			Critical:     true,
		})
	}
	return out
}

// demandExceedsSupply: aggregate required periods across all courses
// exceed the aggregate periods the active teacher pool can supply in a
// week (one teacher occupies at most one grid cell at a time).
func demandExceedsSupply(p *problem.Problem) []models.Violation {
	totalCells := 0
	for _, cell := range p.Grid {
		if !cell.IsLunch {
			totalCells++
		}
	}

	var demand int
	for _, course := range p.Courses {
		demand += course.RequiredPeriodsWeek
	}

	var supply int
	for _, teacher := range p.Teachers {
		capacity := totalCells
		if teacher.MaxDailyPeriods > 0 {
			capacity = teacher.MaxDailyPeriods * len(weekdaysOf(p))
		}
		supply += capacity
	}

	if demand <= supply {
		return nil
	}
	return []models.Violation{{
		Type:         "demand_exceeds_supply",
		EntityName:   "schedule",
		Description:  fmt.Sprintf("%d required periods/week exceeds the %d periods/week the active teacher pool can supply", demand, supply),
		SuggestedFix: "add teaching capacity or reduce required periods for some courses",
		Critical:     true,
	}}
}

func weekdaysOf(p *problem.Problem) []int {
	seen := make(map[int]struct{})
	var days []int
	for _, cell := range p.Grid {
		if _, ok := seen[cell.DayOfWeek]; !ok {
			seen[cell.DayOfWeek] = struct{}{}
			days = append(days, cell.DayOfWeek)
		}
	}
	if len(days) == 0 {
		return []int{0}
	}
	return days
}

// singletonClash: two singleton courses (meet at most once, exactly one
// section) share the same single compatible teacher, so both cannot be
// scheduled without double-booking that teacher.
func singletonClash(p *problem.Problem) []models.Violation {
	bySingleTeacher := make(map[string][]string)
	for _, course := range p.Courses {
		if !course.Singleton {
			continue
		}
		teachers := p.TeacherCompat[course.ID]
		if len(teachers) != 1 {
			continue
		}
		bySingleTeacher[teachers[0]] = append(bySingleTeacher[teachers[0]], course.Code)
	}

	var out []models.Violation
	for teacherID, courseCodes := range bySingleTeacher {
		if len(courseCodes) < 2 {
			continue
		}
		out = append(out, models.Violation{
			Type:         "singleton_clash",
			EntityName:   teacherID,
			Description:  fmt.Sprintf("singleton courses %v all require the same sole compatible teacher", courseCodes),
			SuggestedFix: "certify an additional teacher for one of the conflicting courses",
			Critical:     true,
		})
	}
	return out
}

// overconstrainedByConditions: a hard REQUIRED_TIME condition and a hard
// UNAVAILABLE_TIME condition target the same entity and cover overlapping
// windows, so no placement can satisfy both.
func overconstrainedByConditions(p *problem.Problem) []models.Violation {
	var out []models.Violation
	for i := range p.Conditions {
		required := &p.Conditions[i]
		if !required.IsHard() || required.ConditionType != models.ConditionRequiredTime {
			continue
		}
		if required.DayOfWeek == nil || required.StartTime == nil || required.EndTime == nil {
			continue
		}
		for j := range p.Conditions {
			unavailable := &p.Conditions[j]
			if !unavailable.IsHard() || unavailable.ConditionType != models.ConditionUnavailableTime {
				continue
			}
			if unavailable.TargetKind != required.TargetKind || unavailable.TargetID != required.TargetID {
				continue
			}
			if !unavailable.Covers(*required.DayOfWeek, *required.StartTime, *required.EndTime) {
				continue
			}
			out = append(out, models.Violation{
				Type:         "required_time_overconstrained",
				EntityName:   required.TargetID,
				Description:  "a required_time condition and an unavailable_time condition cover the same window for this entity",
				SuggestedFix: "remove or narrow one of the two conflicting special conditions",
				Critical:     true,
			})
		}
	}
	return out
}

// blockingEventShadowsCourse: after removing grid cells a blocking event
// overlaps, too few periods remain to satisfy the course's weekly demand.
func blockingEventShadowsCourse(p *problem.Problem) []models.Violation {
	var out []models.Violation
	for _, course := range p.Courses {
		available := 0
		for _, cell := range p.Grid {
			if cell.IsLunch {
				continue
			}
			if !blockedByEvent(p.Events, cell) {
				available++
			}
		}
		if available >= course.RequiredPeriodsWeek {
			continue
		}
		out = append(out, models.Violation{
			Type:         "event_shadows_course",
			EntityName:   course.Code,
			Description:  fmt.Sprintf("only %d open periods/week remain for %s after blocking events, but %d are required", available, course.Code, course.RequiredPeriodsWeek),
			SuggestedFix: "reschedule the blocking event or reduce the course's required periods",
			Critical:     true,
		})
	}
	return out
}

func blockedByEvent(events []models.Event, cell problem.GridCell) bool {
	for i := range events {
		if !events[i].BlocksScheduling {
			continue
		}
		if events[i].Intersects(cell.DayOfWeek, cell.StartTime, cell.EndTime) {
			return true
		}
	}
	return false
}
