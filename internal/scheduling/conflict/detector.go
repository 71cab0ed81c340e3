// Package conflict re-runs the fitness evaluator's rule set (C3) against a
// persisted Schedule and promotes each Finding into a typed, human-readable
// models.Conflict record for the audit surface (spec §4.3).
package conflict

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
)

// Detect evaluates slots against p and returns one Conflict per Finding.
// It never mutates p or slots; persistence and idempotent replacement are
// the caller's responsibility (ConflictRepository.ReplaceForSchedule).
func Detect(p *problem.Problem, slots []models.ScheduleSlot) []models.Conflict {
	_, findings := fitness.Evaluate(p, slots, fitness.DefaultWeights())

	conflicts := make([]models.Conflict, 0, len(findings))
	now := time.Now()
	for _, f := range findings {
		conflicts = append(conflicts, toConflict(p.ScheduleID, f, now))
	}
	return conflicts
}

func toConflict(scheduleID string, f fitness.Finding, detectedAt time.Time) models.Conflict {
	meta := findingMeta[f.Code]
	return models.Conflict{
		ID:                  uuid.NewString(),
		ScheduleID:          scheduleID,
		Type:                meta.conflictType,
		Severity:            meta.severity,
		Category:            meta.category,
		Title:               meta.title,
		Description:         describe(f, meta.title),
		SuggestedResolution: meta.suggestedResolution,
		AffectedSlotIDs:     f.SlotIDs,
		AffectedTeacherIDs:  f.TeacherIDs,
		AffectedStudentIDs:  f.StudentIDs,
		AffectedRoomIDs:     f.RoomIDs,
		AffectedCourseIDs:   f.CourseIDs,
		DetectedAt:          detectedAt,
		IsResolved:          false,
		IsIgnored:           false,
	}
}

func describe(f fitness.Finding, title string) string {
	if f.Description != "" {
		return f.Description
	}
	return title
}

type conflictMeta struct {
	conflictType        models.ConflictType
	severity            models.ConflictSeverity
	category            models.ConflictCategory
	title               string
	suggestedResolution string
}

// findingMeta maps every fitness.FindingCode to the templated conflict
// record it is promoted to; hard findings are always HIGH or CRITICAL,
// soft findings MEDIUM or LOW, per spec §4.3.
var findingMeta = map[fitness.FindingCode]conflictMeta{
	fitness.CodeTeacherDoubleBooked: {
		models.ConflictTeacherDoubleBooked, models.ConflictSeverityCritical, models.CategoryTeacher,
		"Teacher double-booked", "Move one of the overlapping sections to a different time or reassign its teacher.",
	},
	fitness.CodeRoomDoubleBooked: {
		models.ConflictRoomDoubleBooked, models.ConflictSeverityHigh, models.CategoryRoom,
		"Room double-booked", "Move one of the overlapping sections to a different room or time.",
	},
	fitness.CodeStudentDoubleBooked: {
		models.ConflictStudentDoubleBooked, models.ConflictSeverityCritical, models.CategoryStudent,
		"Student schedule conflict", "Reassign one of the conflicting sections to a time the affected students are free.",
	},
	fitness.CodeCapacity: {
		models.ConflictCapacityExceeded, models.ConflictSeverityHigh, models.CategoryRoom,
		"Room capacity exceeded", "Move the section to a larger room or split the roster.",
	},
	fitness.CodeCertification: {
		models.ConflictCertificationGap, models.ConflictSeverityCritical, models.CategoryTeacher,
		"Teacher lacks required certification", "Reassign the section to a teacher certified for this course.",
	},
	fitness.CodeRoomType: {
		models.ConflictRoomTypeMismatch, models.ConflictSeverityHigh, models.CategoryRoom,
		"Room does not meet facility requirements", "Move the section to a room matching the course's facility needs.",
	},
	fitness.CodeBlockingEvent: {
		models.ConflictBlockingEvent, models.ConflictSeverityHigh, models.CategoryTime,
		"Section scheduled over a blocking event", "Move the section outside of the event's time window.",
	},
	fitness.CodeAvailability: {
		models.ConflictTeacherUnavailable, models.ConflictSeverityHigh, models.CategoryTeacher,
		"Teacher unavailable at scheduled time", "Move the section to a time within the teacher's availability.",
	},
	fitness.CodeLunchCapacity: {
		models.ConflictLunchOverflow, models.ConflictSeverityHigh, models.CategoryResource,
		"Lunch wave over capacity", "Rebalance students out of the over-capacity wave.",
	},
	fitness.CodeLunchGrade: {
		models.ConflictLunchGradeMismatch, models.ConflictSeverityHigh, models.CategoryPolicy,
		"Student assigned to an ineligible lunch wave", "Reassign the student to a wave accepting their grade level.",
	},
	fitness.CodeTeacherPreference: {
		models.ConflictTeacherPreference, models.ConflictSeverityMedium, models.CategoryPolicy,
		"Teacher preference not honored", "Consider moving the section to align with the teacher's stated preference.",
	},
	fitness.CodeRoomPreference: {
		models.ConflictRoomPreference, models.ConflictSeverityLow, models.CategoryRoom,
		"Room preference not honored", "Consider moving the section to one of the teacher's preferred rooms.",
	},
	fitness.CodeTeacherTravel: {
		models.ConflictTeacherTravel, models.ConflictSeverityMedium, models.CategoryTeacher,
		"Back-to-back cross-building travel", "Group this teacher's sections into fewer buildings per day.",
	},
	fitness.CodeMaxConsecutive: {
		models.ConflictMaxConsecutive, models.ConflictSeverityMedium, models.CategoryTeacher,
		"Max consecutive periods exceeded", "Insert a break or redistribute the teacher's sections.",
	},
	fitness.CodeMaxDaily: {
		models.ConflictMaxDaily, models.ConflictSeverityMedium, models.CategoryTeacher,
		"Max daily periods exceeded", "Redistribute some of the teacher's sections to other days.",
	},
	fitness.CodeWorkloadBalance: {
		models.ConflictWorkloadImbalance, models.ConflictSeverityLow, models.CategoryPolicy,
		"Teacher workload imbalanced", "Redistribute sections to even out weekly teacher loads.",
	},
	fitness.CodeRoomUtilization: {
		models.ConflictRoomUtilization, models.ConflictSeverityLow, models.CategoryRoom,
		"Room utilization outside target band", "Reassign sections to bring this room's usage into the 40-85% band.",
	},
	fitness.CodeLunchCohesion: {
		models.ConflictLunchCohesion, models.ConflictSeverityLow, models.CategoryResource,
		"Lunch wave spans distant rooms", "Regroup students sharing a wave by their pre-lunch room when possible.",
	},
}

// Summarize renders a one-line rollup suitable for a CLI or audit log.
func Summarize(conflicts []models.Conflict) string {
	if len(conflicts) == 0 {
		return "no conflicts detected"
	}
	var critical, high, medium, low int
	for _, c := range conflicts {
		switch c.Severity {
		case models.ConflictSeverityCritical:
			critical++
		case models.ConflictSeverityHigh:
			high++
		case models.ConflictSeverityMedium:
			medium++
		default:
			low++
		}
	}
	return fmt.Sprintf("%d conflicts (%d critical, %d high, %d medium, %d low)", len(conflicts), critical, high, medium, low)
}
