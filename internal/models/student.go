package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Student represents a learner whose enrolled courses drive student-roster
// overlap checks (H-STUDENT) and who is partitioned into a LunchWave.
type Student struct {
	ID             string         `db:"id" json:"id"`
	FullName       string         `db:"full_name" json:"full_name"`
	GradeLevel     int            `db:"grade_level" json:"grade_level"`
	EnrolledCourse types.JSONText `db:"enrolled_course_ids" json:"enrolled_course_ids"`
	LunchWaveID    *string        `db:"lunch_wave_id" json:"lunch_wave_id,omitempty"`
	Active         bool           `db:"active" json:"active"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// EnrolledCourseIDs unmarshals Student.EnrolledCourse.
func (s *Student) EnrolledCourseIDs() []string {
	if len(s.EnrolledCourse) == 0 {
		return nil
	}
	var ids []string
	if err := s.EnrolledCourse.Unmarshal(&ids); err != nil {
		return nil
	}
	return ids
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	GradeLevel *int
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
