package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Course represents a section of instruction that must be placed into one
// or more ScheduleSlots.
type Course struct {
	ID                   string         `db:"id" json:"id"`
	Code                 string         `db:"code" json:"code"`
	Subject              string         `db:"subject" json:"subject"`
	Department           string         `db:"department" json:"department"`
	RequiredPeriodsWeek  int            `db:"required_periods_week" json:"required_periods_week"`
	DurationMinutes      int            `db:"duration_minutes" json:"duration_minutes"`
	RequiredRoomType     RoomType       `db:"required_room_type" json:"required_room_type,omitempty"`
	RequiresComputers    bool           `db:"requires_computers" json:"requires_computers"`
	RequiredCertsJSON    types.JSONText `db:"required_certifications" json:"required_certifications"`
	MinGPA               float64        `db:"min_gpa" json:"min_gpa"`
	Singleton            bool           `db:"singleton" json:"singleton"`
	MinStudents          int            `db:"min_students" json:"min_students"`
	MaxStudents          int            `db:"max_students" json:"max_students"`
	AssignedTeacherID    *string        `db:"assigned_teacher_id" json:"assigned_teacher_id,omitempty"`
	AssignedRoomID       *string        `db:"assigned_room_id" json:"assigned_room_id,omitempty"`
	Active               bool           `db:"active" json:"active"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// RequiredCertifications unmarshals Course.RequiredCertsJSON.
func (c *Course) RequiredCertifications() []string {
	if len(c.RequiredCertsJSON) == 0 {
		return nil
	}
	var certs []string
	if err := c.RequiredCertsJSON.Unmarshal(&certs); err != nil {
		return nil
	}
	return certs
}

// RequiresRoomType reports whether the course constrains room type.
func (c *Course) RequiresRoomType() bool {
	return c.RequiredRoomType != ""
}

// ComplexityScore derives a rough difficulty-of-placement score used to
// order greedy assignment: courses with tighter compatibility sets (fewer
// eligible teachers/rooms, required certs, singleton) should be placed
// first so later, looser courses absorb the remaining slack.
func (c *Course) ComplexityScore() float64 {
	score := float64(c.RequiredPeriodsWeek)
	if c.Singleton {
		score += 5
	}
	if len(c.RequiredCertsJSON) > 0 {
		score += float64(len(c.RequiredCertifications())) * 2
	}
	if c.RequiresRoomType() {
		score += 2
	}
	if c.RequiresComputers {
		score++
	}
	return score
}

// CourseFilter captures filtering options for listing courses.
type CourseFilter struct {
	Department string
	Subject    string
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
