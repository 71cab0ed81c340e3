package models

import "time"

// ScheduleSlot is the planning entity the solver assigns: one meeting
// instance of a Course in a week, bound to a (day, time, teacher, room)
// tuple once solved.
type ScheduleSlot struct {
	ID             string     `db:"id" json:"id"`
	ScheduleID     string     `db:"schedule_id" json:"schedule_id"`
	CourseID       string     `db:"course_id" json:"course_id"`
	TeacherID      string     `db:"teacher_id" json:"teacher_id"`
	RoomID         string     `db:"room_id" json:"room_id"`
	DayOfWeek      int        `db:"day_of_week" json:"day_of_week"`
	StartTime      string     `db:"start_time" json:"start_time"`
	EndTime        string     `db:"end_time" json:"end_time"`
	PeriodNumber   int        `db:"period_number" json:"period_number"`
	Pinned         bool       `db:"pinned" json:"pinned"`
	ConflictFlag   bool       `db:"conflict_flag" json:"conflict_flag"`
	ConflictReason *string    `db:"conflict_reason" json:"conflict_reason,omitempty"`
	Status         SlotStatus `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether two slots fall on the same day and their
// [start,end) time ranges intersect. Both times must be "HH:MM" strings,
// which compare correctly as plain strings.
func (s *ScheduleSlot) Overlaps(other *ScheduleSlot) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}
