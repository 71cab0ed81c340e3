package models

import "time"

// Schedule is the header a set of ScheduleSlots belongs to; a Schedule
// exclusively owns its slots (cascade delete).
type Schedule struct {
	ID                  string         `db:"id" json:"id"`
	Name                string         `db:"name" json:"name"`
	Period              SchedulePeriod `db:"period" json:"period"`
	Type                ScheduleType   `db:"type" json:"type"`
	StartDate           time.Time      `db:"start_date" json:"start_date"`
	EndDate             time.Time      `db:"end_date" json:"end_date"`
	SchoolStartTime     string         `db:"school_start_time" json:"school_start_time"`
	SchoolEndTime       string         `db:"school_end_time" json:"school_end_time"`
	SlotDurationMinutes int            `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	Status              ScheduleStatus `db:"status" json:"status"`
	OptimizationScore   float64        `db:"optimization_score" json:"optimization_score"`
	TotalConflicts      int            `db:"total_conflicts" json:"total_conflicts"`
	TeacherUtilization  float64        `db:"teacher_utilization" json:"teacher_utilization"`
	RoomUtilization     float64        `db:"room_utilization" json:"room_utilization"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	Status    ScheduleStatus
	Type      ScheduleType
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
