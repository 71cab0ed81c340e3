package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Teacher represents an instructor available to be assigned to ScheduleSlots.
type Teacher struct {
	ID                    string         `db:"id" json:"id"`
	Name                  string         `db:"name" json:"name"`
	Department            string         `db:"department" json:"department"`
	Certifications        types.JSONText `db:"certifications" json:"certifications"`
	AvailabilityMask      types.JSONText `db:"availability_mask" json:"availability_mask"`
	MaxDailyPeriods       int            `db:"max_daily_periods" json:"max_daily_periods"`
	MaxConsecutivePeriods int            `db:"max_consecutive_periods" json:"max_consecutive_periods"`
	PreferredRooms        types.JSONText `db:"preferred_rooms" json:"preferred_rooms"`
	HomeCampus            string         `db:"home_campus" json:"home_campus"`
	Active                bool           `db:"active" json:"active"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search     string
	Department string
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// AvailabilityWindow is one entry of a Teacher's unmarshalled AvailabilityMask:
// a (day, time-range) pair the teacher is NOT available during.
type AvailabilityWindow struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CertificationSet unmarshals Teacher.Certifications into a lookup-friendly set.
func (t *Teacher) CertificationSet() map[string]struct{} {
	return stringSet(t.Certifications)
}

// PreferredRoomSet unmarshals Teacher.PreferredRooms into a lookup-friendly set.
func (t *Teacher) PreferredRoomSet() map[string]struct{} {
	return stringSet(t.PreferredRooms)
}

// UnavailableWindows unmarshals Teacher.AvailabilityMask.
func (t *Teacher) UnavailableWindows() []AvailabilityWindow {
	if len(t.AvailabilityMask) == 0 {
		return nil
	}
	var windows []AvailabilityWindow
	if err := t.AvailabilityMask.Unmarshal(&windows); err != nil {
		return nil
	}
	return windows
}

func stringSet(raw types.JSONText) map[string]struct{} {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	if err := raw.Unmarshal(&items); err != nil {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
