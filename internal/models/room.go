package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Capacity bounds how many students a Room can reasonably hold.
type Capacity struct {
	Min     int `json:"min"`
	Nominal int `json:"nominal"`
	Max     int `json:"max"`
}

// Room represents a physical space a ScheduleSlot can be held in.
type Room struct {
	ID                   string         `db:"id" json:"id"`
	RoomNumber           string         `db:"room_number" json:"room_number"`
	Building             string         `db:"building" json:"building"`
	Floor                int            `db:"floor" json:"floor"`
	Zone                 string         `db:"zone" json:"zone"`
	Type                 RoomType       `db:"type" json:"type"`
	CapacityMin          int            `db:"capacity_min" json:"capacity_min"`
	CapacityNominal      int            `db:"capacity_nominal" json:"capacity_nominal"`
	CapacityMax          int            `db:"capacity_max" json:"capacity_max"`
	AllowSharing         bool           `db:"allow_sharing" json:"allow_sharing"`
	MaxConcurrentClasses int            `db:"max_concurrent_classes" json:"max_concurrent_classes"`
	HasProjector         bool           `db:"has_projector" json:"has_projector"`
	HasSmartboard        bool           `db:"has_smartboard" json:"has_smartboard"`
	HasComputers         bool           `db:"has_computers" json:"has_computers"`
	WheelchairAccessible bool           `db:"wheelchair_accessible" json:"wheelchair_accessible"`
	ActivityTags         types.JSONText `db:"activity_tags" json:"activity_tags"`
	Active               bool           `db:"active" json:"active"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// EffectiveMaxCapacity returns the hard ceiling on students for a single
// meeting: when sharing is disallowed the capacity is unaffected (sharing
// governs concurrent sections, not roster size), so this is CapacityMax
// unless it is unset, in which case CapacityNominal is used.
func (r *Room) EffectiveMaxCapacity() int {
	if r.CapacityMax > 0 {
		return r.CapacityMax
	}
	return r.CapacityNominal
}

// ConcurrencyLimit returns how many slots may legally overlap in this room
// at the same (day, time).
func (r *Room) ConcurrencyLimit() int {
	if !r.AllowSharing {
		return 1
	}
	if r.MaxConcurrentClasses > 0 {
		return r.MaxConcurrentClasses
	}
	return 1
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Building  string
	Type      RoomType
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
