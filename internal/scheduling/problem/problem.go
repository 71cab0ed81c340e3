// Package problem turns an entity repository snapshot and a generation
// request into an immutable Problem: the time-slot grid, the unassigned
// planning slots, and the per-course compatibility sets the solver must
// never sample outside of.
package problem

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/models"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

// CompatCache is the subset of repository.CacheRepository the builder
// needs; compatibility-set computation is cached through it when a client
// is configured and falls back to direct computation otherwise.
type CompatCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Problem is the immutable input the GA solver operates on. Once built it
// is never mutated; individuals are independent []models.ScheduleSlot
// copies scored against it.
type Problem struct {
	ScheduleID    string
	Grid          []GridCell
	Slots         []models.ScheduleSlot
	Teachers      []models.Teacher
	Rooms         []models.Room
	Courses       []models.Course
	Students      []models.Student
	Events        []models.Event
	Conditions    []models.SpecialCondition
	LunchWaves    []models.LunchWave
	TeacherCompat map[string][]string // courseID -> teacherIDs
	RoomCompat    map[string][]string // courseID -> roomIDs
	Infeasible    []string            // courses with an empty compatibility set

	teacherByID map[string]*models.Teacher
	roomByID    map[string]*models.Room
	courseByID  map[string]*models.Course
}

// TeacherByID looks up a teacher by id among the Problem's loaded set.
func (p *Problem) TeacherByID(id string) *models.Teacher { return p.teacherByID[id] }

// RoomByID looks up a room by id among the Problem's loaded set.
func (p *Problem) RoomByID(id string) *models.Room { return p.roomByID[id] }

// CourseByID looks up a course by id among the Problem's loaded set.
func (p *Problem) CourseByID(id string) *models.Course { return p.courseByID[id] }

// Inputs bundles the external collaborators the problem builder reads from
// (the EntityRepository capability, already resolved into slices).
type Inputs struct {
	Teachers   []models.Teacher
	Rooms      []models.Room
	Courses    []models.Course
	Students   []models.Student
	Conditions []models.SpecialCondition
	Events     []models.Event
	LunchWaves []models.LunchWave
}

// Build implements spec §4.1: validates the request's time fields,
// generates the grid, computes compatibility sets, and materializes one
// unassigned slot per (course, occurrence-in-week).
func Build(ctx context.Context, scheduleID string, req dto.GenerationRequest, in Inputs, cache CompatCache) (*Problem, error) {
	if req.PeriodDuration < 5 {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "period_duration must be >= 5 minutes")
	}

	grid, err := buildGrid(req.ScheduleType, req.FirstPeriodStartTime, req.SchoolEndTime, req.PeriodDuration, req.PassingPeriodDuration, req.EnableLunch, req.LunchStartTime, req.LunchDuration)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, err.Error())
	}
	if req.PeriodDuration > 240 {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "slot duration exceeds 240 minutes")
	}

	activeTeachers := onlyActive(in.Teachers)
	activeRooms := onlyActiveRooms(in.Rooms)
	activeCourses := onlyActiveCourses(in.Courses)

	p := &Problem{
		ScheduleID:    scheduleID,
		Grid:          grid,
		Teachers:      activeTeachers,
		Rooms:         activeRooms,
		Courses:       activeCourses,
		Students:      in.Students,
		Events:        in.Events,
		Conditions:    in.Conditions,
		LunchWaves:    in.LunchWaves,
		TeacherCompat: make(map[string][]string, len(activeCourses)),
		RoomCompat:    make(map[string][]string, len(activeCourses)),
		teacherByID:   make(map[string]*models.Teacher, len(activeTeachers)),
		roomByID:      make(map[string]*models.Room, len(activeRooms)),
		courseByID:    make(map[string]*models.Course, len(activeCourses)),
	}

	for i := range p.Teachers {
		p.teacherByID[p.Teachers[i].ID] = &p.Teachers[i]
	}
	for i := range p.Rooms {
		p.roomByID[p.Rooms[i].ID] = &p.Rooms[i]
	}
	for i := range p.Courses {
		p.courseByID[p.Courses[i].ID] = &p.Courses[i]
	}

	for i := range p.Courses {
		course := &p.Courses[i]

		teacherIDs, err := compatibleTeachers(ctx, course, p.Teachers, cache)
		if err != nil {
			return nil, err
		}
		roomIDs, err := compatibleRooms(ctx, course, p.Rooms, cache)
		if err != nil {
			return nil, err
		}
		p.TeacherCompat[course.ID] = teacherIDs
		p.RoomCompat[course.ID] = roomIDs

		if len(teacherIDs) == 0 || len(roomIDs) == 0 {
			p.Infeasible = append(p.Infeasible, course.ID)
		}
	}

	p.Slots = materializeSlots(scheduleID, p.Courses)

	return p, nil
}

// materializeSlots emits required_periods_per_week unassigned slots per
// course (spec §4.1 step 3); the four solver-owned variables start zeroed.
func materializeSlots(scheduleID string, courses []models.Course) []models.ScheduleSlot {
	var slots []models.ScheduleSlot
	for _, course := range courses {
		occurrences := course.RequiredPeriodsWeek
		if occurrences <= 0 {
			occurrences = 1
		}
		for occ := 0; occ < occurrences; occ++ {
			slots = append(slots, models.ScheduleSlot{
				ID:         uuid.NewString(),
				ScheduleID: scheduleID,
				CourseID:   course.ID,
				Status:     models.SlotStatusUnassigned,
			})
		}
	}
	return slots
}

func compatibleTeachers(ctx context.Context, course *models.Course, teachers []models.Teacher, cache CompatCache) ([]string, error) {
	required := course.RequiredCertifications()
	key := ""
	if cache != nil {
		key = cacheKey("teacher-compat", course.ID, required)
		var cached []string
		if err := cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	var ids []string
	for i := range teachers {
		t := &teachers[i]
		if !hasAllCerts(t.CertificationSet(), required) {
			continue
		}
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)

	if cache != nil {
		_ = cache.Set(ctx, key, ids, 10*time.Minute)
	}
	return ids, nil
}

func compatibleRooms(ctx context.Context, course *models.Course, rooms []models.Room, cache CompatCache) ([]string, error) {
	key := ""
	if cache != nil {
		key = cacheKey("room-compat", course.ID, []string{string(course.RequiredRoomType), fmt.Sprint(course.RequiresComputers), fmt.Sprint(course.MaxStudents)})
		var cached []string
		if err := cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	var ids []string
	for i := range rooms {
		r := &rooms[i]
		if course.RequiresRoomType() && !roomTypeSatisfies(course.RequiredRoomType, r.Type) {
			continue
		}
		if course.RequiresComputers && !r.HasComputers {
			continue
		}
		if course.MaxStudents > 0 && course.MaxStudents > r.EffectiveMaxCapacity() {
			continue
		}
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)

	if cache != nil {
		_ = cache.Set(ctx, key, ids, 10*time.Minute)
	}
	return ids, nil
}

// roomTypeSatisfies implements the spec's worked example: a lab
// requirement is satisfied by either a generic lab or a science lab.
func roomTypeSatisfies(required, actual models.RoomType) bool {
	if required == actual {
		return true
	}
	if required == models.RoomTypeLab && actual == models.RoomTypeScienceLab {
		return true
	}
	return false
}

func hasAllCerts(have map[string]struct{}, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, cert := range required {
		if _, ok := have[cert]; !ok {
			return false
		}
	}
	return true
}

func onlyActive(teachers []models.Teacher) []models.Teacher {
	out := make([]models.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if t.Active {
			out = append(out, t)
		}
	}
	return out
}

func onlyActiveRooms(rooms []models.Room) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

func onlyActiveCourses(courses []models.Course) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

func cacheKey(prefix, courseID string, parts []string) string {
	h := sha1.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("scheduling:%s:%s:%s", prefix, courseID, hex.EncodeToString(h.Sum(nil)))
}
