package service

import (
	"context"

	"github.com/schedulecore/masterschedule/internal/models"
)

type activeTeacherLister interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type activeRoomLister interface {
	ListActive(ctx context.Context) ([]models.Room, error)
}

type activeCourseLister interface {
	ListActive(ctx context.Context) ([]models.Course, error)
}

type activeStudentLister interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
}

type activeConditionLister interface {
	ListForSchedule(ctx context.Context, scheduleID string) ([]models.SpecialCondition, error)
}

type activeLunchWaveLister interface {
	ListActive(ctx context.Context) ([]models.LunchWave, error)
}

// RepositoryEntityPool adapts the individual repository types to the
// narrow entityPool view ScheduleGeneratorService needs, so the generator
// depends on behavior rather than the concrete repository structs.
type RepositoryEntityPool struct {
	Teachers   activeTeacherLister
	Rooms      activeRoomLister
	Courses    activeCourseLister
	Students   activeStudentLister
	Conditions activeConditionLister
	LunchWaves activeLunchWaveLister
}

// NewRepositoryEntityPool constructs a RepositoryEntityPool from concrete
// repositories satisfying the narrow listing interfaces above.
func NewRepositoryEntityPool(teachers activeTeacherLister, rooms activeRoomLister, courses activeCourseLister, students activeStudentLister, conditions activeConditionLister, lunchWaves activeLunchWaveLister) *RepositoryEntityPool {
	return &RepositoryEntityPool{
		Teachers:   teachers,
		Rooms:      rooms,
		Courses:    courses,
		Students:   students,
		Conditions: conditions,
		LunchWaves: lunchWaves,
	}
}

func (p *RepositoryEntityPool) ListActiveTeachers(ctx context.Context) ([]models.Teacher, error) {
	return p.Teachers.ListActive(ctx)
}

func (p *RepositoryEntityPool) ListActiveRooms(ctx context.Context) ([]models.Room, error) {
	return p.Rooms.ListActive(ctx)
}

func (p *RepositoryEntityPool) ListActiveCourses(ctx context.Context) ([]models.Course, error) {
	return p.Courses.ListActive(ctx)
}

func (p *RepositoryEntityPool) ListActiveStudents(ctx context.Context) ([]models.Student, error) {
	return p.Students.ListStudents(ctx)
}

func (p *RepositoryEntityPool) ListActiveConditions(ctx context.Context, scheduleID string) ([]models.SpecialCondition, error) {
	return p.Conditions.ListForSchedule(ctx, scheduleID)
}

func (p *RepositoryEntityPool) ListActiveLunchWaves(ctx context.Context) ([]models.LunchWave, error) {
	return p.LunchWaves.ListActive(ctx)
}
