package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
)

type mockScheduleRepo struct {
	schedules map[string]models.Schedule
	slots     map[string][]models.ScheduleSlot
	deleted   []string
	listTotal int
}

func (m *mockScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	schedules := make([]models.Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		schedules = append(schedules, s)
	}
	return schedules, m.listTotal, nil
}

func (m *mockScheduleRepo) Save(ctx context.Context, schedule *models.Schedule) error {
	if m.schedules == nil {
		m.schedules = make(map[string]models.Schedule)
	}
	if schedule.ID == "" {
		schedule.ID = "generated"
	}
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *mockScheduleRepo) SaveSlots(ctx context.Context, scheduleID string, slots []models.ScheduleSlot) error {
	if m.slots == nil {
		m.slots = make(map[string][]models.ScheduleSlot)
	}
	m.slots[scheduleID] = slots
	return nil
}

func (m *mockScheduleRepo) FindByIDWithSlots(ctx context.Context, id string) (*models.Schedule, []models.ScheduleSlot, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, nil, sql.ErrNoRows
	}
	return &s, m.slots[id], nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.schedules, id)
	return nil
}

type mockScheduleConflictRepo struct {
	conflicts map[string][]models.Conflict
}

func (m *mockScheduleConflictRepo) ListForSchedule(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	return m.conflicts[scheduleID], nil
}

func TestScheduleServiceCreate(t *testing.T) {
	repo := &mockScheduleRepo{}
	conflicts := &mockScheduleConflictRepo{}
	svc := NewScheduleService(repo, conflicts, validator.New(), zap.NewNop())

	schedule, err := svc.Create(context.Background(), CreateScheduleRequest{
		Name:                "Fall 2026",
		Period:              models.SchedulePeriodSemester,
		Type:                models.ScheduleTypeTraditional,
		StartDate:           "2026-08-17",
		EndDate:             "2026-12-18",
		SchoolStartTime:     "08:00",
		SchoolEndTime:       "15:00",
		SlotDurationMinutes: 50,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, models.ScheduleStatusDraft, schedule.Status)
}

func TestScheduleServiceGetDetail(t *testing.T) {
	repo := &mockScheduleRepo{
		schedules: map[string]models.Schedule{"s1": {ID: "s1", Name: "Fall"}},
		slots:     map[string][]models.ScheduleSlot{"s1": {{ID: "slot1", ScheduleID: "s1"}}},
	}
	conflicts := &mockScheduleConflictRepo{conflicts: map[string][]models.Conflict{"s1": {{ID: "c1", ScheduleID: "s1"}}}}
	svc := NewScheduleService(repo, conflicts, validator.New(), zap.NewNop())

	detail, err := svc.GetDetail(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, detail.Slots, 1)
	assert.Len(t, detail.Conflicts, 1)
}

func TestScheduleServiceDelete(t *testing.T) {
	repo := &mockScheduleRepo{schedules: map[string]models.Schedule{"s1": {ID: "s1"}}}
	conflicts := &mockScheduleConflictRepo{}
	svc := NewScheduleService(repo, conflicts, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "s1")
	require.NoError(t, err)
	assert.Contains(t, repo.deleted, "s1")
}

func TestScheduleServiceGetDetailNotFound(t *testing.T) {
	repo := &mockScheduleRepo{}
	conflicts := &mockScheduleConflictRepo{}
	svc := NewScheduleService(repo, conflicts, validator.New(), zap.NewNop())

	_, err := svc.GetDetail(context.Background(), "missing")
	require.Error(t, err)
}
