package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/pkg/config"
	"github.com/schedulecore/masterschedule/pkg/jobs"
)

type mockAuditScheduleLister struct {
	schedules []models.Schedule
}

func (m *mockAuditScheduleLister) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	return m.schedules, len(m.schedules), nil
}

func TestAuditWorkerHandleRunsAudit(t *testing.T) {
	scheduleStore := &mockGeneratorScheduleStore{
		schedules: map[string]models.Schedule{"s1": {ID: "s1", SchoolStartTime: "08:00", SchoolEndTime: "09:00", SlotDurationMinutes: 50}},
		slots:     map[string][]models.ScheduleSlot{"s1": {}},
	}
	conflictStore := &mockGeneratorConflictStore{}
	generator := NewScheduleGeneratorService(feasiblePool(), scheduleStore, conflictStore, nil, config.SolverConfig{}, fitness.DefaultWeights(), validator.New(), zap.NewNop())

	worker := NewAuditWorker(generator, &mockAuditScheduleLister{}, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{Payload: "s1"})
	require.NoError(t, err)
	assert.Contains(t, conflictStore.conflicts, "s1")
}

func TestAuditWorkerHandleIgnoresMalformedPayload(t *testing.T) {
	worker := NewAuditWorker(nil, &mockAuditScheduleLister{}, zap.NewNop())
	err := worker.Handle(context.Background(), jobs.Job{Payload: 42})
	require.NoError(t, err)
}

func TestAuditWorkerSweepOnceEnqueuesPublishedSchedules(t *testing.T) {
	lister := &mockAuditScheduleLister{schedules: []models.Schedule{
		{ID: "s1", Status: models.ScheduleStatusPublished},
		{ID: "s2", Status: models.ScheduleStatusPublished},
	}}
	var handled []string
	queue := jobs.NewQueue("test-audit", func(ctx context.Context, job jobs.Job) error {
		handled = append(handled, job.Payload.(string))
		return nil
	}, jobs.QueueConfig{Workers: 1, BufferSize: 4, Logger: zap.NewNop()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	worker := NewAuditWorker(nil, lister, zap.NewNop())
	err := worker.SweepOnce(context.Background(), queue)
	require.NoError(t, err)
}
