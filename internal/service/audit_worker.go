package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/pkg/jobs"
)

type auditWorkerScheduleLister interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error)
}

// AuditWorker periodically re-runs conflict detection (C4) against every
// published schedule's current slots, catching drift that Generate's own
// writeback never sees: a teacher deactivated, a room retired, a special
// condition added after the fact.
type AuditWorker struct {
	generator *ScheduleGeneratorService
	schedules auditWorkerScheduleLister
	logger    *zap.Logger
}

// NewAuditWorker constructs the worker. The caller wires the returned
// worker's Handle method as a jobs.Queue's Handler, then passes that same
// queue into SweepOnce/Run — the queue cannot be built before the handler
// it dispatches to exists, so it is threaded through as a parameter rather
// than held on the struct.
func NewAuditWorker(generator *ScheduleGeneratorService, schedules auditWorkerScheduleLister, logger *zap.Logger) *AuditWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditWorker{generator: generator, schedules: schedules, logger: logger}
}

// Handle is the jobs.Handler entrypoint: the job payload is a schedule ID.
func (w *AuditWorker) Handle(ctx context.Context, job jobs.Job) error {
	scheduleID, ok := job.Payload.(string)
	if !ok || scheduleID == "" {
		return nil
	}
	conflicts, err := w.generator.Audit(ctx, scheduleID)
	if err != nil {
		return err
	}
	w.logger.Sugar().Infow("schedule re-audited", "schedule_id", scheduleID, "conflict_count", len(conflicts))
	return nil
}

// SweepOnce enqueues an audit job for every published schedule.
func (w *AuditWorker) SweepOnce(ctx context.Context, queue *jobs.Queue) error {
	schedules, _, err := w.schedules.List(ctx, models.ScheduleFilter{
		Status:   models.ScheduleStatusPublished,
		Page:     1,
		PageSize: 500,
	})
	if err != nil {
		return err
	}
	for _, schedule := range schedules {
		if err := queue.Enqueue(jobs.Job{ID: schedule.ID, Type: "schedule.audit", Payload: schedule.ID}); err != nil {
			w.logger.Sugar().Warnw("failed to enqueue audit job", "schedule_id", schedule.ID, "error", err)
		}
	}
	return nil
}

// Run sweeps on the given interval until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context, queue *jobs.Queue, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.SweepOnce(ctx, queue); err != nil {
				w.logger.Sugar().Errorw("audit sweep failed", "error", err)
			}
		}
	}
}
