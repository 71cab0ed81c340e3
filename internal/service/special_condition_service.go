package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

type specialConditionRepository interface {
	ListForSchedule(ctx context.Context, scheduleID string) ([]models.SpecialCondition, error)
	ListByTarget(ctx context.Context, targetKind models.ConditionTarget, targetID string) ([]models.SpecialCondition, error)
}

// SpecialConditionService exposes read access to per-entity constraints.
type SpecialConditionService struct {
	repo   specialConditionRepository
	logger *zap.Logger
}

// NewSpecialConditionService constructs the special condition service.
func NewSpecialConditionService(repo specialConditionRepository, logger *zap.Logger) *SpecialConditionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpecialConditionService{repo: repo, logger: logger}
}

// ListForSchedule returns every special condition in force for a schedule's
// entity pool.
func (s *SpecialConditionService) ListForSchedule(ctx context.Context, scheduleID string) ([]models.SpecialCondition, error) {
	conditions, err := s.repo.ListForSchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list special conditions")
	}
	return conditions, nil
}

// ListByTarget returns the special conditions attached to one entity.
func (s *SpecialConditionService) ListByTarget(ctx context.Context, targetKind models.ConditionTarget, targetID string) ([]models.SpecialCondition, error) {
	conditions, err := s.repo.ListByTarget(ctx, targetKind, targetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list special conditions")
	}
	return conditions, nil
}
