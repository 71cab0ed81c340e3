package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

type eventRepository interface {
	ListInRange(ctx context.Context, start, end time.Time) ([]models.Event, error)
}

// EventService exposes read access to blocking/non-blocking calendar events.
type EventService struct {
	repo   eventRepository
	logger *zap.Logger
}

// NewEventService constructs the event service.
func NewEventService(repo eventRepository, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, logger: logger}
}

// ListInRange returns events whose calendar window falls between start and end.
func (s *EventService) ListInRange(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	events, err := s.repo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}
