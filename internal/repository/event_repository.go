package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schedulecore/masterschedule/internal/models"
)

// EventRepository manages persistence for blocking/non-blocking Events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, name, day_of_week, start_time, end_time, blocks_scheduling`

// ListInRange returns every event whose window falls within the given
// calendar range.
func (r *EventRepository) ListInRange(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE occurs_on BETWEEN $1 AND $2 ORDER BY day_of_week, start_time`, eventColumns)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, start, end); err != nil {
		return nil, fmt.Errorf("list events in range: %w", err)
	}
	return events, nil
}
