package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulecore/masterschedule/internal/models"
)

func newSpecialConditionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func specialConditionRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "target_kind", "target_id", "condition_type", "severity", "day_of_week",
		"start_time", "end_time", "penalty_weight", "pairing_ref", "created_at"}).
		AddRow("sc1", models.ConditionTargetTeacher, "t1", models.ConditionUnavailableTime, models.SeverityHard, nil, nil, nil, 0.0, nil, now)
}

func TestSpecialConditionRepositoryListForSchedule(t *testing.T) {
	db, mock, cleanup := newSpecialConditionRepoMock(t)
	defer cleanup()
	repo := NewSpecialConditionRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM special_conditions ORDER BY id`).
		WillReturnRows(specialConditionRows(now))

	conditions, err := repo.ListForSchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	require.Len(t, conditions, 1)
	assert.Equal(t, "sc1", conditions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpecialConditionRepositoryListByTarget(t *testing.T) {
	db, mock, cleanup := newSpecialConditionRepoMock(t)
	defer cleanup()
	repo := NewSpecialConditionRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM special_conditions WHERE target_kind = \$1 AND target_id = \$2 ORDER BY id`).
		WithArgs(models.ConditionTargetTeacher, "t1").
		WillReturnRows(specialConditionRows(now))

	conditions, err := repo.ListByTarget(context.Background(), models.ConditionTargetTeacher, "t1")
	require.NoError(t, err)
	require.Len(t, conditions, 1)
	assert.True(t, conditions[0].IsHard())
	assert.NoError(t, mock.ExpectationsWereMet())
}
