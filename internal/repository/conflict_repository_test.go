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

func newConflictRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestConflictRepositoryReplaceForSchedule(t *testing.T) {
	db, mock, cleanup := newConflictRepoMock(t)
	defer cleanup()
	repo := NewConflictRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM conflicts WHERE schedule_id = \$1`).
		WithArgs("sched-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO conflicts").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	conflicts := []models.Conflict{{ScheduleID: "sched-1", Type: models.ConflictTeacherDoubleBooked,
		Severity: models.ConflictSeverityHigh, Category: models.CategoryTeacher, Title: "Teacher double booked"}}
	err := repo.ReplaceForSchedule(context.Background(), "sched-1", conflicts)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictRepositoryListForSchedule(t *testing.T) {
	db, mock, cleanup := newConflictRepoMock(t)
	defer cleanup()
	repo := NewConflictRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "schedule_id", "type", "severity", "category", "title", "description",
		"suggested_resolution", "detected_at", "is_resolved", "is_ignored"}).
		AddRow("conf-1", "sched-1", models.ConflictTeacherDoubleBooked, models.ConflictSeverityHigh,
			models.CategoryTeacher, "Teacher double booked", "", "", now, false, false)
	mock.ExpectQuery(`SELECT .* FROM conflicts WHERE schedule_id = \$1 ORDER BY detected_at`).
		WithArgs("sched-1").
		WillReturnRows(rows)

	conflicts, err := repo.ListForSchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTeacherDoubleBooked, conflicts[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
