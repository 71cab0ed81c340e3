package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulecore/masterschedule/internal/models"
)

func newTeacherRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func teacherRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "department", "certifications", "availability_mask",
		"max_daily_periods", "max_consecutive_periods", "preferred_rooms", "home_campus", "active", "created_at", "updated_at"}).
		AddRow("t1", "Ada Lovelace", "Math", `[]`, `[]`, 6, 3, `[]`, "main", true, now, now)
}

func TestTeacherRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM teachers WHERE active = TRUE ORDER BY id`).
		WillReturnRows(teacherRows(now))

	teachers, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "t1", teachers[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM teachers WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(teacherRows(now))

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", teacher.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").
		WillReturnResult(sqlmock.NewResult(1, 1))

	teacher := &models.Teacher{
		Name:             "Grace Hopper",
		Department:       "CS",
		Certifications:   types.JSONText(`[]`),
		AvailabilityMask: types.JSONText(`[]`),
		PreferredRooms:   types.JSONText(`[]`),
		Active:           true,
	}
	err := repo.Create(context.Background(), teacher)
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.False(t, teacher.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("UPDATE teachers SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	teacher := &models.Teacher{ID: "t1", Name: "Ada Lovelace", Active: true,
		Certifications: types.JSONText(`[]`), AvailabilityMask: types.JSONText(`[]`), PreferredRooms: types.JSONText(`[]`)}
	err := repo.Update(context.Background(), teacher)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE teachers SET active = FALSE, updated_at = $2 WHERE id = $1")).
		WithArgs("t1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Deactivate(context.Background(), "t1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM teachers WHERE 1=1 AND active = \$1 AND department = \$2.*`).
		WithArgs(true, "Math").
		WillReturnRows(teacherRows(now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM teachers WHERE 1=1 AND active = \$1 AND department = \$2`).
		WithArgs(true, "Math").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active := true
	teachers, total, err := repo.List(context.Background(), models.TeacherFilter{Active: &active, Department: "Math", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, teachers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
