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

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "subject", "department", "required_periods_week",
		"duration_minutes", "required_room_type", "requires_computers", "required_certifications", "min_gpa",
		"singleton", "min_students", "max_students", "assigned_teacher_id", "assigned_room_id", "active",
		"created_at", "updated_at"}).
		AddRow("c1", "MATH-101", "Math", "Math", 5, 50, "", false, `[]`, 0.0, false, 10, 30, nil, nil, true, now, now)
}

func TestCourseRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM courses WHERE active = TRUE ORDER BY id`).
		WillReturnRows(courseRows(now))

	courses, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM courses WHERE id = \$1`).
		WithArgs("c1").
		WillReturnRows(courseRows(now))

	course, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "MATH-101", course.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Code: "SCI-201", Subject: "Science", RequiredPeriodsWeek: 4, DurationMinutes: 50,
		MaxStudents: 28, Active: true, RequiredCertsJSON: types.JSONText(`[]`)}
	err := repo.Create(context.Background(), course)
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{ID: "c1", Code: "MATH-101", Active: true, RequiredCertsJSON: types.JSONText(`[]`)}
	err := repo.Update(context.Background(), course)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET active = FALSE, updated_at = $2 WHERE id = $1")).
		WithArgs("c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Deactivate(context.Background(), "c1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM courses WHERE 1=1 AND active = \$1 AND department = \$2.*`).
		WithArgs(true, "Math").
		WillReturnRows(courseRows(now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses WHERE 1=1 AND active = \$1 AND department = \$2`).
		WithArgs(true, "Math").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active := true
	courses, total, err := repo.List(context.Background(), models.CourseFilter{Active: &active, Department: "Math", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, courses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
