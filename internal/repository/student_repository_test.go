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

func newStudentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "grade_level", "enrolled_course_ids", "lunch_wave_id", "active", "created_at", "updated_at"}).
		AddRow("s1", "Jamie Rivera", 9, `["c1"]`, nil, true, now, now)
}

func TestStudentRepositoryListStudents(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM students WHERE active = TRUE ORDER BY id`).
		WillReturnRows(studentRows(now))

	students, err := repo.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM students WHERE id = \$1`).
		WithArgs("s1").
		WillReturnRows(studentRows(now))

	student, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Jamie Rivera", student.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{FullName: "Kai Chen", GradeLevel: 10, Active: true, EnrolledCourse: types.JSONText(`[]`)}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAssignLunchWave(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET lunch_wave_id = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("s1", "wave-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	waveID := "wave-1"
	err := repo.AssignLunchWave(context.Background(), "s1", &waveID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET active = false, updated_at = $2 WHERE id = $1")).
		WithArgs("s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Deactivate(context.Background(), "s1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM students WHERE 1=1 AND active = \$1 AND grade_level = \$2.*`).
		WithArgs(true, 9).
		WillReturnRows(studentRows(now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE 1=1 AND active = \$1 AND grade_level = \$2`).
		WithArgs(true, 9).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active := true
	grade := 9
	students, total, err := repo.List(context.Background(), models.StudentFilter{Active: &active, GradeLevel: &grade, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, students, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
