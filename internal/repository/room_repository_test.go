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

func newRoomRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func roomRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "room_number", "building", "floor", "zone", "type", "capacity_min",
		"capacity_nominal", "capacity_max", "allow_sharing", "max_concurrent_classes", "has_projector",
		"has_smartboard", "has_computers", "wheelchair_accessible", "activity_tags", "active", "created_at", "updated_at"}).
		AddRow("r1", "101", "Main", 1, "north", models.RoomTypeClassroom, 10, 28, 32, false, 1, true, true, true, true, `[]`, true, now, now)
}

func TestRoomRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM rooms WHERE active = TRUE ORDER BY id`).
		WillReturnRows(roomRows(now))

	rooms, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "r1", rooms[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM rooms WHERE id = \$1`).
		WithArgs("r1").
		WillReturnRows(roomRows(now))

	room, err := repo.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "101", room.RoomNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec("INSERT INTO rooms").
		WillReturnResult(sqlmock.NewResult(1, 1))

	room := &models.Room{RoomNumber: "202", Type: models.RoomTypeLab, CapacityNominal: 24, Active: true, ActivityTags: types.JSONText(`[]`)}
	err := repo.Create(context.Background(), room)
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec("UPDATE rooms SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	room := &models.Room{ID: "r1", RoomNumber: "101", Type: models.RoomTypeClassroom, Active: true, ActivityTags: types.JSONText(`[]`)}
	err := repo.Update(context.Background(), room)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET active = FALSE, updated_at = $2 WHERE id = $1")).
		WithArgs("r1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Deactivate(context.Background(), "r1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newRoomRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM rooms WHERE 1=1 AND active = \$1 AND building = \$2.*`).
		WithArgs(true, "Main").
		WillReturnRows(roomRows(now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms WHERE 1=1 AND active = \$1 AND building = \$2`).
		WithArgs(true, "Main").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active := true
	rooms, total, err := repo.List(context.Background(), models.RoomFilter{Active: &active, Building: "Main", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rooms, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
