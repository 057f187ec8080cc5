package store

import (
	"context"
	"strconv"
	"testing"
	"time"

	"modeladmin/viewset"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type toy struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	ReleaseDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (toy) TableName() string { return "toys" }

func (t *toy) PK() string { return strconv.FormatUint(uint64(t.ID), 10) }

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestNewGorm_RequiresObject(t *testing.T) {
	db, _ := setupMockDB(t)
	assert.Panics(t, func() { NewGorm[struct{ ID uint }](db) })
	assert.NotPanics(t, func() { NewGorm[toy](db) })
}

func TestGorm_Count(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGorm[toy](db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `toys` WHERE `release_date` = \\?").
		WithArgs("1995-11-19").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := s.Count(context.Background(), []viewset.Condition{{Column: "release_date", Value: "1995-11-19"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_List(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGorm[toy](db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `toys` ORDER BY `name` DESC,`id` LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(2, "Woody", now, now).
			AddRow(1, "Buzz", now, now))

	objs, err := s.List(context.Background(), viewset.Query{OrderBy: "name", Desc: true, Limit: 20})
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "2", objs[0].PK())
	assert.Equal(t, "Buzz", objs[1].(*toy).Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_ListOffset(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGorm[toy](db)

	mock.ExpectQuery("SELECT \\* FROM `toys` ORDER BY `id` LIMIT .* OFFSET").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	objs, err := s.List(context.Background(), viewset.Query{Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, objs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGorm[toy](db)

	mock.ExpectQuery("SELECT \\* FROM `toys` WHERE `id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Rex"))

	obj, err := s.Get(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Rex", obj.(*toy).Name)

	mock.ExpectQuery("SELECT \\* FROM `toys` WHERE `id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err = s.Get(context.Background(), "404")
	assert.ErrorIs(t, err, viewset.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGorm[toy](db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `toys` \\(`created_at`,`name`,`updated_at`\\)").
		WithArgs(sqlmock.AnyArg(), "Bo Peep", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	values := map[string]any{"name": "Bo Peep"}
	require.NoError(t, s.Create(context.Background(), values))
	assert.Contains(t, values, "created_at")
	assert.Contains(t, values, "updated_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGorm[toy](db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `toys` SET `name`=\\?,`updated_at`=\\? WHERE `id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Update(context.Background(), &toy{ID: 7}, map[string]any{"name": "Hamm"}))
	// 没有变更时不访问数据库
	require.NoError(t, s.Update(context.Background(), &toy{ID: 7}, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGorm[toy](db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `toys` WHERE .*`id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Delete(context.Background(), &toy{ID: 7}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
