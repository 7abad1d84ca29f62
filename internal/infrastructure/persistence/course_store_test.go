package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/shared"
)

// newMockCourseStore creates a GormCourseStore with a mocked SQL connection
func newMockCourseStore(t *testing.T) (*GormCourseStore, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCourseStore(gormDB), mock, mockDB
}

func courseColumns() []string {
	return []string{"id", "created_at", "updated_at", "course_key", "display_name", "start_at", "end_at", "settings"}
}

func TestNewGormCourseStore(t *testing.T) {
	store, _, mockDB := newMockCourseStore(t)
	defer mockDB.Close()

	assert.NotNil(t, store)
	assert.NotNil(t, store.db)
}

func TestGormCourseStore_GetCourse(t *testing.T) {
	key := course.MustParseKey("course-v1:edX+DemoX+Demo_2026")

	t.Run("finds existing course", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		now := time.Now()
		start := now.Add(24 * time.Hour)
		rows := sqlmock.NewRows(courseColumns()).
			AddRow(uuid.New(), now, now, key.String(), "Demo Course", start, nil,
				`{"invitation_only":true,"display_coursenumber":"CS-101"}`)

		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE course_key = \$1`).
			WithArgs(key.String(), 1).
			WillReturnRows(rows)

		c, err := store.GetCourse(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, key, c.Key)
		assert.Equal(t, "Demo Course", c.DisplayName)

		v, ok := c.Setting("invitation_only")
		require.True(t, ok)
		assert.Equal(t, true, v)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing course", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE course_key = \$1`).
			WithArgs(key.String(), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := store.GetCourse(context.Background(), key)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty settings document yields no set fields", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows(courseColumns()).
			AddRow(uuid.New(), now, now, key.String(), "Demo Course", nil, nil, `{}`)

		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE course_key = \$1`).
			WithArgs(key.String(), 1).
			WillReturnRows(rows)

		c, err := store.GetCourse(context.Background(), key)
		require.NoError(t, err)
		assert.Empty(t, c.Settings())
	})
}

func TestGormCourseStore_CreateCourse(t *testing.T) {
	key := course.MustParseKey("course-v1:edX+DemoX+Demo_2026")

	t.Run("inserts a new course", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		c, err := course.NewCourse(key, "Demo Course", nil)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "courses"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.CreateCourse(context.Background(), c))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports duplicate course key", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		c, err := course.NewCourse(key, "Demo Course", nil)
		require.NoError(t, err)

		// ON CONFLICT DO NOTHING swallows the insert; zero rows means the key exists.
		mock.ExpectExec(`INSERT INTO "courses"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = store.CreateCourse(context.Background(), c)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormCourseStore_UpdateCourse(t *testing.T) {
	key := course.MustParseKey("course-v1:edX+DemoX+Demo_2026")

	t.Run("updates settings document", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		c, err := course.NewCourse(key, "Demo Course", nil)
		require.NoError(t, err)
		c.SetSetting("invitation_only", true)

		mock.ExpectExec(`UPDATE "courses" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.UpdateCourse(context.Background(), c))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row matches", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		c, err := course.NewCourse(key, "Demo Course", nil)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "courses" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = store.UpdateCourse(context.Background(), c)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCourseStore_BulkOperations(t *testing.T) {
	key := course.MustParseKey("course-v1:edX+DemoX+Demo_2026")

	t.Run("commits when fn succeeds", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE course_key = \$1 .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows(courseColumns()).
				AddRow(uuid.New(), now, now, key.String(), "Demo Course", nil, nil, `{}`))
		mock.ExpectExec(`UPDATE "courses" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.BulkOperations(context.Background(), key, func(ctx context.Context, txStore course.Store) error {
			c, err := course.NewCourse(key, "Demo Course", nil)
			if err != nil {
				return err
			}
			return txStore.UpdateCourse(ctx, c)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		store, mock, mockDB := newMockCourseStore(t)
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE course_key = \$1 .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows(courseColumns()).
				AddRow(uuid.New(), now, now, key.String(), "Demo Course", nil, nil, `{}`))
		mock.ExpectRollback()

		wantErr := shared.NewDomainError("VALIDATION_ERROR", "rejected")
		err := store.BulkOperations(context.Background(), key, func(ctx context.Context, txStore course.Store) error {
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
