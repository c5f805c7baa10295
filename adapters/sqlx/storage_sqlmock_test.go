package sqlx_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	libsqlx "github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	storage "forumkit/adapters/sqlx"
	"forumkit/core"
	"forumkit/engine"
)

func newMockStore(t *testing.T) (*storage.Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	xdb := storage.NewWithDB(libsqlx.NewDb(db, "postgres"), storage.DriverPostgres)
	cleanup := func() {
		_ = db.Close()
	}
	return xdb, mock, cleanup
}

func statsColumns() []string {
	return []string{"user_id", "total_score", "level", "topics_created", "posts_created",
		"likes_received", "current_streak", "longest_streak", "last_activity_date",
		"badges", "achievements", "updated"}
}

func TestSQLMock_Get(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM user_stats WHERE user_id =`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(statsColumns()).
			AddRow("alice", 103, 2, 10, 0, 0, 1, 1, now, `["LEVEL_2"]`, `["FIRST_TOPIC","DISCUSSION_STARTER"]`, now))

	stats, err := store.Get(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, 103, stats.TotalScore)
	require.Equal(t, 2, stats.Level)
	require.Equal(t, []string{"LEVEL_2"}, stats.Badges)
	require.True(t, stats.HasAchievement("DISCUSSION_STARTER"))
	require.NotNil(t, stats.LastActivityDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_GetNotFound(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM user_stats WHERE user_id =`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, engine.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_SaveUpsert(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	stats := core.NewUserStats("alice")
	stats.TotalScore = 13
	stats.TopicsCreated = 1
	stats.CurrentStreak = 1
	stats.LongestStreak = 1
	stats.Achievements = []string{"FIRST_TOPIC"}
	stats.Updated = time.Now().UTC()

	mock.ExpectExec(`INSERT INTO user_stats (.+) ON CONFLICT \(user_id\) DO UPDATE SET`).
		WithArgs("alice", 13, 1, 1, 0, 0, 1, 1, sqlmock.AnyArg(), `[]`, `["FIRST_TOPIC"]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), stats))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_TopNByScore(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM user_stats ORDER BY total_score DESC, user_id ASC LIMIT`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(statsColumns()).
			AddRow("bob", 300, 4, 0, 0, 0, 0, 0, nil, `[]`, `[]`, now).
			AddRow("alice", 100, 2, 0, 0, 0, 0, 0, nil, `[]`, `[]`, now))

	top, err := store.TopNByScore(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, core.UserID("bob"), top[0].UserID)
	require.Nil(t, top[0].LastActivityDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_ListAll(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM user_stats`).
		WillReturnRows(sqlmock.NewRows(statsColumns()).
			AddRow("alice", 13, 1, 1, 0, 0, 1, 1, now, `[]`, `["FIRST_TOPIC"]`, now))

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
