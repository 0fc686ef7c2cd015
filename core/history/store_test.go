package history

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

var recordColumns = []string{"id", "workflow", "status", "error", "nodes", "output", "started_at", "finished_at", "created_at"}

func TestGormStore_Save(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `workflow_executions`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.Save(context.Background(), &ExecutionRecord{ID: "exec-1", Workflow: "chain_tasks_wf", Status: "succeeded"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SaveFails(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `workflow_executions`")).
		WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	err := store.Save(context.Background(), &ExecutionRecord{ID: "exec-1"})
	assert.ErrorContains(t, err, "failed to save execution exec-1")
}

func TestGormStore_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store := NewStore(db)
		started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		rows := sqlmock.NewRows(recordColumns).
			AddRow("exec-1", "chain_tasks_wf", "succeeded", "", `[{"id":"read","state":"succeeded"}]`, "", started, started, started)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `workflow_executions` WHERE id = ?")).
			WillReturnRows(rows)

		rec, err := store.Get(context.Background(), "exec-1")
		require.NoError(t, err)
		assert.Equal(t, "chain_tasks_wf", rec.Workflow)
		assert.Equal(t, started, rec.StartedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store := NewStore(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `workflow_executions` WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err := store.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("QueryFails", func(t *testing.T) {
		db, mock := setupMockDB(t)
		store := NewStore(db)

		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection lost"))

		_, err := store.Get(context.Background(), "exec-1")
		assert.ErrorContains(t, err, "connection lost")
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestGormStore_List(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)
	now := time.Now()

	rows := sqlmock.NewRows(recordColumns).
		AddRow("exec-2", "chain_tasks_wf", "failed", "boom", "[]", "", now, now, now).
		AddRow("exec-1", "chain_tasks_wf", "succeeded", "", "[]", "", now.Add(-time.Minute), now, now)
	mock.ExpectQuery("SELECT \\* FROM `workflow_executions` WHERE workflow = \\? ORDER BY started_at DESC LIMIT").
		WillReturnRows(rows)

	recs, err := store.List(context.Background(), "chain_tasks_wf", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "exec-2", recs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStore_WithoutDatabase(t *testing.T) {
	assert.IsType(t, &MemoryStore{}, NewStore(nil))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Now()

	for i, wf := range []string{"a", "b", "a"} {
		require.NoError(t, store.Save(ctx, &ExecutionRecord{
			ID:        string(rune('1' + i)),
			Workflow:  wf,
			StartedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].ID)

	onlyA, err := store.List(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "3", onlyA[0].ID)

	rec, err := store.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", rec.Workflow)

	_, err = store.Get(ctx, "9")
	assert.ErrorIs(t, err, ErrNotFound)
}
