package snapshot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcover/classcover-api/internal/models"
)

func newPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck
	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresStoreSaveUpsertsBothRecords(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectExec(`INSERT INTO snapshots`).
		WithArgs(models.RecordTeachers, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO snapshots`).
		WithArgs(models.RecordSubLog, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), models.Snapshot{
		Teachers: []models.Teacher{{ID: "t1", Name: "陳大文"}},
		Logs:     []models.SubLogEntry{{ID: "e1", Date: "2026-01-05"}},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadRoundTrip(t *testing.T) {
	store, mock := newPostgresStore(t)

	teachers, err := json.Marshal([]models.Teacher{{ID: "t1", Name: "陳大文", Absences: 2}})
	require.NoError(t, err)
	logs, err := json.Marshal([]models.SubLogEntry{{ID: "e1", Date: "2026-01-05", Period: 4}})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT body FROM snapshots WHERE name = \$1`).
		WithArgs(models.RecordTeachers).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(teachers))
	mock.ExpectQuery(`SELECT body FROM snapshots WHERE name = \$1`).
		WithArgs(models.RecordSubLog).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(logs))

	snap, found, err := store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, snap.Teachers, 1)
	assert.Equal(t, 2, snap.Teachers[0].Absences)
	require.Len(t, snap.Logs, 1)
	assert.Equal(t, 4, snap.Logs[0].Period)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadNoRoster(t *testing.T) {
	store, mock := newPostgresStore(t)

	mock.ExpectQuery(`SELECT body FROM snapshots WHERE name = \$1`).
		WithArgs(models.RecordTeachers).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, found, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadWithoutSubLogRow(t *testing.T) {
	store, mock := newPostgresStore(t)

	teachers, err := json.Marshal([]models.Teacher{{ID: "t1", Name: "陳大文"}})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT body FROM snapshots WHERE name = \$1`).
		WithArgs(models.RecordTeachers).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(teachers))
	mock.ExpectQuery(`SELECT body FROM snapshots WHERE name = \$1`).
		WithArgs(models.RecordSubLog).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	snap, found, err := store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, snap.Logs)
	require.NoError(t, mock.ExpectationsWereMet())
}
