package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newSQLiteStore(db), mock
}

func TestSQLiteStoreGetQueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT value FROM blobs WHERE key = ?").
		WithArgs("transactions").
		WillReturnError(errors.New("database is locked"))

	_, ok, err := store.Get(context.Background(), "transactions")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "get blob transactions")
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreGetMissingKey(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT value FROM blobs").
		WithArgs("transactions").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, ok, err := store.Get(context.Background(), "transactions")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreSetUpserts(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO blobs").
		WithArgs("transactions", "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), "transactions", "[]"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreSetError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO blobs").
		WithArgs("transactions", "[]").
		WillReturnError(errors.New("disk I/O error"))

	err := store.Set(context.Background(), "transactions", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set blob transactions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorePing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	assert.Error(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
