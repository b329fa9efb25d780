package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreGetMissing(t *testing.T) {
	s := newTestStore(t)

	v, ok, err := s.Get(context.Background(), "transactions")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLiteStoreSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "transactions", `[]`))
	require.NoError(t, s.Set(ctx, "transactions", `[{"id":1,"amount":-12.5}]`))

	v, ok, err := s.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1,"amount":-12.5}]`, v)
	assert.NoError(t, s.Ping(ctx))
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "transactions", `[{"id":7}]`))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(context.Background(), "transactions")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":7}]`, v)
}
