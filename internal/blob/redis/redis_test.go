package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := New(context.Background(), Options{Addr: mr.Addr(), Prefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestGetMissingKey(t *testing.T) {
	s, _ := newTestStore(t, "")
	v, ok, err := s.Get(context.Background(), "transactions")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetThenGet(t *testing.T) {
	s, mr := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "transactions", `[{"id":1}]`))
	v, ok, err := s.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)

	raw, err := mr.Get(DefaultPrefix + "transactions")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, raw)
	assert.False(t, mr.Exists("transactions"))
}

func TestCustomPrefixIsolatesLedgers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	home := NewWithClient(client, "home:")
	work := NewWithClient(client, "work:")
	ctx := context.Background()

	require.NoError(t, home.Set(ctx, "transactions", "[1]"))
	_, ok, err := work.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnavailableServer(t *testing.T) {
	s, mr := newTestStore(t, "")
	mr.Close()

	_, _, err := s.Get(context.Background(), "transactions")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "transactions", "[]"))
}

func TestNewFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}
