package store

import (
	"context"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tripkit/core"
)

// 需要真实 Redis：TRIPKIT_TEST_REDIS_ADDR=localhost:6379 go test ./store/...
func newTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("TRIPKIT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRIPKIT_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore(t *testing.T) {
	s := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "tripkit:test:k"))
	_, err := s.Get(ctx, "tripkit:test:k")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, "tripkit:test:k", []byte("v"), 60))
	got, err := s.Get(ctx, "tripkit:test:k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	batch, err := s.BatchGet(ctx, []string{"tripkit:test:k", "tripkit:test:none"})
	require.NoError(t, err)
	assert.Len(t, batch, 1)

	key := "tripkit:test:set"
	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.SAdd(ctx, key, "CA", "MU"))
	require.NoError(t, s.SRem(ctx, key, "MU"))
	members, err := s.SMembers(ctx, key)
	require.NoError(t, err)
	sort.Strings(members)
	assert.Equal(t, []string{"CA"}, members)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
}
