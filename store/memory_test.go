package store

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rushteam/tripkit/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryStore_KV(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, core.ErrStoreNotFound)
	assert.True(t, core.IsStoreNotFound(err))

	val := []byte("v1")
	require.NoError(t, s.Set(ctx, "k1", val))
	val[0] = 'x'

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.BatchSet(ctx, map[string][]byte{"k2": []byte("v2"), "k3": []byte("v3")}))
	all, err := s.BatchGet(ctx, []string{"k1", "k2", "k3", "k4"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.Delete(ctx, "k1"))
	_, err = s.Get(ctx, "k1")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStoreWithInterval(5 * time.Millisecond)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "short", []byte("v"), 1))
	require.NoError(t, s.Set(ctx, "forever", []byte("v")))

	// 人为让条目过期
	s.mu.Lock()
	s.data["short"].expire = time.Now().Add(-time.Second)
	s.mu.Unlock()

	_, err := s.Get(ctx, "short")
	assert.True(t, core.IsStoreNotFound(err))

	assert.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		_, ok := s.data["short"]
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, err = s.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryStore_Sets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	empty, err := s.SMembers(ctx, "user:block:u1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.SAdd(ctx, "user:block:u1", "CA", "MU", "CA"))
	members, err := s.SMembers(ctx, "user:block:u1")
	require.NoError(t, err)
	sort.Strings(members)
	assert.Equal(t, []string{"CA", "MU"}, members)

	require.NoError(t, s.SRem(ctx, "user:block:u1", "CA", "HU"))
	members, err = s.SMembers(ctx, "user:block:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"MU"}, members)

	require.NoError(t, s.SRem(ctx, "nope", "x"))
}

func TestMemoryStore_CloseIdempotent(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestNew(t *testing.T) {
	s, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, s.Name())
	require.NoError(t, s.Close())

	s, err = New(Config{Breaker: BreakerConfig{Enabled: true}}, nil)
	require.NoError(t, err)
	_, ok := s.(*BreakerStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	_, err = New(Config{Backend: "etcd"}, nil)
	require.Error(t, err)
	assert.True(t, core.IsNotSupported(err))
}
