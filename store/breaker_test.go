package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tripkit/core"
)

// flakyStore 在 fail 为 true 时所有操作返回错误。
type flakyStore struct {
	*MemoryStore
	fail  bool
	calls int
}

var errBackend = errors.New("connection refused")

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.fail {
		return nil, errBackend
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyStore) SMembers(ctx context.Context, key string) ([]string, error) {
	f.calls++
	if f.fail {
		return nil, errBackend
	}
	return f.MemoryStore.SMembers(ctx, key)
}

func TestBreakerStore_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{MemoryStore: NewMemoryStore(), fail: true}
	b := NewBreakerStore(inner, BreakerConfig{FailureThreshold: 3, Timeout: time.Hour}, nil)
	defer b.Close()

	for i := 0; i < 3; i++ {
		_, err := b.Get(ctx, "k")
		require.ErrorIs(t, err, errBackend)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.SMembers(ctx, "k")
	require.Error(t, err)
	assert.True(t, core.IsStoreUnavailable(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerStore_NotFoundIsNotFailure(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{MemoryStore: NewMemoryStore()}
	b := NewBreakerStore(inner, BreakerConfig{FailureThreshold: 1}, nil)
	defer b.Close()

	for i := 0; i < 3; i++ {
		_, err := b.Get(ctx, "missing")
		assert.True(t, core.IsStoreNotFound(err))
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())

	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, b.SAdd(ctx, "s", "a"))
	members, err := b.SMembers(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, members)
	require.NoError(t, b.SRem(ctx, "s", "a"))

	require.NoError(t, b.BatchSet(ctx, map[string][]byte{"x": []byte("1")}))
	batch, err := b.BatchGet(ctx, []string{"x"})
	require.NoError(t, err)
	assert.Len(t, batch, 1)
	require.NoError(t, b.Delete(ctx, "x"))
	assert.Equal(t, BackendMemory, b.Name())
}
