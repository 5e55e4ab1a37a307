package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/tripkit/core"
)

// DefaultCleanupInterval 是过期 key 的清理周期。
const DefaultCleanupInterval = 10 * time.Second

// MemoryStore 是内存实现的 SetStore，用于测试/开发/单机部署。
// 支持 TTL（过期时间），但进程重启后数据丢失。Close 后后台清理协程退出。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
	sets map[string]map[string]struct{}

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type entry struct {
	value  []byte
	expire time.Time // 零值表示不过期
}

func (e *entry) expired(now time.Time) bool {
	return !e.expire.IsZero() && now.After(e.expire)
}

// NewMemoryStore 创建内存存储，并以 DefaultCleanupInterval 启动清理协程。
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithInterval(DefaultCleanupInterval)
}

// NewMemoryStoreWithInterval 以指定清理周期创建内存存储。
func NewMemoryStoreWithInterval(interval time.Duration) *MemoryStore {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ms := &MemoryStore{
		data: make(map[string]*entry),
		sets: make(map[string]map[string]struct{}),
		done: make(chan struct{}),
	}
	ms.wg.Add(1)
	go ms.cleanup(interval)
	return ms
}

func (m *MemoryStore) Name() string { return BackendMemory }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, core.ErrStoreNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = newEntry(value, expireAt(ttl))
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	delete(m.sets, key)
	return nil
}

func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	now := time.Now()
	for _, k := range keys {
		e, ok := m.data[k]
		if !ok || e.expired(now) {
			continue
		}
		result[k] = append([]byte(nil), e.value...)
	}
	return result, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expire := expireAt(ttl)
	for k, v := range kvs {
		m.data[k] = newEntry(v, expire)
	}
	return nil
}

func (m *MemoryStore) SAdd(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{}, len(members))
		m.sets[key] = set
	}
	for _, mem := range members {
		set[mem] = struct{}{}
	}
	return nil
}

func (m *MemoryStore) SRem(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		return nil
	}
	for _, mem := range members {
		delete(set, mem)
	}
	if len(set) == 0 {
		delete(m.sets, key)
	}
	return nil
}

func (m *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.sets[key]
	out := make([]string, 0, len(set))
	for mem := range set {
		out = append(out, mem)
	}
	return out, nil
}

// Close 停止清理协程，可重复调用。
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
	return nil
}

func (m *MemoryStore) cleanup(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evictExpired()
		}
	}
}

func (m *MemoryStore) evictExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
		}
	}
}

func newEntry(value []byte, expire time.Time) *entry {
	return &entry{value: append([]byte(nil), value...), expire: expire}
}

func expireAt(ttl []int) time.Time {
	if len(ttl) > 0 && ttl[0] > 0 {
		return time.Now().Add(time.Duration(ttl[0]) * time.Second)
	}
	return time.Time{}
}

var _ core.SetStore = (*MemoryStore)(nil)
