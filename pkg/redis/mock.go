package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockCmdable is an in-process stand-in for the redis command surface, shared by
// the package tests and the cart backend tests.
type MockCmdable struct {
	mu     sync.Mutex
	Data   map[string]string
	TTLs   map[string]time.Duration
	SetErr error
	GetErr error
}

func NewMockCmdable() *MockCmdable {
	return &MockCmdable{
		Data: make(map[string]string),
		TTLs: make(map[string]time.Duration),
	}
}

func (m *MockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *MockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return redis.NewStatusResult("", m.SetErr)
	}
	switch v := value.(type) {
	case []byte:
		m.Data[key] = string(v)
	default:
		m.Data[key] = fmt.Sprint(v)
	}
	m.TTLs[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *MockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return redis.NewStringResult("", m.GetErr)
	}
	v, ok := m.Data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *MockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := m.Data[key]; ok {
			removed++
		}
		delete(m.Data, key)
		delete(m.TTLs, key)
	}
	return redis.NewIntResult(removed, nil)
}
