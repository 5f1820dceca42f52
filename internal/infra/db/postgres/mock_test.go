//go:build !integration

package postgres

import (
	"context"
	"time"

	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
	red "incentoro/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerToolRepo mocks the database repository that the tool decorator wraps.
type mockInnerToolRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, t *model.MarketplaceTool) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.MarketplaceTool, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.MarketplaceTool, error)
}

func (m *mockInnerToolRepo) Save(ctx context.Context, tx repository.Tx, t *model.MarketplaceTool) error {
	return m.SaveFunc(ctx, tx, t)
}
func (m *mockInnerToolRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MarketplaceTool, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerToolRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MarketplaceTool, error) {
	return m.ListAllFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
