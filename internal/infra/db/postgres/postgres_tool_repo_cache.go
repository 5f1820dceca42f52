package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
	"incentoro/internal/infra/metrics"
	red "incentoro/internal/infra/redis"
)

var _ repository.ToolRepository = (*toolRepoCacheDecorator)(nil)

// toolRepoCacheDecorator caches the tool catalog in Redis. The catalog is
// small and read-heavy (every click and every ledger render resolves tools),
// so a short TTL with write-through invalidation is enough.
type toolRepoCacheDecorator struct {
	inner repository.ToolRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewToolRepoCacheDecorator(inner repository.ToolRepository, cache red.RedisClient, ttl time.Duration) repository.ToolRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &toolRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *toolRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MarketplaceTool, error) {
	key := fmt.Sprintf("tool:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("tool", "hit")
		var tool model.MarketplaceTool
		if json.Unmarshal([]byte(val), &tool) == nil {
			return &tool, nil
		}
	}

	metrics.IncCacheRequest("tool", "miss")
	tool, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if tool != nil {
		bytes, _ := json.Marshal(tool)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return tool, nil
}

// Save invalidates both the single-tool key and the catalog list.
func (d *toolRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, t *model.MarketplaceTool) error {
	d.cache.Del(ctx, fmt.Sprintf("tool:%s", t.ID))
	d.cache.Del(ctx, "tools:all")
	return d.inner.Save(ctx, tx, t)
}

func (d *toolRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MarketplaceTool, error) {
	key := "tools:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("tool_list", "hit")
		var tools []*model.MarketplaceTool
		if json.Unmarshal([]byte(val), &tools) == nil {
			return tools, nil
		}
	}

	metrics.IncCacheRequest("tool_list", "miss")
	tools, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(tools) > 0 {
		bytes, _ := json.Marshal(tools)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return tools, nil
}
