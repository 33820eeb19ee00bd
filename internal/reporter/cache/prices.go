package cache

import (
	"context"
	"sync"
	"time"

	"token-report/internal/reporter/model"
	"token-report/pkg/utils"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	PRICES_CACHE_REDIS_TTL = time.Hour // Redis 中参考价格 TTL
)

// PriceCache 最近一次刷新的参考价格，刷新由定时任务完成
type PriceCache struct {
	tl     *zap.Logger
	redis  *redis.Client
	mu     sync.RWMutex
	latest *model.ReferencePrices
}

func NewPriceCache(tl *zap.Logger, rdb *redis.Client) *PriceCache {
	return &PriceCache{tl: tl, redis: rdb}
}

func (c *PriceCache) Set(ctx context.Context, prices model.ReferencePrices) {
	c.mu.Lock()
	c.latest = &prices
	c.mu.Unlock()

	if c.redis == nil {
		return
	}
	data, err := sonic.Marshal(prices)
	if err != nil {
		c.tl.Warn("Failed to encode reference prices", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, utils.ReferencePricesKey(), data, PRICES_CACHE_REDIS_TTL).Err(); err != nil {
		c.tl.Warn("Failed to write reference prices to redis", zap.Error(err))
	}
}

// Get 本地没有时回退到 Redis（其他实例刷新的结果）
func (c *PriceCache) Get(ctx context.Context) (model.ReferencePrices, bool) {
	c.mu.RLock()
	latest := c.latest
	c.mu.RUnlock()
	if latest != nil {
		return *latest, true
	}

	if c.redis == nil {
		return model.ReferencePrices{}, false
	}
	data, err := c.redis.Get(ctx, utils.ReferencePricesKey()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.tl.Warn("Failed to read reference prices from redis", zap.Error(err))
		}
		return model.ReferencePrices{}, false
	}
	var prices model.ReferencePrices
	if err := sonic.Unmarshal(data, &prices); err != nil {
		c.tl.Warn("Failed to decode reference prices", zap.Error(err))
		return model.ReferencePrices{}, false
	}
	return prices, true
}
