package cache

import (
	"context"
	"time"

	"token-report/internal/reporter/model"
	"token-report/pkg/utils"

	"github.com/bytedance/sonic"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	REPORT_CACHE_TTL = 15 * time.Minute // 报告本地与 Redis 缓存时间
)

// Loader 缓存未命中时生成报告
type Loader func(ctx context.Context) (*model.TokenReport, error)

// ReportCache 报告两级缓存：本地 -> Redis -> loader，只按 token 地址区分
type ReportCache struct {
	tl         *zap.Logger
	ttl        time.Duration
	localCache *cache.Cache
	redis      *redis.Client
	group      singleflight.Group
}

// NewReportCache rdb 为 nil 时只使用本地缓存
func NewReportCache(tl *zap.Logger, rdb *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = REPORT_CACHE_TTL
	}
	return &ReportCache{
		tl:         tl,
		ttl:        ttl,
		localCache: cache.New(ttl, time.Minute),
		redis:      rdb,
	}
}

// Get 只查缓存
func (c *ReportCache) Get(ctx context.Context, token string) (*model.TokenReport, bool) {
	key := utils.TokenReportKey(token)

	if cached, found := c.localCache.Get(key); found {
		if report, ok := cached.(*model.TokenReport); ok {
			return report, true
		}
	}

	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.tl.Warn("Failed to read report from redis", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var report model.TokenReport
	if err := sonic.Unmarshal(data, &report); err != nil {
		c.tl.Warn("Failed to decode cached report", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	// Redis 剩余 TTL 未知，本地只保留默认时长
	c.localCache.Set(key, &report, cache.DefaultExpiration)
	return &report, true
}

// Set 写入两级缓存，Redis 失败只记录日志
func (c *ReportCache) Set(ctx context.Context, token string, report *model.TokenReport) {
	key := utils.TokenReportKey(token)
	c.localCache.Set(key, report, c.ttl)

	if c.redis == nil {
		return
	}
	data, err := sonic.Marshal(report)
	if err != nil {
		c.tl.Warn("Failed to encode report", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.tl.Warn("Failed to write report to redis", zap.String("key", key), zap.Error(err))
	}
}

// Source 报告的来源，用于区分缓存命中与并发等待
type Source string

const (
	SourceHit    Source = "hit"    // 缓存命中
	SourceLoaded Source = "miss"   // 本次调用执行了 loader
	SourceShared Source = "shared" // 等待其他调用方的 loader 结果
)

// GetOrLoad 命中缓存直接返回；否则调用 loader 并写入缓存。
// 同一 token 的并发请求共享一次 loader 调用，loader 不随任何调用方取消，
// 各调用方只在自己的 ctx 结束时放弃等待。loader 出错时不缓存。
func (c *ReportCache) GetOrLoad(ctx context.Context, token string, loader Loader) (*model.TokenReport, Source, error) {
	if report, ok := c.Get(ctx, token); ok {
		return report, SourceHit, nil
	}

	// 只有真正执行 loader 的调用方会把 fresh 置为 true，读取发生在收到结果之后
	fresh := false
	ch := c.group.DoChan(token, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		if report, ok := c.Get(loadCtx, token); ok {
			return report, nil
		}
		report, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		c.Set(loadCtx, token, report)
		fresh = true
		return report, nil
	})

	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, "", res.Err
		}
		source := SourceShared
		if fresh {
			source = SourceLoaded
		}
		return res.Val.(*model.TokenReport), source, nil
	}
}

// Invalidate 删除两级缓存
func (c *ReportCache) Invalidate(ctx context.Context, token string) {
	key := utils.TokenReportKey(token)
	c.localCache.Delete(key)
	if c.redis != nil {
		if err := c.redis.Del(ctx, key).Err(); err != nil {
			c.tl.Warn("Failed to delete report from redis", zap.String("key", key), zap.Error(err))
		}
	}
}
