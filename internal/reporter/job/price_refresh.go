package job

import (
	"context"
	"fmt"

	"token-report/internal/reporter/cache"
	"token-report/internal/reporter/config"
	"token-report/internal/reporter/monitor"
	"token-report/internal/reporter/provider"
	"token-report/pkg/logger"

	"go.uber.org/zap"
)

// PriceRefresh 定时刷新参考资产价格（SOL/BTC/ETH）
type PriceRefresh struct {
	assets map[string]string
	source provider.PriceSource
	prices *cache.PriceCache
	tl     *zap.Logger
}

func NewPriceRefresh(cfg config.PricesConfig, source provider.PriceSource, prices *cache.PriceCache, logger *zap.Logger) *PriceRefresh {
	return &PriceRefresh{
		assets: cfg.Assets,
		source: source,
		prices: prices,
		tl:     logger,
	}
}

func (j *PriceRefresh) Run(ctx context.Context) error {
	ctx, span := logger.StartSpan(ctx, "job", "PriceRefresh")
	defer span.End()

	if len(j.assets) == 0 {
		return nil
	}

	prices, err := j.source.FetchReferencePrices(ctx, j.assets)
	if err != nil {
		monitor.PriceRefreshTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh reference prices: %w", err)
	}

	j.prices.Set(ctx, prices)
	monitor.PriceRefreshTotal.WithLabelValues("ok").Inc()

	fields := make([]zap.Field, 0, len(prices.Prices))
	for name, price := range prices.Prices {
		fields = append(fields, zap.String(name, price.StringFixed(2)))
	}
	logger.NewLoggerWithTrace(ctx, j.tl).Info("Reference prices refreshed", fields...)
	return nil
}
