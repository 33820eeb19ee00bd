package provider

import (
	"context"
	"errors"

	"token-report/internal/reporter/model"
)

var (
	// ErrNoDataAvailable 上游返回成功但缺少 success / data 标记
	ErrNoDataAvailable = errors.New("no data available")
	// ErrNoPairsFound DexScreener 没有任何交易对，属于可降级情况
	ErrNoPairsFound = errors.New("no dex pairs found")
)

// Fetcher 带重试的 GET，由 httpclient.HTTPClient 实现
type Fetcher interface {
	GetWithRetry(ctx context.Context, url string, headers map[string]string, out interface{}) error
}

type TokenDataSource interface {
	FetchSecurity(ctx context.Context, token string) (model.Security, error)
	FetchTradeStats(ctx context.Context, token string) (model.TradeStats, error)
	FetchHolders(ctx context.Context, token string) ([]model.Holder, error)
}

// PairSource 失败时返回空结果而不是错误
type PairSource interface {
	FetchPairs(ctx context.Context, token string) model.DexPairs
}

type RiskSource interface {
	FetchSummary(ctx context.Context, token string) (model.RugRisk, error)
}

type PriceSource interface {
	FetchReferencePrices(ctx context.Context, assets map[string]string) (model.ReferencePrices, error)
}
