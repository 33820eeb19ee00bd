package provider

import (
	"context"
	"fmt"
	"net/url"

	"token-report/internal/reporter/config"
	"token-report/internal/reporter/model"
	"token-report/pkg/httpclient"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	searchPath           = "/latest/dex/search"
	defaultSchemaVersion = "1.0.0"
)

type DexScreener struct {
	baseURL string
	http    Fetcher
	tl      *zap.Logger
}

func NewDexScreener(cfg config.UpstreamConfig, retry config.RetryConfig, tl *zap.Logger) *DexScreener {
	httpClient := httpclient.NewHTTPClient(httpclient.HTTPClientConfig{
		Timeout:    cfg.Timeout,
		RateLimit:  cfg.RateLimit,
		MaxRetries: retry.MaxAttempts,
		RetryDelay: retry.BaseDelay,
		Headers:    map[string]string{"Accept": "application/json"},
	}, tl)
	return NewDexScreenerWithFetcher(cfg.BaseURL, httpClient, tl)
}

func NewDexScreenerWithFetcher(baseURL string, f Fetcher, tl *zap.Logger) *DexScreener {
	return &DexScreener{baseURL: baseURL, http: f, tl: tl}
}

type searchResponse struct {
	SchemaVersion string    `json:"schemaVersion"`
	Pairs         []rawPair `json:"pairs"`
}

type rawPair struct {
	ChainID     string          `json:"chainId"`
	DexID       string          `json:"dexId"`
	URL         string          `json:"url"`
	PairAddress string          `json:"pairAddress"`
	BaseToken   model.PairToken `json:"baseToken"`
	QuoteToken  model.PairToken `json:"quoteToken"`
	PriceUSD    decimal.Decimal `json:"priceUsd"`
	Volume      struct {
		H24 decimal.Decimal `json:"h24"`
	} `json:"volume"`
	Liquidity *struct {
		USD decimal.Decimal `json:"usd"`
	} `json:"liquidity"`
	MarketCap decimal.Decimal `json:"marketCap"`
	Boosts    *struct {
		Active int64 `json:"active"`
	} `json:"boosts"`
}

func (p rawPair) toModel() model.DexPair {
	pair := model.DexPair{
		ChainID:     p.ChainID,
		DexID:       p.DexID,
		URL:         p.URL,
		PairAddress: p.PairAddress,
		BaseToken:   p.BaseToken,
		QuoteToken:  p.QuoteToken,
		PriceUSD:    p.PriceUSD,
		Volume24h:   p.Volume.H24,
		MarketCap:   p.MarketCap,
	}
	if p.Liquidity != nil {
		pair.LiquidityUSD = p.Liquidity.USD
	}
	if p.Boosts != nil {
		pair.BoostsActive = p.Boosts.Active
	}
	return pair
}

func emptyPairs() model.DexPairs {
	return model.DexPairs{SchemaVersion: defaultSchemaVersion, Pairs: []model.DexPair{}}
}

// FetchPairs 搜索 token 的交易对。上游失败或没有 pairs 字段时返回空结果，只记录日志。
func (d *DexScreener) FetchPairs(ctx context.Context, token string) model.DexPairs {
	endpoint := fmt.Sprintf("%s%s?q=%s", d.baseURL, searchPath, url.QueryEscape(token))

	var resp searchResponse
	if err := d.http.GetWithRetry(ctx, endpoint, nil, &resp); err != nil {
		d.tl.Warn("DexScreener search failed, treating token as unlisted",
			zap.String("token", token), zap.Error(err))
		return emptyPairs()
	}
	if resp.Pairs == nil {
		d.tl.Info("DexScreener returned no pairs", zap.String("token", token))
		return emptyPairs()
	}

	pairs := make([]model.DexPair, 0, len(resp.Pairs))
	for _, p := range resp.Pairs {
		pairs = append(pairs, p.toModel())
	}
	version := resp.SchemaVersion
	if version == "" {
		version = defaultSchemaVersion
	}
	return model.DexPairs{SchemaVersion: version, Pairs: pairs}
}
