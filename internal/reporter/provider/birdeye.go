package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"token-report/internal/reporter/config"
	"token-report/internal/reporter/model"
	"token-report/pkg/httpclient"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	securityPath  = "/defi/token_security"
	tradeDataPath = "/defi/v3/token/trade-data/single"
	holderPath    = "/defi/v3/token/holder"
	pricePath     = "/defi/price"
)

var hundred = decimal.NewFromInt(100)

type Birdeye struct {
	baseURL string
	chain   string
	http    Fetcher
	tl      *zap.Logger
}

func NewBirdeye(cfg config.BirdeyeConfig, retry config.RetryConfig, tl *zap.Logger) *Birdeye {
	httpClient := httpclient.NewHTTPClient(httpclient.HTTPClientConfig{
		Timeout:    cfg.Timeout,
		RateLimit:  cfg.RateLimit,
		MaxRetries: retry.MaxAttempts,
		RetryDelay: retry.BaseDelay,
		Headers: map[string]string{
			"Accept":    "application/json",
			"x-chain":   cfg.Chain,
			"X-API-KEY": cfg.APIKey,
		},
	}, tl)
	return NewBirdeyeWithFetcher(cfg.BaseURL, cfg.Chain, httpClient, tl)
}

func NewBirdeyeWithFetcher(baseURL, chain string, f Fetcher, tl *zap.Logger) *Birdeye {
	return &Birdeye{baseURL: baseURL, chain: chain, http: f, tl: tl}
}

type birdeyeResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// get 请求并解出 data，缺少 success 或 data 时返回 ErrNoDataAvailable
func (b *Birdeye) get(ctx context.Context, path, address string, headers map[string]string, what string, out interface{}) error {
	endpoint := fmt.Sprintf("%s%s?address=%s", b.baseURL, path, url.QueryEscape(address))

	var resp birdeyeResponse
	if err := b.http.GetWithRetry(ctx, endpoint, headers, &resp); err != nil {
		return err
	}
	if !resp.Success || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("%w: %s for %s", ErrNoDataAvailable, what, address)
	}
	if err := sonic.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %s for %s: %w", what, address, err)
	}
	return nil
}

type securityData struct {
	OwnerBalance      decimal.Decimal `json:"ownerBalance"`
	CreatorBalance    decimal.Decimal `json:"creatorBalance"`
	OwnerPercentage   decimal.Decimal `json:"ownerPercentage"`
	CreatorPercentage decimal.Decimal `json:"creatorPercentage"`
	Top10UserBalance  decimal.Decimal `json:"top10UserBalance"`
	Top10UserPercent  decimal.Decimal `json:"top10UserPercent"`
	TotalSupply       decimal.Decimal `json:"totalSupply"`
}

// FetchSecurity 上游百分比为 0-1，入库时乘 100
func (b *Birdeye) FetchSecurity(ctx context.Context, token string) (model.Security, error) {
	var data securityData
	if err := b.get(ctx, securityPath, token, nil, "token security", &data); err != nil {
		return model.Security{}, err
	}

	return model.Security{
		OwnerBalance:       data.OwnerBalance,
		CreatorBalance:     data.CreatorBalance,
		OwnerPercentage:    data.OwnerPercentage.Mul(hundred),
		CreatorPercentage:  data.CreatorPercentage.Mul(hundred),
		Top10HolderBalance: data.Top10UserBalance,
		Top10HolderPercent: data.Top10UserPercent.Mul(hundred),
		TotalSupply:        data.TotalSupply,
	}, nil
}

// FetchTradeStats 把 *_30m ... *_24h 平铺字段整理成按窗口的统计
func (b *Birdeye) FetchTradeStats(ctx context.Context, token string) (model.TradeStats, error) {
	var raw map[string]json.RawMessage
	if err := b.get(ctx, tradeDataPath, token, nil, "token trade data", &raw); err != nil {
		return model.TradeStats{}, err
	}

	p := tradeParser{raw: raw}
	stats := model.TradeStats{
		Address:            p.str("address"),
		Holder:             p.integer("holder"),
		Market:             p.integer("market"),
		LastTradeUnixTime:  p.integer("last_trade_unix_time"),
		LastTradeHumanTime: p.str("last_trade_human_time"),
		Windows:            make(map[model.Window]model.WindowStats, len(model.Windows)),
	}
	if price := p.dec("price"); price != nil {
		stats.Price = *price
	}

	for _, w := range model.Windows {
		stats.Windows[w] = model.WindowStats{
			HistoryPrice:       p.dec("history_%s_price", w),
			PriceChangePercent: p.dec("price_change_%s_percent", w),

			UniqueWallet:              p.dec("unique_wallet_%s", w),
			UniqueWalletHistory:       p.dec("unique_wallet_history_%s", w),
			UniqueWalletChangePercent: p.dec("unique_wallet_%s_change_percent", w),

			Trade:              p.dec("trade_%s", w),
			TradeHistory:       p.dec("trade_history_%s", w),
			TradeChangePercent: p.dec("trade_%s_change_percent", w),
			Buy:                p.dec("buy_%s", w),
			BuyHistory:         p.dec("buy_history_%s", w),
			BuyChangePercent:   p.dec("buy_%s_change_percent", w),
			Sell:               p.dec("sell_%s", w),
			SellHistory:        p.dec("sell_history_%s", w),
			SellChangePercent:  p.dec("sell_%s_change_percent", w),

			Volume:              p.dec("volume_%s", w),
			VolumeUSD:           p.dec("volume_%s_usd", w),
			VolumeHistory:       p.dec("volume_history_%s", w),
			VolumeHistoryUSD:    p.dec("volume_history_%s_usd", w),
			VolumeChangePercent: p.dec("volume_%s_change_percent", w),
			VolumeBuy:           p.dec("volume_buy_%s", w),
			VolumeBuyUSD:        p.dec("volume_buy_%s_usd", w),
			VolumeSell:          p.dec("volume_sell_%s", w),
			VolumeSellUSD:       p.dec("volume_sell_%s_usd", w),
		}
	}
	if p.err != nil {
		return model.TradeStats{}, fmt.Errorf("decode token trade data for %s: %w", token, p.err)
	}
	return stats, nil
}

type holderItem struct {
	Owner    string          `json:"owner"`
	UIAmount decimal.Decimal `json:"ui_amount"`
}

// items 缺失与空数组要区分：缺失视为没有数据
type holderData struct {
	Items *[]holderItem `json:"items"`
}

// FetchHolders 只取第一页
func (b *Birdeye) FetchHolders(ctx context.Context, token string) ([]model.Holder, error) {
	var data holderData
	if err := b.get(ctx, holderPath, token, nil, "token holders", &data); err != nil {
		return nil, err
	}
	if data.Items == nil {
		return nil, fmt.Errorf("%w: token holders for %s", ErrNoDataAvailable, token)
	}

	items := *data.Items
	holders := make([]model.Holder, 0, len(items))
	for _, item := range items {
		holders = append(holders, model.Holder{Address: item.Owner, Balance: item.UIAmount})
	}
	return holders, nil
}

type priceData struct {
	Value          *decimal.Decimal `json:"value"`
	UpdateUnixTime int64            `json:"updateUnixTime"`
}

// FetchPrice 单个资产的美元价格
func (b *Birdeye) FetchPrice(ctx context.Context, asset string) (decimal.Decimal, error) {
	var data priceData
	if err := b.get(ctx, pricePath, asset, map[string]string{"x-chain": b.chain}, "price", &data); err != nil {
		return decimal.Zero, err
	}
	if data.Value == nil {
		return decimal.Zero, fmt.Errorf("%w: price for %s", ErrNoDataAvailable, asset)
	}
	return *data.Value, nil
}

// FetchReferencePrices 逐个查询参考资产，缺少价格的资产记为 0
func (b *Birdeye) FetchReferencePrices(ctx context.Context, assets map[string]string) (model.ReferencePrices, error) {
	prices := model.ReferencePrices{
		Prices:    make(map[string]decimal.Decimal, len(assets)),
		UpdatedAt: time.Now(),
	}
	for name, address := range assets {
		price, err := b.FetchPrice(ctx, address)
		if err != nil {
			if !errors.Is(err, ErrNoDataAvailable) {
				return model.ReferencePrices{}, fmt.Errorf("fetch %s price: %w", name, err)
			}
			b.tl.Warn("No price data available", zap.String("asset", name), zap.String("address", address))
			price = decimal.Zero
		}
		prices.Prices[name] = price
	}
	return prices, nil
}
