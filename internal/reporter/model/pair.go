package model

import "github.com/shopspring/decimal"

type PairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// DexPair 一个 DEX 交易对
type DexPair struct {
	ChainID      string          `json:"chain_id"`
	DexID        string          `json:"dex_id"`
	URL          string          `json:"url"`
	PairAddress  string          `json:"pair_address"`
	BaseToken    PairToken       `json:"base_token"`
	QuoteToken   PairToken       `json:"quote_token"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	Volume24h    decimal.Decimal `json:"volume_24h"`
	LiquidityUSD decimal.Decimal `json:"liquidity_usd"`
	MarketCap    decimal.Decimal `json:"market_cap"`
	BoostsActive int64           `json:"boosts_active"`
}

func (p DexPair) Boosted() bool {
	return p.BoostsActive > 0
}

// DexPairs 搜索结果，Pairs 为空表示未上架，不是错误
type DexPairs struct {
	SchemaVersion string    `json:"schema_version"`
	Pairs         []DexPair `json:"pairs"`
}

func (d DexPairs) Listed() bool {
	return len(d.Pairs) > 0
}

// Paid 任一交易对有生效中的 boost
func (d DexPairs) Paid() bool {
	for _, p := range d.Pairs {
		if p.Boosted() {
			return true
		}
	}
	return false
}

// Primary 流动性最高的交易对，流动性相同时取市值更高者。不修改 Pairs 顺序。
func (d DexPairs) Primary() (DexPair, bool) {
	if len(d.Pairs) == 0 {
		return DexPair{}, false
	}
	best := d.Pairs[0]
	for _, p := range d.Pairs[1:] {
		switch p.LiquidityUSD.Cmp(best.LiquidityUSD) {
		case 1:
			best = p
		case 0:
			if p.MarketCap.GreaterThan(best.MarketCap) {
				best = p
			}
		}
	}
	return best, true
}
