package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trend 持有人分布趋势
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Outcome 可降级分支的结果。Failed 为 true 时 Value 为零值，Reason 记录失败原因，
// 用于区分 "没有符合条件的数据" 与 "数据获取失败"。
type Outcome[T any] struct {
	Value  T      `json:"value"`
	Failed bool   `json:"failed"`
	Reason string `json:"reason,omitempty"`
}

func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func Unavailable[T any](err error) Outcome[T] {
	o := Outcome[T]{Failed: true}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// TokenReport 一次聚合的完整结果，构造后不再修改
type TokenReport struct {
	TokenAddress      string                     `json:"token_address"`
	Security          Security                   `json:"security"`
	Trade             TradeStats                 `json:"trade"`
	HolderTrend       Trend                      `json:"holder_trend"`
	HighValueHolders  Outcome[[]HighValueHolder] `json:"high_value_holders"`
	RecentTrades      bool                       `json:"recent_trades"`
	HighSupplyHolders Outcome[int]               `json:"high_supply_holders"`
	DexPairs          DexPairs                   `json:"dex_pairs"`
	Listed            bool                       `json:"listed"`
	PaidListing       bool                       `json:"paid_listing"`
	RugRisk           Outcome[RugRisk]           `json:"rug_risk"`
	GeneratedAt       time.Time                  `json:"generated_at"`
}

// Degraded 失败后降级的分支名
func (r *TokenReport) Degraded() []string {
	var names []string
	if r.HighValueHolders.Failed {
		names = append(names, "high_value_holders")
	}
	if r.HighSupplyHolders.Failed {
		names = append(names, "high_supply_holders")
	}
	if r.RugRisk.Failed {
		names = append(names, "rug_risk")
	}
	return names
}

// Symbol 主交易对的 base token symbol，未上架时为空
func (r *TokenReport) Symbol() string {
	if p, ok := r.DexPairs.Primary(); ok {
		return p.BaseToken.Symbol
	}
	return ""
}

// ReportObject 供下游（AI 点评）使用的结构化报告
type ReportObject struct {
	CA            string          `json:"CA"`
	Name          string          `json:"name"`
	Ticker        string          `json:"ticker"`
	BoostsActive  string          `json:"boostsActive"`
	ChainID       string          `json:"chainId"`
	DexID         string          `json:"dexId"`
	Price         string          `json:"price"`
	Volume24h     string          `json:"volume24h"`
	Liquidity     string          `json:"liquidity"`
	PriceChange1h decimal.Decimal `json:"priceChange1h"`
	Holders       string          `json:"holders"`
	Top10Holders  string          `json:"top10Holders"`
	RugcheckScore string          `json:"rugcheckScore"`
	Risk          RiskLabel       `json:"risk"`
	Risks         []RiskFinding   `json:"risks"`
}
