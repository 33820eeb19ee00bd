package analysis

import (
	"token-report/internal/reporter/model"

	"github.com/shopspring/decimal"
)

// trendWindows 参与持有人趋势计算的窗口，不含 6h 和 12h
var trendWindows = []model.Window{
	model.Window30m, model.Window1h, model.Window2h,
	model.Window4h, model.Window8h, model.Window24h,
}

// HolderTrend 取各窗口 unique wallet 变化百分比的均值，忽略缺失值
func HolderTrend(trade model.TradeStats, t Thresholds) model.Trend {
	var changes []decimal.Decimal
	for _, w := range trendWindows {
		if c := trade.Window(w).UniqueWalletChangePercent; c != nil {
			changes = append(changes, *c)
		}
	}
	if len(changes) == 0 {
		return model.TrendStable
	}

	avg := decimal.Avg(changes[0], changes[1:]...)
	switch {
	case avg.GreaterThan(t.TrendIncrease):
		return model.TrendIncreasing
	case avg.LessThan(t.TrendDecrease):
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

// HighValueHolders 持仓美元价值严格大于 minUSD 的持有人
func HighValueHolders(holders []model.Holder, price, minUSD decimal.Decimal) []model.HighValueHolder {
	result := make([]model.HighValueHolder, 0)
	for _, h := range holders {
		usd := h.Balance.Mul(price)
		if usd.GreaterThan(minUSD) {
			result = append(result, model.HighValueHolder{
				HolderAddress: h.Address,
				BalanceUSD:    usd.StringFixed(2),
			})
		}
	}
	return result
}

// CountHighSupplyHolders 持仓占总供应量严格大于 ratio 的人数，总供应量为 0 时返回 0
func CountHighSupplyHolders(holders []model.Holder, totalSupply, ratio decimal.Decimal) int {
	if totalSupply.Sign() <= 0 {
		return 0
	}
	count := 0
	for _, h := range holders {
		if h.Balance.Div(totalSupply).GreaterThan(ratio) {
			count++
		}
	}
	return count
}

// HasRecentTrades 24h 成交额大于 0
func HasRecentTrades(trade model.TradeStats) bool {
	return trade.VolumeUSD(model.Window24h).Sign() > 0
}

// ShouldTrade 弱信号的 OR 组合。"top10" 信号沿用成交额 / 总供应量的算法；
// 流动性与市值取主交易对，未上架时这两个信号为 false。
func ShouldTrade(r *model.TokenReport, t Thresholds) bool {
	trade := r.Trade
	volume24h := trade.VolumeUSD(model.Window24h)

	top10Share := false
	if r.Security.TotalSupply.Sign() > 0 {
		top10Share = volume24h.Div(r.Security.TotalSupply).GreaterThanOrEqual(t.Trade.Top10VolumeShare)
	}

	lowLiquidity, lowMarketCap := false, false
	if pair, ok := r.DexPairs.Primary(); ok {
		lowLiquidity = pair.LiquidityUSD.LessThan(t.Trade.MinLiquidityUSD)
		lowMarketCap = pair.MarketCap.LessThan(t.Trade.MinMarketCapUSD)
	}

	return top10Share ||
		volume24h.GreaterThanOrEqual(t.Trade.Volume24hUSD) ||
		trade.PriceChange(model.Window24h).GreaterThanOrEqual(t.Trade.PriceChange24h) ||
		trade.PriceChange(model.Window12h).GreaterThanOrEqual(t.Trade.PriceChange12h) ||
		trade.UniqueWallets(model.Window24h).GreaterThanOrEqual(t.Trade.UniqueWallets24h) ||
		lowLiquidity ||
		lowMarketCap
}
