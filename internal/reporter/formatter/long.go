package formatter

import (
	"fmt"
	"strings"

	"token-report/internal/reporter/analysis"
	"token-report/internal/reporter/model"
)

// Long 多段落的完整报告，没有交易对时省略 DexScreener Pairs 段
func (f *Formatter) Long(r *model.TokenReport) string {
	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
	}

	w("**Token Security and Trade Report**\n")
	w("Token Address: %s\n\n", r.TokenAddress)
	if pair, ok := r.DexPairs.Primary(); ok {
		w("Token Ticker: %s\n", pair.BaseToken.Name)
	}

	w("**Ownership Distribution:**\n")
	w("- Top 10 Holders Balance: %s\n", r.Security.Top10HolderBalance)
	w("- Top 10 Holders Percentage: %s%%\n\n", r.Security.Top10HolderPercent)

	day := r.Trade.Window(model.Window24h)
	w("**Trade Data:**\n")
	w("- Holders: %d\n", r.Trade.Holder)
	w("- Unique Wallets (24h): %s\n", optional(day.UniqueWallet))
	w("- Price Change (24h): %s\n", optionalPercent(day.PriceChangePercent))
	w("- Price Change (12h): %s\n", optionalPercent(r.Trade.Window(model.Window12h).PriceChangePercent))
	w("- Volume (24h USD): $%s\n", r.Trade.VolumeUSD(model.Window24h).StringFixed(2))
	w("- Current Price: $%s\n\n", r.Trade.Price.StringFixed(6))

	w("**Holder Distribution Trend:** %s\n\n", r.HolderTrend)

	w("**High-Value Holders (>$%s USD):**\n", f.thresholds.HighValueUSD)
	switch {
	case r.HighValueHolders.Failed:
		w("- %s.\n", Unavailable)
	case len(r.HighValueHolders.Value) == 0:
		w("- No high-value holders found or data not available.\n")
	default:
		for _, h := range r.HighValueHolders.Value {
			w("- %s: $%s\n", h.HolderAddress, h.BalanceUSD)
		}
	}
	w("\n")

	w("**Recent Trades (Last 24h):** %s\n\n", yesNo(r.RecentTrades))

	if r.HighSupplyHolders.Failed {
		w("**Holders with >%s%% Supply:** %s\n\n", percent(f.thresholds), Unavailable)
	} else {
		w("**Holders with >%s%% Supply:** %d\n\n", percent(f.thresholds), r.HighSupplyHolders.Value)
	}

	w("**DexScreener Listing:** %s\n", yesNo(r.Listed))
	if r.Listed {
		listing := "Free"
		if r.PaidListing {
			listing = "Paid"
		}
		w("- Listing Type: %s\n", listing)
		w("- Number of DexPairs: %d\n\n", len(r.DexPairs.Pairs))
		w("**DexScreener Pairs:**\n")
		for i, p := range r.DexPairs.Pairs {
			w("\n**Pair %d:**\n", i+1)
			w("- DEX: %s\n", p.DexID)
			w("- URL: %s\n", p.URL)
			w("- Price USD: $%s\n", p.PriceUSD.StringFixed(6))
			w("- Volume (24h USD): $%s\n", p.Volume24h.StringFixed(2))
			w("- Boosts Active: %t\n", p.Boosted())
			w("- Liquidity USD: $%s\n", p.LiquidityUSD.StringFixed(2))
		}
	}
	w("\n")

	w("**Rugcheck Data:**\n")
	if r.RugRisk.Failed {
		w("**Rugcheck Score:** %s\n", Unavailable)
	} else {
		risk := r.RugRisk.Value
		w("**Rugcheck Score:** %s\n", risk.Score)
		w("**Risk:** %s\n", f.thresholds.RiskLabel(risk.Score))
		for _, finding := range risk.Risks {
			w("- %s - %s\n", finding.Description, finding.Level)
		}
	}

	w("**Should Trade Token:** %s\n\n", yesNo(analysis.ShouldTrade(r, f.thresholds)))

	return b.String()
}

func percent(t analysis.Thresholds) string {
	return t.HighSupplyRatio.Shift(2).String()
}
