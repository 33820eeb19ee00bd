package formatter

import (
	"fmt"
	"strings"

	"token-report/internal/reporter/model"
	"token-report/internal/reporter/provider"
)

// Compact 适合单条消息的短报告。需要至少一个交易对，否则返回 provider.ErrNoPairsFound。
func (f *Formatter) Compact(r *model.TokenReport) (string, error) {
	pair, ok := r.DexPairs.Primary()
	if !ok {
		return "", fmt.Errorf("%w: %s", provider.ErrNoPairsFound, r.TokenAddress)
	}

	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
	}

	w("%s $%s\n\n", pair.BaseToken.Name, pair.BaseToken.Symbol)
	w("USD: $%s\n", Abbreviate(r.Trade.Price.Round(6), 1))
	w("24h Volume: $%s\n", Abbreviate(r.Trade.VolumeUSD(model.Window24h).Round(2), 1))
	w("Liquidity: $%s\n", Abbreviate(pair.LiquidityUSD.Round(2), 1))
	w("1h Change: %s%%\n", r.Trade.PriceChange(model.Window1h).StringFixed(2))
	w("Holders: %s\n", GroupThousands(r.Trade.Holder))
	w("Top 10 Holders: %s%%\n", r.Security.Top10HolderPercent.StringFixed(2))

	if r.RugRisk.Failed {
		w("Rugcheck Score: %s\n", Unavailable)
		return b.String(), nil
	}
	risk := r.RugRisk.Value
	w("Rugcheck Score: %s\n", risk.Score)
	w("Risk: %s\n", f.thresholds.RiskLabel(risk.Score))
	for _, finding := range risk.Risks {
		w("%s - %s\n", finding.Description, finding.Level)
	}
	return b.String(), nil
}
