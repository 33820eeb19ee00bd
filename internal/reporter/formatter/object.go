package formatter

import (
	"token-report/internal/reporter/model"

	"github.com/shopspring/decimal"
)

// Object 结构化报告，未上架时交易对相关字段为空
func (f *Formatter) Object(r *model.TokenReport) model.ReportObject {
	obj := model.ReportObject{
		CA:            r.TokenAddress,
		Price:         r.Trade.Price.StringFixed(6),
		Volume24h:     Abbreviate(r.Trade.VolumeUSD(model.Window24h).Round(2), 2),
		PriceChange1h: r.Trade.PriceChange(model.Window1h),
		Holders:       GroupThousands(r.Trade.Holder),
		Top10Holders:  r.Security.Top10HolderPercent.StringFixed(2),
		Risks:         []model.RiskFinding{},
	}

	if pair, ok := r.DexPairs.Primary(); ok {
		obj.Name = pair.BaseToken.Name
		obj.Ticker = pair.BaseToken.Symbol
		obj.BoostsActive = Abbreviate(decimal.NewFromInt(pair.BoostsActive), 1)
		obj.ChainID = pair.ChainID
		obj.DexID = pair.DexID
		obj.Liquidity = Abbreviate(pair.LiquidityUSD.Round(2), 2)
	}

	if !r.RugRisk.Failed {
		obj.RugcheckScore = r.RugRisk.Value.Score.String()
		obj.Risk = f.thresholds.RiskLabel(r.RugRisk.Value.Score)
		if r.RugRisk.Value.Risks != nil {
			obj.Risks = r.RugRisk.Value.Risks
		}
	}
	return obj
}
