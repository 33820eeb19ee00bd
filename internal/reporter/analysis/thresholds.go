package analysis

import (
	"token-report/internal/reporter/config"
	"token-report/internal/reporter/model"

	"github.com/shopspring/decimal"
)

// Thresholds 派生指标与交易启发式使用的阈值
type Thresholds struct {
	HighValueUSD    decimal.Decimal
	HighSupplyRatio decimal.Decimal
	TrendIncrease   decimal.Decimal
	TrendDecrease   decimal.Decimal
	RiskWarning     decimal.Decimal
	RiskDanger      decimal.Decimal
	Trade           TradeThresholds
}

type TradeThresholds struct {
	Top10VolumeShare decimal.Decimal
	Volume24hUSD     decimal.Decimal
	PriceChange24h   decimal.Decimal
	PriceChange12h   decimal.Decimal
	UniqueWallets24h decimal.Decimal
	MinLiquidityUSD  decimal.Decimal
	MinMarketCapUSD  decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HighValueUSD:    decimal.NewFromInt(5),
		HighSupplyRatio: decimal.RequireFromString("0.02"),
		TrendIncrease:   decimal.NewFromInt(10),
		TrendDecrease:   decimal.NewFromInt(-10),
		RiskWarning:     decimal.NewFromInt(1000),
		RiskDanger:      decimal.NewFromInt(5000),
		Trade: TradeThresholds{
			Top10VolumeShare: decimal.RequireFromString("0.05"),
			Volume24hUSD:     decimal.NewFromInt(1000),
			PriceChange24h:   decimal.NewFromInt(10),
			PriceChange12h:   decimal.NewFromInt(5),
			UniqueWallets24h: decimal.NewFromInt(100),
			MinLiquidityUSD:  decimal.NewFromInt(1000),
			MinMarketCapUSD:  decimal.NewFromInt(100000),
		},
	}
}

// FromConfig 配置项为 0 时使用默认值
func FromConfig(cfg config.ThresholdsConfig) Thresholds {
	t := DefaultThresholds()
	set := func(dst *decimal.Decimal, v float64) {
		if v != 0 {
			*dst = decimal.NewFromFloat(v)
		}
	}
	set(&t.HighValueUSD, cfg.HighValueUSD)
	set(&t.HighSupplyRatio, cfg.HighSupplyRatio)
	set(&t.TrendIncrease, cfg.TrendIncrease)
	set(&t.TrendDecrease, cfg.TrendDecrease)
	set(&t.RiskWarning, cfg.RiskWarning)
	set(&t.RiskDanger, cfg.RiskDanger)
	set(&t.Trade.Top10VolumeShare, cfg.Trade.Top10VolumeShare)
	set(&t.Trade.Volume24hUSD, cfg.Trade.Volume24hUSD)
	set(&t.Trade.PriceChange24h, cfg.Trade.PriceChange24h)
	set(&t.Trade.PriceChange12h, cfg.Trade.PriceChange12h)
	set(&t.Trade.MinLiquidityUSD, cfg.Trade.MinLiquidityUSD)
	set(&t.Trade.MinMarketCapUSD, cfg.Trade.MinMarketCapUSD)
	if cfg.Trade.UniqueWallets24h != 0 {
		t.Trade.UniqueWallets24h = decimal.NewFromInt(cfg.Trade.UniqueWallets24h)
	}
	return t
}

// RiskLabel score < warning 为 Good，< danger 为 Warning，其余 Danger
func (t Thresholds) RiskLabel(score decimal.Decimal) model.RiskLabel {
	switch {
	case score.LessThan(t.RiskWarning):
		return model.RiskGood
	case score.LessThan(t.RiskDanger):
		return model.RiskWarning
	default:
		return model.RiskDanger
	}
}
