package model

import "github.com/shopspring/decimal"

// Window 回看时间窗口
type Window string

const (
	Window30m Window = "30m"
	Window1h  Window = "1h"
	Window2h  Window = "2h"
	Window4h  Window = "4h"
	Window6h  Window = "6h"
	Window8h  Window = "8h"
	Window12h Window = "12h"
	Window24h Window = "24h"
)

// Windows 全部回看窗口，按时间升序
var Windows = []Window{Window30m, Window1h, Window2h, Window4h, Window6h, Window8h, Window12h, Window24h}

// WindowStats 单个窗口内的交易统计，上游缺失或为 null 的字段为 nil
type WindowStats struct {
	HistoryPrice       *decimal.Decimal `json:"history_price,omitempty"`
	PriceChangePercent *decimal.Decimal `json:"price_change_percent,omitempty"`

	UniqueWallet              *decimal.Decimal `json:"unique_wallet,omitempty"`
	UniqueWalletHistory       *decimal.Decimal `json:"unique_wallet_history,omitempty"`
	UniqueWalletChangePercent *decimal.Decimal `json:"unique_wallet_change_percent,omitempty"`

	Trade              *decimal.Decimal `json:"trade,omitempty"`
	TradeHistory       *decimal.Decimal `json:"trade_history,omitempty"`
	TradeChangePercent *decimal.Decimal `json:"trade_change_percent,omitempty"`
	Buy                *decimal.Decimal `json:"buy,omitempty"`
	BuyHistory         *decimal.Decimal `json:"buy_history,omitempty"`
	BuyChangePercent   *decimal.Decimal `json:"buy_change_percent,omitempty"`
	Sell               *decimal.Decimal `json:"sell,omitempty"`
	SellHistory        *decimal.Decimal `json:"sell_history,omitempty"`
	SellChangePercent  *decimal.Decimal `json:"sell_change_percent,omitempty"`

	Volume              *decimal.Decimal `json:"volume,omitempty"`
	VolumeUSD           *decimal.Decimal `json:"volume_usd,omitempty"`
	VolumeHistory       *decimal.Decimal `json:"volume_history,omitempty"`
	VolumeHistoryUSD    *decimal.Decimal `json:"volume_history_usd,omitempty"`
	VolumeChangePercent *decimal.Decimal `json:"volume_change_percent,omitempty"`
	VolumeBuy           *decimal.Decimal `json:"volume_buy,omitempty"`
	VolumeBuyUSD        *decimal.Decimal `json:"volume_buy_usd,omitempty"`
	VolumeSell          *decimal.Decimal `json:"volume_sell,omitempty"`
	VolumeSellUSD       *decimal.Decimal `json:"volume_sell_usd,omitempty"`
}

// TradeStats 抓取时刻的交易快照
type TradeStats struct {
	Address            string                 `json:"address"`
	Holder             int64                  `json:"holder"`
	Market             int64                  `json:"market"`
	LastTradeUnixTime  int64                  `json:"last_trade_unix_time"`
	LastTradeHumanTime string                 `json:"last_trade_human_time"`
	Price              decimal.Decimal        `json:"price"`
	Windows            map[Window]WindowStats `json:"windows"`
}

func (t TradeStats) Window(w Window) WindowStats {
	return t.Windows[w]
}

// PriceChange 缺失时视为 0
func (t TradeStats) PriceChange(w Window) decimal.Decimal {
	return valueOrZero(t.Window(w).PriceChangePercent)
}

func (t TradeStats) VolumeUSD(w Window) decimal.Decimal {
	return valueOrZero(t.Window(w).VolumeUSD)
}

func (t TradeStats) UniqueWallets(w Window) decimal.Decimal {
	return valueOrZero(t.Window(w).UniqueWallet)
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
