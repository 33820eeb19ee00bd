package model

import "github.com/shopspring/decimal"

// Security 持仓集中度数据，百分比为 0-100
type Security struct {
	OwnerBalance       decimal.Decimal `json:"owner_balance"`
	CreatorBalance     decimal.Decimal `json:"creator_balance"`
	OwnerPercentage    decimal.Decimal `json:"owner_percentage"`
	CreatorPercentage  decimal.Decimal `json:"creator_percentage"`
	Top10HolderBalance decimal.Decimal `json:"top10_holder_balance"`
	Top10HolderPercent decimal.Decimal `json:"top10_holder_percent"`
	TotalSupply        decimal.Decimal `json:"total_supply"`
}
