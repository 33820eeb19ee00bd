package model

import "github.com/shopspring/decimal"

// Holder 持有人及其可读单位余额
type Holder struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}

type HighValueHolder struct {
	HolderAddress string `json:"holderAddress"`
	BalanceUSD    string `json:"balanceUsd"`
}
