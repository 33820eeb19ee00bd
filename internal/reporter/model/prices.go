package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferencePrices 参考资产的美元价格
type ReferencePrices struct {
	Prices    map[string]decimal.Decimal `json:"prices"`
	UpdatedAt time.Time                  `json:"updated_at"`
}
