package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportEvent 每次新生成报告后发布
type ReportEvent struct {
	TokenAddress string          `json:"token_address"`
	Symbol       string          `json:"symbol,omitempty"`
	RugScore     decimal.Decimal `json:"rug_score"`
	Risk         RiskLabel       `json:"risk,omitempty"`
	Listed       bool            `json:"listed"`
	Degraded     []string        `json:"degraded,omitempty"`
	GeneratedAt  time.Time       `json:"generated_at"`
}
