package model

import "github.com/shopspring/decimal"

type RiskFinding struct {
	Name        string          `json:"name"`
	Value       string          `json:"value"`
	Description string          `json:"description"`
	Score       decimal.Decimal `json:"score"`
	Level       string          `json:"level"`
}

// RugRisk 分数越低越安全，无上限
type RugRisk struct {
	Score decimal.Decimal `json:"score"`
	Risks []RiskFinding   `json:"risks"`
}

type RiskLabel string

const (
	RiskGood    RiskLabel = "Good"
	RiskWarning RiskLabel = "Warning"
	RiskDanger  RiskLabel = "Danger"
)
