package formatter

import "token-report/internal/reporter/analysis"

// Unavailable 分支降级后的占位文本
const Unavailable = "Data unavailable"

// Formatter 把 TokenReport 渲染成长报告、短报告或结构化对象
type Formatter struct {
	thresholds analysis.Thresholds
}

func New(thresholds analysis.Thresholds) *Formatter {
	return &Formatter{thresholds: thresholds}
}
