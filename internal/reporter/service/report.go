package service

import (
	"context"
	"fmt"
	"strings"

	"token-report/internal/reporter/analysis"
	"token-report/internal/reporter/cache"
	"token-report/internal/reporter/formatter"
	"token-report/internal/reporter/model"
	"token-report/internal/reporter/monitor"

	"go.uber.org/zap"
)

// UnavailableMessage 面向用户的统一失败提示
const UnavailableMessage = "Unable to fetch token information. Please try again later."

type Format string

const (
	FormatLong    Format = "long"
	FormatCompact Format = "compact"
	FormatObject  Format = "object"
)

// ParseFormat 空字符串默认为 long
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatLong, nil
	case FormatLong, FormatCompact, FormatObject:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

type Aggregate interface {
	Aggregate(ctx context.Context, token string) (*model.TokenReport, error)
}

// EventSink 新报告事件的去向，通常是 AsyncBatchWriter
type EventSink interface {
	Submit(event model.ReportEvent)
}

// ReportService 缓存之上的报告生成与渲染
type ReportService struct {
	aggregator Aggregate
	cache      *cache.ReportCache
	formatter  *formatter.Formatter
	thresholds analysis.Thresholds
	events     EventSink
	tl         *zap.Logger
}

// NewReportService events 可以为 nil
func NewReportService(aggregator Aggregate, reportCache *cache.ReportCache, thresholds analysis.Thresholds,
	events EventSink, tl *zap.Logger) *ReportService {
	return &ReportService{
		aggregator: aggregator,
		cache:      reportCache,
		formatter:  formatter.New(thresholds),
		thresholds: thresholds,
		events:     events,
		tl:         tl,
	}
}

func (s *ReportService) Formatter() *formatter.Formatter {
	return s.formatter
}

// Report 从缓存读取或重新聚合；新生成的报告会发布事件
func (s *ReportService) Report(ctx context.Context, token string) (*model.TokenReport, error) {
	report, source, err := s.cache.GetOrLoad(ctx, token, func(ctx context.Context) (*model.TokenReport, error) {
		return s.aggregator.Aggregate(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	monitor.ReportCacheRequests.WithLabelValues(string(source)).Inc()
	if source == cache.SourceLoaded {
		s.publish(report)
	}
	return report, nil
}

func (s *ReportService) publish(report *model.TokenReport) {
	if s.events == nil {
		return
	}
	event := model.ReportEvent{
		TokenAddress: report.TokenAddress,
		Symbol:       report.Symbol(),
		Listed:       report.Listed,
		Degraded:     report.Degraded(),
		GeneratedAt:  report.GeneratedAt,
	}
	if !report.RugRisk.Failed {
		event.RugScore = report.RugRisk.Value.Score
		event.Risk = s.thresholds.RiskLabel(report.RugRisk.Value.Score)
	}
	s.events.Submit(event)
}

// Render 按格式渲染：long / compact 返回 string，object 返回 model.ReportObject
func (s *ReportService) Render(ctx context.Context, token string, format Format) (interface{}, error) {
	report, err := s.Report(ctx, token)
	if err != nil {
		return nil, err
	}
	monitor.ReportRendered.WithLabelValues(string(format)).Inc()

	switch format {
	case FormatCompact:
		return s.formatter.Compact(report)
	case FormatObject:
		return s.formatter.Object(report), nil
	default:
		return s.formatter.Long(report), nil
	}
}
