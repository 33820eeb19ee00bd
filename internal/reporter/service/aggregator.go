package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"token-report/internal/reporter/analysis"
	"token-report/internal/reporter/config"
	"token-report/internal/reporter/model"
	"token-report/internal/reporter/monitor"
	"token-report/internal/reporter/provider"
	"token-report/pkg/logger"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const tracerName = "aggregator"

// ErrAggregationFailed 安全数据或交易数据获取失败，整份报告无法生成
var ErrAggregationFailed = errors.New("aggregation failed")

// Aggregator 两阶段聚合：先顺序获取安全与交易数据，再并发获取其余数据并计算派生指标
type Aggregator struct {
	tokens     provider.TokenDataSource
	pairs      provider.PairSource
	risks      provider.RiskSource
	thresholds analysis.Thresholds
	deadline   time.Duration
	strict     bool
	tl         *zap.Logger
}

func NewAggregator(cfg config.AggregatorConfig, thresholds analysis.Thresholds, tokens provider.TokenDataSource,
	pairs provider.PairSource, risks provider.RiskSource, tl *zap.Logger) *Aggregator {
	return &Aggregator{
		tokens:     tokens,
		pairs:      pairs,
		risks:      risks,
		thresholds: thresholds,
		deadline:   cfg.Deadline,
		strict:     cfg.StrictBranches,
		tl:         tl,
	}
}

// Aggregate 生成一份 TokenReport。整个过程受 deadline 约束。
// strict 模式下 rug 风险与高价值持有人失败会使整份报告失败，否则降级为不可用。
// 大户数量始终降级，DEX 交易对失败视为未上架。
func (a *Aggregator) Aggregate(ctx context.Context, token string) (*model.TokenReport, error) {
	startTime := time.Now()
	ctx, span := logger.StartSpan(ctx, tracerName, "Aggregate", attribute.String("token", token))
	defer span.End()

	if a.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.deadline)
		defer cancel()
	}

	report, err := a.aggregate(ctx, token)
	monitor.AggregationPhaseDuration.WithLabelValues("total").Observe(time.Since(startTime).Seconds())
	if err != nil {
		monitor.AggregationTotal.WithLabelValues("failed").Inc()
		logger.FailSpan(span, err)
		logger.NewLoggerWithTrace(ctx, a.tl).Warn("Token aggregation failed", zap.String("token", token), zap.Error(err))
		return nil, err
	}

	monitor.AggregationTotal.WithLabelValues("success").Inc()
	for _, branch := range report.Degraded() {
		monitor.BranchDegraded.WithLabelValues(branch).Inc()
	}
	return report, nil
}

func (a *Aggregator) aggregate(ctx context.Context, token string) (*model.TokenReport, error) {
	tl := logger.NewLoggerWithTrace(ctx, a.tl).With(zap.String("token", token))

	// phase 1: 交易数据是多个派生指标的输入，必须先拿到
	var security model.Security
	err := a.phase(ctx, "security", func(ctx context.Context) (err error) {
		security, err = a.tokens.FetchSecurity(ctx, token)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: token security: %w", ErrAggregationFailed, err)
	}

	var trade model.TradeStats
	err = a.phase(ctx, "trade", func(ctx context.Context) (err error) {
		trade, err = a.tokens.FetchTradeStats(ctx, token)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: token trade data: %w", ErrAggregationFailed, err)
	}

	// phase 2: 各分支只写自己的变量，Wait 之后再读取
	var (
		pairs        model.DexPairs
		trend        model.Trend
		highValue    model.Outcome[[]model.HighValueHolder]
		recentTrades bool
		highSupply   model.Outcome[int]
		rugRisk      model.Outcome[model.RugRisk]
	)
	err = a.phase(ctx, "fanout", func(ctx context.Context) error {
		// 任一分支致命失败时取消，包括两个分支共享的持有人请求
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		fail := func(err error) error {
			cancel()
			return err
		}

		// 两个持有人指标共享同一次请求
		holders := sync.OnceValues(func() ([]model.Holder, error) {
			return a.tokens.FetchHolders(ctx, token)
		})

		p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
		p.Go(func(ctx context.Context) error {
			pairs = a.pairs.FetchPairs(ctx, token)
			return nil
		})
		p.Go(func(ctx context.Context) error {
			trend = analysis.HolderTrend(trade, a.thresholds)
			return nil
		})
		p.Go(func(ctx context.Context) error {
			list, err := holders()
			if err != nil {
				if a.strict {
					return fail(fmt.Errorf("high-value holders: %w", err))
				}
				tl.Warn("High-value holders unavailable", zap.Error(err))
				highValue = model.Unavailable[[]model.HighValueHolder](err)
				return nil
			}
			highValue = model.Succeeded(analysis.HighValueHolders(list, trade.Price, a.thresholds.HighValueUSD))
			return nil
		})
		p.Go(func(ctx context.Context) error {
			recentTrades = analysis.HasRecentTrades(trade)
			return nil
		})
		p.Go(func(ctx context.Context) error {
			list, err := holders()
			if err != nil {
				tl.Warn("High-supply holder count unavailable", zap.Error(err))
				highSupply = model.Unavailable[int](err)
				return nil
			}
			highSupply = model.Succeeded(analysis.CountHighSupplyHolders(list, security.TotalSupply, a.thresholds.HighSupplyRatio))
			return nil
		})
		p.Go(func(ctx context.Context) error {
			risk, err := a.risks.FetchSummary(ctx, token)
			if err != nil {
				if a.strict {
					return fail(fmt.Errorf("rug risk: %w", err))
				}
				tl.Warn("Rug risk unavailable", zap.Error(err))
				rugRisk = model.Unavailable[model.RugRisk](err)
				return nil
			}
			rugRisk = model.Succeeded(risk)
			return nil
		})
		return p.Wait()
	})
	if err != nil {
		return nil, err
	}

	return &model.TokenReport{
		TokenAddress:      token,
		Security:          security,
		Trade:             trade,
		HolderTrend:       trend,
		HighValueHolders:  highValue,
		RecentTrades:      recentTrades,
		HighSupplyHolders: highSupply,
		DexPairs:          pairs,
		Listed:            pairs.Listed(),
		PaidListing:       pairs.Paid(),
		RugRisk:           rugRisk,
		GeneratedAt:       time.Now(),
	}, nil
}

// phase 在独立 span 中执行并记录耗时
func (a *Aggregator) phase(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	startTime := time.Now()
	ctx, span := logger.StartSpan(ctx, tracerName, name)
	defer span.End()

	err := fn(ctx)
	monitor.AggregationPhaseDuration.WithLabelValues(name).Observe(time.Since(startTime).Seconds())
	logger.FailSpan(span, err)
	return err
}
