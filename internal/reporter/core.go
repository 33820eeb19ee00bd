package reporter

import (
	"context"
	"time"

	"token-report/internal/reporter/analysis"
	"token-report/internal/reporter/assistant"
	"token-report/internal/reporter/cache"
	"token-report/internal/reporter/config"
	"token-report/internal/reporter/handler"
	"token-report/internal/reporter/job"
	"token-report/internal/reporter/model"
	"token-report/internal/reporter/monitor"
	"token-report/internal/reporter/provider"
	"token-report/internal/reporter/repository"
	"token-report/internal/reporter/service"
	"token-report/internal/reporter/writer"
	"token-report/internal/reporter/writer/event"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EVENT_BATCH_SIZE     = 50
	EVENT_FLUSH_INTERVAL = 2 * time.Second
	EVENT_WORKERS        = 2
)

type Core struct {
	cfg       config.Config
	tl        *zap.Logger
	repo      repository.Repository
	scheduler *job.Scheduler
	events    *writer.AsyncBatchWriter[model.ReportEvent]
	server    *handler.Server
	metrics   *monitor.MetricsServer
}

// NewReportService 组装上游数据源、聚合器和报告缓存，rdb 与 events 可为 nil
func NewReportService(cfg config.Config, rdb *redis.Client, events service.EventSink, logger *zap.Logger) (*service.ReportService, *provider.Birdeye) {
	thresholds := analysis.FromConfig(cfg.Thresholds)

	birdeye := provider.NewBirdeye(cfg.Birdeye, cfg.Retry, logger)
	dexScreener := provider.NewDexScreener(cfg.DexScreener, cfg.Retry, logger)
	rugCheck := provider.NewRugCheck(cfg.RugCheck, cfg.Retry, logger)

	aggregator := service.NewAggregator(cfg.Aggregator, thresholds, birdeye, dexScreener, rugCheck, logger)
	reportCache := cache.NewReportCache(logger, rdb, cfg.Cache.ReportTTL)

	return service.NewReportService(aggregator, reportCache, thresholds, events, logger), birdeye
}

func New(cfg config.Config, logger *zap.Logger) *Core {
	scheduler := job.NewScheduler(logger)
	repo := repository.New(cfg, logger)

	// kafka 未配置时不发布报告事件
	var events *writer.AsyncBatchWriter[model.ReportEvent]
	var sink service.EventSink
	if mq := repo.GetMQ(); mq != nil {
		kafkaWriter := event.NewKafkaReportWriter(mq, logger, cfg.Kafka.TopicReport)
		events = writer.NewAsyncBatchWriter(logger, kafkaWriter, EVENT_BATCH_SIZE, EVENT_FLUSH_INTERVAL, "report_event", EVENT_WORKERS)
		sink = events
	}

	reports, birdeye := NewReportService(cfg, repo.GetRDB(), sink, logger)
	chat := service.NewChatService(reports, assistant.NewClient(cfg.Assistant, logger), logger)

	// 参考价格定时刷新
	prices := cache.NewPriceCache(logger, repo.GetRDB())
	priceRefresh := job.NewPriceRefresh(cfg.Prices, birdeye, prices, logger)
	scheduler.Register("price_refresh", cfg.Prices.RefreshInterval, priceRefresh.Run)

	h := handler.New(chat, reports, prices, logger)

	return &Core{
		cfg:       cfg,
		tl:        logger,
		repo:      repo,
		scheduler: scheduler,
		events:    events,
		server:    handler.NewServer(cfg.Server, h, logger),
		metrics:   monitor.NewMetricsServer(cfg.Monitor, logger),
	}
}

func (c *Core) Start(ctx context.Context) {
	c.tl.Info("Starting token report core...")
	c.metrics.Run()

	if c.events != nil {
		c.events.Start(ctx)
	}
	c.scheduler.Start(ctx)
	c.server.Run()
	c.tl.Info("Token report service started successfully")

	<-ctx.Done()
	c.tl.Info("Shutting down token report service due to context cancellation...")
}

// Stop 先停止接收请求，再刷出剩余事件，最后关闭连接
func (c *Core) Stop(ctx context.Context) {
	c.tl.Info("Stopping token report core...")

	if err := c.server.Stop(ctx); err != nil {
		c.tl.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	c.scheduler.Stop(ctx)
	if c.events != nil {
		c.events.Close()
	}
	_ = c.metrics.Stop(ctx)

	if err := c.repo.Close(); err != nil {
		c.tl.Warn("Failed to close repository", zap.Error(err))
	}
	c.tl.Info("Token report core stopped.")
}
