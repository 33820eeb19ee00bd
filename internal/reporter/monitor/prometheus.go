package monitor

import "github.com/prometheus/client_golang/prometheus"

var (
	// AggregationTotal 报告聚合
	AggregationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_report_aggregation_total",
			Help: "Total number of token report aggregations by outcome.",
		},
		[]string{"outcome"},
	)
	AggregationPhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "token_report_aggregation_phase_duration_seconds",
			Help:    "Time taken by each aggregation phase.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"phase"},
	)
	BranchDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_report_branch_degraded_total",
			Help: "Number of aggregation branches that degraded to a placeholder.",
		},
		[]string{"branch"},
	)

	// ReportCacheRequests 报告缓存
	ReportCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_report_cache_requests_total",
			Help: "Report cache lookups by result: hit, miss or shared (waited on a concurrent build).",
		},
		[]string{"result"},
	)
	ReportRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_report_rendered_total",
			Help: "Reports rendered by format.",
		},
		[]string{"format"},
	)

	PriceRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_report_price_refresh_total",
			Help: "Reference price refreshes by status.",
		},
		[]string{"status"},
	)

	// AsyncWriterMessagesQueued AsyncWriter 指标
	AsyncWriterMessagesQueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "async_writer_messages_queued_total",
			Help: "Total number of messages queued to async writer.",
		},
		[]string{"writer_id"},
	)
	AsyncWriterMessagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "async_writer_messages_dropped_total",
			Help: "Total number of messages dropped due to full queue.",
		},
		[]string{"writer_id"},
	)
	AsyncWriterBatchSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "async_writer_batch_size",
			Help:    "Number of items in each batch submitted to the writer.",
			Buckets: []float64{1, 5, 10, 50, 100, 500},
		},
		[]string{"writer_id"},
	)
	AsyncWriterFlushDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "async_writer_flush_duration_seconds",
			Help:    "Time taken to flush a batch.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"writer_id"},
	)
	AsyncWriterFlushErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "async_writer_flush_errors_total",
			Help: "Total number of batch flushes that failed.",
		},
		[]string{"writer_id"},
	)
)

func init() {
	prometheus.MustRegister(
		// 聚合指标
		AggregationTotal,
		AggregationPhaseDuration,
		BranchDegraded,

		ReportCacheRequests,
		ReportRendered,
		PriceRefreshTotal,

		// async 写入指标
		AsyncWriterMessagesQueued,
		AsyncWriterMessagesDropped,
		AsyncWriterBatchSize,
		AsyncWriterFlushDuration,
		AsyncWriterFlushErrors,
	)
}
