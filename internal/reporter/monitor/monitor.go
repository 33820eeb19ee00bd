package monitor

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"token-report/internal/reporter/config"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsServer 运维端口：/metrics、/healthz 与 pprof，和业务 API 分开监听
type MetricsServer struct {
	tl     *zap.Logger
	server *http.Server
}

// NewMetricsServer monitor.enable 为 false 或地址为空时 Run/Stop 都是空操作
func NewMetricsServer(cfg config.MonitorConfig, tl *zap.Logger) *MetricsServer {
	s := &MetricsServer{tl: tl}
	if !cfg.Enable || cfg.PrometheusAddr == "" {
		return s
	}
	s.server = &http.Server{
		Addr:              cfg.PrometheusAddr,
		Handler:           OpsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func OpsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func (s *MetricsServer) Run() {
	if s.server == nil {
		return
	}
	go func() {
		s.tl.Info("Metrics server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.tl.Error("Metrics server stopped", zap.Error(err))
		}
	}()
}

func (s *MetricsServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.server.SetKeepAlivesEnabled(false)
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
