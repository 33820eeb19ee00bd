package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"token-report/internal/reporter"
	"token-report/internal/reporter/config"
	"token-report/pkg/logger"
)

func main() {
	// 初始化配置文件
	cfg := config.InitConfig()

	// 初始化 trace provider
	tp := logger.InitTrace("token-report", "server")
	ctx, span := logger.StartSpan(context.Background(), "main", "main")
	defer span.End()

	// 创建 root logger 并注入 trace 上下文
	rootLogger := logger.New(logger.Options{Service: "server", Dir: cfg.Log.Dir})
	logger.SetLogLevel(cfg.Log.Level)
	tl := logger.WithTrace(ctx, rootLogger)

	// 配置热加载
	go config.WatchConfig(&cfg)

	core := reporter.New(cfg, tl)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		tl.Info("Starting token report server...")
		core.Start(runCtx)
	}()

	// 监听操作系统信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	tl.Info("Received shutdown signal, starting graceful shutdown...")

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	core.Stop(stopCtx)
	_ = tp.Shutdown(stopCtx)

	tl.Info("Token report server exited")
}
