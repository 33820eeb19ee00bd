package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"token-report/internal/reporter"
	"token-report/internal/reporter/config"
	"token-report/internal/reporter/service"
	"token-report/pkg/logger"
	"token-report/pkg/utils"

	"github.com/bytedance/sonic"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// 一次性生成单个 token 的报告并输出到 stdout

func main() {
	format := pflag.StringP("format", "f", "long", "report format: long, compact or object")
	configDir := pflag.String("config-dir", "./config/", "directory containing config.server.yaml")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: report [--format long|compact|object] <token-address>")
		os.Exit(2)
	}
	token := pflag.Arg(0)

	startTime := time.Now()
	cfg, err := config.Load(*configDir, "config.server")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tp := logger.InitTrace("token-report", "report")
	defer tp.Shutdown(context.Background())
	ctx, span := logger.StartSpan(context.Background(), "main", "main")
	defer span.End()

	rootLogger := logger.New(logger.Options{Service: "report", Dir: cfg.Log.Dir, Stderr: true})
	logger.SetLogLevel(cfg.Log.Level)
	tl := logger.WithTrace(ctx, rootLogger)

	if !utils.IsTokenAddress(token) {
		tl.Error("Invalid token address", zap.String("token", token))
		os.Exit(2)
	}
	f, err := service.ParseFormat(*format)
	if err != nil {
		tl.Error("Invalid format", zap.Error(err))
		os.Exit(2)
	}

	// 只用本地缓存，不发布事件
	reports, _ := reporter.NewReportService(cfg, nil, nil, tl)
	out, err := reports.Render(ctx, token, f)
	if err != nil {
		tl.Error("Failed to build report", zap.String("token", token), zap.Error(err))
		fmt.Println(service.UnavailableMessage)
		os.Exit(1)
	}

	if text, ok := out.(string); ok {
		fmt.Println(text)
	} else {
		data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
		if err != nil {
			tl.Error("Failed to encode report", zap.Error(err))
			os.Exit(1)
		}
		fmt.Println(string(data))
	}
	tl.Info("Report completed", zap.String("token", token), zap.Duration("taken_time", time.Since(startTime)))
}
