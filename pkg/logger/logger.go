package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger   *zap.Logger
	logLevel = zap.NewAtomicLevel()
)

// Options 日志输出配置
type Options struct {
	Service    string
	Dir        string // 日志目录，默认 logs
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Stderr     bool // 控制台输出到 stderr，stdout 留给命令行结果
}

func New(opts Options) *zap.Logger {
	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 200
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 7
	}
	if opts.MaxAgeDays == 0 {
		opts.MaxAgeDays = 7
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		panic(err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.LevelKey = "level"
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	// 使用lumberjack进行日志轮转
	var writer io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, opts.Service+".log"),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), logLevel)
	console := os.Stdout
	if opts.Stderr {
		console = os.Stderr
	}
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(console), logLevel)

	logger = zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller()).
		With(zap.String("service", opts.Service))
	return logger
}

func SetLogLevel(level string) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return
	}
	logLevel.SetLevel(zapLevel)
	if logger != nil {
		logger.Info("Log level set to", zap.String("level", level))
	}
}

func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// NewLoggerWithTrace 仅在 span 有效时附加 trace 字段
func NewLoggerWithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return WithTrace(ctx, logger)
	}
	return logger
}
