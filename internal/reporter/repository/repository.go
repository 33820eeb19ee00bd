package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"token-report/internal/reporter/config"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Repository 共享的外部连接，未配置的部分为 nil
type Repository interface {
	GetRDB() *redis.Client
	GetMQ() *kafka.Writer
	Close() error
}

type repositoryImpl struct {
	cfg    config.Config
	logger *zap.Logger
	rdb    *redis.Client
	mq     *kafka.Writer
}

func New(cfg config.Config, logger *zap.Logger) Repository {
	r := &repositoryImpl{
		cfg:    cfg,
		logger: logger,
	}
	r.init()
	return r
}

func (r *repositoryImpl) init() {
	// redis 可选，address 为空只用本地缓存
	if strings.TrimSpace(r.cfg.Redis.Address) != "" {
		r.rdb = redis.NewClient(&redis.Options{
			Addr:     r.cfg.Redis.Address,
			Password: r.cfg.Redis.Password,
			DB:       r.cfg.Redis.DB,
			PoolSize: 20,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := r.rdb.Ping(ctx).Err(); err != nil {
			r.logger.Warn("failed to connect to redis, continue", zap.Error(err))
		}
	} else {
		r.logger.Info("redis address empty, report cache is local only")
	}

	if strings.TrimSpace(r.cfg.Kafka.Brokers) == "" {
		r.logger.Info("kafka brokers empty, report events disabled")
		return
	}
	brokers := strings.Split(r.cfg.Kafka.Brokers, ",")
	r.mq = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchBytes:   1024 * 1024, // 1MB
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		MaxAttempts:  5,
		WriteTimeout: time.Second,
	}
}

func (r *repositoryImpl) GetRDB() *redis.Client {
	return r.rdb
}

func (r *repositoryImpl) GetMQ() *kafka.Writer {
	return r.mq
}

func (r *repositoryImpl) Close() error {
	var errs []error
	if r.rdb != nil {
		errs = append(errs, r.rdb.Close())
	}
	if r.mq != nil {
		errs = append(errs, r.mq.Close())
	}
	return errors.Join(errs...)
}
