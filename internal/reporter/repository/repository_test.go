package repository

import (
	"testing"

	"token-report/internal/reporter/config"

	"go.uber.org/zap"
)

func TestNew_OptionalConnections(t *testing.T) {
	r := New(config.Config{}, zap.NewNop())
	if r.GetRDB() != nil {
		t.Error("redis client created without address")
	}
	if r.GetMQ() != nil {
		t.Error("kafka writer created without brokers")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNew_KafkaWriterFromBrokers(t *testing.T) {
	cfg := config.Config{Kafka: config.KafkaConfig{Brokers: "127.0.0.1:9092,127.0.0.1:9093"}}
	r := New(cfg, zap.NewNop())
	defer r.Close()

	mq := r.GetMQ()
	if mq == nil {
		t.Fatal("kafka writer not created")
	}
	if !mq.Async || mq.Addr == nil {
		t.Errorf("unexpected writer config: async=%v addr=%v", mq.Async, mq.Addr)
	}
}
