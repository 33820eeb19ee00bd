package event

import (
	"context"
	"time"

	"token-report/internal/reporter/model"
	"token-report/internal/reporter/writer"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const RETRY_COUNT = 3

// KafkaReportWriter 把新生成的报告事件写入 kafka，key 为 token 地址
type KafkaReportWriter struct {
	mq *kafka.Writer
	tl *zap.Logger

	topic string
}

func NewKafkaReportWriter(mq *kafka.Writer, tl *zap.Logger, topic string) writer.BatchWriter[model.ReportEvent] {
	return &KafkaReportWriter{mq: mq, tl: tl, topic: topic}
}

func (w *KafkaReportWriter) BWrite(ctx context.Context, events []model.ReportEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := w.marshalToMsg(e)
		if err != nil {
			w.tl.Warn("Failed to encode report event", zap.String("token", e.TokenAddress), zap.Error(err))
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	newCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// 重试机制
	var err error
	for attempt := 0; attempt < RETRY_COUNT; attempt++ {
		err = w.mq.WriteMessages(newCtx, msgs...)
		if err == nil {
			break // 成功则退出重试
		}
	}
	if err != nil {
		w.tl.Warn("MQ write failed, exceeded the maximum number of retries", zap.Error(err))
		return err
	}
	return nil
}

// Close kafka.Writer 由 repository 负责关闭
func (w *KafkaReportWriter) Close() error {
	return nil
}

func (w *KafkaReportWriter) marshalToMsg(e model.ReportEvent) (kafka.Message, error) {
	jsonData, err := sonic.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Topic: w.topic,
		Key:   []byte(e.TokenAddress),
		Value: jsonData,
	}, nil
}
