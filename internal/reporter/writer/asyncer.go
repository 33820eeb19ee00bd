package writer

import (
	"context"
	"sync"
	"time"

	"token-report/internal/reporter/monitor"

	"go.uber.org/zap"
)

const defaultQueueSize = 1024

// AsyncBatchWriter 从队列攒批后交给 BatchWriter，满 batchSize 或到 flushInterval 时刷出
type AsyncBatchWriter[T any] struct {
	id            string
	workers       int
	tl            *zap.Logger
	writer        BatchWriter[T]
	inputChan     chan T
	wg            sync.WaitGroup
	batchSize     int
	flushInterval time.Duration
	closeOnce     sync.Once
	mu            sync.RWMutex // 保护 closed，Close 之后的 Submit 直接丢弃
	closed        bool
}

func NewAsyncBatchWriter[T any](tl *zap.Logger, writer BatchWriter[T], batchSize int, flushInterval time.Duration, id string, workers int) *AsyncBatchWriter[T] {
	if batchSize <= 0 {
		batchSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &AsyncBatchWriter[T]{
		id:            id,
		workers:       workers,
		tl:            tl,
		writer:        writer,
		inputChan:     make(chan T, defaultQueueSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

func (b *AsyncBatchWriter[T]) Start(ctx context.Context) {
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.processItems(ctx)
	}
}

func (b *AsyncBatchWriter[T]) processItems(ctx context.Context) {
	defer b.wg.Done()
	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	var batch = make([]T, 0, b.batchSize)
	for {
		select {
		case <-ctx.Done():
			if len(batch) > 0 {
				// ctx 已取消，用独立的 context 刷出剩余数据
				b.writeAndRecord(context.Background(), batch)
			}
			return
		case item, ok := <-b.inputChan:
			if !ok {
				if len(batch) > 0 {
					b.writeAndRecord(ctx, batch)
				}
				return
			}
			batch = append(batch, item)
			if len(batch) >= b.batchSize {
				b.writeAndRecord(ctx, batch)
				batch = make([]T, 0, b.batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				b.writeAndRecord(ctx, batch)
				batch = make([]T, 0, b.batchSize)
			}
		}
	}
}

// 封装写入操作并记录指标
func (b *AsyncBatchWriter[T]) writeAndRecord(ctx context.Context, batch []T) {
	startTime := time.Now()
	monitor.AsyncWriterBatchSize.WithLabelValues(b.id).Observe(float64(len(batch)))

	if err := b.writer.BWrite(ctx, batch); err != nil {
		monitor.AsyncWriterFlushErrors.WithLabelValues(b.id).Inc()
		b.tl.Warn("Batch write failed", zap.String("id", b.id), zap.Int("size", len(batch)), zap.Error(err))
	}

	monitor.AsyncWriterFlushDuration.WithLabelValues(b.id).Observe(time.Since(startTime).Seconds())
}

// Submit 非阻塞提交，队列满或已关闭时丢弃
func (b *AsyncBatchWriter[T]) Submit(item T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		monitor.AsyncWriterMessagesDropped.WithLabelValues(b.id).Inc()
		return
	}
	select {
	case b.inputChan <- item:
		monitor.AsyncWriterMessagesQueued.WithLabelValues(b.id).Inc()
	default:
		monitor.AsyncWriterMessagesDropped.WithLabelValues(b.id).Inc()
		b.tl.Warn("Batch input channel full, dropping item", zap.String("id", b.id))
	}
}

// Close 刷出队列中剩余数据后关闭底层 writer，可重复调用
func (b *AsyncBatchWriter[T]) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.inputChan)
		b.mu.Unlock()
		b.wg.Wait()
		if err := b.writer.Close(); err != nil {
			b.tl.Warn("Failed to close batch writer", zap.String("id", b.id), zap.Error(err))
		}
	})
}
