package writer

import (
	"context"
)

// BatchWriter 批量写出一组数据，由 AsyncBatchWriter 驱动
type BatchWriter[T any] interface {
	BWrite(ctx context.Context, batch []T) error
	Close() error
}
