package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 2 * time.Second
)

// ErrUpstreamUnavailable 所有重试均失败
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// RetryPolicy 固定次数 + 指数退避，不加 jitter
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Delay 第 attempt 次失败后（从 0 开始）的等待时间
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

// Sleeper 可被 context 打断的等待
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpstreamError 携带最后一次失败原因
type UpstreamError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream unavailable after %d attempts, url: %s: %v", e.Attempts, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamUnavailable, e.Err}
}

// WithSleeper 替换等待实现，测试中用于记录退避时间
func (c *HTTPClient) WithSleeper(s Sleeper) *HTTPClient {
	c.sleep = s
	return c
}

// Policy 当前重试策略
func (c *HTTPClient) Policy() RetryPolicy {
	return c.retry
}

// GetWithRetry 失败（网络错误或非 2xx）时按 BaseDelay*2^i 退避重试，
// 全部失败后返回 *UpstreamError
func (c *HTTPClient) GetWithRetry(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	var lastErr error
	attempts := 0
	for i := 0; i < c.retry.MaxAttempts; i++ {
		attempts++
		err := c.Get(ctx, url, nil, headers, out)
		if err == nil {
			return nil
		}
		lastErr = err
		c.logger.Warn("Upstream attempt failed",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Error(err))

		if i == c.retry.MaxAttempts-1 {
			break
		}
		delay := c.retry.Delay(i)
		c.logger.Debug("Waiting before retrying", zap.Duration("delay", delay))
		if serr := c.sleep(ctx, delay); serr != nil {
			lastErr = errors.Join(lastErr, serr)
			break
		}
	}

	c.logger.Error("All attempts failed", zap.String("url", url), zap.Error(lastErr))
	return &UpstreamError{URL: url, Attempts: attempts, Err: lastErr}
}
