package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"resty.dev/v3"
)

// HTTPClientConfig 配置参数
type HTTPClientConfig struct {
	Timeout    time.Duration     // 单次请求超时时间
	RateLimit  int               // 每分钟请求次数，0 表示不限流
	MaxRetries int               // GetWithRetry 最大尝试次数
	RetryDelay time.Duration     // 退避基础时间，第 i 次重试等待 RetryDelay * 2^i
	UserAgent  string            // 可选 User-Agent
	Headers    map[string]string // 公共 header，调用方显式设置的同名 header 优先
}

// HTTPClient 是一个通用的 HTTP 客户端
type HTTPClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
	retry   RetryPolicy
	sleep   Sleeper
}

// NewHTTPClient 创建一个新的 HTTP 客户端
func NewHTTPClient(cfg HTTPClientConfig, logger *zap.Logger) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60), 1)
	}

	// resty 自带的重试带 jitter，这里关闭，由 GetWithRetry 负责
	restyClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
			limiterCtx, cancel := context.WithTimeout(r.Context(), cfg.Timeout)
			defer cancel()

			if err := limiter.Wait(limiterCtx); err != nil {
				logger.Warn("Rate limiter wait failed", zap.Error(err))
				return err
			}
			if cfg.UserAgent != "" && r.Header.Get("User-Agent") == "" {
				r.SetHeader("User-Agent", cfg.UserAgent)
			}
			for k, v := range cfg.Headers {
				if r.Header.Get(k) == "" {
					r.SetHeader(k, v)
				}
			}
			logger.Debug("Outgoing request", zap.String("url", r.URL))
			return nil
		}).
		AddResponseMiddleware(func(c *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() >= 400 {
				logger.Warn("HTTP request failed",
					zap.Int("status", resp.StatusCode()),
					zap.String("url", resp.Request.URL),
				)
			}
			return nil
		})

	return &HTTPClient{
		client:  restyClient,
		logger:  logger,
		limiter: limiter,
		retry:   RetryPolicy{MaxAttempts: cfg.MaxRetries, BaseDelay: cfg.RetryDelay},
		sleep:   contextSleep,
	}
}

// Get 发起 GET 请求，成功时将 JSON 响应体解析到 out
func (c *HTTPClient) Get(ctx context.Context, url string, queryParams map[string]string, headers map[string]string, out interface{}) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(queryParams).
		SetResult(out)

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(url)
	if err != nil {
		c.logger.Debug("HTTP GET request failed", zap.String("url", url), zap.Error(err))
		return err
	}

	if resp.StatusCode() >= 400 {
		return &HTTPError{Code: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}

	return nil
}

func (c *HTTPClient) PostJSON(ctx context.Context, url string, body interface{}, headers map[string]string, out interface{}) error {
	req := c.client.R().
		SetContext(ctx).
		SetResult(out)

	if body != nil {
		req.SetBody(body)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}
	req.SetHeader("Content-Type", "application/json")

	resp, err := req.Post(url)
	if err != nil {
		c.logger.Error("HTTP POST JSON request failed", zap.String("url", url), zap.Error(err))
		return err
	}

	if resp.StatusCode() >= 400 {
		return &HTTPError{Code: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}

	return nil
}

// HTTPError 非 2xx 响应
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, e.Message)
}
