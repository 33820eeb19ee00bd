package provider

import (
	"context"
	"fmt"
	"net/url"

	"token-report/internal/reporter/config"
	"token-report/internal/reporter/model"
	"token-report/pkg/httpclient"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RugCheck struct {
	baseURL string
	http    Fetcher
	tl      *zap.Logger
}

func NewRugCheck(cfg config.UpstreamConfig, retry config.RetryConfig, tl *zap.Logger) *RugCheck {
	httpClient := httpclient.NewHTTPClient(httpclient.HTTPClientConfig{
		Timeout:    cfg.Timeout,
		RateLimit:  cfg.RateLimit,
		MaxRetries: retry.MaxAttempts,
		RetryDelay: retry.BaseDelay,
		Headers:    map[string]string{"Accept": "application/json"},
	}, tl)
	return NewRugCheckWithFetcher(cfg.BaseURL, httpClient, tl)
}

func NewRugCheckWithFetcher(baseURL string, f Fetcher, tl *zap.Logger) *RugCheck {
	return &RugCheck{baseURL: baseURL, http: f, tl: tl}
}

type summaryResponse struct {
	Score *decimal.Decimal    `json:"score"`
	Risks []model.RiskFinding `json:"risks"`
}

// FetchSummary 查询 rug 风险摘要，score 缺失视为无数据
func (r *RugCheck) FetchSummary(ctx context.Context, token string) (model.RugRisk, error) {
	endpoint := fmt.Sprintf("%s/v1/tokens/%s/report/summary", r.baseURL, url.PathEscape(token))
	r.tl.Debug("Fetching rugcheck summary", zap.String("url", endpoint))

	var resp summaryResponse
	if err := r.http.GetWithRetry(ctx, endpoint, nil, &resp); err != nil {
		return model.RugRisk{}, err
	}
	if resp.Score == nil {
		return model.RugRisk{}, fmt.Errorf("%w: rugcheck summary for %s", ErrNoDataAvailable, token)
	}
	risks := resp.Risks
	if risks == nil {
		risks = []model.RiskFinding{}
	}
	return model.RugRisk{Score: *resp.Score, Risks: risks}, nil
}
