package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"token-report/internal/reporter/config"
	"token-report/pkg/httpclient"

	"go.uber.org/zap"
)

var ErrEmptySession = errors.New("assistant returned empty session id")

// Message 会话中的一条回复
type Message struct {
	Message   string `json:"message"`
	MessageAt string `json:"message_at"`
	IsUser    bool   `json:"is_user"`
}

// Client 对话式 AI 的会话接口，只支持创建会话和发送消息
type Client struct {
	baseURL    string
	httpClient *httpclient.HTTPClient
	tl         *zap.Logger
}

func NewClient(cfg config.AssistantConfig, tl *zap.Logger) *Client {
	httpClient := httpclient.NewHTTPClient(httpclient.HTTPClientConfig{
		Timeout: cfg.Timeout,
		Headers: map[string]string{"X-Api-Key": cfg.APIKey},
	}, tl)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tl:         tl,
	}
}

// CreateSession 返回新会话 id
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var sessionID string
	if err := c.httpClient.PostJSON(ctx, c.baseURL+"/session/create", nil, nil, &sessionID); err != nil {
		return "", fmt.Errorf("create assistant session: %w", err)
	}
	if sessionID == "" {
		return "", ErrEmptySession
	}
	return sessionID, nil
}

// SendMessage 向会话发送一条消息并返回回复
func (c *Client) SendMessage(ctx context.Context, sessionID, query string) (Message, error) {
	endpoint := fmt.Sprintf("%s/session/%s/chat", c.baseURL, url.PathEscape(sessionID))

	var reply Message
	if err := c.httpClient.PostJSON(ctx, endpoint, map[string]string{"query": query}, nil, &reply); err != nil {
		return Message{}, fmt.Errorf("send assistant message: %w", err)
	}
	return reply, nil
}
