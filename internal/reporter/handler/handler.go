package handler

import (
	"context"
	"net/http"
	"time"

	"token-report/internal/reporter/assistant"
	"token-report/internal/reporter/model"
	"token-report/internal/reporter/service"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

type ChatReplier interface {
	CreateSession(ctx context.Context) (string, error)
	Reply(ctx context.Context, sessionID, message string) (assistant.Message, error)
}

type ReportRenderer interface {
	Render(ctx context.Context, token string, format service.Format) (interface{}, error)
}

type PriceReader interface {
	Get(ctx context.Context) (model.ReferencePrices, bool)
}

// Handler HTTP 接口，按路由分派到聊天、报告和价格
type Handler struct {
	chat    ChatReplier
	reports ReportRenderer
	prices  PriceReader
	tl      *zap.Logger

	// 单个请求的处理时限，须短于 http.Server 的 WriteTimeout，0 表示不限
	requestTimeout time.Duration
}

func New(chat ChatReplier, reports ReportRenderer, prices PriceReader, tl *zap.Logger) *Handler {
	return &Handler{chat: chat, reports: reports, prices: prices, tl: tl}
}

// withDeadline 为请求处理加上 requestTimeout
func (h *Handler) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// Routes 注册全部路由
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/create", h.createSession)
	mux.HandleFunc("POST /api/chat", h.chatMessage)
	mux.HandleFunc("GET /api/chat", h.chatMethodNotAllowed)
	mux.HandleFunc("GET /api/token/{address}/report", h.tokenReport)
	mux.HandleFunc("GET /api/prices", h.referencePrices)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := sonic.Marshal(data)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
