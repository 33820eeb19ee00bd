package handler

import (
	"context"
	"net/http"
	"time"

	"token-report/internal/reporter/config"

	"go.uber.org/zap"
)

// Server 对外 HTTP 服务
type Server struct {
	tl     *zap.Logger
	server *http.Server
}

// 处理时限比写超时提前结束，保证超时也能写回错误响应
const writeMargin = 2 * time.Second

func requestBudget(writeTimeout time.Duration) time.Duration {
	if writeTimeout <= 0 {
		return 0
	}
	if writeTimeout <= 2*writeMargin {
		return writeTimeout / 2
	}
	return writeTimeout - writeMargin
}

func NewServer(cfg config.ServerConfig, h *Handler, tl *zap.Logger) *Server {
	h.requestTimeout = requestBudget(cfg.WriteTimeout)
	return &Server{
		tl: tl,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h.Routes(),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
		},
	}
}

func (s *Server) Run() {
	go func() {
		s.tl.Info("HTTP server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.tl.Error("HTTP server stopped", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
