package service

import (
	"context"
	"errors"

	"token-report/internal/reporter/assistant"
	"token-report/internal/reporter/provider"
	"token-report/pkg/utils"

	"go.uber.org/zap"
)

const fallbackReply = "I didn't understand that."

// SessionClient AI 会话接口
type SessionClient interface {
	CreateSession(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, sessionID, query string) (assistant.Message, error)
}

// ChatService 消息中带 token 地址时回复短报告加 AI 点评，否则直接转发给 AI
type ChatService struct {
	reports  *ReportService
	sessions SessionClient
	reviewer *assistant.Reviewer
	tl       *zap.Logger
}

func NewChatService(reports *ReportService, sessions SessionClient, tl *zap.Logger) *ChatService {
	return &ChatService{
		reports:  reports,
		sessions: sessions,
		reviewer: assistant.NewReviewer(sessions),
		tl:       tl,
	}
}

func (c *ChatService) CreateSession(ctx context.Context) (string, error) {
	return c.sessions.CreateSession(ctx)
}

func (c *ChatService) Reply(ctx context.Context, sessionID, message string) (assistant.Message, error) {
	token, ok := utils.ExtractTokenAddress(message)
	if !ok {
		reply, err := c.sessions.SendMessage(ctx, sessionID, message)
		if err != nil {
			return assistant.Message{}, err
		}
		if reply.Message == "" {
			reply.Message = fallbackReply
		}
		return reply, nil
	}

	c.tl.Info("Token address found in chat message", zap.String("token", token))
	report, err := c.reports.Report(ctx, token)
	if err != nil {
		return assistant.Message{}, err
	}

	f := c.reports.Formatter()
	compact, err := f.Compact(report)
	if err != nil {
		if !errors.Is(err, provider.ErrNoPairsFound) {
			return assistant.Message{}, err
		}
		compact = UnavailableMessage
	}

	review, err := c.reviewer.Review(ctx, sessionID, f.Object(report))
	if err != nil {
		return assistant.Message{}, err
	}
	return assistant.Message{Message: compact + "\n" + review.Message, MessageAt: review.MessageAt}, nil
}
