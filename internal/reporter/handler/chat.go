package handler

import (
	"io"
	"net/http"
	"strings"

	"token-report/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := logger.StartSpanWithRequest(r, "handler", "createSession")
	defer span.End()

	sessionID, err := h.chat.CreateSession(ctx)
	if err != nil {
		logger.FailSpan(span, err)
		h.tl.Warn("Failed to create chat session", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "An error occured"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (h *Handler) chatMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := logger.StartSpanWithRequest(r, "handler", "chatMessage")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	var req chatRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" || req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message and sessionId are required"})
		return
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()
	reply, err := h.chat.Reply(ctx, req.SessionID, req.Message)
	if err != nil {
		logger.FailSpan(span, err)
		logger.NewLoggerWithTrace(ctx, h.tl).Error("Chat reply failed", zap.String("session", req.SessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate a response."})
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *Handler) chatMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "This endpoint only accepts POST requests."})
}
