package handler

import (
	"net/http"

	"token-report/internal/reporter/service"
	"token-report/pkg/logger"
	"token-report/pkg/utils"

	"go.uber.org/zap"
)

func (h *Handler) tokenReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := logger.StartSpanWithRequest(r, "handler", "tokenReport")
	defer span.End()

	address := r.PathValue("address")
	if !utils.IsTokenAddress(address) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid token address"})
		return
	}
	format, err := service.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()
	out, err := h.reports.Render(ctx, address, format)
	if err != nil {
		logger.FailSpan(span, err)
		logger.NewLoggerWithTrace(ctx, h.tl).Warn("Token report failed",
			zap.String("token", address), zap.String("format", string(format)), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": service.UnavailableMessage})
		return
	}

	if text, ok := out.(string); ok {
		writeJSON(w, http.StatusOK, map[string]string{"format": string(format), "report": text})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) referencePrices(w http.ResponseWriter, r *http.Request) {
	prices, ok := h.prices.Get(r.Context())
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "prices not available yet"})
		return
	}
	writeJSON(w, http.StatusOK, prices)
}
