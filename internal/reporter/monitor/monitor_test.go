package monitor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"token-report/internal/reporter/config"

	"go.uber.org/zap"
)

func TestOpsHandler(t *testing.T) {
	AggregationTotal.WithLabelValues("success").Inc()

	srv := httptest.NewServer(OpsHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "token_report_aggregation_total") {
		t.Errorf("aggregation counter not exported")
	}
}

func TestMetricsServerDisabled(t *testing.T) {
	s := NewMetricsServer(config.MonitorConfig{Enable: false}, zap.NewNop())
	s.Run()
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop on disabled server: %v", err)
	}
}
