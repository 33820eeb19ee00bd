package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"token-report/internal/reporter/cache"
	"token-report/internal/reporter/config"
	"token-report/internal/reporter/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestScheduler_RunsImmediatelyAndPeriodically(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	var runs int32
	s.Register("tick", 20*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&runs) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&runs); got < 3 {
		t.Fatalf("runs = %d, want at least 3", got)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(stopCtx)

	after := atomic.LoadInt32(&runs)
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != after {
		t.Errorf("job ran after Stop: %d -> %d", after, got)
	}
}

func TestScheduler_JobErrorDoesNotStopLoop(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	var runs int32
	s.Register("failing", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("boom")
	})
	s.Start(context.Background())
	defer s.Stop(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&runs) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&runs); got < 2 {
		t.Errorf("runs = %d, want at least 2", got)
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	s.Stop(context.Background())
}

type fakePriceSource struct {
	prices model.ReferencePrices
	err    error
	assets map[string]string
}

func (f *fakePriceSource) FetchReferencePrices(ctx context.Context, assets map[string]string) (model.ReferencePrices, error) {
	f.assets = assets
	return f.prices, f.err
}

func TestPriceRefresh_StoresPrices(t *testing.T) {
	source := &fakePriceSource{prices: model.ReferencePrices{
		Prices:    map[string]decimal.Decimal{"solana": decimal.RequireFromString("150.25")},
		UpdatedAt: time.Now(),
	}}
	prices := cache.NewPriceCache(zap.NewNop(), nil)
	cfg := config.PricesConfig{Assets: map[string]string{"solana": "So11111111111111111111111111111111111111112"}}

	j := NewPriceRefresh(cfg, source, prices, zap.NewNop())
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if source.assets["solana"] == "" {
		t.Errorf("assets not forwarded: %v", source.assets)
	}
	got, ok := prices.Get(context.Background())
	if !ok || !got.Prices["solana"].Equal(decimal.RequireFromString("150.25")) {
		t.Errorf("cached prices = %+v, %v", got, ok)
	}
}

func TestPriceRefresh_KeepsPreviousOnError(t *testing.T) {
	prices := cache.NewPriceCache(zap.NewNop(), nil)
	prev := model.ReferencePrices{Prices: map[string]decimal.Decimal{"solana": decimal.NewFromInt(100)}}
	prices.Set(context.Background(), prev)

	source := &fakePriceSource{err: errors.New("upstream down")}
	cfg := config.PricesConfig{Assets: map[string]string{"solana": "x"}}
	j := NewPriceRefresh(cfg, source, prices, zap.NewNop())
	if err := j.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	got, ok := prices.Get(context.Background())
	if !ok || !got.Prices["solana"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("previous prices lost: %+v", got)
	}
}
