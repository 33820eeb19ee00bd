package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"token-report/internal/reporter/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testToken = "A8LCx85weSxU4ubQS16twdSdYphbAEDdMd9GkZq5pump"

func TestGetOrLoadCachesByToken(t *testing.T) {
	c := NewReportCache(zap.NewNop(), nil, time.Minute)
	var calls int32
	loader := func(ctx context.Context) (*model.TokenReport, error) {
		atomic.AddInt32(&calls, 1)
		return &model.TokenReport{TokenAddress: testToken}, nil
	}

	first, source, err := c.GetOrLoad(context.Background(), testToken, loader)
	if err != nil || source != SourceLoaded || first.TokenAddress != testToken {
		t.Fatalf("first GetOrLoad = %+v, %v, %v", first, source, err)
	}
	second, source, err := c.GetOrLoad(context.Background(), testToken, loader)
	if err != nil || source != SourceHit || second != first {
		t.Fatalf("second GetOrLoad = %+v, %v, %v", second, source, err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}

	c.Invalidate(context.Background(), testToken)
	if _, ok := c.Get(context.Background(), testToken); ok {
		t.Error("report still cached after Invalidate")
	}
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := NewReportCache(zap.NewNop(), nil, time.Minute)
	boom := errors.New("boom")

	_, _, err := c.GetOrLoad(context.Background(), testToken, func(ctx context.Context) (*model.TokenReport, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, ok := c.Get(context.Background(), testToken); ok {
		t.Error("failed load must not be cached")
	}
}

func TestGetOrLoadSharesConcurrentLoads(t *testing.T) {
	c := NewReportCache(zap.NewNop(), nil, time.Minute)
	var calls int32
	release := make(chan struct{})
	loader := func(ctx context.Context) (*model.TokenReport, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &model.TokenReport{TokenAddress: testToken}, nil
	}

	const callers = 5
	sources := make(chan Source, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, source, err := c.GetOrLoad(context.Background(), testToken, loader)
			if err != nil {
				t.Errorf("GetOrLoad failed: %v", err)
			}
			sources <- source
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(sources)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	counts := map[Source]int{}
	for s := range sources {
		counts[s]++
	}
	if counts[SourceLoaded] != 1 || counts[SourceShared] != callers-1 {
		t.Errorf("sources = %v, want 1 miss and %d shared", counts, callers-1)
	}
}

func TestGetOrLoadSurvivesFirstCallerCancel(t *testing.T) {
	c := NewReportCache(zap.NewNop(), nil, time.Minute)
	started := make(chan struct{})
	loader := func(ctx context.Context) (*model.TokenReport, error) {
		close(started)
		select {
		case <-time.After(100 * time.Millisecond):
			return &model.TokenReport{TokenAddress: testToken}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrLoad(firstCtx, testToken, loader)
		firstErr <- err
	}()
	<-started

	secondDone := make(chan error, 1)
	var second *model.TokenReport
	go func() {
		var err error
		second, _, err = c.GetOrLoad(context.Background(), testToken, loader)
		secondDone <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller err = %v, want context.Canceled", err)
	}
	if err := <-secondDone; err != nil {
		t.Fatalf("second caller failed after first caller cancelled: %v", err)
	}
	if second == nil || second.TokenAddress != testToken {
		t.Errorf("second report = %+v", second)
	}
	if _, ok := c.Get(context.Background(), testToken); !ok {
		t.Error("report built after first caller left was not cached")
	}
}

func TestGetOrLoadStopsWaitingOnOwnContext(t *testing.T) {
	c := NewReportCache(zap.NewNop(), nil, time.Minute)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, _, err := c.GetOrLoad(ctx, testToken, func(ctx context.Context) (*model.TokenReport, error) {
		<-release
		return &model.TokenReport{TokenAddress: testToken}, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("caller waited %v for a load it gave up on", elapsed)
	}
}

func TestPriceCache(t *testing.T) {
	c := NewPriceCache(zap.NewNop(), nil)
	if _, ok := c.Get(context.Background()); ok {
		t.Fatal("empty cache returned prices")
	}

	c.Set(context.Background(), model.ReferencePrices{
		Prices: map[string]decimal.Decimal{"solana": decimal.NewFromInt(150)},
	})
	got, ok := c.Get(context.Background())
	if !ok || !got.Prices["solana"].Equal(decimal.NewFromInt(150)) {
		t.Errorf("Get = %+v, %v", got, ok)
	}
}
