package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"token-report/internal/reporter/assistant"
	"token-report/internal/reporter/model"

	"github.com/shopspring/decimal"
)

const testToken = "A8LCx85weSxU4ubQS16twdSdYphbAEDdMd9GkZq5pump"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type fakeTokens struct {
	securityErr error
	tradeErr    error
	holdersErr  error
	block       bool
	slowHolders bool
	holderCalls int32
}

func (f *fakeTokens) FetchSecurity(ctx context.Context, token string) (model.Security, error) {
	if f.block {
		<-ctx.Done()
		return model.Security{}, ctx.Err()
	}
	if f.securityErr != nil {
		return model.Security{}, f.securityErr
	}
	return model.Security{Top10HolderPercent: dec("40"), TotalSupply: dec("1000")}, nil
}

func (f *fakeTokens) FetchTradeStats(ctx context.Context, token string) (model.TradeStats, error) {
	if f.tradeErr != nil {
		return model.TradeStats{}, f.tradeErr
	}
	return model.TradeStats{
		Address: token,
		Holder:  4321,
		Price:   dec("0.60"),
		Windows: map[model.Window]model.WindowStats{
			model.Window30m: {UniqueWalletChangePercent: decPtr("30")},
			model.Window1h:  {PriceChangePercent: decPtr("1.5")},
			model.Window24h: {VolumeUSD: decPtr("2500"), UniqueWalletChangePercent: decPtr("10")},
		},
	}, nil
}

func (f *fakeTokens) FetchHolders(ctx context.Context, token string) ([]model.Holder, error) {
	atomic.AddInt32(&f.holderCalls, 1)
	if f.slowHolders {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if f.holdersErr != nil {
		return nil, f.holdersErr
	}
	return []model.Holder{
		{Address: "big", Balance: dec("100")},
		{Address: "mid", Balance: dec("10")},
		{Address: "small", Balance: dec("8")},
	}, nil
}

type fakePairs struct {
	pairs []model.DexPair
}

func (f *fakePairs) FetchPairs(ctx context.Context, token string) model.DexPairs {
	return model.DexPairs{SchemaVersion: "1.0.0", Pairs: f.pairs}
}

type fakeRisks struct {
	err error
}

func (f *fakeRisks) FetchSummary(ctx context.Context, token string) (model.RugRisk, error) {
	if f.err != nil {
		return model.RugRisk{}, f.err
	}
	return model.RugRisk{
		Score: dec("6000"),
		Risks: []model.RiskFinding{{Description: "Mutable metadata", Level: "warn"}},
	}, nil
}

func listedPair() model.DexPair {
	return model.DexPair{
		ChainID:      "solana",
		DexID:        "raydium",
		BaseToken:    model.PairToken{Name: "Test Token", Symbol: "TST"},
		LiquidityUSD: dec("25000"),
		MarketCap:    dec("400000"),
		BoostsActive: 1,
	}
}

type fakeSessions struct {
	mu      sync.Mutex
	queries []string
	reply   string
	err     error
}

func (f *fakeSessions) CreateSession(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "session-1", nil
}

func (f *fakeSessions) SendMessage(ctx context.Context, sessionID, query string) (assistant.Message, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return assistant.Message{}, f.err
	}
	return assistant.Message{Message: f.reply, MessageAt: "2024-01-01T00:00:00Z"}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []model.ReportEvent
}

func (s *recordingSink) Submit(e model.ReportEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}
