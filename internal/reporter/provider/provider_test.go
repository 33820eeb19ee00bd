package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"token-report/internal/reporter/config"
	"token-report/internal/reporter/model"
	"token-report/pkg/httpclient"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testToken = "A8LCx85weSxU4ubQS16twdSdYphbAEDdMd9GkZq5pump"

var testRetry = config.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}

func jsonServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestBirdeye(url string) *Birdeye {
	return NewBirdeye(config.BirdeyeConfig{
		BaseURL: url,
		APIKey:  "test-key",
		Chain:   "solana",
		Timeout: time.Second,
	}, testRetry, zap.NewNop())
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFetchSecurityScalesPercentages(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		securityPath: `{"success":true,"data":{"ownerBalance":"100","creatorBalance":5,"ownerPercentage":0.123,` +
			`"creatorPercentage":null,"top10UserBalance":1000,"top10UserPercent":0.4567,"totalSupply":1000000}}`,
	})

	sec, err := newTestBirdeye(srv.URL).FetchSecurity(context.Background(), testToken)
	if err != nil {
		t.Fatalf("FetchSecurity failed: %v", err)
	}
	if !sec.OwnerPercentage.Equal(mustDec(t, "12.3")) {
		t.Errorf("OwnerPercentage = %s, want 12.3", sec.OwnerPercentage)
	}
	if !sec.Top10HolderPercent.Equal(mustDec(t, "45.67")) {
		t.Errorf("Top10HolderPercent = %s, want 45.67", sec.Top10HolderPercent)
	}
	if !sec.CreatorPercentage.IsZero() {
		t.Errorf("CreatorPercentage = %s, want 0", sec.CreatorPercentage)
	}
	if !sec.TotalSupply.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("TotalSupply = %s", sec.TotalSupply)
	}
}

func TestFetchSecurityNoData(t *testing.T) {
	srv := jsonServer(t, map[string]string{securityPath: `{"success":false,"data":null}`})

	_, err := newTestBirdeye(srv.URL).FetchSecurity(context.Background(), testToken)
	if !errors.Is(err, ErrNoDataAvailable) {
		t.Fatalf("err = %v, want ErrNoDataAvailable", err)
	}
}

func TestFetchTradeStatsNormalizesWindows(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		tradeDataPath: `{"success":true,"data":{"address":"` + testToken + `","holder":1234,"market":3,` +
			`"price":0.5,"unique_wallet_30m_change_percent":12,"unique_wallet_1h_change_percent":null,` +
			`"unique_wallet_24h":250,"volume_24h_usd":"2500.5","price_change_12h_percent":-3.25}}`,
	})

	stats, err := newTestBirdeye(srv.URL).FetchTradeStats(context.Background(), testToken)
	if err != nil {
		t.Fatalf("FetchTradeStats failed: %v", err)
	}
	if stats.Holder != 1234 || stats.Market != 3 || stats.Address != testToken {
		t.Errorf("unexpected header fields: %+v", stats)
	}
	if !stats.Price.Equal(mustDec(t, "0.5")) {
		t.Errorf("Price = %s", stats.Price)
	}
	if len(stats.Windows) != len(model.Windows) {
		t.Errorf("windows = %d, want %d", len(stats.Windows), len(model.Windows))
	}
	if c := stats.Window(model.Window30m).UniqueWalletChangePercent; c == nil || !c.Equal(decimal.NewFromInt(12)) {
		t.Errorf("30m unique wallet change = %v", c)
	}
	if c := stats.Window(model.Window1h).UniqueWalletChangePercent; c != nil {
		t.Errorf("1h unique wallet change = %v, want nil", c)
	}
	if !stats.VolumeUSD(model.Window24h).Equal(mustDec(t, "2500.5")) {
		t.Errorf("24h volume = %s", stats.VolumeUSD(model.Window24h))
	}
	if !stats.PriceChange(model.Window12h).Equal(mustDec(t, "-3.25")) {
		t.Errorf("12h price change = %s", stats.PriceChange(model.Window12h))
	}
}

func TestFetchHolders(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		holderPath: `{"success":true,"data":{"items":[{"owner":"w1","ui_amount":10},{"owner":"w2","ui_amount":"8.5"}]}}`,
	})

	holders, err := newTestBirdeye(srv.URL).FetchHolders(context.Background(), testToken)
	if err != nil {
		t.Fatalf("FetchHolders failed: %v", err)
	}
	if len(holders) != 2 || holders[1].Address != "w2" || !holders[1].Balance.Equal(mustDec(t, "8.5")) {
		t.Errorf("holders = %+v", holders)
	}
}

func TestFetchHoldersMissingItems(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		holderPath: `{"success":true,"data":{"total":0}}`,
	})

	_, err := newTestBirdeye(srv.URL).FetchHolders(context.Background(), testToken)
	if !errors.Is(err, ErrNoDataAvailable) {
		t.Fatalf("err = %v, want ErrNoDataAvailable", err)
	}
}

func TestFetchHoldersEmptyItems(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		holderPath: `{"success":true,"data":{"items":[]}}`,
	})

	holders, err := newTestBirdeye(srv.URL).FetchHolders(context.Background(), testToken)
	if err != nil || len(holders) != 0 {
		t.Fatalf("FetchHolders = %v, %v; want empty list", holders, err)
	}
}

func TestBirdeyeUpstreamUnavailable(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestBirdeye(srv.URL).FetchHolders(context.Background(), testToken)
	if !errors.Is(err, httpclient.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestFetchReferencePrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("address") {
		case "sol":
			_, _ = w.Write([]byte(`{"success":true,"data":{"value":142.17,"updateUnixTime":1}}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"data":{"value":null}}`))
		}
	}))
	defer srv.Close()

	prices, err := newTestBirdeye(srv.URL).FetchReferencePrices(context.Background(), map[string]string{
		"solana":  "sol",
		"bitcoin": "btc",
	})
	if err != nil {
		t.Fatalf("FetchReferencePrices failed: %v", err)
	}
	if !prices.Prices["solana"].Equal(mustDec(t, "142.17")) {
		t.Errorf("solana = %s", prices.Prices["solana"])
	}
	if p, ok := prices.Prices["bitcoin"]; !ok || !p.IsZero() {
		t.Errorf("bitcoin = %s, %v; want 0", p, ok)
	}
}

func newTestDexScreener(url string) *DexScreener {
	return NewDexScreener(config.UpstreamConfig{BaseURL: url, Timeout: time.Second}, testRetry, zap.NewNop())
}

func TestFetchPairs(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		searchPath: `{"schemaVersion":"1.0.0","pairs":[` +
			`{"chainId":"solana","dexId":"raydium","url":"https://dexscreener.com/solana/p1","pairAddress":"p1",` +
			`"baseToken":{"address":"` + testToken + `","name":"Test","symbol":"TST"},` +
			`"quoteToken":{"address":"So11111111111111111111111111111111111111112","name":"Wrapped SOL","symbol":"SOL"},` +
			`"priceUsd":"0.001234","volume":{"h24":5000.5},"liquidity":{"usd":12000},"marketCap":350000,"boosts":{"active":10}},` +
			`{"chainId":"solana","dexId":"orca","pairAddress":"p2","priceUsd":"0.0012","volume":{"h24":1}}]}`,
	})

	pairs := newTestDexScreener(srv.URL).FetchPairs(context.Background(), testToken)
	if !pairs.Listed() || len(pairs.Pairs) != 2 {
		t.Fatalf("pairs = %+v", pairs)
	}
	first := pairs.Pairs[0]
	if first.BaseToken.Symbol != "TST" || !first.LiquidityUSD.Equal(decimal.NewFromInt(12000)) || first.BoostsActive != 10 {
		t.Errorf("first pair = %+v", first)
	}
	if !pairs.Paid() {
		t.Error("expected paid listing")
	}
	if second := pairs.Pairs[1]; !second.LiquidityUSD.IsZero() || second.Boosted() {
		t.Errorf("second pair = %+v", second)
	}
}

func TestFetchPairsDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	pairs := newTestDexScreener(srv.URL).FetchPairs(context.Background(), testToken)
	if pairs.Listed() || pairs.Pairs == nil || pairs.SchemaVersion != defaultSchemaVersion {
		t.Errorf("pairs = %+v, want explicit empty result", pairs)
	}

	missing := jsonServer(t, map[string]string{searchPath: `{"schemaVersion":"1.0.0","pairs":null}`})
	if pairs := newTestDexScreener(missing.URL).FetchPairs(context.Background(), testToken); pairs.Listed() {
		t.Errorf("pairs = %+v, want empty", pairs)
	}
}

func TestFetchSummary(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		"/v1/tokens/" + testToken + "/report/summary": `{"tokenProgram":"x","score":1234,"risks":[` +
			`{"name":"Low Liquidity","value":"$120","description":"Low amount of liquidity","score":1000,"level":"danger"}]}`,
	})

	risk, err := NewRugCheck(config.UpstreamConfig{BaseURL: srv.URL, Timeout: time.Second}, testRetry, zap.NewNop()).
		FetchSummary(context.Background(), testToken)
	if err != nil {
		t.Fatalf("FetchSummary failed: %v", err)
	}
	if !risk.Score.Equal(decimal.NewFromInt(1234)) || len(risk.Risks) != 1 || risk.Risks[0].Level != "danger" {
		t.Errorf("risk = %+v", risk)
	}
}

func TestFetchSummaryMissingScore(t *testing.T) {
	srv := jsonServer(t, map[string]string{"/v1/tokens/" + testToken + "/report/summary": `{}`})

	_, err := NewRugCheck(config.UpstreamConfig{BaseURL: srv.URL, Timeout: time.Second}, testRetry, zap.NewNop()).
		FetchSummary(context.Background(), testToken)
	if !errors.Is(err, ErrNoDataAvailable) {
		t.Fatalf("err = %v, want ErrNoDataAvailable", err)
	}
}
