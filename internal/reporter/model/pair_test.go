package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func pair(name string, liquidity, cap int64) DexPair {
	return DexPair{
		PairAddress:  name,
		LiquidityUSD: decimal.NewFromInt(liquidity),
		MarketCap:    decimal.NewFromInt(cap),
	}
}

func TestPrimaryPair(t *testing.T) {
	pairs := DexPairs{Pairs: []DexPair{pair("A", 100, 50), pair("B", 200, 10), pair("C", 200, 90)}}

	got, ok := pairs.Primary()
	if !ok || got.PairAddress != "C" {
		t.Fatalf("Primary() = %q, %v; want C", got.PairAddress, ok)
	}
	if pairs.Pairs[0].PairAddress != "A" {
		t.Errorf("Primary reordered pairs")
	}
}

func TestPrimaryPairEmpty(t *testing.T) {
	if _, ok := (DexPairs{}).Primary(); ok {
		t.Error("expected no primary pair")
	}
}

func TestListedAndPaid(t *testing.T) {
	pairs := DexPairs{Pairs: []DexPair{pair("A", 1, 1)}}
	if !pairs.Listed() || pairs.Paid() {
		t.Errorf("Listed/Paid = %v/%v", pairs.Listed(), pairs.Paid())
	}
	pairs.Pairs = append(pairs.Pairs, DexPair{BoostsActive: 2})
	if !pairs.Paid() {
		t.Error("expected paid listing")
	}
}
