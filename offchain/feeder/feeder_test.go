package feeder

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/math"
)

func TestQuoteBufferFlushBatch(t *testing.T) {
	buffer := NewQuoteBuffer(2)

	for i := 0; i < 5; i++ {
		buffer.Add(NewQuote("pyth", "wsol", math.LegacyNewDec(150)))
	}

	batch := buffer.FlushBatch()
	if len(batch) != 2 {
		t.Errorf("expected batch of 2, got %d", len(batch))
	}
	if buffer.Len() != 3 {
		t.Errorf("expected 3 quotes remaining, got %d", buffer.Len())
	}

	rest := buffer.Flush()
	if len(rest) != 3 {
		t.Errorf("expected flush of 3, got %d", len(rest))
	}
	if buffer.Len() != 0 {
		t.Errorf("expected empty buffer, got %d", buffer.Len())
	}
}

func TestQuoteCacheLatestWins(t *testing.T) {
	cache := NewQuoteCache()

	first := NewQuote("pyth", "wsol", math.LegacyNewDec(150))
	second := NewQuote("pyth", "wsol", math.LegacyNewDec(151))
	cache.Set(first)
	cache.Set(second)

	got, ok := cache.Get("pyth", "wsol")
	if !ok {
		t.Fatal("expected cached quote")
	}
	if !got.Price.Equal(second.Price) {
		t.Errorf("expected latest price %s, got %s", second.Price, got.Price)
	}
	if cache.Len() != 1 {
		t.Errorf("expected single cache slot, got %d", cache.Len())
	}
}

func TestSyntheticSourceDriftBounds(t *testing.T) {
	reference := map[string]math.LegacyDec{"wsol": math.LegacyNewDec(150)}
	source := NewSyntheticSource("pyth", reference, 10)

	prev := math.LegacyNewDec(150)
	for i := 0; i < 50; i++ {
		prices, err := source.Fetch(context.Background(), []string{"wsol"})
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		price, ok := prices["wsol"]
		if !ok {
			t.Fatal("expected wsol price")
		}

		// One step moves at most 10 bps either way
		lo := prev.Mul(math.LegacyNewDecWithPrec(9990, 4))
		hi := prev.Mul(math.LegacyNewDecWithPrec(10010, 4))
		if price.LT(lo) || price.GT(hi) {
			t.Errorf("step %d: price %s outside [%s, %s]", i, price, lo, hi)
		}
		prev = price
	}
}

func TestSyntheticSourceSkipsUnknownDenoms(t *testing.T) {
	source := NewSyntheticSource("pyth", map[string]math.LegacyDec{"usdc": math.LegacyOneDec()}, 10)

	prices, err := source.Fetch(context.Background(), []string{"usdc", "unknown"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(prices) != 1 {
		t.Errorf("expected 1 price, got %d", len(prices))
	}
	if _, ok := prices["unknown"]; ok {
		t.Error("unknown denom should not be priced")
	}
}

func TestFeederSubmitsQuotes(t *testing.T) {
	submitter := NewMockSubmitter()
	source := NewSyntheticSource("pyth", map[string]math.LegacyDec{"usdc": math.LegacyOneDec()}, 10)

	config := &Config{
		Denoms:        []string{"usdc"},
		PollInterval:  10 * time.Millisecond,
		FlushInterval: 10 * time.Millisecond,
		BatchSize:     10,
	}
	f := NewPriceFeeder(config, []Source{source}, submitter)

	if err := f.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if err := f.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	quotes := submitter.GetSubmittedQuotes()
	if len(quotes) == 0 {
		t.Fatal("expected submitted quotes")
	}
	for _, q := range quotes {
		if q.SourceID != "pyth" || q.Denom != "usdc" {
			t.Errorf("unexpected quote %s", q.Key())
		}
	}

	stats := f.GetStats()
	if stats.Submitted == 0 {
		t.Error("expected nonzero submitted count")
	}
}

func TestFeederStartValidation(t *testing.T) {
	f := NewPriceFeeder(nil, nil, NewMockSubmitter())
	if err := f.Start(context.Background()); err == nil {
		t.Error("expected error with no sources")
	}
}

func TestMockSubmitterFailure(t *testing.T) {
	submitter := NewMockSubmitter()
	submitter.SetSimulateFailure(true)

	err := submitter.SubmitQuotes(context.Background(), []*Quote{
		NewQuote("pyth", "usdc", math.LegacyOneDec()),
	})
	if err == nil {
		t.Fatal("expected simulated failure")
	}

	status := submitter.GetStatus()
	if status.FailedSubmissions != 1 {
		t.Errorf("expected 1 failed submission, got %d", status.FailedSubmissions)
	}
}
