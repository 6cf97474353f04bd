package feeder

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/math"
)

// Source produces price observations for a set of denoms
type Source interface {
	// ID returns the oracle source identifier the pool knows this source by
	ID() string

	// Fetch returns the current price per denom
	Fetch(ctx context.Context, denoms []string) (map[string]math.LegacyDec, error)
}

// Config holds feeder configuration
type Config struct {
	Denoms        []string
	PollInterval  time.Duration
	FlushInterval time.Duration
	BatchSize     int
}

// DefaultConfig returns the default feeder configuration
func DefaultConfig() *Config {
	return &Config{
		Denoms:        []string{"usdc", "wsol"},
		PollInterval:  2 * time.Second,
		FlushInterval: 500 * time.Millisecond,
		BatchSize:     100,
	}
}

// PriceFeeder polls oracle sources and forwards fresh quotes to the pool.
// Quotes are cached per source and buffered so that a slow submitter never
// blocks polling.
type PriceFeeder struct {
	config    *Config
	sources   []Source
	submitter PriceSubmitter

	cache  *QuoteCache
	buffer *QuoteBuffer

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex

	polls       int64
	pollErrors  int64
	submitted   int64
	submitFails int64
}

// Stats holds feeder runtime statistics
type Stats struct {
	Polls       int64
	PollErrors  int64
	Submitted   int64
	SubmitFails int64
	CacheSize   int
	BufferSize  int
}

// NewPriceFeeder creates a new price feeder
func NewPriceFeeder(config *Config, sources []Source, submitter PriceSubmitter) *PriceFeeder {
	if config == nil {
		config = DefaultConfig()
	}

	return &PriceFeeder{
		config:    config,
		sources:   sources,
		submitter: submitter,
		cache:     NewQuoteCache(),
		buffer:    NewQuoteBuffer(config.BatchSize),
	}
}

// Start launches the poll and flush loops
func (f *PriceFeeder) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started {
		return fmt.Errorf("feeder already started")
	}
	if len(f.sources) == 0 {
		return fmt.Errorf("no price sources configured")
	}

	ctx, f.cancel = context.WithCancel(ctx)
	f.started = true

	f.wg.Add(2)
	go f.pollLoop(ctx)
	go f.flushLoop(ctx)

	log.Printf("Price feeder started: %d sources, %d denoms", len(f.sources), len(f.config.Denoms))
	return nil
}

// Stop stops the feeder and waits for loops to drain
func (f *PriceFeeder) Stop() error {
	f.mu.Lock()
	if !f.started {
		f.mu.Unlock()
		return nil
	}
	f.cancel()
	f.started = false
	f.mu.Unlock()

	f.wg.Wait()
	return nil
}

func (f *PriceFeeder) pollLoop(ctx context.Context) {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.pollOnce(ctx)
		}
	}
}

func (f *PriceFeeder) pollOnce(ctx context.Context) {
	for _, source := range f.sources {
		f.mu.Lock()
		f.polls++
		f.mu.Unlock()

		prices, err := source.Fetch(ctx, f.config.Denoms)
		if err != nil {
			f.mu.Lock()
			f.pollErrors++
			f.mu.Unlock()
			log.Printf("Source %s fetch failed: %v", source.ID(), err)
			continue
		}

		for denom, price := range prices {
			quote := NewQuote(source.ID(), denom, price)
			f.cache.Set(quote)
			f.buffer.Add(quote)
		}
	}
}

func (f *PriceFeeder) flushLoop(ctx context.Context) {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final drain so buffered quotes are not lost on shutdown
			f.flushOnce(context.Background())
			return
		case <-ticker.C:
			f.flushOnce(ctx)
		}
	}
}

func (f *PriceFeeder) flushOnce(ctx context.Context) {
	batch := f.buffer.FlushBatch()
	if len(batch) == 0 {
		return
	}

	if err := f.submitter.SubmitQuotes(ctx, batch); err != nil {
		f.mu.Lock()
		f.submitFails += int64(len(batch))
		f.mu.Unlock()
		log.Printf("Quote submission failed: %v", err)
		return
	}

	f.mu.Lock()
	f.submitted += int64(len(batch))
	f.mu.Unlock()
}

// GetStats returns current feeder statistics
func (f *PriceFeeder) GetStats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Stats{
		Polls:       f.polls,
		PollErrors:  f.pollErrors,
		Submitted:   f.submitted,
		SubmitFails: f.submitFails,
		CacheSize:   f.cache.Len(),
		BufferSize:  f.buffer.Len(),
	}
}

// GetLatestQuote returns the cached quote for a source and denom
func (f *PriceFeeder) GetLatestQuote(sourceID, denom string) (*Quote, bool) {
	return f.cache.Get(sourceID, denom)
}

// ============ Sources ============

// SyntheticSource generates a random walk around reference prices. Used for
// local development where no external feed is available.
type SyntheticSource struct {
	id     string
	prices map[string]math.LegacyDec
	// Per-step drift bound in basis points
	driftBps int64
	rng      *rand.Rand
	mu       sync.Mutex
}

// NewSyntheticSource creates a synthetic source seeded with reference prices
func NewSyntheticSource(id string, reference map[string]math.LegacyDec, driftBps int64) *SyntheticSource {
	prices := make(map[string]math.LegacyDec, len(reference))
	for denom, price := range reference {
		prices[denom] = price
	}
	if driftBps <= 0 {
		driftBps = 10
	}
	return &SyntheticSource{
		id:       id,
		prices:   prices,
		driftBps: driftBps,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ID returns the source identifier
func (s *SyntheticSource) ID() string {
	return s.id
}

// Fetch advances the walk one step and returns the new prices
func (s *SyntheticSource) Fetch(ctx context.Context, denoms []string) (map[string]math.LegacyDec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]math.LegacyDec, len(denoms))
	for _, denom := range denoms {
		price, ok := s.prices[denom]
		if !ok {
			continue
		}
		// Drift in [-driftBps, +driftBps]
		bps := s.rng.Int63n(2*s.driftBps+1) - s.driftBps
		factor := math.LegacyOneDec().Add(math.LegacyNewDec(bps).Quo(math.LegacyNewDec(10000)))
		price = price.Mul(factor)
		s.prices[denom] = price
		out[denom] = price
	}
	return out, nil
}

// HTTPSource fetches prices from an endpoint returning a JSON object that
// maps denom to decimal price string.
type HTTPSource struct {
	id     string
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTP price source
func NewHTTPSource(id, url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		id:     id,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// ID returns the source identifier
func (s *HTTPSource) ID() string {
	return s.id
}

// Fetch pulls the full price map and filters it to the requested denoms
func (s *HTTPSource) Fetch(ctx context.Context, denoms []string) (map[string]math.LegacyDec, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price source returned %d", resp.StatusCode)
	}

	var raw map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode price payload: %w", err)
	}

	out := make(map[string]math.LegacyDec, len(denoms))
	for _, denom := range denoms {
		str, ok := raw[denom]
		if !ok {
			continue
		}
		price, err := math.LegacyNewDecFromStr(str)
		if err != nil {
			return nil, fmt.Errorf("source %s denom %s: %w", s.id, denom, err)
		}
		out[denom] = price
	}
	return out, nil
}
