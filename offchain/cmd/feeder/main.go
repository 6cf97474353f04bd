package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cosmossdk.io/math"

	"github.com/openalpha/liquidity-pool/offchain/feeder"
)

// Config holds the application configuration
type Config struct {
	Denoms        []string      `json:"denoms"`
	PollInterval  time.Duration `json:"poll_interval"`
	FlushInterval time.Duration `json:"flush_interval"`
	BatchSize     int           `json:"batch_size"`
	APIURL        string        `json:"api_url"`
	SubmitterType string        `json:"submitter_type"` // "mock" or "api"
	SourceURL     string        `json:"source_url"`     // external feed, synthetic when empty
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Denoms:        []string{"usdc", "wsol"},
		PollInterval:  2 * time.Second,
		FlushInterval: 500 * time.Millisecond,
		BatchSize:     100,
		APIURL:        "http://localhost:8080",
		SubmitterType: "mock",
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	denoms := flag.String("denoms", "", "Comma-separated denoms to feed")
	apiURL := flag.String("api", "", "Pool API base URL")
	sourceURL := flag.String("source", "", "External price feed URL (synthetic sources when empty)")
	submitterType := flag.String("submitter", "", "Submitter type (mock or api)")
	pollInterval := flag.Duration("poll-interval", 0, "Source poll interval")
	flag.Parse()

	// Load configuration
	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with command line flags
	if *denoms != "" {
		config.Denoms = strings.Split(*denoms, ",")
	}
	if *apiURL != "" {
		config.APIURL = *apiURL
	}
	if *sourceURL != "" {
		config.SourceURL = *sourceURL
	}
	if *submitterType != "" {
		config.SubmitterType = *submitterType
	}
	if *pollInterval > 0 {
		config.PollInterval = *pollInterval
	}

	// Print configuration
	log.Println("=== Liquidity Pool Price Feeder ===")
	log.Printf("Denoms: %v", config.Denoms)
	log.Printf("Poll Interval: %v", config.PollInterval)
	log.Printf("Pool API: %s", config.APIURL)
	log.Printf("Submitter: %s", config.SubmitterType)
	log.Println("===================================")

	// Create submitter
	factory := feeder.NewSubmitterFactory()
	submitter := factory.Create(config.SubmitterType, &feeder.APISubmitterConfig{
		APIURL:        config.APIURL,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
		Timeout:       5 * time.Second,
	})

	// Create sources: one per registered oracle source so the pool-side
	// aggregator reaches its quorum.
	sources := buildSources(config)

	// Create feeder
	feederConfig := &feeder.Config{
		Denoms:        config.Denoms,
		PollInterval:  config.PollInterval,
		FlushInterval: config.FlushInterval,
		BatchSize:     config.BatchSize,
	}
	f := feeder.NewPriceFeeder(feederConfig, sources, submitter)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the feeder
	if err := f.Start(ctx); err != nil {
		log.Fatalf("Failed to start feeder: %v", err)
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Periodic stats logging
	statsTicker := time.NewTicker(10 * time.Second)
	defer statsTicker.Stop()

	log.Println("Feeder is running. Press Ctrl+C to stop.")

	for {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal: %v", sig)
			cancel()
			if err := f.Stop(); err != nil {
				log.Printf("Error stopping feeder: %v", err)
			}
			log.Println("Feeder stopped")
			return
		case <-statsTicker.C:
			stats := f.GetStats()
			log.Printf("Stats: Polls=%d, PollErrors=%d, Submitted=%d, SubmitFails=%d, Buffer=%d",
				stats.Polls, stats.PollErrors, stats.Submitted, stats.SubmitFails, stats.BufferSize)
		}
	}
}

// buildSources returns one source per oracle source ID the pool registers by
// default. With an external feed URL every source proxies the same endpoint;
// otherwise synthetic random walks stand in.
func buildSources(config *Config) []feeder.Source {
	sourceIDs := []string{"pyth", "switchboard", "chainlink"}

	if config.SourceURL != "" {
		sources := make([]feeder.Source, 0, len(sourceIDs))
		for _, id := range sourceIDs {
			sources = append(sources, feeder.NewHTTPSource(id, config.SourceURL, 5*time.Second))
		}
		return sources
	}

	reference := map[string]math.LegacyDec{
		"usdc": math.LegacyOneDec(),
		"wsol": math.LegacyNewDec(150),
	}
	sources := make([]feeder.Source, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		sources = append(sources, feeder.NewSyntheticSource(id, reference, 10))
	}
	return sources
}
