package types

import (
	"time"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "oracle"
	StoreKey   = ModuleName
)

// Source represents a registered price data source
type Source struct {
	SourceID   string         `json:"source_id"`
	Weight     int            `json:"weight"`
	IsActive   bool           `json:"is_active"`
	LastUpdate time.Time      `json:"last_update"`
	LastPrice  math.LegacyDec `json:"last_price"`
}

// SourcePrice is one price submission from a source for a denom
type SourcePrice struct {
	SourceID  string         `json:"source_id"`
	Denom     string         `json:"denom"`
	Price     math.LegacyDec `json:"price"`
	Timestamp time.Time      `json:"timestamp"`
}

// PriceInfo is the aggregated price for a denom
type PriceInfo struct {
	Denom       string         `json:"denom"`
	Price       math.LegacyDec `json:"price"` // USD per whole token
	PublishedAt int64          `json:"published_at"`
}

// Config contains oracle aggregation policy
type Config struct {
	MinSources    int            `json:"min_sources"`
	MaxPriceAge   time.Duration  `json:"max_price_age"`
	MaxDeviation  math.LegacyDec `json:"max_deviation"` // outlier cutoff vs median
	SourceWeights map[string]int `json:"source_weights"`
}

// DefaultConfig returns the default oracle configuration
func DefaultConfig() Config {
	return Config{
		MinSources:   1,
		MaxPriceAge:  time.Minute * 5,
		MaxDeviation: math.LegacyNewDecWithPrec(2, 2), // 2%
		SourceWeights: map[string]int{
			"pyth":        3,
			"switchboard": 2,
			"chainlink":   2,
		},
	}
}
