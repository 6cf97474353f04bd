package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/openalpha/liquidity-pool/metrics"
)

// RateLimiter implements token bucket rate limiting keyed by client IP, with
// a stricter bucket for pool transactions (deposits, withdrawals, claims).
type RateLimiter struct {
	config *RateLimitConfig

	buckets   map[string]*bucket
	bucketsMu sync.Mutex

	txBuckets   map[string]*bucket
	txBucketsMu sync.Mutex

	cleanupTicker *time.Ticker
	stopCh        chan struct{}
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	// General requests per second per IP and burst capacity
	RequestsPerSecond int
	Burst             int
	BlockDuration     time.Duration

	// Transaction submissions per second per address
	TxPerSecond int
	TxBurst     int

	CleanupInterval time.Duration
	BucketTTL       time.Duration
}

// DefaultRateLimitConfig returns default configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		BlockDuration:     time.Minute,

		TxPerSecond: 5,
		TxBurst:     10,

		CleanupInterval: 5 * time.Minute,
		BucketTTL:       time.Hour,
	}
}

type bucket struct {
	tokens       float64
	maxTokens    float64
	refillRate   float64 // tokens per second
	lastUpdate   time.Time
	blockedUntil time.Time
	mu           sync.Mutex
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:        config,
		buckets:       make(map[string]*bucket),
		txBuckets:     make(map[string]*bucket),
		cleanupTicker: time.NewTicker(config.CleanupInterval),
		stopCh:        make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop stops the rate limiter
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
	rl.cleanupTicker.Stop()
}

func (rl *RateLimiter) cleanupLoop() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	threshold := time.Now().Add(-rl.config.BucketTTL)

	rl.bucketsMu.Lock()
	for key, b := range rl.buckets {
		b.mu.Lock()
		if b.lastUpdate.Before(threshold) {
			delete(rl.buckets, key)
		}
		b.mu.Unlock()
	}
	rl.bucketsMu.Unlock()

	rl.txBucketsMu.Lock()
	for key, b := range rl.txBuckets {
		b.mu.Lock()
		if b.lastUpdate.Before(threshold) {
			delete(rl.txBuckets, key)
		}
		b.mu.Unlock()
	}
	rl.txBucketsMu.Unlock()
}

func getOrCreate(mu *sync.Mutex, buckets map[string]*bucket, key string, maxTokens, refillRate float64) *bucket {
	mu.Lock()
	defer mu.Unlock()

	if b, ok := buckets[key]; ok {
		return b
	}
	b := &bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastUpdate: time.Now(),
	}
	buckets[key] = b
	return b
}

// AllowRequest checks if a general request from an IP is allowed
func (rl *RateLimiter) AllowRequest(ip string) (bool, *RateLimitInfo) {
	b := getOrCreate(&rl.bucketsMu, rl.buckets, ip, float64(rl.config.Burst), float64(rl.config.RequestsPerSecond))
	return rl.tryConsume(b)
}

// AllowTx checks if a pool transaction submission from an address is allowed
func (rl *RateLimiter) AllowTx(address string) (bool, *RateLimitInfo) {
	b := getOrCreate(&rl.txBucketsMu, rl.txBuckets, address, float64(rl.config.TxBurst), float64(rl.config.TxPerSecond))
	return rl.tryConsume(b)
}

func (rl *RateLimiter) tryConsume(b *bucket) (bool, *RateLimitInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.Before(b.blockedUntil) {
		return false, &RateLimitInfo{
			Allowed:    false,
			Limit:      int(b.maxTokens),
			RetryAfter: int(b.blockedUntil.Sub(now).Seconds()) + 1,
		}
	}

	elapsed := now.Sub(b.lastUpdate).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true, &RateLimitInfo{
			Allowed:   true,
			Remaining: int(b.tokens),
			Limit:     int(b.maxTokens),
		}
	}

	b.blockedUntil = now.Add(rl.config.BlockDuration)
	return false, &RateLimitInfo{
		Allowed:    false,
		Limit:      int(b.maxTokens),
		RetryAfter: int((1-b.tokens)/b.refillRate) + 1,
	}
}

// RateLimitInfo contains rate limit information
type RateLimitInfo struct {
	Allowed    bool `json:"allowed"`
	Remaining  int  `json:"remaining"`
	Limit      int  `json:"limit"`
	RetryAfter int  `json:"retry_after,omitempty"`
}

// RateLimitMiddleware creates an HTTP middleware limiting requests per IP
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			allowed, info := rl.AllowRequest(ip)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			if !allowed {
				metrics.GetCollector().RecordRateLimitHit("ip")
				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", info.RetryAfter))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error":       "rate_limit_exceeded",
					"retry_after": info.RetryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// TxRateLimitMiddleware limits pool transaction submissions per address. The
// address is read from the X-Sender-Address header when present, falling back
// to the client IP.
func TxRateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Sender-Address")
			if key == "" {
				key = ClientIP(r)
			}

			allowed, info := rl.AllowTx(key)
			if !allowed {
				metrics.GetCollector().RecordRateLimitHit("tx")
				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", info.RetryAfter))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error":       "tx_limit_exceeded",
					"retry_after": info.RetryAfter,
				})
				return
			}
			w.Header().Set("X-RateLimit-Tx-Remaining", fmt.Sprintf("%d", info.Remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client IP from the request, honoring proxy headers
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
