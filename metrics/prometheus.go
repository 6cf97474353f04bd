package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Liquidity Pool Metrics Collector
// Provides comprehensive metrics for monitoring

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all liquidity pool metrics
type Collector struct {
	// Pool metrics
	PoolAumUsd         prometheus.Gauge
	PoolLpSupply       prometheus.Gauge
	PoolAssetBalance   *prometheus.GaugeVec
	PoolAssetValueUsd  *prometheus.GaugeVec
	PoolPaused         prometheus.Gauge
	PoolProvidersTotal prometheus.Gauge

	// Deposit metrics
	DepositsTotal   *prometheus.CounterVec
	DepositValue    *prometheus.CounterVec
	DepositLpMinted prometheus.Counter
	DepositLatency  *prometheus.HistogramVec

	// Withdrawal metrics
	WithdrawalsTotal   *prometheus.CounterVec
	WithdrawalValue    *prometheus.CounterVec
	WithdrawalLpBurned prometheus.Counter
	WithdrawalLatency  *prometheus.HistogramVec

	// Reward metrics
	RewardVaultBalance  prometheus.Gauge
	RewardsClaimedTotal prometheus.Counter
	RewardsClaimedValue prometheus.Counter
	RewardEmissionRate  prometheus.Gauge
	RewardStreamActive  prometheus.Gauge

	// Oracle metrics
	OraclePrice       *prometheus.GaugeVec
	OraclePriceAge    *prometheus.GaugeVec
	OracleSourceCount *prometheus.GaugeVec
	OracleSubmissions *prometheus.CounterVec
	OracleRejections  *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSMessageLatency    *prometheus.HistogramVec
	WSSubscriptions     *prometheus.GaugeVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Pool metrics
	c.PoolAumUsd = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "pool",
			Name:      "aum_usd",
			Help:      "Pool assets under management in micro USD",
		},
	)

	c.PoolLpSupply = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "pool",
			Name:      "lp_supply",
			Help:      "Outstanding LP share supply",
		},
	)

	c.PoolAssetBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "pool",
			Name:      "asset_balance",
			Help:      "Vault balance per asset in native units",
		},
		[]string{"denom"},
	)

	c.PoolAssetValueUsd = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "pool",
			Name:      "asset_value_usd",
			Help:      "Vault balance per asset in micro USD",
		},
		[]string{"denom"},
	)

	c.PoolPaused = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "pool",
			Name:      "paused",
			Help:      "1 when the pool is paused, 0 otherwise",
		},
	)

	c.PoolProvidersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "pool",
			Name:      "providers_total",
			Help:      "Number of providers with a nonzero LP balance",
		},
	)

	// Deposit metrics
	c.DepositsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "deposits",
			Name:      "total",
			Help:      "Total number of deposits",
		},
		[]string{"denom", "status"},
	)

	c.DepositValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "deposits",
			Name:      "value_usd",
			Help:      "Total deposited value in micro USD",
		},
		[]string{"denom"},
	)

	c.DepositLpMinted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "deposits",
			Name:      "lp_minted",
			Help:      "Total LP shares minted by deposits",
		},
	)

	c.DepositLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lpool",
			Subsystem: "deposits",
			Name:      "latency_ms",
			Help:      "Deposit processing latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"denom"},
	)

	// Withdrawal metrics
	c.WithdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "withdrawals",
			Name:      "total",
			Help:      "Total number of withdrawals",
		},
		[]string{"denom", "status"},
	)

	c.WithdrawalValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "withdrawals",
			Name:      "value_usd",
			Help:      "Total withdrawn value in micro USD",
		},
		[]string{"denom"},
	)

	c.WithdrawalLpBurned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "withdrawals",
			Name:      "lp_burned",
			Help:      "Total LP shares burned by withdrawals",
		},
	)

	c.WithdrawalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lpool",
			Subsystem: "withdrawals",
			Name:      "latency_ms",
			Help:      "Withdrawal processing latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"denom"},
	)

	// Reward metrics
	c.RewardVaultBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "rewards",
			Name:      "vault_balance",
			Help:      "Undistributed balance of the reward vault",
		},
	)

	c.RewardsClaimedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "rewards",
			Name:      "claims_total",
			Help:      "Total number of reward claims",
		},
	)

	c.RewardsClaimedValue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "rewards",
			Name:      "claimed_value",
			Help:      "Total reward tokens paid out",
		},
	)

	c.RewardEmissionRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "rewards",
			Name:      "emission_rate",
			Help:      "Reward tokens emitted per interval",
		},
	)

	c.RewardStreamActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "rewards",
			Name:      "stream_active",
			Help:      "1 while the reward stream is inside its time window",
		},
	)

	// Oracle metrics
	c.OraclePrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "oracle",
			Name:      "price",
			Help:      "Current aggregated oracle price",
		},
		[]string{"denom"},
	)

	c.OraclePriceAge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "oracle",
			Name:      "price_age_seconds",
			Help:      "Seconds since the aggregated price was published",
		},
		[]string{"denom"},
	)

	c.OracleSourceCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "oracle",
			Name:      "source_count",
			Help:      "Number of fresh oracle sources contributing to the price",
		},
		[]string{"denom"},
	)

	c.OracleSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "oracle",
			Name:      "submissions_total",
			Help:      "Total price submissions received",
		},
		[]string{"source", "denom"},
	)

	c.OracleRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "oracle",
			Name:      "rejections_total",
			Help:      "Price submissions rejected as stale or outlier",
		},
		[]string{"source", "reason"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSMessageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lpool",
			Subsystem: "websocket",
			Name:      "message_latency_ms",
			Help:      "WebSocket message latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
		[]string{"channel"},
	)

	c.WSSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "websocket",
			Name:      "subscriptions",
			Help:      "Number of active subscriptions per channel",
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lpool",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "error_type"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lpool",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Total rate limit hits",
		},
		[]string{"limit_type"},
	)

	// System metrics
	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lpool",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lpool",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
		[]string{},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Pool metrics
	prometheus.MustRegister(c.PoolAumUsd)
	prometheus.MustRegister(c.PoolLpSupply)
	prometheus.MustRegister(c.PoolAssetBalance)
	prometheus.MustRegister(c.PoolAssetValueUsd)
	prometheus.MustRegister(c.PoolPaused)
	prometheus.MustRegister(c.PoolProvidersTotal)

	// Deposit metrics
	prometheus.MustRegister(c.DepositsTotal)
	prometheus.MustRegister(c.DepositValue)
	prometheus.MustRegister(c.DepositLpMinted)
	prometheus.MustRegister(c.DepositLatency)

	// Withdrawal metrics
	prometheus.MustRegister(c.WithdrawalsTotal)
	prometheus.MustRegister(c.WithdrawalValue)
	prometheus.MustRegister(c.WithdrawalLpBurned)
	prometheus.MustRegister(c.WithdrawalLatency)

	// Reward metrics
	prometheus.MustRegister(c.RewardVaultBalance)
	prometheus.MustRegister(c.RewardsClaimedTotal)
	prometheus.MustRegister(c.RewardsClaimedValue)
	prometheus.MustRegister(c.RewardEmissionRate)
	prometheus.MustRegister(c.RewardStreamActive)

	// Oracle metrics
	prometheus.MustRegister(c.OraclePrice)
	prometheus.MustRegister(c.OraclePriceAge)
	prometheus.MustRegister(c.OracleSourceCount)
	prometheus.MustRegister(c.OracleSubmissions)
	prometheus.MustRegister(c.OracleRejections)

	// WebSocket metrics
	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSMessageLatency)
	prometheus.MustRegister(c.WSSubscriptions)

	// API metrics
	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)
	prometheus.MustRegister(c.RateLimitHits)

	// System metrics
	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
}

// ============ Recording Helpers ============

// RecordDeposit records a completed deposit
func (c *Collector) RecordDeposit(denom string, usdValue, lpMinted float64) {
	c.DepositsTotal.WithLabelValues(denom, "ok").Inc()
	c.DepositValue.WithLabelValues(denom).Add(usdValue)
	c.DepositLpMinted.Add(lpMinted)
}

// RecordDepositError records a rejected deposit
func (c *Collector) RecordDepositError(denom string) {
	c.DepositsTotal.WithLabelValues(denom, "error").Inc()
}

// RecordDepositLatency records deposit processing latency
func (c *Collector) RecordDepositLatency(denom string, latencyMs float64) {
	c.DepositLatency.WithLabelValues(denom).Observe(latencyMs)
}

// RecordWithdrawal records a completed withdrawal
func (c *Collector) RecordWithdrawal(denom string, usdValue, lpBurned float64) {
	c.WithdrawalsTotal.WithLabelValues(denom, "ok").Inc()
	c.WithdrawalValue.WithLabelValues(denom).Add(usdValue)
	c.WithdrawalLpBurned.Add(lpBurned)
}

// RecordWithdrawalError records a rejected withdrawal
func (c *Collector) RecordWithdrawalError(denom string) {
	c.WithdrawalsTotal.WithLabelValues(denom, "error").Inc()
}

// RecordWithdrawalLatency records withdrawal processing latency
func (c *Collector) RecordWithdrawalLatency(denom string, latencyMs float64) {
	c.WithdrawalLatency.WithLabelValues(denom).Observe(latencyMs)
}

// RecordRewardClaim records a reward claim
func (c *Collector) RecordRewardClaim(amount float64) {
	c.RewardsClaimedTotal.Inc()
	c.RewardsClaimedValue.Add(amount)
}

// UpdatePoolState updates pool-wide gauges
func (c *Collector) UpdatePoolState(aumUsd, lpSupply, rewardVaultBalance float64, paused bool) {
	c.PoolAumUsd.Set(aumUsd)
	c.PoolLpSupply.Set(lpSupply)
	c.RewardVaultBalance.Set(rewardVaultBalance)
	if paused {
		c.PoolPaused.Set(1)
	} else {
		c.PoolPaused.Set(0)
	}
}

// UpdateAssetState updates per-asset gauges
func (c *Collector) UpdateAssetState(denom string, balance, valueUsd float64) {
	c.PoolAssetBalance.WithLabelValues(denom).Set(balance)
	c.PoolAssetValueUsd.WithLabelValues(denom).Set(valueUsd)
}

// RecordOraclePrice records the aggregated price for a denom
func (c *Collector) RecordOraclePrice(denom string, price, ageSeconds float64, sources int) {
	c.OraclePrice.WithLabelValues(denom).Set(price)
	c.OraclePriceAge.WithLabelValues(denom).Set(ageSeconds)
	c.OracleSourceCount.WithLabelValues(denom).Set(float64(sources))
}

// RecordOracleSubmission records a price submission
func (c *Collector) RecordOracleSubmission(source, denom string) {
	c.OracleSubmissions.WithLabelValues(source, denom).Inc()
}

// RecordOracleRejection records a rejected price submission
func (c *Collector) RecordOracleRejection(source, reason string) {
	c.OracleRejections.WithLabelValues(source, reason).Inc()
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordRateLimitHit records a rate limit rejection
func (c *Collector) RecordRateLimitHit(limitType string) {
	c.RateLimitHits.WithLabelValues(limitType).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string, latencyMs float64) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
	c.WSMessageLatency.WithLabelValues(channel).Observe(latencyMs)
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
