package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/openalpha/liquidity-pool/api/handlers"
	"github.com/openalpha/liquidity-pool/api/middleware"
	"github.com/openalpha/liquidity-pool/api/types"
	"github.com/openalpha/liquidity-pool/api/websocket"
	"github.com/openalpha/liquidity-pool/metrics"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config
	mockMode   bool

	// Services
	poolService  types.PoolService
	priceService types.PriceService

	// Handlers
	poolHandler *handlers.PoolHandler

	// Rate limiter
	rateLimiter *middleware.RateLimiter

	stopCh chan struct{}
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MockMode         bool
	DisableRateLimit bool // For testing purposes

	// Denoms broadcast on the prices channels
	PriceDenoms []string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MockMode:     false,
		PriceDenoms:  []string{"usdc", "wsol"},
	}
}

// NewServer creates a new API server backed by the mock service
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	mockService := NewMockService()
	config.MockMode = true
	return newServer(config, mockService, mockService)
}

// NewServerWithServices creates a new API server with custom services
func NewServerWithServices(config *Config, poolSvc types.PoolService, priceSvc types.PriceService) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return newServer(config, poolSvc, priceSvc)
}

// NewServerWithKeeperService creates an API server driven by the real pool and
// oracle keepers over an in-memory store. State does not survive a restart.
func NewServerWithKeeperService(config *Config, admin string) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.MockMode = false

	svc, err := NewKeeperService(admin)
	if err != nil {
		return nil, fmt.Errorf("failed to create keeper service: %w", err)
	}

	return newServer(config, svc, svc), nil
}

func newServer(config *Config, poolSvc types.PoolService, priceSvc types.PriceService) *Server {
	wsConfig := websocket.DefaultServerConfig()
	wsConfig.Port = config.Port

	s := &Server{
		config:       config,
		wsServer:     websocket.NewServer(wsConfig),
		mockMode:     config.MockMode,
		poolService:  poolSvc,
		priceService: priceSvc,
		rateLimiter:  middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
		stopCh:       make(chan struct{}),
	}

	s.poolHandler = handlers.NewPoolHandler(s.poolService, s.priceService)

	return s
}

// Start starts the API server
func (s *Server) Start() error {
	router := mux.NewRouter()
	router.Use(requestMetrics)

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/v1/health", s.handleHealth).Methods("GET")

	// Pool and oracle endpoints
	s.poolHandler.RegisterRoutes(router)

	// Prometheus metrics
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// WebSocket
	router.HandleFunc("/ws", s.wsServer.GetHub().ServeWS)

	// Middleware chain: CORS -> RateLimit -> TxRateLimit -> Router.
	// State-changing pool routes get a stricter per-address bucket.
	var handler http.Handler = router
	if !s.config.DisableRateLimit {
		txPaths := map[string]bool{
			"/v1/pool/deposit":       true,
			"/v1/pool/withdraw":      true,
			"/v1/pool/rewards/claim": true,
		}
		txLimited := middleware.TxRateLimitMiddleware(s.rateLimiter)(router)
		routed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && txPaths[r.URL.Path] {
				txLimited.ServeHTTP(w, r)
				return
			}
			router.ServeHTTP(w, r)
		})
		handler = middleware.RateLimitMiddleware(s.rateLimiter)(routed)
	}
	handler = corsMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	// Start WebSocket hub
	go s.wsServer.GetHub().Run()

	// Feed the hub and metrics from pool state
	go s.runStateBroadcaster()

	log.Printf("API server starting on %s (mock mode: %v)", addr, s.mockMode)
	if s.config.DisableRateLimit {
		log.Printf("Rate limiting DISABLED (for testing)")
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	close(s.stopCh)
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// runStateBroadcaster polls pool state and prices every second and pushes them
// to WebSocket subscribers and the metrics collector.
func (s *Server) runStateBroadcaster() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	mc := metrics.GetCollector()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		pool, err := s.poolService.GetPool(ctx)
		if err == nil {
			s.wsServer.BroadcastPoolState(&websocket.PoolStateMessage{
				AumUsd:             pool.AumUsd,
				LpSupply:           pool.LpSupply,
				RewardVaultBalance: pool.RewardVaultBalance,
				Paused:             pool.Paused,
				Timestamp:          time.Now().UnixMilli(),
			})

			mc.UpdatePoolState(
				floatFromString(pool.AumUsd),
				floatFromString(pool.LpSupply),
				floatFromString(pool.RewardVaultBalance),
				pool.Paused,
			)
			for _, asset := range pool.Assets {
				mc.UpdateAssetState(asset.Denom, floatFromString(asset.Balance), 0)
			}
		}

		for _, denom := range s.config.PriceDenoms {
			price, err := s.priceService.GetPrice(ctx, denom)
			if err != nil {
				continue
			}
			s.wsServer.BroadcastPrice(&websocket.PriceMessage{
				Denom:       price.Denom,
				Price:       price.Price,
				PublishedAt: price.PublishedAt,
			})
		}

		cancel()
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "keeper"
	if s.mockMode {
		mode = "mock"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"mode":      mode,
		"warning":   "This API uses in-memory storage. For production, connect to a running chain.",
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func floatFromString(s string) float64 {
	var f float64
	_, _ = fmt.Sscanf(s, "%g", &f)
	return f
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestMetrics records request counts and latency per route template. The
// websocket route is passed through untouched because the upgrade needs the
// raw ResponseWriter for connection hijacking.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		timer := metrics.NewTimer()
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		metrics.GetCollector().RecordAPIRequest(r.Method, path, strconv.Itoa(rec.status), timer.ElapsedMs())
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Sender-Address")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
