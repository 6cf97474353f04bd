package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Server wraps the hub with connection management for standalone use
type Server struct {
	hub        *Hub
	httpServer *http.Server
	config     *ServerConfig

	connections      map[string]*Client
	connectionsMu    sync.RWMutex
	connectionsPerIP map[string]int
	ipMu             sync.RWMutex

	totalConnections  int64
	activeConnections int64
	metricsMu         sync.RWMutex

	shutdownCh chan struct{}
}

// ServerConfig contains server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MaxConnPerIP int

	HubConfig *HubConfig
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MaxConnPerIP: 10,
		HubConfig:    DefaultHubConfig(),
	}
}

// NewServer creates a new WebSocket server
func NewServer(config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	return &Server{
		hub:              NewHub(config.HubConfig),
		config:           config,
		connections:      make(map[string]*Client),
		connectionsPerIP: make(map[string]int),
		shutdownCh:       make(chan struct{}),
	}
}

// Start starts a standalone WebSocket server
func (s *Server) Start() error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	log.Printf("WebSocket server starting on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	close(s.shutdownCh)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := clientIPFromRequest(r)

	if !s.checkIPLimit(ip) {
		http.Error(w, "Too many connections from this IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	clientID := uuid.New().String()
	address := r.URL.Query().Get("address")

	client := NewClient(s.hub, conn, clientID, address, ip)

	s.registerConnection(client)

	go client.writePump()
	go client.readPump()

	s.metricsMu.Lock()
	s.totalConnections++
	s.activeConnections++
	s.metricsMu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) registerConnection(client *Client) {
	s.connectionsMu.Lock()
	s.connections[client.GetID()] = client
	s.connectionsMu.Unlock()

	s.ipMu.Lock()
	s.connectionsPerIP[client.GetIP()]++
	s.ipMu.Unlock()

	s.hub.register <- client
}

func (s *Server) checkIPLimit(ip string) bool {
	s.ipMu.RLock()
	defer s.ipMu.RUnlock()

	return s.connectionsPerIP[ip] < s.config.MaxConnPerIP
}

// GetHub returns the hub
func (s *Server) GetHub() *Hub {
	return s.hub
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int64 {
	s.metricsMu.RLock()
	defer s.metricsMu.RUnlock()
	return s.activeConnections
}

// BroadcastPoolState pushes a pool state update to subscribers
func (s *Server) BroadcastPoolState(state *PoolStateMessage) {
	s.hub.UpdatePoolState(state)
}

// BroadcastPrice pushes a price update to subscribers
func (s *Server) BroadcastPrice(price *PriceMessage) {
	s.hub.UpdatePrice(price.Denom, price)
}

// BroadcastDeposit pushes a deposit event to pool subscribers
func (s *Server) BroadcastDeposit(event *DepositMessage) {
	s.hub.BroadcastDeposit(event)
}

// BroadcastWithdrawal pushes a withdrawal event to pool subscribers
func (s *Server) BroadcastWithdrawal(event *WithdrawalMessage) {
	s.hub.BroadcastWithdrawal(event)
}

// BroadcastReward pushes a reward update to a provider
func (s *Server) BroadcastReward(address string, reward *RewardMessage) {
	s.hub.BroadcastReward(address, reward)
}
