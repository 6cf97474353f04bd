package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/openalpha/liquidity-pool/metrics"
)

// Hub maintains the set of active clients and broadcasts pool updates
type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Inbound messages from clients
	broadcast chan []byte

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Buffered state pushed at a fixed interval
	poolBuffer  *PoolStateMessage
	priceBuffer map[string]*PriceMessage

	mu sync.RWMutex

	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Push interval for buffered pool state and prices
	StateInterval time.Duration

	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Messages per second per client
	MessageRateLimit int
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		StateInterval:    time.Second,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 20,
		MessageRateLimit: 50,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		priceBuffer: make(map[string]*PriceMessage),
		config:      config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	stateTicker := time.NewTicker(h.config.StateInterval)
	defer stateTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-stateTicker.C:
			h.broadcastBuffered()
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	metrics.GetCollector().RecordWSConnection(1)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		close(client.send)
		metrics.GetCollector().RecordWSConnection(-1)
	}
}

func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.channels[req.Channel]; !ok {
		h.channels[req.Channel] = make(map[*Client]bool)
	}
	h.channels[req.Channel][req.Client] = true

	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: req.Channel,
	}
	data, _ := json.Marshal(confirmation)
	req.Client.send <- data
}

func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.channels[req.Channel]; ok {
		delete(clients, req.Client)
		if len(clients) == 0 {
			delete(h.channels, req.Channel)
		}
	}

	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: req.Channel,
	}
	data, _ := json.Marshal(confirmation)
	req.Client.send <- data
}

func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// ============ Channel-specific broadcasts ============

// UpdatePoolState updates the buffered pool state
func (h *Hub) UpdatePoolState(state *PoolStateMessage) {
	h.mu.Lock()
	h.poolBuffer = state
	h.mu.Unlock()
}

// UpdatePrice updates the buffered price for a denom
func (h *Hub) UpdatePrice(denom string, price *PriceMessage) {
	h.mu.Lock()
	h.priceBuffer[denom] = price
	h.mu.Unlock()
}

// broadcastBuffered pushes the buffered pool state and prices
func (h *Hub) broadcastBuffered() {
	h.mu.RLock()
	pool := h.poolBuffer
	prices := make(map[string]*PriceMessage, len(h.priceBuffer))
	for k, v := range h.priceBuffer {
		prices[k] = v
	}
	h.mu.RUnlock()

	if pool != nil {
		h.BroadcastToChannel("pool", &WSMessage{
			Type:    "pool_state",
			Channel: "pool",
			Data:    pool,
		})
	}

	for denom, price := range prices {
		channel := "prices:" + denom
		h.BroadcastToChannel(channel, &WSMessage{
			Type:    "price",
			Channel: channel,
			Data:    price,
		})
	}
}

// BroadcastDeposit broadcasts a deposit event to pool subscribers
func (h *Hub) BroadcastDeposit(event *DepositMessage) {
	h.BroadcastToChannel("pool", &WSMessage{
		Type:    "deposit",
		Channel: "pool",
		Data:    event,
	})
}

// BroadcastWithdrawal broadcasts a withdrawal event to pool subscribers
func (h *Hub) BroadcastWithdrawal(event *WithdrawalMessage) {
	h.BroadcastToChannel("pool", &WSMessage{
		Type:    "withdrawal",
		Channel: "pool",
		Data:    event,
	})
}

// BroadcastReward broadcasts a reward update to a specific provider
func (h *Hub) BroadcastReward(address string, reward *RewardMessage) {
	channel := "rewards:" + address
	h.BroadcastToChannel(channel, &WSMessage{
		Type:    "reward",
		Channel: channel,
		Data:    reward,
	})
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// PoolStateMessage represents a pool state update
type PoolStateMessage struct {
	AumUsd             string `json:"aum_usd"`
	LpSupply           string `json:"lp_supply"`
	RewardVaultBalance string `json:"reward_vault_balance"`
	Paused             bool   `json:"paused"`
	Timestamp          int64  `json:"timestamp"`
}

// PriceMessage represents an aggregated price update
type PriceMessage struct {
	Denom       string `json:"denom"`
	Price       string `json:"price"`
	PublishedAt int64  `json:"published_at"`
}

// DepositMessage represents a completed deposit
type DepositMessage struct {
	Depositor string `json:"depositor"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
	LpMinted  string `json:"lp_minted"`
	UsdValue  string `json:"usd_value"`
	Timestamp int64  `json:"timestamp"`
}

// WithdrawalMessage represents a completed withdrawal
type WithdrawalMessage struct {
	Withdrawer string `json:"withdrawer"`
	Denom      string `json:"denom"`
	LpBurned   string `json:"lp_burned"`
	AmountOut  string `json:"amount_out"`
	UsdValue   string `json:"usd_value"`
	Timestamp  int64  `json:"timestamp"`
}

// RewardMessage represents a reward accrual or claim update
type RewardMessage struct {
	Owner          string `json:"owner"`
	PendingRewards string `json:"pending_rewards"`
	Claimed        string `json:"claimed,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = fmt.Sprintf("%d", time.Now().UnixNano())
	}

	address := r.URL.Query().Get("address")
	ip := clientIPFromRequest(r)

	client := NewClient(h, conn, clientID, address, ip)

	h.register <- client

	go client.writePump()
	go client.readPump()
}

func clientIPFromRequest(r *http.Request) string {
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
