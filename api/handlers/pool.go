package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openalpha/liquidity-pool/api/types"
)

// PoolHandler handles liquidity pool API requests
type PoolHandler struct {
	pool   types.PoolService
	prices types.PriceService
}

// NewPoolHandler creates a new PoolHandler
func NewPoolHandler(pool types.PoolService, prices types.PriceService) *PoolHandler {
	return &PoolHandler{pool: pool, prices: prices}
}

// RegisterRoutes registers pool API routes
func (h *PoolHandler) RegisterRoutes(r *mux.Router) {
	// Pool state
	r.HandleFunc("/v1/pool", h.GetPool).Methods("GET")
	r.HandleFunc("/v1/pool/users/{address}", h.GetUser).Methods("GET")

	// Estimation routes
	r.HandleFunc("/v1/pool/estimate/deposit", h.EstimateDeposit).Methods("GET")
	r.HandleFunc("/v1/pool/estimate/withdrawal", h.EstimateWithdraw).Methods("GET")

	// Transaction routes
	r.HandleFunc("/v1/pool/deposit", h.Deposit).Methods("POST")
	r.HandleFunc("/v1/pool/withdraw", h.Withdraw).Methods("POST")
	r.HandleFunc("/v1/pool/rewards/claim", h.ClaimRewards).Methods("POST")

	// Oracle routes
	r.HandleFunc("/v1/prices/{denom}", h.GetPrice).Methods("GET")
	r.HandleFunc("/v1/prices", h.SubmitPrice).Methods("POST")
}

// GetPool returns the pool-wide state
func (h *PoolHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.pool.GetPool(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// GetUser returns a provider's position and live pending rewards
func (h *PoolHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	user, err := h.pool.GetUser(r.Context(), address)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// EstimateDeposit previews the LP shares a deposit would mint
func (h *PoolHandler) EstimateDeposit(w http.ResponseWriter, r *http.Request) {
	denom := r.URL.Query().Get("denom")
	amount := r.URL.Query().Get("amount")
	if denom == "" || amount == "" {
		writeErrorMsg(w, http.StatusBadRequest, "denom and amount are required")
		return
	}

	estimate, err := h.pool.EstimateDeposit(r.Context(), denom, amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// EstimateWithdraw previews the assets a redemption would return
func (h *PoolHandler) EstimateWithdraw(w http.ResponseWriter, r *http.Request) {
	denom := r.URL.Query().Get("denom")
	lpAmount := r.URL.Query().Get("lp_amount")
	if denom == "" || lpAmount == "" {
		writeErrorMsg(w, http.StatusBadRequest, "denom and lp_amount are required")
		return
	}

	estimate, err := h.pool.EstimateWithdraw(r.Context(), denom, lpAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// Deposit handles deposit requests
func (h *PoolHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req types.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.pool.Deposit(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Withdraw handles withdrawal requests
func (h *PoolHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req types.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.pool.Withdraw(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClaimRewards handles reward claim requests
func (h *PoolHandler) ClaimRewards(w http.ResponseWriter, r *http.Request) {
	var req types.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.pool.ClaimRewards(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPrice returns the aggregated oracle price for a denom
func (h *PoolHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	denom := mux.Vars(r)["denom"]

	price, err := h.prices.GetPrice(r.Context(), denom)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, price)
}

// SubmitPrice records a price submission from an oracle source
func (h *PoolHandler) SubmitPrice(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.prices.SubmitPrice(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeErrorMsg(w, status, err.Error())
}

func writeErrorMsg(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
