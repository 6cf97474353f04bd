package e2e_api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/liquidity-pool/api"
	"github.com/openalpha/liquidity-pool/api/handlers"
	"github.com/openalpha/liquidity-pool/api/types"
)

// These tests make actual HTTP requests to the pool API routes backed by real
// keepers over an in-memory store.

var adminAddr = sdk.AccAddress([]byte("pool_admin__________")).String()

// TestServer wraps the API routes for testing
type TestServer struct {
	server  *httptest.Server
	service *api.KeeperService
}

// NewTestServer creates a test server with real keepers behind the routes
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	service, err := api.NewKeeperService(adminAddr)
	if err != nil {
		t.Fatalf("failed to create keeper service: %v", err)
	}

	router := mux.NewRouter()
	handlers.NewPoolHandler(service, service).RegisterRoutes(router)

	return &TestServer{
		server:  httptest.NewServer(router),
		service: service,
	}
}

func (ts *TestServer) Close() {
	ts.server.Close()
}

func (ts *TestServer) URL() string {
	return ts.server.URL
}

func providerAddr(i int) string {
	return sdk.AccAddress([]byte(fmt.Sprintf("provider_%02d________", i))).String()
}

func postJSON(t *testing.T, url string, payload interface{}, out interface{}) int {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func submitPrice(t *testing.T, ts *TestServer, source, denom, price string) {
	t.Helper()

	status := postJSON(t, ts.URL()+"/v1/prices", &types.SubmitPriceRequest{
		SourceID: source,
		Denom:    denom,
		Price:    price,
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("price submission %s/%s returned %d", source, denom, status)
	}
}

func TestGetPoolEmpty(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	var pool types.PoolStatus
	if status := getJSON(t, ts.URL()+"/v1/pool", &pool); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	if pool.Admin != adminAddr {
		t.Errorf("expected admin %s, got %s", adminAddr, pool.Admin)
	}
	if pool.AumUsd != "0" {
		t.Errorf("expected zero AUM, got %s", pool.AumUsd)
	}
	if pool.LpSupply != "0" {
		t.Errorf("expected zero LP supply, got %s", pool.LpSupply)
	}
	if pool.Paused {
		t.Error("fresh pool should not be paused")
	}
	if len(pool.Assets) != 2 {
		t.Errorf("expected 2 default assets, got %d", len(pool.Assets))
	}
}

func TestPriceSubmissionAndQuery(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	// No price yet
	if status := getJSON(t, ts.URL()+"/v1/prices/usdc", nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unpriced denom, got %d", status)
	}

	submitPrice(t, ts, "pyth", "usdc", "1.0")
	submitPrice(t, ts, "chainlink", "usdc", "1.0")

	var price types.PriceStatus
	if status := getJSON(t, ts.URL()+"/v1/prices/usdc", &price); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if price.Denom != "usdc" {
		t.Errorf("expected denom usdc, got %s", price.Denom)
	}
	if price.Price != "1.000000000000000000" {
		t.Errorf("expected aggregated price 1.0, got %s", price.Price)
	}
}

func TestUnknownSourceRejected(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	status := postJSON(t, ts.URL()+"/v1/prices", &types.SubmitPriceRequest{
		SourceID: "unregistered",
		Denom:    "usdc",
		Price:    "1.0",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown source, got %d", status)
	}
}

func TestDepositFlow(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	submitPrice(t, ts, "pyth", "usdc", "1.0")
	provider := providerAddr(1)

	var dep types.DepositResponse
	status := postJSON(t, ts.URL()+"/v1/pool/deposit", &types.DepositRequest{
		Depositor: provider,
		Denom:     "usdc",
		Amount:    "100000000",
	}, &dep)
	if status != http.StatusOK {
		t.Fatalf("deposit returned %d", status)
	}

	// 100 USDC at price 1.0 is 100000000 micro USD; the first deposit mints
	// LP one-to-one with USD value.
	if dep.UsdValue != "100000000" {
		t.Errorf("expected usd value 100000000, got %s", dep.UsdValue)
	}
	if dep.LpMinted != "100000000" {
		t.Errorf("expected lp minted 100000000, got %s", dep.LpMinted)
	}
	if dep.ReceiptID == "" {
		t.Error("expected a receipt id")
	}

	var user types.UserStatus
	if status := getJSON(t, ts.URL()+"/v1/pool/users/"+provider, &user); status != http.StatusOK {
		t.Fatalf("user query returned %d", status)
	}
	if user.LpBalance != dep.LpMinted {
		t.Errorf("expected lp balance %s, got %s", dep.LpMinted, user.LpBalance)
	}

	var pool types.PoolStatus
	if status := getJSON(t, ts.URL()+"/v1/pool", &pool); status != http.StatusOK {
		t.Fatalf("pool query returned %d", status)
	}
	if pool.AumUsd != "100000000" {
		t.Errorf("expected AUM 100000000, got %s", pool.AumUsd)
	}
	if pool.LpSupply != "100000000" {
		t.Errorf("expected LP supply 100000000, got %s", pool.LpSupply)
	}
}

func TestDepositValidation(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	submitPrice(t, ts, "pyth", "usdc", "1.0")
	provider := providerAddr(2)

	tests := []struct {
		name string
		req  types.DepositRequest
	}{
		{"unknown denom", types.DepositRequest{Depositor: provider, Denom: "doge", Amount: "1000"}},
		{"zero amount", types.DepositRequest{Depositor: provider, Denom: "usdc", Amount: "0"}},
		{"negative amount", types.DepositRequest{Depositor: provider, Denom: "usdc", Amount: "-5"}},
		{"garbage amount", types.DepositRequest{Depositor: provider, Denom: "usdc", Amount: "abc"}},
		{"bad address", types.DepositRequest{Depositor: "not-bech32", Denom: "usdc", Amount: "1000"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if status := postJSON(t, ts.URL()+"/v1/pool/deposit", &tc.req, nil); status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
		})
	}
}

func TestWithdrawFlow(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	submitPrice(t, ts, "pyth", "usdc", "1.0")
	provider := providerAddr(3)

	postJSON(t, ts.URL()+"/v1/pool/deposit", &types.DepositRequest{
		Depositor: provider,
		Denom:     "usdc",
		Amount:    "100000000",
	}, nil)

	// Preview should match the actual redemption
	var estimate types.WithdrawEstimate
	status := getJSON(t, ts.URL()+"/v1/pool/estimate/withdrawal?denom=usdc&lp_amount=50000000", &estimate)
	if status != http.StatusOK {
		t.Fatalf("estimate returned %d", status)
	}

	var wd types.WithdrawResponse
	status = postJSON(t, ts.URL()+"/v1/pool/withdraw", &types.WithdrawRequest{
		Withdrawer: provider,
		Denom:      "usdc",
		LpAmount:   "50000000",
	}, &wd)
	if status != http.StatusOK {
		t.Fatalf("withdraw returned %d", status)
	}

	if wd.AmountOut != estimate.AmountOut {
		t.Errorf("estimate %s and withdrawal %s disagree", estimate.AmountOut, wd.AmountOut)
	}
	if wd.AmountOut != "50000000" {
		t.Errorf("expected amount out 50000000, got %s", wd.AmountOut)
	}

	var pool types.PoolStatus
	getJSON(t, ts.URL()+"/v1/pool", &pool)
	if pool.AumUsd != "50000000" {
		t.Errorf("expected AUM 50000000 after withdrawal, got %s", pool.AumUsd)
	}
	if pool.LpSupply != "50000000" {
		t.Errorf("expected LP supply 50000000 after withdrawal, got %s", pool.LpSupply)
	}
}

func TestWithdrawMoreThanHeld(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	submitPrice(t, ts, "pyth", "usdc", "1.0")
	provider := providerAddr(4)

	postJSON(t, ts.URL()+"/v1/pool/deposit", &types.DepositRequest{
		Depositor: provider,
		Denom:     "usdc",
		Amount:    "1000000",
	}, nil)

	status := postJSON(t, ts.URL()+"/v1/pool/withdraw", &types.WithdrawRequest{
		Withdrawer: provider,
		Denom:      "usdc",
		LpAmount:   "2000000",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 withdrawing more LP than held, got %d", status)
	}
}

func TestMultiAssetDeposits(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	submitPrice(t, ts, "pyth", "usdc", "1.0")
	submitPrice(t, ts, "pyth", "wsol", "150.0")
	provider := providerAddr(5)

	postJSON(t, ts.URL()+"/v1/pool/deposit", &types.DepositRequest{
		Depositor: provider,
		Denom:     "usdc",
		Amount:    "100000000",
	}, nil)

	// 2 SOL at 150 USD with 9 decimals is 300000000 micro USD
	var dep types.DepositResponse
	status := postJSON(t, ts.URL()+"/v1/pool/deposit", &types.DepositRequest{
		Depositor: provider,
		Denom:     "wsol",
		Amount:    "2000000000",
	}, &dep)
	if status != http.StatusOK {
		t.Fatalf("wsol deposit returned %d", status)
	}
	if dep.UsdValue != "300000000" {
		t.Errorf("expected usd value 300000000, got %s", dep.UsdValue)
	}

	var pool types.PoolStatus
	getJSON(t, ts.URL()+"/v1/pool", &pool)
	if pool.AumUsd != "400000000" {
		t.Errorf("expected AUM 400000000, got %s", pool.AumUsd)
	}
}

func TestUnknownUserReturns404(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	status := getJSON(t, ts.URL()+"/v1/pool/users/"+providerAddr(99), nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestClaimWithoutRewards(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	submitPrice(t, ts, "pyth", "usdc", "1.0")
	provider := providerAddr(6)

	postJSON(t, ts.URL()+"/v1/pool/deposit", &types.DepositRequest{
		Depositor: provider,
		Denom:     "usdc",
		Amount:    "1000000",
	}, nil)

	// No reward stream is running, so the claim settles as a zero no-op
	var claim types.ClaimResponse
	status := postJSON(t, ts.URL()+"/v1/pool/rewards/claim", &types.ClaimRequest{
		Claimer: provider,
	}, &claim)
	if status != http.StatusOK {
		t.Fatalf("claim returned %d", status)
	}
	if claim.Amount != "0" {
		t.Errorf("expected zero claim, got %s", claim.Amount)
	}
}

func TestConcurrentDeposits(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	submitPrice(t, ts, "pyth", "usdc", "1.0")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			status := postJSON(t, ts.URL()+"/v1/pool/deposit", &types.DepositRequest{
				Depositor: providerAddr(idx),
				Denom:     "usdc",
				Amount:    "1000000",
			}, nil)
			if status != http.StatusOK {
				errs <- fmt.Sprintf("deposit %d returned %d", idx, status)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}

	var pool types.PoolStatus
	getJSON(t, ts.URL()+"/v1/pool", &pool)
	if pool.AumUsd != "20000000" {
		t.Errorf("expected AUM 20000000 after %d deposits, got %s", n, pool.AumUsd)
	}
}
