package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DepositRequest represents the request to deposit into the pool
type DepositRequest struct {
	Depositor string `json:"depositor"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
}

// WithdrawRequest represents the request to redeem LP tokens
type WithdrawRequest struct {
	Withdrawer string `json:"withdrawer"`
	Denom      string `json:"denom"`
	LpAmount   string `json:"lp_amount"`
}

// TxResponse captures the fields shared by deposit and withdrawal responses
type TxResponse struct {
	ReceiptID string `json:"receipt_id"`
	LpMinted  string `json:"lp_minted"`
	LpBurned  string `json:"lp_burned"`
	UsdValue  string `json:"usd_value"`
}

// LatencyRecord records latency for each request
type LatencyRecord struct {
	Kind      string
	Latency   time.Duration
	Success   bool
	Timestamp time.Time
}

// BenchmarkResults holds all test results
type BenchmarkResults struct {
	Deposits          int64
	Withdrawals       int64
	DepositSuccess    int64
	WithdrawSuccess   int64
	DepositFailed     int64
	WithdrawFailed    int64
	DepositLatencies  []time.Duration
	WithdrawLatencies []time.Duration
	mu                sync.Mutex
}

func (r *BenchmarkResults) AddDeposit(latency time.Duration, success bool) {
	atomic.AddInt64(&r.Deposits, 1)
	if success {
		atomic.AddInt64(&r.DepositSuccess, 1)
	} else {
		atomic.AddInt64(&r.DepositFailed, 1)
	}
	r.mu.Lock()
	r.DepositLatencies = append(r.DepositLatencies, latency)
	r.mu.Unlock()
}

func (r *BenchmarkResults) AddWithdraw(latency time.Duration, success bool) {
	atomic.AddInt64(&r.Withdrawals, 1)
	if success {
		atomic.AddInt64(&r.WithdrawSuccess, 1)
	} else {
		atomic.AddInt64(&r.WithdrawFailed, 1)
	}
	r.mu.Lock()
	r.WithdrawLatencies = append(r.WithdrawLatencies, latency)
	r.mu.Unlock()
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func avg(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, l := range latencies {
		total += l
	}
	return total / time.Duration(len(latencies))
}

func minLat(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	m := latencies[0]
	for _, l := range latencies {
		if l < m {
			m = l
		}
	}
	return m
}

func maxLat(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	m := latencies[0]
	for _, l := range latencies {
		if l > m {
			m = l
		}
	}
	return m
}

// providerAddr derives a stable bech32 address per worker index. The keeper
// backed API validates addresses, so opaque strings would fail every request.
func providerAddr(idx int) string {
	return sdk.AccAddress([]byte(fmt.Sprintf("provider_%011d", idx))).String()
}

func postJSON(client *http.Client, url, sender string, payload interface{}) (time.Duration, bool) {
	body, _ := json.Marshal(payload)
	start := time.Now()

	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return time.Since(start), false
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Sender-Address", sender)

	resp, err := client.Do(httpReq)
	latency := time.Since(start)

	if err != nil {
		return latency, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return latency, false
	}

	var txResp TxResponse
	if err := json.NewDecoder(resp.Body).Decode(&txResp); err != nil {
		return latency, true
	}
	return latency, true
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	count := flag.Int("n", 10000, "Number of deposits and withdrawals each")
	concurrency := flag.Int("c", 100, "Concurrency level")
	denom := flag.String("denom", "usdc", "Asset denom")
	amount := flag.String("amount", "1000000", "Deposit amount in native units")
	lpAmount := flag.String("lp", "500000", "LP amount redeemed per withdrawal")
	outputFile := flag.String("o", "", "Output JSON report file")
	flag.Parse()

	fmt.Println("=== Liquidity Pool Deposit/Withdraw Stress Test ===")
	fmt.Println()
	fmt.Printf("Configuration:\n")
	fmt.Printf("  API URL:      %s\n", *baseURL)
	fmt.Printf("  Denom:        %s\n", *denom)
	fmt.Printf("  Requests:     %d per kind (total: %d)\n", *count, *count*2)
	fmt.Printf("  Concurrency:  %d\n", *concurrency)
	fmt.Printf("  Amount:       %s\n", *amount)
	fmt.Printf("  LP Amount:    %s\n", *lpAmount)
	fmt.Println()

	// Check health
	fmt.Print("Checking API health... ")
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        1000,
			MaxIdleConnsPerHost: 200,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("FAILED: status %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("OK")
	fmt.Println()

	results := &BenchmarkResults{
		DepositLatencies:  make([]time.Duration, 0, *count),
		WithdrawLatencies: make([]time.Duration, 0, *count),
	}

	// Semaphore for concurrency control
	sem := make(chan struct{}, *concurrency)
	var wg sync.WaitGroup

	// Progress tracking
	var processed int64
	total := int64(*count * 2)
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := atomic.LoadInt64(&processed)
				pct := float64(p) / float64(total) * 100
				fmt.Printf("\r  Progress: %d/%d (%.1f%%)    ", p, total, pct)
			}
		}
	}()

	fmt.Println("Starting benchmark...")
	startTime := time.Now()

	for i := 0; i < *count; i++ {
		// Deposit
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			addr := providerAddr(idx)
			req := &DepositRequest{
				Depositor: addr,
				Denom:     *denom,
				Amount:    *amount,
			}

			latency, success := postJSON(client, *baseURL+"/v1/pool/deposit", addr, req)
			results.AddDeposit(latency, success)
			atomic.AddInt64(&processed, 1)
		}(i)

		// Withdrawal
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			addr := providerAddr(idx)
			req := &WithdrawRequest{
				Withdrawer: addr,
				Denom:      *denom,
				LpAmount:   *lpAmount,
			}

			latency, success := postJSON(client, *baseURL+"/v1/pool/withdraw", addr, req)
			results.AddWithdraw(latency, success)
			atomic.AddInt64(&processed, 1)
		}(i)
	}

	wg.Wait()
	close(done)
	elapsed := time.Since(startTime)

	fmt.Printf("\r                                                              \r")
	fmt.Println()

	// Calculate statistics
	allLatencies := append(results.DepositLatencies, results.WithdrawLatencies...)
	totalReqs := results.Deposits + results.Withdrawals
	totalSuccess := results.DepositSuccess + results.WithdrawSuccess
	totalFailed := results.DepositFailed + results.WithdrawFailed
	successRate := float64(totalSuccess) / float64(totalReqs) * 100
	throughput := float64(totalReqs) / elapsed.Seconds()

	fmt.Println("=== BENCHMARK RESULTS ===")
	fmt.Println()
	fmt.Printf("Test Duration:        %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Throughput:           %.2f req/sec\n", throughput)
	fmt.Println()

	fmt.Println("-- Request Statistics --")
	fmt.Printf("  Total Requests:     %d\n", totalReqs)
	fmt.Printf("  Deposits:           %d (success: %d, failed: %d)\n", results.Deposits, results.DepositSuccess, results.DepositFailed)
	fmt.Printf("  Withdrawals:        %d (success: %d, failed: %d)\n", results.Withdrawals, results.WithdrawSuccess, results.WithdrawFailed)
	fmt.Printf("  Success Rate:       %.2f%%\n", successRate)
	fmt.Println()

	fmt.Println("-- Overall Latency --")
	fmt.Printf("  Min:                %v\n", minLat(allLatencies))
	fmt.Printf("  Max:                %v\n", maxLat(allLatencies))
	fmt.Printf("  Average:            %v\n", avg(allLatencies))
	fmt.Printf("  P50 (Median):       %v\n", percentile(allLatencies, 0.50))
	fmt.Printf("  P90:                %v\n", percentile(allLatencies, 0.90))
	fmt.Printf("  P95:                %v\n", percentile(allLatencies, 0.95))
	fmt.Printf("  P99:                %v\n", percentile(allLatencies, 0.99))
	fmt.Println()

	fmt.Println("-- Deposit Latency --")
	fmt.Printf("  Average:            %v\n", avg(results.DepositLatencies))
	fmt.Printf("  P99:                %v\n", percentile(results.DepositLatencies, 0.99))
	fmt.Println()

	fmt.Println("-- Withdrawal Latency --")
	fmt.Printf("  Average:            %v\n", avg(results.WithdrawLatencies))
	fmt.Printf("  P99:                %v\n", percentile(results.WithdrawLatencies, 0.99))
	fmt.Println()

	// Save report if requested
	if *outputFile != "" {
		report := map[string]interface{}{
			"config": map[string]interface{}{
				"api_url":     *baseURL,
				"denom":       *denom,
				"requests":    *count,
				"concurrency": *concurrency,
				"amount":      *amount,
				"lp_amount":   *lpAmount,
			},
			"summary": map[string]interface{}{
				"duration_ms":        elapsed.Milliseconds(),
				"throughput_per_sec": throughput,
				"total_requests":     totalReqs,
				"success_requests":   totalSuccess,
				"failed_requests":    totalFailed,
				"success_rate":       successRate,
			},
			"latency_all": map[string]interface{}{
				"min_us": minLat(allLatencies).Microseconds(),
				"max_us": maxLat(allLatencies).Microseconds(),
				"avg_us": avg(allLatencies).Microseconds(),
				"p50_us": percentile(allLatencies, 0.50).Microseconds(),
				"p90_us": percentile(allLatencies, 0.90).Microseconds(),
				"p95_us": percentile(allLatencies, 0.95).Microseconds(),
				"p99_us": percentile(allLatencies, 0.99).Microseconds(),
			},
			"latency_deposit": map[string]interface{}{
				"avg_us": avg(results.DepositLatencies).Microseconds(),
				"p99_us": percentile(results.DepositLatencies, 0.99).Microseconds(),
			},
			"latency_withdraw": map[string]interface{}{
				"avg_us": avg(results.WithdrawLatencies).Microseconds(),
				"p99_us": percentile(results.WithdrawLatencies, 0.99).Microseconds(),
			},
			"timestamp": time.Now().Format(time.RFC3339),
		}

		file, err := os.Create(*outputFile)
		if err != nil {
			fmt.Printf("Failed to create report file: %v\n", err)
		} else {
			defer file.Close()
			encoder := json.NewEncoder(file)
			encoder.SetIndent("", "  ")
			_ = encoder.Encode(report)
			fmt.Printf("\nReport saved to: %s\n", *outputFile)
		}
	}
}
