package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/liquidity-pool/api"
)

func main() {
	// Command line flags
	host := flag.String("host", "0.0.0.0", "Server host")
	port := flag.Int("port", 8080, "Server port")
	mockMode := flag.Bool("mock", false, "Serve mock data instead of real pool state")
	admin := flag.String("admin", "", "Pool admin address (keeper mode, derived default when empty)")
	benchMode := flag.Bool("bench", false, "Disable rate limiting for benchmarks")
	flag.Parse()

	if *admin == "" {
		*admin = sdk.AccAddress([]byte("pool_admin__________")).String()
	}

	config := &api.Config{
		Host:             *host,
		Port:             *port,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		MockMode:         *mockMode,
		DisableRateLimit: *benchMode,
		PriceDenoms:      []string{"usdc", "wsol"},
	}

	var server *api.Server
	if *mockMode {
		server = api.NewServer(config)
		log.Println("Using mock pool service")
	} else {
		var err error
		server, err = api.NewServerWithKeeperService(config, *admin)
		if err != nil {
			log.Fatalf("Failed to create keeper service: %v", err)
		}
		log.Println("Using keeper service (in-memory store)")
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Liquidity pool API started on %s:%d", *host, *port)
	log.Printf("WebSocket endpoint: ws://%s:%d/ws", *host, *port)
	log.Printf("Health check: http://%s:%d/health", *host, *port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server exited")
}
