package feeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// PriceSubmitter defines the interface for delivering quotes to the pool
type PriceSubmitter interface {
	// SubmitQuotes submits a batch of quotes
	SubmitQuotes(ctx context.Context, quotes []*Quote) error

	// GetStatus returns the submitter status
	GetStatus() SubmitterStatus
}

// SubmitterStatus represents the status of a submitter
type SubmitterStatus struct {
	Connected         bool
	PendingCount      int
	LastSubmitTime    time.Time
	LastError         string
	TotalSubmissions  int64
	FailedSubmissions int64
}

// MockSubmitter is a mock implementation for testing
type MockSubmitter struct {
	mu              sync.Mutex
	quotes          []*Quote
	status          SubmitterStatus
	simulateFailure bool
}

// NewMockSubmitter creates a new mock submitter
func NewMockSubmitter() *MockSubmitter {
	return &MockSubmitter{
		quotes: make([]*Quote, 0),
		status: SubmitterStatus{
			Connected: true,
		},
	}
}

// SubmitQuotes submits quotes (mock implementation)
func (s *MockSubmitter) SubmitQuotes(ctx context.Context, quotes []*Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.simulateFailure {
		s.status.FailedSubmissions++
		s.status.LastError = "simulated failure"
		return fmt.Errorf("simulated failure")
	}

	s.quotes = append(s.quotes, quotes...)
	s.status.TotalSubmissions++
	s.status.LastSubmitTime = time.Now()

	log.Printf("[MockSubmitter] Submitted %d quotes", len(quotes))
	return nil
}

// GetStatus returns the mock submitter status
func (s *MockSubmitter) GetStatus() SubmitterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// GetSubmittedQuotes returns all submitted quotes (for testing)
func (s *MockSubmitter) GetSubmittedQuotes() []*Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*Quote, len(s.quotes))
	copy(result, s.quotes)
	return result
}

// SetSimulateFailure enables or disables failure simulation
func (s *MockSubmitter) SetSimulateFailure(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulateFailure = fail
}

// Clear clears all submitted data (for testing)
func (s *MockSubmitter) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = make([]*Quote, 0)
}

// APISubmitter posts quotes to the pool API price endpoint with retries
type APISubmitter struct {
	apiURL        string
	retryAttempts int
	retryDelay    time.Duration
	client        *http.Client

	mu     sync.Mutex
	status SubmitterStatus
}

// APISubmitterConfig holds configuration for APISubmitter
type APISubmitterConfig struct {
	APIURL        string
	RetryAttempts int
	RetryDelay    time.Duration
	Timeout       time.Duration
}

// DefaultAPISubmitterConfig returns default configuration
func DefaultAPISubmitterConfig() *APISubmitterConfig {
	return &APISubmitterConfig{
		APIURL:        "http://localhost:8080",
		RetryAttempts: 3,
		RetryDelay:    time.Second,
		Timeout:       5 * time.Second,
	}
}

// NewAPISubmitter creates a new API submitter
func NewAPISubmitter(config *APISubmitterConfig) *APISubmitter {
	if config == nil {
		config = DefaultAPISubmitterConfig()
	}

	return &APISubmitter{
		apiURL:        config.APIURL,
		retryAttempts: config.RetryAttempts,
		retryDelay:    config.RetryDelay,
		client:        &http.Client{Timeout: config.Timeout},
		status: SubmitterStatus{
			Connected: true,
		},
	}
}

// SubmitQuotes posts each quote to the price endpoint
func (s *APISubmitter) SubmitQuotes(ctx context.Context, quotes []*Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	s.mu.Lock()
	s.status.PendingCount = len(quotes)
	s.mu.Unlock()

	for _, quote := range quotes {
		if err := s.submitWithRetry(ctx, quote); err != nil {
			s.mu.Lock()
			s.status.FailedSubmissions++
			s.status.LastError = err.Error()
			s.mu.Unlock()
			return fmt.Errorf("failed to submit quote %s: %w", quote.Key(), err)
		}
	}

	s.mu.Lock()
	s.status.TotalSubmissions++
	s.status.LastSubmitTime = time.Now()
	s.status.PendingCount = 0
	s.mu.Unlock()

	return nil
}

// submitWithRetry submits a single quote with retry logic
func (s *APISubmitter) submitWithRetry(ctx context.Context, quote *Quote) error {
	var lastErr error
	for attempt := 0; attempt < s.retryAttempts; attempt++ {
		if err := s.submit(ctx, quote); err != nil {
			lastErr = err
			log.Printf("Quote submission attempt %d failed: %v", attempt+1, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all retry attempts failed: %w", lastErr)
}

// submit posts a single quote
func (s *APISubmitter) submit(ctx context.Context, quote *Quote) error {
	payload := map[string]string{
		"source_id": quote.SourceID,
		"denom":     quote.Denom,
		"price":     quote.Price.String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/v1/prices", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("price endpoint returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// GetStatus returns the submitter status
func (s *APISubmitter) GetStatus() SubmitterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetAPIURL updates the API base URL
func (s *APISubmitter) SetAPIURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiURL = url
}

// SubmitterFactory creates submitters based on configuration
type SubmitterFactory struct{}

// NewSubmitterFactory creates a new submitter factory
func NewSubmitterFactory() *SubmitterFactory {
	return &SubmitterFactory{}
}

// Create creates a new submitter based on the type
func (f *SubmitterFactory) Create(submitterType string, config *APISubmitterConfig) PriceSubmitter {
	switch submitterType {
	case "mock":
		return NewMockSubmitter()
	case "api":
		return NewAPISubmitter(config)
	default:
		return NewMockSubmitter()
	}
}
