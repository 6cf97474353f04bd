package feeder

import (
	"sync"
)

// QuoteCache is a thread-safe cache of the latest quote per source and denom
type QuoteCache struct {
	quotes map[string]*Quote
	mu     sync.RWMutex
}

// NewQuoteCache creates a new quote cache
func NewQuoteCache() *QuoteCache {
	return &QuoteCache{
		quotes: make(map[string]*Quote),
	}
}

// Get retrieves a quote from the cache
func (c *QuoteCache) Get(sourceID, denom string) (*Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	quote, exists := c.quotes[sourceID+"/"+denom]
	return quote, exists
}

// Set stores a quote in the cache
func (c *QuoteCache) Set(quote *Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[quote.Key()] = quote
}

// Len returns the number of cached quotes
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// Clear removes all quotes from the cache
func (c *QuoteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes = make(map[string]*Quote)
}

// GetAll returns all cached quotes
func (c *QuoteCache) GetAll() []*Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	quotes := make([]*Quote, 0, len(c.quotes))
	for _, quote := range c.quotes {
		quotes = append(quotes, quote)
	}
	return quotes
}

// GetByDenom returns all cached quotes for a denom
func (c *QuoteCache) GetByDenom(denom string) []*Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	quotes := make([]*Quote, 0)
	for _, quote := range c.quotes {
		if quote.Denom == denom {
			quotes = append(quotes, quote)
		}
	}
	return quotes
}

// QuoteBuffer is a thread-safe buffer for quotes pending submission
type QuoteBuffer struct {
	quotes  []*Quote
	maxSize int
	mu      sync.Mutex
}

// NewQuoteBuffer creates a new quote buffer with the given max batch size
func NewQuoteBuffer(maxSize int) *QuoteBuffer {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &QuoteBuffer{
		quotes:  make([]*Quote, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add adds a quote to the buffer
func (b *QuoteBuffer) Add(quote *Quote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quotes = append(b.quotes, quote)
}

// AddBatch adds multiple quotes to the buffer
func (b *QuoteBuffer) AddBatch(quotes []*Quote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quotes = append(b.quotes, quotes...)
}

// Flush returns all quotes and clears the buffer
func (b *QuoteBuffer) Flush() []*Quote {
	b.mu.Lock()
	defer b.mu.Unlock()
	quotes := b.quotes
	b.quotes = make([]*Quote, 0, b.maxSize)
	return quotes
}

// FlushBatch returns up to maxSize quotes and removes them from the buffer
func (b *QuoteBuffer) FlushBatch() []*Quote {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.quotes) == 0 {
		return nil
	}

	count := b.maxSize
	if len(b.quotes) < count {
		count = len(b.quotes)
	}

	batch := b.quotes[:count]
	b.quotes = b.quotes[count:]
	return batch
}

// Len returns the number of quotes in the buffer
func (b *QuoteBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.quotes)
}

// IsFull returns true if the buffer is at or above max size
func (b *QuoteBuffer) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.quotes) >= b.maxSize
}

// Clear removes all quotes from the buffer
func (b *QuoteBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quotes = make([]*Quote, 0, b.maxSize)
}
