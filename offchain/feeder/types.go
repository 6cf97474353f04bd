package feeder

import (
	"time"

	"cosmossdk.io/math"
)

// Quote is a single price observation from an oracle source, pending
// submission to the pool API.
type Quote struct {
	SourceID  string
	Denom     string
	Price     math.LegacyDec
	Timestamp time.Time
}

// NewQuote creates a quote stamped with the current time
func NewQuote(sourceID, denom string, price math.LegacyDec) *Quote {
	return &Quote{
		SourceID:  sourceID,
		Denom:     denom,
		Price:     price,
		Timestamp: time.Now(),
	}
}

// Key identifies the quote slot this observation belongs to
func (q *Quote) Key() string {
	return q.SourceID + "/" + q.Denom
}
