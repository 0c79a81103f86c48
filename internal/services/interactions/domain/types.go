// Package domain defines the interaction log types
package domain

import (
	"fmt"
	"time"
)

// Channel is where a turn came from
type Channel string

// Channels
const (
	ChannelHTTP     Channel = "http"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelAnalyze  Channel = "analyze"
)

// Valid reports whether c is a known channel
func (c Channel) Valid() bool {
	switch c {
	case ChannelHTTP, ChannelWhatsApp, ChannelAnalyze:
		return true
	}
	return false
}

// Categories written by the turn pipeline and the analyzer
const (
	CategoryGreeting     = "greeting"
	CategoryProductQuery = "product query"
	CategorySentiment    = "sentiment"
)

// SummaryGreeting is the summary of a turn without a product
const SummaryGreeting = "no product mentioned"

// Interaction is one immutable log record
type Interaction struct {
	ID           int64     `json:"id"`
	OriginalText string    `json:"original_text"`
	Category     string    `json:"category"`
	Sentiment    string    `json:"sentiment,omitempty"`
	Summary      string    `json:"summary"`
	Answer       string    `json:"answer"`
	Channel      Channel   `json:"channel"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewInteraction is the input of Record
type NewInteraction struct {
	OriginalText string
	Category     string
	Sentiment    string
	Summary      string
	Answer       string
	Channel      Channel
}

// ProductSummary renders the one line summary of a product query turn
func ProductSummary(identifier, code string, matched, fallback bool) string {
	head := fmt.Sprintf("product query %q", identifier)
	switch {
	case !matched:
		return head + ": no match"
	case fallback:
		return head + ": matched " + code + " (fallback answer)"
	default:
		return head + ": matched " + code
	}
}
