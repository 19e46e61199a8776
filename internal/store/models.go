// Package store persists completed quotes and the chat transcripts that
// produced them.
package store

import (
	"time"

	"laserquote/internal/quote/pricing"
)

// QuoteRecord is the persisted form of a completed quote attempt. Breakdown
// lands in a JSONB column, everything else is flat.
type QuoteRecord struct {
	ID        string
	UserID    string
	SessionID string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Material  string
	Thickness string
	Color     string
	FileName  string
	AreaMM2   float64

	QuoteID    string
	TotalPrice float64
	Breakdown  pricing.Breakdown
	ValidUntil string
	Simulated  bool

	CreatedAt time.Time
}

// ChatMessage is one turn of a quote conversation.
type ChatMessage struct {
	ID             string
	ConversationID string
	UserID         string
	Role           string
	Content        string
	CreatedAt      time.Time
}
