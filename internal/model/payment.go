package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest represents an incoming payment record payload.
type PaymentRequest struct {
	Timestamp  int64           `json:"timestamp"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Status     string          `json:"status"`
	Reference  *string         `json:"reference"`
	RawPayload map[string]any  `json:"rawPayload"`
}

// Payment is the domain model persisted in the database. Amount is the
// externally-recorded settlement amount; RawPayload carries the nested
// purchase document exactly as received.
type Payment struct {
	Timestamp  time.Time
	Amount     decimal.Decimal
	Method     string
	Status     string
	Reference  string
	RawPayload map[string]any
}

// PaymentResult reports the outcome of an ingestion call.
type PaymentResult struct {
	Status string `json:"status"`
}
