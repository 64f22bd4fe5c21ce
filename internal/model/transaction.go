package model

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// HashGranularity controls how timestamps are truncated before hashing.
// Day granularity makes the exact hash a coarse idempotency key: logically
// identical transactions hash identically regardless of which source
// reported them or at what second.
type HashGranularity time.Duration

// Hash granularity presets.
const (
	GranularityDay    = HashGranularity(24 * time.Hour)
	GranularityMinute = HashGranularity(time.Minute)
)

// Transaction is the final persisted record, created at most once per unique
// real-world transaction. The pipeline never mutates it after creation.
type Transaction struct {
	Date               time.Time
	CreatedAt          time.Time
	ID                 string
	UserID             string
	AccountID          string
	Hash               string
	Type               string
	Currency           string
	Provider           string
	AccountIdentifier  string
	ReferenceNumber    string
	Description        string
	Counterparty       string
	Category           string
	Notes              string
	ExtractionJSON     string
	ClassificationJSON string
	Amount             float64
	Confidence         float64
}

// hashFields is the canonical shape hashed for duplicate detection. Field
// order is fixed; changing it changes every stored hash.
type hashFields struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Date      string  `json:"date"`
	Provider  string  `json:"provider"`
	Account   string  `json:"account"`
	Reference string  `json:"reference"`
}

// GenerateHash returns the SHA-256 fingerprint of the transaction's core
// fields at day granularity.
func (t *Transaction) GenerateHash() string {
	return t.GenerateHashAt(GranularityDay)
}

// GenerateHashAt computes the fingerprint with an explicit timestamp
// granularity.
func (t *Transaction) GenerateHashAt(granularity HashGranularity) string {
	fields := hashFields{
		Amount:    t.Amount,
		Currency:  t.Currency,
		Date:      t.Date.UTC().Truncate(time.Duration(granularity)).Format(time.RFC3339),
		Provider:  t.Provider,
		Account:   t.AccountIdentifier,
		Reference: t.ReferenceNumber,
	}
	data, err := json.Marshal(fields)
	if err != nil {
		// hashFields contains only primitives; Marshal cannot fail.
		panic(fmt.Sprintf("marshal hash fields: %v", err))
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
