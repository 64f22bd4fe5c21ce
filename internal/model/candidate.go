package model

import "time"

// Intent is the broad direction inferred for a message.
type Intent string

// Intent constants.
const (
	IntentCredit   Intent = "credit"
	IntentDebit    Intent = "debit"
	IntentTransfer Intent = "transfer"
	IntentIgnore   Intent = "ignore"
)

// TransactionType maps an intent onto the ledger's income/expense/transfer axis.
func (i Intent) TransactionType() string {
	switch i {
	case IntentCredit:
		return "income"
	case IntentTransfer:
		return "transfer"
	default:
		return "expense"
	}
}

// ExtractedTransactionData holds the structured fields pulled out of a
// message by the detection engine. A nil Amount means no amount was found.
type ExtractedTransactionData struct {
	Date              time.Time
	Amount            *float64
	Type              string
	Currency          string
	BankOrProvider    string
	AccountIdentifier string
	ReferenceNumber   string
	Description       string
	Counterparty      string
}

// ExtractionDetails records how detection arrived at its result: which
// patterns fired, per-field confidence, and any warnings for the user.
type ExtractionDetails struct {
	FieldScores       map[string]float64
	MatchedPatterns   []string
	Warnings          []string
	OverallConfidence float64
}

// ClassificationResult is a category suggestion produced by a classifier.
type ClassificationResult struct {
	Category   string
	Provider   string
	Confidence float64
}

// TransactionCandidate is a provisional, unpersisted transaction inferred
// from a single message. It is created by detection, enriched by
// classification, and consumed by persistence; it never survives past one
// ingest call.
type TransactionCandidate struct {
	ProcessedAt       time.Time
	Classification    *ClassificationResult
	ID                string
	Intent            Intent
	Message           NormalizedMessage
	ExtractedData     ExtractedTransactionData
	ExtractionDetails ExtractionDetails
	ConfidenceScore   float64
}
