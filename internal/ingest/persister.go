// Package ingest orchestrates the transaction ingestion pipeline: normalize,
// detect, classify, deduplicate, persist. Every failure mode is converted to
// a structured IngestionResult at this boundary; nothing escapes to callers
// as a panic or unhandled error.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/dedup"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

// defaultDedupSpan is how far around the candidate's date the persister
// queries existing records for fuzzy deduplication.
const defaultDedupSpan = 48 * time.Hour

// Persister gates candidates on confidence and duplicate status before
// writing final records.
type Persister struct {
	storage   service.Storage
	dedup     *dedup.Engine
	dedupSpan time.Duration
}

// NewPersister creates a persister over the given storage and dedup engine.
func NewPersister(storage service.Storage, dedupEngine *dedup.Engine) *Persister {
	return &Persister{
		storage:   storage,
		dedup:     dedupEngine,
		dedupSpan: defaultDedupSpan,
	}
}

// CreateFromCandidate applies the confidence gate and both dedup checks,
// then writes the final record. Unexpected failures are caught and surfaced
// as a failed result, never thrown further up.
func (p *Persister) CreateFromCandidate(ctx context.Context, cand *model.TransactionCandidate, userID, accountID string, confidenceThreshold float64) model.IngestionResult {
	messageID := cand.Message.ID

	// A candidate with no extracted amount must never be written, whatever
	// its confidence claims.
	if cand.ExtractedData.Amount == nil {
		return rejection(messageID, common.ErrIncompleteExtraction, "candidate has no amount")
	}

	if cand.ConfidenceScore < confidenceThreshold {
		common.LogDebug("Candidate below confidence threshold", common.Fields{
			"message_id": messageID,
			"confidence": cand.ConfidenceScore,
			"threshold":  confidenceThreshold,
		})
		return rejection(messageID, common.ErrLowConfidence,
			fmt.Sprintf("confidence %.2f below threshold %.2f", cand.ConfidenceScore, confidenceThreshold))
	}

	record, err := p.buildRecord(cand, userID, accountID)
	if err != nil {
		return failure(messageID, "", err.Error())
	}

	// Fast idempotency check on the exact hash.
	exists, err := p.storage.HashExists(ctx, accountID, record.Hash)
	if err != nil {
		return failure(messageID, "", fmt.Sprintf("hash lookup failed: %v", err))
	}
	if exists {
		return rejection(messageID, common.ErrDuplicateTransaction, "exact hash match")
	}

	// Fuzzy similarity against nearby history catches the same transaction
	// reported through a different source with slightly different fields.
	recent, err := p.storage.GetRecentTransactions(ctx, accountID, service.RecentWindow{
		Around: record.Date,
		Span:   p.dedupSpan,
	})
	if err != nil {
		return failure(messageID, "", fmt.Sprintf("recent transactions lookup failed: %v", err))
	}
	if dup, matches, reason := p.dedup.IsDuplicate(record, recent); dup {
		common.LogDebug("Candidate rejected as duplicate", common.Fields{
			"message_id": messageID,
			"matches":    len(matches),
			"reason":     reason,
		})
		return rejection(messageID, common.ErrDuplicateTransaction, reason)
	}

	if err := p.storage.SaveTransaction(ctx, record); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return rejection(messageID, common.ErrDuplicateTransaction, "exact hash match")
		}
		return failure(messageID, "", fmt.Sprintf("write failed: %v", err))
	}

	return model.IngestionResult{
		Success:   true,
		RecordID:  record.ID,
		MessageID: messageID,
		Metadata: map[string]string{
			"intent":     string(cand.Intent),
			"confidence": fmt.Sprintf("%.2f", cand.ConfidenceScore),
		},
	}
}

// buildRecord converts a candidate into the final record, attaching the
// extraction and classification details as JSON for audit.
func (p *Persister) buildRecord(cand *model.TransactionCandidate, userID, accountID string) (*model.Transaction, error) {
	data := cand.ExtractedData

	date := data.Date
	if date.IsZero() {
		date = cand.Message.Timestamp
	}
	if date.IsZero() {
		date = time.Now()
	}

	record := &model.Transaction{
		ID:                uuid.New().String(),
		UserID:            userID,
		AccountID:         accountID,
		Date:              date,
		Type:              data.Type,
		Amount:            *data.Amount,
		Currency:          data.Currency,
		Provider:          data.BankOrProvider,
		AccountIdentifier: data.AccountIdentifier,
		ReferenceNumber:   data.ReferenceNumber,
		Description:       data.Description,
		Counterparty:      data.Counterparty,
		Confidence:        cand.ConfidenceScore,
		Notes:             buildNotes(data),
	}
	if cand.Classification != nil {
		record.Category = cand.Classification.Category
		classificationJSON, err := json.Marshal(cand.Classification)
		if err != nil {
			return nil, fmt.Errorf("marshal classification: %w", err)
		}
		record.ClassificationJSON = string(classificationJSON)
	}

	extractionJSON, err := json.Marshal(cand.ExtractionDetails)
	if err != nil {
		return nil, fmt.Errorf("marshal extraction details: %w", err)
	}
	record.ExtractionJSON = string(extractionJSON)

	record.Hash = p.dedup.GenerateHash(record)
	return record, nil
}

// buildNotes writes the reference number into the record's notes so later
// candidates carrying the same reference correlate against it.
func buildNotes(data model.ExtractedTransactionData) string {
	var parts []string
	if data.ReferenceNumber != "" {
		parts = append(parts, "ref: "+data.ReferenceNumber)
	}
	if data.Counterparty != "" {
		parts = append(parts, "counterparty: "+data.Counterparty)
	}
	return strings.Join(parts, "; ")
}

func failure(messageID, reason, errMsg string) model.IngestionResult {
	return model.IngestionResult{
		Success:   false,
		MessageID: messageID,
		Reason:    reason,
		Error:     errMsg,
	}
}
