package ingest

import (
	"errors"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
)

// reasonForSentinel maps a pipeline sentinel error to the stable reason
// string surfaced in IngestionResult.Reason. Gates inside the pipeline speak
// in sentinels; callers see reasons.
func reasonForSentinel(err error) string {
	switch {
	case errors.Is(err, common.ErrSourceDisabled):
		return model.ReasonSourceDisabled
	case errors.Is(err, common.ErrAutoDetectionDisabled):
		return model.ReasonAutoDetectionDisabled
	case errors.Is(err, common.ErrNoTransactionDetected):
		return model.ReasonNoTransactionDetected
	case errors.Is(err, common.ErrIncompleteExtraction):
		return model.ReasonIncompleteExtraction
	case errors.Is(err, common.ErrLowConfidence):
		return model.ReasonLowConfidence
	case errors.Is(err, common.ErrDuplicateTransaction):
		return model.ReasonDuplicate
	}
	return ""
}

// rejection converts a sentinel raised by a pipeline gate into a terminal
// result. The detail string carries gate-specific context, if any.
func rejection(messageID string, sentinel error, detail string) model.IngestionResult {
	return model.IngestionResult{
		Success:   false,
		MessageID: messageID,
		Reason:    reasonForSentinel(sentinel),
		Error:     detail,
	}
}
