package ingest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
)

func TestReasonForSentinel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"source disabled", common.ErrSourceDisabled, model.ReasonSourceDisabled},
		{"auto-detection disabled", common.ErrAutoDetectionDisabled, model.ReasonAutoDetectionDisabled},
		{"no transaction", common.ErrNoTransactionDetected, model.ReasonNoTransactionDetected},
		{"incomplete extraction", common.ErrIncompleteExtraction, model.ReasonIncompleteExtraction},
		{"low confidence", common.ErrLowConfidence, model.ReasonLowConfidence},
		{"duplicate", common.ErrDuplicateTransaction, model.ReasonDuplicate},
		{"wrapped sentinel", fmt.Errorf("gate: %w", common.ErrLowConfidence), model.ReasonLowConfidence},
		{"unrelated error", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reasonForSentinel(tt.err))
		})
	}
}

func TestRejectionCarriesReasonAndDetail(t *testing.T) {
	result := rejection("msg-1", common.ErrDuplicateTransaction, "exact hash match")

	assert.False(t, result.Success)
	assert.Equal(t, "msg-1", result.MessageID)
	assert.Equal(t, model.ReasonDuplicate, result.Reason)
	assert.Equal(t, "exact hash match", result.Error)
}
