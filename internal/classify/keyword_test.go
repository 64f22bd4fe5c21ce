package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/model"
)

func candidateWith(text, counterparty string, intent model.Intent) model.TransactionCandidate {
	return model.TransactionCandidate{
		Intent: intent,
		Message: model.NormalizedMessage{
			CleanText: text,
		},
		ExtractedData: model.ExtractedTransactionData{
			Counterparty: counterparty,
		},
	}
}

func TestClassifyDefaultRules(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		counterparty string
		intent       model.Intent
		wantCategory string
	}{
		{
			name:         "salary credit",
			text:         "Salary for Nov credited to account",
			intent:       model.IntentCredit,
			wantCategory: "Salary",
		},
		{
			name:         "groceries by counterparty",
			text:         "INR 1,200 debited",
			counterparty: "BigBasket",
			intent:       model.IntentDebit,
			wantCategory: "Groceries",
		},
		{
			name:         "dining",
			text:         "USD 18.50 charged at Blue Bottle Coffee",
			intent:       model.IntentDebit,
			wantCategory: "Dining Out",
		},
		{
			name:         "transport",
			text:         "Payment to Uber India",
			intent:       model.IntentDebit,
			wantCategory: "Transport",
		},
		{
			name:         "neft transfer",
			text:         "NEFT of INR 10,000 processed",
			intent:       model.IntentTransfer,
			wantCategory: "Transfers",
		},
		{
			name:         "atm withdrawal",
			text:         "INR 2,000 withdrawn at ATM",
			intent:       model.IntentDebit,
			wantCategory: "Cash",
		},
	}

	c, err := NewKeywordClassifier(DefaultRules())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Classify(context.Background(), candidateWith(tt.text, tt.counterparty, tt.intent))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, "keyword", result.Provider)
			assert.Greater(t, result.Confidence, 0.5)
		})
	}
}

func TestClassifyFallbackByIntent(t *testing.T) {
	tests := []struct {
		intent model.Intent
		want   string
	}{
		{model.IntentCredit, "Other Income"},
		{model.IntentTransfer, "Transfers"},
		{model.IntentDebit, "Uncategorized"},
	}

	c, err := NewKeywordClassifier(DefaultRules())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			result, err := c.Classify(context.Background(), candidateWith("INR 42 moved somewhere unremarkable", "", tt.intent))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Category)
			assert.InDelta(t, 0.3, result.Confidence, 1e-9)
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	rules := []Rule{
		{Name: "low", Category: "Low", Regex: `coffee`, Priority: 10, Confidence: 0.5},
		{Name: "high", Category: "High", Regex: `coffee`, Priority: 90, Confidence: 0.9},
	}
	c, err := NewKeywordClassifier(rules)
	require.NoError(t, err)

	result, err := c.Classify(context.Background(), candidateWith("coffee shop", "", model.IntentDebit))
	require.NoError(t, err)
	assert.Equal(t, "High", result.Category)
}

func TestNewKeywordClassifierRejectsBadRegex(t *testing.T) {
	_, err := NewKeywordClassifier([]Rule{{Name: "bad", Regex: "([oops"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestUpdateRules(t *testing.T) {
	c, err := NewKeywordClassifier(DefaultRules())
	require.NoError(t, err)
	require.Equal(t, len(DefaultRules()), c.RuleCount())

	err = c.UpdateRules([]Rule{{Name: "only", Category: "Only", Regex: `x`, Confidence: 0.5}})
	require.NoError(t, err)
	assert.Equal(t, 1, c.RuleCount())

	// A bad replacement leaves the existing rules in place.
	err = c.UpdateRules([]Rule{{Name: "bad", Regex: "([oops"}})
	require.Error(t, err)
	assert.Equal(t, 1, c.RuleCount())
}
