package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/model"
)

func makeMessage(text string) model.UnifiedMessage {
	return model.UnifiedMessage{
		ID:               "msg-1",
		RawText:          text,
		SourceType:       model.SourceSMS,
		SenderIdentifier: "VM-HDFCBK",
		Timestamp:        time.Now(),
		ConfidenceHint:   0.8,
	}
}

func TestNormalizeStripURLs(t *testing.T) {
	e := New()

	result := e.Normalize(makeMessage("Balance low. Check https://bank.example.com/app now"))

	assert.NotContains(t, result.CleanText, "https://")
	assert.Contains(t, result.ProcessingMetadata.NoiseRemoved, "https://bank.example.com/app")
}

func TestNormalizeOTPCodes(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantInText string
		wantGone   string
	}{
		{
			name:     "otp near keyword is stripped",
			input:    "Your OTP for login is 482913. Do not share it.",
			wantGone: "482913",
		},
		{
			name:       "plain number far from keywords survives",
			input:      "Amount 4829 debited from account",
			wantInText: "4829",
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Normalize(makeMessage(tt.input))
			if tt.wantGone != "" {
				assert.NotContains(t, result.CleanText, tt.wantGone)
				assert.Contains(t, result.ProcessingMetadata.NoiseRemoved, tt.wantGone)
			}
			if tt.wantInText != "" {
				assert.Contains(t, result.CleanText, tt.wantInText)
			}
		})
	}
}

func TestNormalizeEmails(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKept bool
	}{
		{
			name:     "random email is stripped",
			input:    "Contact support@shopping.example for help",
			wantKept: false,
		},
		{
			name:     "email near account keyword is kept",
			input:    "Transaction alert for account registered to user@example.com",
			wantKept: true,
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Normalize(makeMessage(tt.input))
			if tt.wantKept {
				assert.Contains(t, result.CleanText, "@")
			} else {
				assert.NotContains(t, result.CleanText, "@")
			}
		})
	}
}

func TestNormalizeAbbreviations(t *testing.T) {
	e := New()

	result := e.Normalize(makeMessage("TXN of AMT 500 from A/C XX1234. Ref: AB123"))

	assert.Contains(t, result.CleanText, "transaction")
	assert.Contains(t, result.CleanText, "amount")
	assert.Contains(t, result.CleanText, "account XX1234")
	assert.Contains(t, result.CleanText, "reference: AB123")
}

func TestNormalizeAbbreviationInsideTokenUntouched(t *testing.T) {
	e := New()

	// TXN123456 is a reference number, not the abbreviation TXN.
	result := e.Normalize(makeMessage("Ref: TXN123456"))

	assert.Contains(t, result.CleanText, "TXN123456")
}

func TestNormalizeCurrencySymbols(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"₹5,000 debited", "INR 5,000 debited"},
		{"$25.50 charged", "USD 25.50 charged"},
		{"€100 received", "EUR 100 received"},
		{"£42 spent", "GBP 42 spent"},
		{"Rs. 750 paid", "INR 750 paid"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := e.Normalize(makeMessage(tt.input))
			assert.Equal(t, tt.want, result.CleanText)
		})
	}
}

func TestNormalizeDropsPromotionalSentences(t *testing.T) {
	e := New()

	result := e.Normalize(makeMessage("50% off! Click here to shop now"))

	assert.Empty(t, result.CleanText)
	assert.Len(t, result.ProcessingMetadata.NoiseRemoved, 2)
}

func TestNormalizeKeepsTransactionDropsPromo(t *testing.T) {
	e := New()

	result := e.Normalize(makeMessage("INR 500 debited from account. Get 10% discount on your next order!"))

	assert.Contains(t, result.CleanText, "debited")
	assert.NotContains(t, result.CleanText, "discount")
}

func TestNormalizeKeepsDecimalAmountsIntact(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			input: "HDFC Bank: Amount ₹2,500.50 debited from A/C XX1234. Ref: TXN123456",
			want:  "HDFC Bank: Amount INR 2,500.50 debited from account XX1234. reference: TXN123456",
		},
		{
			input: "Paid $0.99 for subscription. Thank you.",
			want:  "Paid USD 0.99 for subscription. Thank you.",
		},
		{
			input: "INR 1,234.56 credited. Avail 20% discount today!",
			want:  "INR 1,234.56 credited.",
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := e.Normalize(makeMessage(tt.input))
			assert.Equal(t, tt.want, result.CleanText)
		})
	}
}

func TestNormalizeLeavesDatesAlone(t *testing.T) {
	e := New()

	result := e.Normalize(makeMessage("Paid on 15 Dec 2025"))

	assert.Contains(t, result.CleanText, "15 Dec 2025")
}

func TestNormalizePreservesOriginalAndIsPure(t *testing.T) {
	e := New()
	msg := makeMessage("₹100 debited #promo https://x.example")

	first := e.Normalize(msg)
	second := e.Normalize(msg)

	assert.Equal(t, msg.RawText, first.OriginalRawText)
	assert.Equal(t, first.CleanText, second.CleanText)
	assert.Equal(t, first.ProcessingMetadata, second.ProcessingMetadata)
}

func TestNormalizeScenarioEndToEnd(t *testing.T) {
	e := New()

	result := e.Normalize(makeMessage("HDFC Bank: Amount ₹5,000 debited from A/C XX1234. Ref: TXN123456. Date: 15 Dec 2025"))

	require.Equal(t,
		"HDFC Bank: Amount INR 5,000 debited from account XX1234. reference: TXN123456. Date: 15 Dec 2025",
		result.CleanText)
	assert.NotEmpty(t, result.ProcessingMetadata.Normalizations)
}
