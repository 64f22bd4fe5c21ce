package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/model"
)

var baseDate = time.Date(2025, 12, 15, 10, 30, 0, 0, time.UTC)

func record(id string, amount float64, date time.Time) model.Transaction {
	return model.Transaction{
		ID:                id,
		Amount:            amount,
		Currency:          "INR",
		Date:              date,
		Provider:          "HDFC Bank",
		AccountIdentifier: "XX1234",
	}
}

func TestCalculateSimilarityIdentical(t *testing.T) {
	e := New(DefaultOptions())

	a := record("a", 5000, baseDate)
	b := record("b", 5000, baseDate)

	score, signals := e.CalculateSimilarity(&a, &b)
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Contains(t, signals, "amount within tolerance")
	assert.Contains(t, signals, "account identifier match")
	assert.Contains(t, signals, "provider match")
}

func TestAmountToleranceBoundary(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		existing  float64
		want      bool
	}{
		{"identical", 100, 100, true},
		{"exactly one percent", 101, 100, true},
		{"just over one percent", 101.01, 100, false},
		{"one percent below", 99, 100, true},
		{"relative to existing side", 100, 101, true},
		{"small amounts", 1.01, 1.00, true},
		{"small amounts over", 1.02, 1.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, amountsMatch(tt.candidate, tt.existing, 0.01))
		})
	}
}

func TestTimeWindow(t *testing.T) {
	e := New(DefaultOptions())

	tests := []struct {
		name   string
		offset time.Duration
		dup    bool
	}{
		{"same instant", 0, true},
		{"within window", 45 * time.Second, true},
		{"exactly at window", 60 * time.Second, true},
		{"outside window", 61 * time.Second, false},
		{"candidate earlier", -30 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := record("cand", 5000, baseDate.Add(tt.offset))
			existing := []model.Transaction{record("x", 5000, baseDate)}

			matches := e.FindDuplicates(&cand, existing)
			if tt.dup {
				require.Len(t, matches, 1)
				assert.Equal(t, "x", matches[0].TransactionID)
			} else {
				// Amount, account and provider still agree: 0.70 of the
				// evaluated weight, below the 0.85 threshold.
				assert.Empty(t, matches)
			}
		})
	}
}

func TestReferenceNumberDominates(t *testing.T) {
	e := New(DefaultOptions())

	// Different day, different account, same reference. The boosted
	// reference match carries the pair over the threshold by itself.
	cand := record("cand", 5000, baseDate.Add(26*time.Hour))
	cand.ReferenceNumber = "TXN123456"
	cand.AccountIdentifier = "YY9999"

	existing := record("x", 5000, baseDate)
	existing.Notes = "ref: TXN123456; counterparty: Acme"

	score, signals := e.CalculateSimilarity(&cand, &existing)
	assert.GreaterOrEqual(t, score, 0.85)
	assert.LessOrEqual(t, score, 1.0)
	assert.Contains(t, signals, "reference number match")
}

func TestReferenceComparedOnlyWhenBothPresent(t *testing.T) {
	e := New(DefaultOptions())

	// Candidate carries a reference but the existing record has no notes:
	// the reference weight must not be evaluated, so the remaining fields
	// still score a perfect 1.0.
	cand := record("cand", 5000, baseDate)
	cand.ReferenceNumber = "TXN123456"
	existing := record("x", 5000, baseDate)

	score, _ := e.CalculateSimilarity(&cand, &existing)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestMissingFieldsSkippedNotPenalized(t *testing.T) {
	e := New(DefaultOptions())

	cand := model.Transaction{Amount: 5000, Date: baseDate}
	existing := model.Transaction{ID: "x", Amount: 5000, Date: baseDate}

	// Only amount and time evaluated; both match.
	score, _ := e.CalculateSimilarity(&cand, &existing)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarityBelowThresholdNotDuplicate(t *testing.T) {
	e := New(DefaultOptions())

	cand := record("cand", 5000, baseDate)
	existing := record("x", 9999, baseDate.Add(2*time.Hour))
	existing.AccountIdentifier = "ZZ0000"

	dup, matches, reason := e.IsDuplicate(&cand, []model.Transaction{existing})
	assert.False(t, dup)
	assert.Empty(t, matches)
	assert.Empty(t, reason)
}

func TestIsDuplicateReportsBestMatchFirst(t *testing.T) {
	e := New(DefaultOptions())

	cand := record("cand", 5000, baseDate)

	near := record("near", 5000, baseDate)
	partial := record("partial", 5000, baseDate)
	partial.Provider = "Some Other Bank"

	dup, matches, reason := e.IsDuplicate(&cand, []model.Transaction{partial, near})
	require.True(t, dup)
	require.NotEmpty(t, matches)
	assert.Equal(t, "near", matches[0].TransactionID)
	assert.Contains(t, reason, "near")
	assert.Contains(t, reason, "similarity")
}

func TestHashMatchesEngineGranularity(t *testing.T) {
	day := New(DefaultOptions())

	morning := record("a", 5000, time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC))
	evening := record("b", 5000, time.Date(2025, 12, 15, 21, 45, 0, 0, time.UTC))

	assert.Equal(t, day.GenerateHash(&morning), day.GenerateHash(&evening))

	minuteOpts := DefaultOptions()
	minuteOpts.HashGranularity = model.GranularityMinute
	minute := New(minuteOpts)

	assert.NotEqual(t, minute.GenerateHash(&morning), minute.GenerateHash(&evening))
}

func TestNewDefaultsZeroOptions(t *testing.T) {
	e := New(Options{})

	assert.InDelta(t, 0.85, e.opts.SimilarityThreshold, 1e-9)
	assert.InDelta(t, 0.01, e.opts.AmountTolerance, 1e-9)
	assert.Equal(t, 60*time.Second, e.opts.TimeWindow)
	assert.Equal(t, model.GranularityDay, e.opts.HashGranularity)
}
