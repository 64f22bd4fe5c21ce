package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hashSample() Transaction {
	return Transaction{
		ID:                "txn-1",
		Amount:            5000,
		Currency:          "INR",
		Date:              time.Date(2025, 12, 15, 10, 30, 45, 0, time.UTC),
		Provider:          "HDFC Bank",
		AccountIdentifier: "XX1234",
		ReferenceNumber:   "TXN123456",
	}
}

func TestGenerateHashDeterministic(t *testing.T) {
	a := hashSample()
	b := hashSample()

	assert.Equal(t, a.GenerateHash(), b.GenerateHash())
	assert.Len(t, a.GenerateHash(), 64)
}

func TestGenerateHashIgnoresNonCoreFields(t *testing.T) {
	a := hashSample()
	b := hashSample()
	b.ID = "different"
	b.Description = "coffee"
	b.Category = "Dining"
	b.Confidence = 0.42

	assert.Equal(t, a.GenerateHash(), b.GenerateHash())
}

func TestGenerateHashDayGranularity(t *testing.T) {
	a := hashSample()
	b := hashSample()
	b.Date = a.Date.Add(8 * time.Hour)

	assert.Equal(t, a.GenerateHash(), b.GenerateHash())

	c := hashSample()
	c.Date = a.Date.Add(24 * time.Hour)
	assert.NotEqual(t, a.GenerateHash(), c.GenerateHash())
}

func TestGenerateHashMinuteGranularity(t *testing.T) {
	a := hashSample()
	b := hashSample()
	b.Date = a.Date.Add(5 * time.Second)

	assert.Equal(t, a.GenerateHashAt(GranularityMinute), b.GenerateHashAt(GranularityMinute))

	c := hashSample()
	c.Date = a.Date.Add(2 * time.Minute)
	assert.NotEqual(t, a.GenerateHashAt(GranularityMinute), c.GenerateHashAt(GranularityMinute))
}

func TestGenerateHashSensitiveToCoreFields(t *testing.T) {
	base := hashSample()

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"amount", func(x *Transaction) { x.Amount = 5001 }},
		{"currency", func(x *Transaction) { x.Currency = "USD" }},
		{"provider", func(x *Transaction) { x.Provider = "ICICI Bank" }},
		{"account", func(x *Transaction) { x.AccountIdentifier = "YY9999" }},
		{"reference", func(x *Transaction) { x.ReferenceNumber = "OTHER" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutated := hashSample()
			tt.mutate(&mutated)
			assert.NotEqual(t, base.GenerateHash(), mutated.GenerateHash())
		})
	}
}

func TestGenerateHashNormalizesTimezone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	a := hashSample()
	a.Date = time.Date(2025, 12, 15, 16, 0, 0, 0, ist)
	b := hashSample()
	b.Date = a.Date.UTC()

	assert.Equal(t, a.GenerateHash(), b.GenerateHash())
}
