package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "5,000", want: 5000},
		{input: "5000", want: 5000},
		{input: "1,23,456.78", want: 123456.78},
		{input: "25.5", want: 25.5},
		{input: " 100 ", want: 100},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "12..3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.(float64), 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "15 Dec 2025", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{input: "15 December 2025", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{input: "15-Dec-2025", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{input: "15-12-2025", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{input: "15/12/2025", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{input: "2025-12-15", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{input: "Dec 15, 2025", want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
		{input: "not a date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.(time.Time)))
		})
	}
}

func TestTrimAndUpperTransforms(t *testing.T) {
	transforms := builtinTransforms()

	got, err := transforms["trim"]("  Acme Corp  ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got)

	got, err = transforms["upper"]("  inr ")
	require.NoError(t, err)
	assert.Equal(t, "INR", got)
}
