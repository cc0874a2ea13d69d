package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{150, "$1.50"},
		{500000, "$5,000.00"},
		{1575000, "$15,750.00"},
		{123456789, "$1,234,567.89"},
		{-30000, "-$300.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUSD(tt.cents))
	}
}

func TestRenderQuote(t *testing.T) {
	date := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	doc := QuoteDocument{
		QuoteID:       "AMM-123456",
		Date:          date,
		ValidUntil:    date.AddDate(0, 0, 30),
		AircraftCount: 3,
		Lines: []QuoteLine{
			{Label: "Basic Maintenance Scheduling", UnitPriceCents: 500000, TotalCents: 1500000},
			{Label: "AI Predictive Analytics", UnitPriceCents: 25000, TotalCents: 75000},
		},
		SubtotalCents:    1575000,
		DiscountCode:     "LAUNCH10",
		DiscountCents:    157500,
		TotalCents:       1417500,
		PerAircraftCents: 472500,
	}

	out, err := RenderQuote(doc)
	require.NoError(t, err)
	body := string(out)

	assert.Contains(t, body, "AMMSTRO")
	assert.Contains(t, body, "Quote ID:       AMM-123456")
	assert.Contains(t, body, "Date:           2024-06-15")
	assert.Contains(t, body, "Valid Until:    2024-07-15")
	assert.Contains(t, body, "Aircraft Count: 3")
	assert.Contains(t, body, "Basic Maintenance Scheduling")
	assert.Contains(t, body, "$15,750.00")
	assert.Contains(t, body, "Discount (LAUNCH10)")
	assert.Contains(t, body, "-$1,575.00")
	assert.Contains(t, body, "$14,175.00")
	assert.Contains(t, body, "$4,725.00")
}

func TestRenderQuote_NoDiscountOmitsLine(t *testing.T) {
	doc := QuoteDocument{
		QuoteID:       "AMM-1",
		Date:          time.Now(),
		ValidUntil:    time.Now().AddDate(0, 0, 30),
		AircraftCount: 1,
		Lines: []QuoteLine{
			{Label: "Basic Maintenance Scheduling", UnitPriceCents: 500000, TotalCents: 500000},
		},
		SubtotalCents:    500000,
		TotalCents:       500000,
		PerAircraftCents: 500000,
	}

	out, err := RenderQuote(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Discount")
}
