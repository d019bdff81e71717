package analyzers

import (
	"context"
	"testing"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxAnalyzer_InconsistentRate(t *testing.T) {
	// Given ten documents at 20% and one at 5%
	var records []domain.FinancialRecord
	for i := 0; i < 10; i++ {
		records = append(records, rec("2024-01-10", "100", withVAT("20")))
	}
	odd := rec("2024-01-11", "100", withVAT("5"))
	records = append(records, odd, rec("2024-01-12", "0", withVAT("3")))

	// When
	entries, err := NewTaxAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{Records: records})

	// Then
	require.NoError(t, err)
	anomaly, ok := findEntry(entries, "tax_inconsistency")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, anomaly.Severity)
	docs := anomaly.Data.(domain.TaxRatesPayload).Documents
	require.Len(t, docs, 1)
	assert.Equal(t, odd.ID, docs[0].RecordID)
	assert.InDelta(t, 5.0, docs[0].Rate, 1e-9)
	_, ok = findEntry(entries, "verify_vat_coding")
	assert.True(t, ok)
}

func TestTaxAnalyzer_QuarterChangeAndForecast(t *testing.T) {
	// Given
	summary := domain.Summary{ByQuarter: []domain.PeriodTotal{
		{Period: "2024-Q2", VAT: decimal.NewFromInt(150)},
		{Period: "2024-Q1", VAT: decimal.NewFromInt(100)},
	}}

	// When
	entries, err := NewTaxAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{Summary: summary})

	// Then
	require.NoError(t, err)
	trend, ok := findEntry(entries, "vat_trend")
	require.True(t, ok)
	change := trend.Data.(domain.ChangePayload)
	assert.Equal(t, 50.0, change.ChangePercent)
	assert.Equal(t, "2024-Q2", change.CurrentPeriod)
	assert.Contains(t, trend.Message, "increased by 50.00%")

	forecast, ok := findEntry(entries, "vat_forecast")
	require.True(t, ok)
	values := forecast.Data.(domain.ForecastPayload).Values
	require.Len(t, values, 1)
	assert.InDelta(t, 115.0, values[0], 1e-9)
	assert.Equal(t, domain.ConfidenceLow, forecast.Confidence)
}

func TestTaxAnalyzer_ZeroPreviousQuarter(t *testing.T) {
	summary := domain.Summary{ByQuarter: []domain.PeriodTotal{
		{Period: "2024-Q2", VAT: decimal.NewFromInt(50)},
		{Period: "2024-Q1", VAT: decimal.Zero},
	}}

	entries, err := NewTaxAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{Summary: summary})

	require.NoError(t, err)
	trend, ok := findEntry(entries, "vat_trend")
	require.True(t, ok)
	assert.Equal(t, 5000.0, trend.Data.(domain.ChangePayload).ChangePercent)
	assert.NoError(t, trend.Validate())
}

func TestTaxAnalyzer_SingleQuarter(t *testing.T) {
	summary := domain.Summary{ByQuarter: []domain.PeriodTotal{
		{Period: "2024-Q1", VAT: decimal.NewFromInt(100)},
	}}

	entries, err := NewTaxAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{Summary: summary})

	require.NoError(t, err)
	assert.Empty(t, entries)
}
