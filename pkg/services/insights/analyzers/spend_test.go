package analyzers

import (
	"context"
	"testing"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/insights/aggregate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sixMonthsWithSpike() []domain.FinancialRecord {
	return []domain.FinancialRecord{
		rec("2024-01-15", "1000", withVendor("a")),
		rec("2024-02-15", "1000", withVendor("b")),
		rec("2024-03-15", "1000", withVendor("c")),
		rec("2024-04-15", "1000", withVendor("d")),
		rec("2024-05-15", "1000", withVendor("e")),
		rec("2024-06-15", "5000", withVendor("f")),
	}
}

func TestSpendAnalyzer_SpikeScenario(t *testing.T) {
	// Given
	records := sixMonthsWithSpike()
	in := Input{Records: records, Summary: aggregate.Summarize(records)}
	analyzer := NewSpendAnalyzer(DefaultSettings())

	// When
	entries, err := analyzer.Analyze(context.Background(), in)

	// Then
	require.NoError(t, err)

	trend, ok := findEntry(entries, "spending_trend")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryTrend, trend.Category)
	assert.Equal(t, domain.ConfidenceHigh, trend.Confidence)
	payload := trend.Data.(domain.TrendPayload)
	assert.Equal(t, "increasing", payload.Direction)
	assert.Equal(t, []float64{1000, 1000, 1000, 1000, 1000, 5000}, payload.Series)
	assert.Len(t, payload.MovingAverage, 6)

	spike, ok := findEntry(entries, "spending_spike")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryAnomaly, spike.Category)
	assert.Equal(t, domain.SeverityMedium, spike.Severity)
	assert.Contains(t, spike.Message, "1 unusual spike")
	assert.Contains(t, spike.Message, "2024-06")
	points := spike.Data.(domain.SpikePayload).Points
	require.Len(t, points, 1)
	assert.Equal(t, 5000.0, points[0].Value)

	forecast, ok := findEntry(entries, "spending_forecast")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryPrediction, forecast.Category)
	assert.Len(t, forecast.Data.(domain.ForecastPayload).Values, 3)

	// f holds exactly 50% of spend, which is not a concentration
	assert.Empty(t, entriesOf(entries, domain.CategoryRisk))
}

func TestSpendAnalyzer_ShortSeries(t *testing.T) {
	records := []domain.FinancialRecord{
		rec("2024-01-15", "100", withVendor("a")),
		rec("2024-01-20", "100", withVendor("b")),
	}
	in := Input{Records: records, Summary: aggregate.Summarize(records)}

	entries, err := NewSpendAnalyzer(DefaultSettings()).Analyze(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSpendAnalyzer_MediumConfidenceUnderSixMonths(t *testing.T) {
	records := []domain.FinancialRecord{
		rec("2024-01-15", "100", withVendor("a")),
		rec("2024-02-15", "200", withVendor("b")),
		rec("2024-03-15", "300", withVendor("c")),
	}
	in := Input{Records: records, Summary: aggregate.Summarize(records)}

	entries, err := NewSpendAnalyzer(DefaultSettings()).Analyze(context.Background(), in)

	require.NoError(t, err)
	trend, ok := findEntry(entries, "spending_trend")
	require.True(t, ok)
	assert.Equal(t, domain.ConfidenceMedium, trend.Confidence)
	_, hasSpike := findEntry(entries, "spending_spike")
	assert.False(t, hasSpike)
}

func TestSpendAnalyzer_HighSeverityWithManySpikes(t *testing.T) {
	settings := DefaultSettings()
	settings.AnomalyThreshold = 0.5
	summary := domain.Summary{ByMonth: []domain.PeriodTotal{
		{Period: "2024-05", Total: decimal.NewFromInt(900)},
		{Period: "2024-04", Total: decimal.NewFromInt(10)},
		{Period: "2024-03", Total: decimal.NewFromInt(900)},
		{Period: "2024-02", Total: decimal.NewFromInt(10)},
		{Period: "2024-01", Total: decimal.NewFromInt(900)},
	}}

	entries, err := NewSpendAnalyzer(settings).Analyze(context.Background(), Input{Summary: summary})

	require.NoError(t, err)
	spike, ok := findEntry(entries, "spending_spike")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, spike.Severity)
}

func TestSpendAnalyzer_VendorConcentrationBoundary(t *testing.T) {
	tests := []struct {
		name     string
		top      string
		other    string
		wantRisk bool
	}{
		{name: "exactly half", top: "50", other: "50", wantRisk: false},
		{name: "just over half", top: "5001", other: "4999", wantRisk: true},
		{name: "second vendor dominates", top: "30", other: "70", wantRisk: true},
		{name: "even split of small totals", top: "10", other: "10", wantRisk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []domain.FinancialRecord{
				rec("2024-01-15", tt.top, withVendor("top")),
				rec("2024-01-16", tt.other, withVendor("other")),
			}
			in := Input{Records: records, Summary: aggregate.Summarize(records)}

			entries, err := NewSpendAnalyzer(DefaultSettings()).Analyze(context.Background(), in)
			require.NoError(t, err)

			risks := entriesOf(entries, domain.CategoryRisk)
			if !tt.wantRisk {
				assert.Empty(t, risks)
				return
			}
			require.Len(t, risks, 1)
			assert.Equal(t, domain.SeverityHigh, risks[0].Severity)
			assert.Equal(t, "vendor_concentration", risks[0].Type)
			_, ok := findEntry(entries, "diversify_vendors")
			assert.True(t, ok)
		})
	}
}

func TestSpendAnalyzer_Idempotent(t *testing.T) {
	records := sixMonthsWithSpike()
	in := Input{Records: records, Summary: aggregate.Summarize(records)}
	analyzer := NewSpendAnalyzer(DefaultSettings())

	first, err := analyzer.Analyze(context.Background(), in)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
