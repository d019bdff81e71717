package analyzers

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/insights/stats"
	"github.com/shopspring/decimal"
)

type spendAnalyzer struct {
	settings Settings
}

func NewSpendAnalyzer(settings Settings) ReportAnalyzer {
	return &spendAnalyzer{settings: settings}
}

func (a *spendAnalyzer) Name() string { return "spend" }

func (a *spendAnalyzer) ReportType() domain.ReportType { return domain.ReportSpendSummary }

func (a *spendAnalyzer) Analyze(_ context.Context, in Input) ([]domain.InsightEntry, error) {
	var entries []domain.InsightEntry

	series, labels := chronological(in.Summary.ByMonth, periodTotal)
	if len(series) >= 2 {
		entries = append(entries, a.trend(series))
		if spikes, ok := a.spikes(series, labels); ok {
			entries = append(entries, spikes)
		}
		entries = append(entries, a.forecast(series))
	}

	entries = append(entries, a.concentration(in.Summary)...)
	return entries, nil
}

func (a *spendAnalyzer) trend(series []float64) domain.InsightEntry {
	direction := stats.DetectTrend(series)

	confidence := domain.ConfidenceMedium
	if len(series) >= a.settings.HighConfidenceMonths {
		confidence = domain.ConfidenceHigh
	}

	return domain.InsightEntry{
		Category:   domain.CategoryTrend,
		Type:       "spending_trend",
		Message:    fmt.Sprintf("Monthly spending is %s over the last %d months", direction, len(series)),
		Confidence: confidence,
		Data: domain.TrendPayload{
			Direction:     string(direction),
			Periods:       len(series),
			Series:        series,
			MovingAverage: stats.MovingAverage(series, a.settings.WindowSize),
		},
	}
}

func (a *spendAnalyzer) spikes(series []float64, labels []string) (domain.InsightEntry, bool) {
	anomalies := stats.DetectAnomalies(series, a.settings.AnomalyThreshold)
	if len(anomalies) == 0 {
		return domain.InsightEntry{}, false
	}

	severity := domain.SeverityMedium
	if len(anomalies) > a.settings.HighSeveritySpikes {
		severity = domain.SeverityHigh
	}

	points := make([]domain.SpikePoint, 0, len(anomalies))
	months := make([]string, 0, len(anomalies))
	for _, an := range anomalies {
		points = append(points, domain.SpikePoint{Label: labels[an.Index], Value: an.Value, ZScore: an.ZScore})
		months = append(months, labels[an.Index])
	}

	return domain.InsightEntry{
		Category: domain.CategoryAnomaly,
		Type:     "spending_spike",
		Message: fmt.Sprintf("Detected %s in monthly spending (%s)",
			plural(len(anomalies), "unusual spike", "unusual spikes"), strings.Join(months, ", ")),
		Severity: severity,
		Data:     domain.SpikePayload{Threshold: a.settings.AnomalyThreshold, Points: points},
	}, true
}

func (a *spendAnalyzer) forecast(series []float64) domain.InsightEntry {
	values := stats.PredictNext(series, a.settings.ForecastPeriods, a.settings.SmoothingAlpha)

	confidence := domain.ConfidenceLow
	if len(series) >= a.settings.HighConfidenceMonths {
		confidence = domain.ConfidenceMedium
	}

	next := 0.0
	if len(values) > 0 {
		next = values[0]
	}

	return domain.InsightEntry{
		Category:   domain.CategoryPrediction,
		Type:       "spending_forecast",
		Message:    fmt.Sprintf("Projected spending is %.2f per month for the next %d months", next, len(values)),
		Confidence: confidence,
		Data:       domain.ForecastPayload{Alpha: a.settings.SmoothingAlpha, Values: values},
	}
}

// concentration flags a single vendor holding strictly more than the
// configured share of total spend.
func (a *spendAnalyzer) concentration(summary domain.Summary) []domain.InsightEntry {
	if !summary.TotalAmount.IsPositive() || len(summary.ByVendor) == 0 {
		return nil
	}

	top := summary.ByVendor[0]
	for _, v := range summary.ByVendor[1:] {
		if v.Total.GreaterThan(top.Total) {
			top = v
		}
	}

	share := top.Total.Div(summary.TotalAmount).Mul(decimal.NewFromInt(100))
	if !share.GreaterThan(decimal.NewFromFloat(a.settings.ConcentrationPercent)) {
		return nil
	}

	sharePercent := share.Round(2).InexactFloat64()
	return []domain.InsightEntry{
		{
			Category: domain.CategoryRisk,
			Type:     "vendor_concentration",
			Message:  fmt.Sprintf("%s accounts for %.2f%% of total spend", top.Vendor, sharePercent),
			Severity: domain.SeverityHigh,
			Data: domain.ConcentrationPayload{
				Vendor:       top.Vendor,
				VendorTotal:  top.Total.InexactFloat64(),
				SharePercent: sharePercent,
			},
		},
		{
			Category: domain.CategoryRecommendation,
			Type:     "diversify_vendors",
			Message:  fmt.Sprintf("Consider diversifying suppliers to reduce dependency on %s", top.Vendor),
		},
	}
}
