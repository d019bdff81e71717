package analyzers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/insights/aggregate"
	"github.com/de-tools/doc-insights/pkg/services/insights/stats"
)

type crossCuttingAnalyzer struct {
	settings Settings
}

// NewCrossCuttingAnalyzer returns the analyzer that looks for seasonal
// patterns and amount outliers regardless of report type.
func NewCrossCuttingAnalyzer(settings Settings) Analyzer {
	return &crossCuttingAnalyzer{settings: settings}
}

func (a *crossCuttingAnalyzer) Name() string { return "cross-cutting" }

func (a *crossCuttingAnalyzer) Analyze(_ context.Context, in Input) ([]domain.InsightEntry, error) {
	if len(in.Records) <= a.settings.PatternMinRecords {
		return nil, nil
	}

	groups := aggregate.GroupByTemporalDimension(in.Records)
	entries := []domain.InsightEntry{
		busiestMonth(groups),
		activeWeekdays(groups),
	}

	if e, ok := a.amountAnomalies(in.Records); ok {
		entries = append(entries, e)
	}
	return entries, nil
}

func busiestMonth(groups aggregate.TemporalGroups) domain.InsightEntry {
	best := 0
	for i, m := range groups.ByMonth {
		if m.Count > groups.ByMonth[best].Count {
			best = i
		}
	}
	month := groups.ByMonth[best]

	return domain.InsightEntry{
		Category: domain.CategoryPattern,
		Type:     "peak_month",
		Message:  fmt.Sprintf("%s is the busiest month with %s", month.Key, plural(month.Count, "document", "documents")),
		Data: domain.PeakPayload{
			Labels: []string{month.Key},
			Counts: []int{month.Count},
			Totals: []float64{month.Total.InexactFloat64()},
		},
	}
}

// activeWeekdays names up to two weekdays with the most documents. Weekdays
// without documents are never reported.
func activeWeekdays(groups aggregate.TemporalGroups) domain.InsightEntry {
	days := groups.ByWeekday[:]
	order := make([]int, 0, len(days))
	for i, d := range days {
		if d.Count > 0 {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return days[b].Count - days[a].Count
	})

	top := order[:min(2, len(order))]
	payload := domain.PeakPayload{}
	for _, i := range top {
		payload.Labels = append(payload.Labels, days[i].Key)
		payload.Counts = append(payload.Counts, days[i].Count)
		payload.Totals = append(payload.Totals, days[i].Total.InexactFloat64())
	}

	message := fmt.Sprintf("Most documents are dated on %s", strings.Join(payload.Labels, " and "))
	return domain.InsightEntry{
		Category: domain.CategoryPattern,
		Type:     "active_weekdays",
		Message:  message,
		Data:     payload,
	}
}

func (a *crossCuttingAnalyzer) amountAnomalies(records []domain.FinancialRecord) (domain.InsightEntry, bool) {
	amounts := make([]float64, len(records))
	for i, r := range records {
		amounts[i] = r.Amount.InexactFloat64()
	}

	anomalies := stats.DetectAnomalies(amounts, a.settings.AmountAnomalyThreshold)
	if len(anomalies) == 0 {
		return domain.InsightEntry{}, false
	}

	severity := domain.SeverityMedium
	if len(anomalies) > a.settings.HighSeveritySpikes {
		severity = domain.SeverityHigh
	}

	points := make([]domain.SpikePoint, 0, len(anomalies))
	for _, an := range anomalies {
		label := records[an.Index].InvoiceNumber
		if label == "" {
			label = records[an.Index].ID
		}
		points = append(points, domain.SpikePoint{Label: label, Value: an.Value, ZScore: an.ZScore})
	}

	return domain.InsightEntry{
		Category: domain.CategoryAnomaly,
		Type:     "amount_anomaly",
		Message:  fmt.Sprintf("%s with an unusual amount", plural(len(anomalies), "document", "documents")),
		Severity: severity,
		Data:     domain.SpikePayload{Threshold: a.settings.AmountAnomalyThreshold, Points: points},
	}, true
}
