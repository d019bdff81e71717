package analyzers

import (
	"context"
	"fmt"
	"math"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/insights/stats"
	"github.com/shopspring/decimal"
)

type taxAnalyzer struct {
	settings Settings
}

func NewTaxAnalyzer(settings Settings) ReportAnalyzer {
	return &taxAnalyzer{settings: settings}
}

func (a *taxAnalyzer) Name() string { return "tax" }

func (a *taxAnalyzer) ReportType() domain.ReportType { return domain.ReportTaxVAT }

func (a *taxAnalyzer) Analyze(_ context.Context, in Input) ([]domain.InsightEntry, error) {
	var entries []domain.InsightEntry

	entries = append(entries, a.inconsistentRates(in.Records)...)
	if e, ok := a.quarterChange(in.Summary.ByQuarter); ok {
		entries = append(entries, e)
	}
	if e, ok := a.forecast(in.Summary.ByQuarter); ok {
		entries = append(entries, e)
	}
	return entries, nil
}

// inconsistentRates flags documents whose effective VAT rate (vat/amount*100)
// lies more than the threshold in standard deviations from the mean rate.
// Documents with a zero amount have no rate and are skipped.
func (a *taxAnalyzer) inconsistentRates(records []domain.FinancialRecord) []domain.InsightEntry {
	hundred := decimal.NewFromInt(100)

	rates := make([]float64, 0, len(records))
	rated := make([]domain.FinancialRecord, 0, len(records))
	for _, r := range records {
		if r.Amount.IsZero() {
			continue
		}
		rates = append(rates, r.VAT.Div(r.Amount).Mul(hundred).InexactFloat64())
		rated = append(rated, r)
	}

	mean, stdDev := stats.MeanStdDev(rates)
	if !(stdDev > 0) {
		return nil
	}

	var flagged []domain.TaxRateFigure
	for i, rate := range rates {
		if math.Abs(rate-mean) > a.settings.AnomalyThreshold*stdDev {
			flagged = append(flagged, domain.TaxRateFigure{
				RecordID:      rated[i].ID,
				InvoiceNumber: rated[i].InvoiceNumber,
				Rate:          rate,
			})
		}
	}
	if len(flagged) == 0 {
		return nil
	}

	return []domain.InsightEntry{
		{
			Category: domain.CategoryAnomaly,
			Type:     "tax_inconsistency",
			Message: fmt.Sprintf("%s with an effective VAT rate far from the %.2f%% average",
				plural(len(flagged), "document", "documents"), mean),
			Severity: domain.SeverityMedium,
			Data:     domain.TaxRatesPayload{MeanRate: mean, StdDevRate: stdDev, Documents: flagged},
		},
		{
			Category: domain.CategoryRecommendation,
			Type:     "verify_vat_coding",
			Message:  "Verify the VAT coding of documents with unusual effective rates before filing",
		},
	}
}

// quarterChange compares the two most recent quarters. A zero previous
// quarter is replaced by 1 to keep the percentage finite.
func (a *taxAnalyzer) quarterChange(quarters []domain.PeriodTotal) (domain.InsightEntry, bool) {
	if len(quarters) < 2 {
		return domain.InsightEntry{}, false
	}

	current, previous := quarters[0], quarters[1]
	denominator := previous.VAT
	if denominator.IsZero() {
		denominator = decimal.NewFromInt(1)
	}
	change := current.VAT.Sub(previous.VAT).Div(denominator).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()

	verb := "was unchanged"
	switch {
	case change > 0:
		verb = fmt.Sprintf("increased by %.2f%%", change)
	case change < 0:
		verb = fmt.Sprintf("decreased by %.2f%%", -change)
	}

	return domain.InsightEntry{
		Category:   domain.CategoryTrend,
		Type:       "vat_trend",
		Message:    fmt.Sprintf("VAT %s in %s compared to %s", verb, current.Period, previous.Period),
		Confidence: domain.ConfidenceMedium,
		Data: domain.ChangePayload{
			CurrentPeriod:  current.Period,
			PreviousPeriod: previous.Period,
			Current:        current.VAT.InexactFloat64(),
			Previous:       previous.VAT.InexactFloat64(),
			ChangePercent:  change,
		},
	}, true
}

func (a *taxAnalyzer) forecast(quarters []domain.PeriodTotal) (domain.InsightEntry, bool) {
	series, _ := chronological(quarters, periodVAT)
	if len(series) < 2 {
		return domain.InsightEntry{}, false
	}

	values := stats.PredictNext(series, 1, a.settings.SmoothingAlpha)

	confidence := domain.ConfidenceLow
	if len(series) >= 4 {
		confidence = domain.ConfidenceMedium
	}

	return domain.InsightEntry{
		Category:   domain.CategoryPrediction,
		Type:       "vat_forecast",
		Message:    fmt.Sprintf("Projected VAT for next quarter is %.2f", values[0]),
		Confidence: confidence,
		Data:       domain.ForecastPayload{Alpha: a.settings.SmoothingAlpha, Values: values},
	}, true
}
