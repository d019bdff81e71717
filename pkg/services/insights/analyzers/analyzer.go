// Package analyzers turns records and their summary into insight entries.
// There is one analyzer per report type plus a cross-cutting analyzer that
// runs for every report.
package analyzers

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var ErrMalformedRecord = errors.New("malformed record")

// Input is everything an analyzer may look at. Analyzers must not modify it.
type Input struct {
	Records []domain.FinancialRecord
	Summary domain.Summary
}

// Analyzer produces entries for one concern. When it fails part way it
// returns the entries gathered so far together with the error.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, in Input) ([]domain.InsightEntry, error)
}

// ReportAnalyzer is an Analyzer bound to one report type.
type ReportAnalyzer interface {
	Analyzer
	ReportType() domain.ReportType
}

// DefaultReportAnalyzers returns one analyzer per supported report type.
func DefaultReportAnalyzers(settings Settings) []ReportAnalyzer {
	return []ReportAnalyzer{
		NewSpendAnalyzer(settings),
		NewVendorAnalyzer(settings),
		NewTaxAnalyzer(settings),
		NewApprovalAnalyzer(settings),
	}
}

// chronological reverses newest-first periods into an oldest-first series.
func chronological(periods []domain.PeriodTotal, value func(domain.PeriodTotal) decimal.Decimal) ([]float64, []string) {
	series := make([]float64, len(periods))
	labels := make([]string, len(periods))
	for i, p := range periods {
		j := len(periods) - 1 - i
		series[j] = value(p).InexactFloat64()
		labels[j] = p.Period
	}
	return series, labels
}

func periodTotal(p domain.PeriodTotal) decimal.Decimal { return p.Total }

func periodVAT(p domain.PeriodTotal) decimal.Decimal { return p.VAT }

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
