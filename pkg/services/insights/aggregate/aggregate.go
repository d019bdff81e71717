// Package aggregate groups financial records by time or by an arbitrary
// category and rolls them up into count/total buckets.
package aggregate

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const currencyPlaces = 2

// Bucket is one group of records sharing a key.
type Bucket struct {
	Key      string
	Count    int
	Total    decimal.Decimal
	VAT      decimal.Decimal
	Amounts  []float64
	ByStatus map[domain.RecordStatus]int
}

func (b *Bucket) add(r domain.FinancialRecord) {
	b.Count++
	b.Total = b.Total.Add(r.Amount)
	b.VAT = b.VAT.Add(r.VAT)
	b.Amounts = append(b.Amounts, r.Amount.InexactFloat64())
	if b.ByStatus == nil {
		b.ByStatus = make(map[domain.RecordStatus]int)
	}
	b.ByStatus[r.Status]++
}

// TemporalGroups are three parallel groupings of the same records.
// ByQuarter[0] is Q1.
type TemporalGroups struct {
	ByWeekday [7]Bucket
	ByMonth   [12]Bucket
	ByQuarter [4]Bucket
}

func GroupByTemporalDimension(records []domain.FinancialRecord) TemporalGroups {
	var g TemporalGroups
	for i := range g.ByWeekday {
		g.ByWeekday[i].Key = time.Weekday(i).String()
	}
	for i := range g.ByMonth {
		g.ByMonth[i].Key = time.Month(i + 1).String()
	}
	for i := range g.ByQuarter {
		g.ByQuarter[i].Key = fmt.Sprintf("Q%d", i+1)
	}

	for _, r := range records {
		month := int(r.Date.Month()) - 1
		g.ByWeekday[int(r.Date.Weekday())].add(r)
		g.ByMonth[month].add(r)
		g.ByQuarter[month/3].add(r)
	}
	return g
}

// GroupByCategory groups records by keyFn. Buckets come back in the order
// their key was first seen.
func GroupByCategory(records []domain.FinancialRecord, keyFn func(domain.FinancialRecord) string) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket

	for _, r := range records {
		key := keyFn(r)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key})
		}
		buckets[i].add(r)
	}
	return buckets
}

func VendorKey(r domain.FinancialRecord) string {
	return strings.TrimSpace(r.VendorName)
}

func StatusKey(r domain.FinancialRecord) string {
	return string(r.Status)
}

func MonthKey(r domain.FinancialRecord) string {
	return r.Date.Format("2006-01")
}

func QuarterKey(r domain.FinancialRecord) string {
	return fmt.Sprintf("%d-Q%d", r.Date.Year(), (int(r.Date.Month())-1)/3+1)
}

// Summarize builds the precomputed summary the analyzers consume.
// Periods are ordered newest first, vendors by descending total.
func Summarize(records []domain.FinancialRecord) domain.Summary {
	summary := domain.Summary{
		DocumentCount: len(records),
		TotalAmount:   decimal.Zero,
		TotalVAT:      decimal.Zero,
		AverageAmount: decimal.Zero,
	}

	for _, r := range records {
		summary.TotalAmount = summary.TotalAmount.Add(r.Amount)
		summary.TotalVAT = summary.TotalVAT.Add(r.VAT)
	}
	if len(records) > 0 {
		summary.AverageAmount = summary.TotalAmount.Div(decimal.NewFromInt(int64(len(records)))).Round(currencyPlaces)
	}
	summary.TotalAmount = summary.TotalAmount.Round(currencyPlaces)
	summary.TotalVAT = summary.TotalVAT.Round(currencyPlaces)

	summary.ByMonth = periodTotals(GroupByCategory(records, MonthKey))
	summary.ByQuarter = periodTotals(GroupByCategory(records, QuarterKey))

	for _, b := range GroupByCategory(records, VendorKey) {
		summary.ByVendor = append(summary.ByVendor, domain.VendorTotal{
			Vendor:   b.Key,
			Count:    b.Count,
			Approved: b.ByStatus[domain.StatusApproved],
			Rejected: b.ByStatus[domain.StatusRejected],
			Pending:  b.ByStatus[domain.StatusPending],
			Total:    b.Total.Round(currencyPlaces),
		})
	}
	slices.SortStableFunc(summary.ByVendor, func(a, b domain.VendorTotal) int {
		return b.Total.Cmp(a.Total)
	})

	return summary
}

func periodTotals(buckets []Bucket) []domain.PeriodTotal {
	out := make([]domain.PeriodTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, domain.PeriodTotal{
			Period: b.Key,
			Count:  b.Count,
			Total:  b.Total.Round(currencyPlaces),
			VAT:    b.VAT.Round(currencyPlaces),
		})
	}
	slices.SortFunc(out, func(a, b domain.PeriodTotal) int {
		return strings.Compare(b.Period, a.Period)
	})
	return out
}
