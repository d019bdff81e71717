package analyzers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vendorSummary() domain.Summary {
	vendors := []domain.VendorTotal{{
		Vendor:   "sloppy",
		Count:    5,
		Approved: 3,
		Rejected: 2,
		Total:    decimal.NewFromInt(100),
	}}
	for i := 0; i < 9; i++ {
		vendors = append(vendors, domain.VendorTotal{
			Vendor:   fmt.Sprintf("small-%d", i),
			Count:    2,
			Approved: 1,
			Pending:  1,
			Total:    decimal.NewFromInt(100),
		})
	}
	vendors = append(vendors, domain.VendorTotal{
		Vendor:   "giant",
		Count:    7,
		Approved: 6,
		Rejected: 1,
		Total:    decimal.NewFromInt(10000),
	})
	return domain.Summary{ByVendor: vendors}
}

func TestVendorAnalyzer_Analyze(t *testing.T) {
	// Given
	in := Input{
		Records: []domain.FinancialRecord{rec("2024-01-01", "100", withVendor("giant"))},
		Summary: vendorSummary(),
	}

	// When
	entries, err := NewVendorAnalyzer(DefaultSettings()).Analyze(context.Background(), in)

	// Then
	require.NoError(t, err)

	outlier, ok := findEntry(entries, "vendor_spend_outlier")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryAnomaly, outlier.Category)
	flagged := outlier.Data.(domain.VendorsPayload).Vendors
	require.Len(t, flagged, 1)
	assert.Equal(t, "giant", flagged[0].Vendor)
	assert.Greater(t, flagged[0].ZScore, 2.0)

	growth, ok := findEntry(entries, "vendor_growth")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryTrend, growth.Category)
	assert.Contains(t, growth.Message, "giant")

	risk, ok := findEntry(entries, "vendor_rejection_rate")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryRisk, risk.Category)
	risky := risk.Data.(domain.VendorsPayload).Vendors
	require.Len(t, risky, 1)
	assert.Equal(t, "sloppy", risky[0].Vendor)
	assert.InDelta(t, 0.4, risky[0].Ratio, 1e-9)
}

func TestVendorAnalyzer_GrowthNeedsMoreThanFiveApprovals(t *testing.T) {
	in := Input{Summary: domain.Summary{ByVendor: []domain.VendorTotal{
		{Vendor: "five", Count: 5, Approved: 5, Total: decimal.NewFromInt(10)},
		{Vendor: "six", Count: 7, Approved: 6, Total: decimal.NewFromInt(10)},
		{Vendor: "ratio", Count: 10, Approved: 8, Total: decimal.NewFromInt(10)},
	}}}

	entries, err := NewVendorAnalyzer(DefaultSettings()).Analyze(context.Background(), in)

	require.NoError(t, err)
	growth, ok := findEntry(entries, "vendor_growth")
	require.True(t, ok)
	vendors := growth.Data.(domain.VendorsPayload).Vendors
	require.Len(t, vendors, 1)
	assert.Equal(t, "six", vendors[0].Vendor)
}

func TestVendorAnalyzer_FallsBackToRecords(t *testing.T) {
	records := []domain.FinancialRecord{
		rec("2024-01-01", "10", withVendor("x"), withStatus(domain.StatusRejected)),
		rec("2024-01-02", "10", withVendor("x"), withStatus(domain.StatusRejected)),
		rec("2024-01-03", "10", withVendor("x")),
	}

	entries, err := NewVendorAnalyzer(DefaultSettings()).Analyze(context.Background(), Input{Records: records})

	require.NoError(t, err)
	_, ok := findEntry(entries, "vendor_rejection_rate")
	assert.True(t, ok)
}

func TestVendorAnalyzer_MalformedRecord(t *testing.T) {
	in := Input{Records: []domain.FinancialRecord{
		rec("2024-01-01", "10"),
		rec("2024-01-02", "10", withVendor("  ")),
	}}

	entries, err := NewVendorAnalyzer(DefaultSettings()).Analyze(context.Background(), in)

	assert.True(t, errors.Is(err, ErrMalformedRecord))
	assert.Empty(t, entries)
}

func TestVendorAnalyzer_UniformVendors(t *testing.T) {
	in := Input{Summary: domain.Summary{ByVendor: []domain.VendorTotal{
		{Vendor: "a", Count: 1, Approved: 1, Total: decimal.NewFromInt(10)},
		{Vendor: "b", Count: 1, Approved: 1, Total: decimal.NewFromInt(10)},
		{Vendor: "c", Count: 1, Approved: 1, Total: decimal.NewFromInt(10)},
	}}}

	entries, err := NewVendorAnalyzer(DefaultSettings()).Analyze(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, entries)
}
