package analyzers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/services/insights/aggregate"
	"github.com/de-tools/doc-insights/pkg/services/insights/stats"
)

type vendorAnalyzer struct {
	settings Settings
}

func NewVendorAnalyzer(settings Settings) ReportAnalyzer {
	return &vendorAnalyzer{settings: settings}
}

func (a *vendorAnalyzer) Name() string { return "vendor" }

func (a *vendorAnalyzer) ReportType() domain.ReportType { return domain.ReportVendorAnalysis }

func (a *vendorAnalyzer) Analyze(_ context.Context, in Input) ([]domain.InsightEntry, error) {
	for _, r := range in.Records {
		if aggregate.VendorKey(r) == "" {
			return nil, fmt.Errorf("%w: document %q has no vendor", ErrMalformedRecord, r.ID)
		}
	}

	vendors := in.Summary.ByVendor
	if len(vendors) == 0 && len(in.Records) > 0 {
		vendors = aggregate.Summarize(in.Records).ByVendor
	}
	if len(vendors) == 0 {
		return nil, nil
	}

	var entries []domain.InsightEntry
	if e, ok := a.outliers(vendors); ok {
		entries = append(entries, e)
	}
	if e, ok := a.growth(vendors); ok {
		entries = append(entries, e)
	}
	entries = append(entries, a.rejections(vendors)...)
	return entries, nil
}

func (a *vendorAnalyzer) outliers(vendors []domain.VendorTotal) (domain.InsightEntry, bool) {
	totals := make([]float64, len(vendors))
	for i, v := range vendors {
		totals[i] = v.Total.InexactFloat64()
	}

	mean, stdDev := stats.MeanStdDev(totals)
	if !(stdDev > 0) {
		return domain.InsightEntry{}, false
	}

	var flagged []domain.VendorFigure
	for i, v := range vendors {
		z := math.Abs(totals[i]-mean) / stdDev
		if z > a.settings.AnomalyThreshold {
			flagged = append(flagged, domain.VendorFigure{Vendor: v.Vendor, Count: v.Count, Total: totals[i], ZScore: z})
		}
	}
	if len(flagged) == 0 {
		return domain.InsightEntry{}, false
	}

	return domain.InsightEntry{
		Category: domain.CategoryAnomaly,
		Type:     "vendor_spend_outlier",
		Message:  fmt.Sprintf("%s with unusual total spend: %s", plural(len(flagged), "vendor", "vendors"), vendorNames(flagged)),
		Severity: domain.SeverityMedium,
		Data:     domain.VendorsPayload{Vendors: flagged},
	}, true
}

func (a *vendorAnalyzer) growth(vendors []domain.VendorTotal) (domain.InsightEntry, bool) {
	var growing []domain.VendorFigure
	for _, v := range vendors {
		approvalRatio := ratio(v.Approved, v.Count)
		if v.Approved > a.settings.GrowthMinApproved && approvalRatio > a.settings.GrowthApprovalRatio {
			growing = append(growing, domain.VendorFigure{
				Vendor: v.Vendor,
				Count:  v.Count,
				Total:  v.Total.InexactFloat64(),
				Ratio:  approvalRatio,
			})
		}
	}
	if len(growing) == 0 {
		return domain.InsightEntry{}, false
	}

	return domain.InsightEntry{
		Category:   domain.CategoryTrend,
		Type:       "vendor_growth",
		Message:    fmt.Sprintf("%s with a steady stream of approved documents: %s", plural(len(growing), "vendor", "vendors"), vendorNames(growing)),
		Confidence: domain.ConfidenceMedium,
		Data:       domain.VendorsPayload{Vendors: growing},
	}, true
}

func (a *vendorAnalyzer) rejections(vendors []domain.VendorTotal) []domain.InsightEntry {
	var risky []domain.VendorFigure
	for _, v := range vendors {
		rejectionRatio := ratio(v.Rejected, v.Count)
		if rejectionRatio > a.settings.RejectionRiskRatio {
			risky = append(risky, domain.VendorFigure{
				Vendor: v.Vendor,
				Count:  v.Count,
				Total:  v.Total.InexactFloat64(),
				Ratio:  rejectionRatio,
			})
		}
	}
	if len(risky) == 0 {
		return nil
	}

	names := vendorNames(risky)
	return []domain.InsightEntry{
		{
			Category: domain.CategoryRisk,
			Type:     "vendor_rejection_rate",
			Message:  fmt.Sprintf("%s with a high rejection rate: %s", plural(len(risky), "vendor", "vendors"), names),
			Severity: domain.SeverityMedium,
			Data:     domain.VendorsPayload{Vendors: risky},
		},
		{
			Category: domain.CategoryRecommendation,
			Type:     "review_vendor_invoicing",
			Message:  fmt.Sprintf("Review invoicing requirements with %s", names),
		},
	}
}

func vendorNames(figures []domain.VendorFigure) string {
	names := make([]string, len(figures))
	for i, f := range figures {
		names[i] = f.Vendor
	}
	return strings.Join(names, ", ")
}
