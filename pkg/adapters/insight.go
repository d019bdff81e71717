package adapters

import (
	"github.com/de-tools/doc-insights/pkg/models/api"
	"github.com/de-tools/doc-insights/pkg/models/domain"
)

func MapConfidenceDomainToApi(c domain.Confidence) api.Confidence {
	switch c {
	case domain.ConfidenceLow:
		return api.ConfidenceLow
	case domain.ConfidenceMedium:
		return api.ConfidenceMedium
	case domain.ConfidenceHigh:
		return api.ConfidenceHigh
	default:
		return ""
	}
}

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityMedium:
		return api.SeverityMedium
	case domain.SeverityHigh:
		return api.SeverityHigh
	default:
		return ""
	}
}

func MapInsightEntryDomainToApi(e domain.InsightEntry) api.InsightEntry {
	entry := api.InsightEntry{
		Type:       e.Type,
		Message:    e.Message,
		Confidence: MapConfidenceDomainToApi(e.Confidence),
		Severity:   MapSeverityDomainToApi(e.Severity),
	}
	// payloads carry their own json tags
	if e.Data != nil {
		entry.Data = e.Data
	}
	return entry
}

func mapEntries(entries []domain.InsightEntry) []api.InsightEntry {
	res := make([]api.InsightEntry, 0, len(entries))
	for _, e := range entries {
		res = append(res, MapInsightEntryDomainToApi(e))
	}
	return res
}

func MapAnalysisDomainToApi(a domain.Analysis) api.InsightReport {
	r := a.Insights
	if r == nil {
		r = domain.NewInsightReport()
	}
	return api.InsightReport{
		ReportType:      string(a.ReportType),
		GeneratedAt:     a.GeneratedAt.UTC(),
		Summary:         MapSummaryDomainToApi(a.Summary),
		Trends:          mapEntries(r.Trends),
		Anomalies:       mapEntries(r.Anomalies),
		Predictions:     mapEntries(r.Predictions),
		Recommendations: mapEntries(r.Recommendations),
		Patterns:        mapEntries(r.Patterns),
		Risks:           mapEntries(r.Risks),
	}
}

func MapSummaryDomainToApi(s domain.Summary) api.Summary {
	res := api.Summary{
		DocumentCount: s.DocumentCount,
		TotalAmount:   s.TotalAmount,
		TotalVAT:      s.TotalVAT,
		AverageAmount: s.AverageAmount,
		ByMonth:       mapPeriods(s.ByMonth),
		ByQuarter:     mapPeriods(s.ByQuarter),
		ByVendor:      make([]api.VendorTotal, 0, len(s.ByVendor)),
	}
	for _, v := range s.ByVendor {
		res.ByVendor = append(res.ByVendor, api.VendorTotal{
			Vendor:   v.Vendor,
			Count:    v.Count,
			Approved: v.Approved,
			Rejected: v.Rejected,
			Pending:  v.Pending,
			Total:    v.Total,
		})
	}
	return res
}

func mapPeriods(periods []domain.PeriodTotal) []api.PeriodTotal {
	res := make([]api.PeriodTotal, 0, len(periods))
	for _, p := range periods {
		res = append(res, api.PeriodTotal{Period: p.Period, Count: p.Count, Total: p.Total, VAT: p.VAT})
	}
	return res
}

func MapReportTypesDomainToApi(types []domain.ReportType) api.ReportTypes {
	res := api.ReportTypes{ReportTypes: make([]string, 0, len(types))}
	for _, t := range types {
		res.ReportTypes = append(res.ReportTypes, string(t))
	}
	return res
}
