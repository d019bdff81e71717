package domain

import "time"

// ReportType selects the report specific analyzer.
type ReportType string

const (
	ReportSpendSummary   ReportType = "spend-summary"
	ReportVendorAnalysis ReportType = "vendor-analysis"
	ReportTaxVAT         ReportType = "tax-vat-report"
	ReportApprovalStatus ReportType = "approval-status"
)

func ReportTypes() []ReportType {
	return []ReportType{
		ReportSpendSummary,
		ReportVendorAnalysis,
		ReportTaxVAT,
		ReportApprovalStatus,
	}
}

// Analysis is one run of the engine together with the rollups it was fed.
type Analysis struct {
	ReportType  ReportType
	GeneratedAt time.Time
	Summary     Summary
	Insights    *InsightReport
}
