package domain

import "github.com/shopspring/decimal"

// Summary holds the rollups produced by the aggregation layer.
// Currency values are already rounded to 2 decimal places.
type Summary struct {
	DocumentCount int
	TotalAmount   decimal.Decimal
	TotalVAT      decimal.Decimal
	AverageAmount decimal.Decimal
	ByMonth       []PeriodTotal // newest first
	ByQuarter     []PeriodTotal // newest first
	ByVendor      []VendorTotal // highest total first
}

type PeriodTotal struct {
	Period string // 2024-03, 2024-Q1
	Count  int
	Total  decimal.Decimal
	VAT    decimal.Decimal
}

type VendorTotal struct {
	Vendor   string
	Count    int
	Approved int
	Rejected int
	Pending  int
	Total    decimal.Decimal
}
