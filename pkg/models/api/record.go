package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// FinancialRecord is the wire form of a document. Date accepts
// YYYY-MM-DD or RFC 3339.
type FinancialRecord struct {
	ID              string          `json:"id,omitempty"`
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	VAT             decimal.Decimal `json:"vat"`
	VendorName      string          `json:"vendor_name"`
	Status          string          `json:"status,omitempty"`
	DocumentType    string          `json:"document_type,omitempty"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	PendingSteps    int             `json:"pending_steps,omitempty"`
	CurrentStep     string          `json:"current_step,omitempty"`
	ApprovalHistory json.RawMessage `json:"approval_history,omitempty"`
}

type AnalyzeRequest struct {
	Records []FinancialRecord `json:"records"`
}

type Summary struct {
	DocumentCount int             `json:"document_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalVAT      decimal.Decimal `json:"total_vat"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	ByMonth       []PeriodTotal   `json:"by_month"`
	ByQuarter     []PeriodTotal   `json:"by_quarter"`
	ByVendor      []VendorTotal   `json:"by_vendor"`
}

type PeriodTotal struct {
	Period string          `json:"period"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	VAT    decimal.Decimal `json:"vat"`
}

type VendorTotal struct {
	Vendor   string          `json:"vendor"`
	Count    int             `json:"count"`
	Approved int             `json:"approved"`
	Rejected int             `json:"rejected"`
	Pending  int             `json:"pending"`
	Total    decimal.Decimal `json:"total"`
}
