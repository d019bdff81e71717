package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type RecordStatus string

const (
	StatusPending  RecordStatus = "pending"
	StatusApproved RecordStatus = "approved"
	StatusRejected RecordStatus = "rejected"
)

func (s RecordStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// FinancialRecord is a snapshot of one invoice or credit note.
// Analysis code reads it and never mutates it.
type FinancialRecord struct {
	ID            string
	Date          time.Time
	Amount        decimal.Decimal
	VAT           decimal.Decimal
	VendorName    string
	Status        RecordStatus
	DocumentType  string // invoice, credit_note
	InvoiceNumber string

	// Approval workflow snapshot
	PendingSteps    int
	CurrentStep     string
	ApprovalHistory json.RawMessage // [{"step":..,"action":..,"timestamp":..}]
}

type ApprovalEvent struct {
	Step      string `json:"step"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// RecordFilter narrows the records a store returns. Zero values are ignored.
type RecordFilter struct {
	From      *time.Time
	To        *time.Time
	Vendor    string
	Status    RecordStatus
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}
