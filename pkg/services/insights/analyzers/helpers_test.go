package analyzers

import (
	"fmt"
	"time"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type recordOpt func(*domain.FinancialRecord)

func withVendor(v string) recordOpt {
	return func(r *domain.FinancialRecord) { r.VendorName = v }
}

func withStatus(s domain.RecordStatus) recordOpt {
	return func(r *domain.FinancialRecord) { r.Status = s }
}

func withVAT(vat string) recordOpt {
	return func(r *domain.FinancialRecord) { r.VAT = decimal.RequireFromString(vat) }
}

func withStep(step string, pending int) recordOpt {
	return func(r *domain.FinancialRecord) {
		r.CurrentStep = step
		r.PendingSteps = pending
	}
}

func withHistory(raw string) recordOpt {
	return func(r *domain.FinancialRecord) { r.ApprovalHistory = []byte(raw) }
}

var recordSeq int

func rec(date string, amount string, opts ...recordOpt) domain.FinancialRecord {
	recordSeq++
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	r := domain.FinancialRecord{
		ID:            fmt.Sprintf("doc-%d", recordSeq),
		Date:          d,
		Amount:        decimal.RequireFromString(amount),
		VAT:           decimal.Zero,
		VendorName:    "acme",
		Status:        domain.StatusApproved,
		DocumentType:  "invoice",
		InvoiceNumber: fmt.Sprintf("INV-%04d", recordSeq),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func entriesOf(entries []domain.InsightEntry, category domain.Category) []domain.InsightEntry {
	var out []domain.InsightEntry
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

func findEntry(entries []domain.InsightEntry, typ string) (domain.InsightEntry, bool) {
	for _, e := range entries {
		if e.Type == typ {
			return e, true
		}
	}
	return domain.InsightEntry{}, false
}
