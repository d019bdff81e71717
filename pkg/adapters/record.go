package adapters

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/doc-insights/pkg/models/api"
	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/models/store"
	"github.com/shopspring/decimal"
)

var recordDateLayouts = []string{"2006-01-02", time.RFC3339}

func parseRecordDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func parseStatus(value string) (domain.RecordStatus, error) {
	if value == "" {
		return domain.StatusPending, nil
	}
	status := domain.RecordStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", value)
	}
	return status, nil
}

func MapRecordApiToDomain(r api.FinancialRecord) (domain.FinancialRecord, error) {
	date, err := parseRecordDate(r.Date)
	if err != nil {
		return domain.FinancialRecord{}, fmt.Errorf("record %q: %w", r.ID, err)
	}
	status, err := parseStatus(r.Status)
	if err != nil {
		return domain.FinancialRecord{}, fmt.Errorf("record %q: %w", r.ID, err)
	}

	return domain.FinancialRecord{
		ID:              r.ID,
		Date:            date,
		Amount:          r.Amount,
		VAT:             r.VAT,
		VendorName:      r.VendorName,
		Status:          status,
		DocumentType:    r.DocumentType,
		InvoiceNumber:   r.InvoiceNumber,
		PendingSteps:    r.PendingSteps,
		CurrentStep:     r.CurrentStep,
		ApprovalHistory: r.ApprovalHistory,
	}, nil
}

func MapRecordsApiToDomain(records []api.FinancialRecord) ([]domain.FinancialRecord, error) {
	res := make([]domain.FinancialRecord, 0, len(records))
	for i, r := range records {
		rec, err := MapRecordApiToDomain(r)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		res = append(res, rec)
	}
	return res, nil
}

func MapStoreRecordToDomain(r store.Record) (domain.FinancialRecord, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return domain.FinancialRecord{}, fmt.Errorf("record %q amount: %w", r.ID, err)
	}
	vat := decimal.Zero
	if r.VAT.Valid && r.VAT.String != "" {
		if vat, err = decimal.NewFromString(r.VAT.String); err != nil {
			return domain.FinancialRecord{}, fmt.Errorf("record %q vat: %w", r.ID, err)
		}
	}
	status, err := parseStatus(r.Status)
	if err != nil {
		return domain.FinancialRecord{}, fmt.Errorf("record %q: %w", r.ID, err)
	}

	rec := domain.FinancialRecord{
		ID:            r.ID,
		Date:          r.Date,
		Amount:        amount,
		VAT:           vat,
		VendorName:    r.VendorName.String,
		Status:        status,
		DocumentType:  r.DocumentType.String,
		InvoiceNumber: r.InvoiceNumber.String,
		PendingSteps:  int(r.PendingSteps.Int64),
		CurrentStep:   r.CurrentStep.String,
	}
	if r.ApprovalHistory.Valid && r.ApprovalHistory.String != "" {
		rec.ApprovalHistory = json.RawMessage(r.ApprovalHistory.String)
	}
	return rec, nil
}

func MapDomainRecordToStore(r domain.FinancialRecord) store.Record {
	rec := store.Record{
		ID:            r.ID,
		Date:          r.Date,
		Amount:        r.Amount.StringFixed(2),
		VAT:           sql.NullString{String: r.VAT.StringFixed(2), Valid: true},
		VendorName:    nullString(r.VendorName),
		Status:        string(r.Status),
		DocumentType:  nullString(r.DocumentType),
		InvoiceNumber: nullString(r.InvoiceNumber),
		PendingSteps:  sql.NullInt64{Int64: int64(r.PendingSteps), Valid: true},
		CurrentStep:   nullString(r.CurrentStep),
	}
	if len(r.ApprovalHistory) > 0 {
		rec.ApprovalHistory = sql.NullString{String: string(r.ApprovalHistory), Valid: true}
	}
	if rec.Status == "" {
		rec.Status = string(domain.StatusPending)
	}
	return rec
}

func MapStoreRecordsToDomain(records []store.Record) ([]domain.FinancialRecord, error) {
	res := make([]domain.FinancialRecord, 0, len(records))
	for _, r := range records {
		rec, err := MapStoreRecordToDomain(r)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
