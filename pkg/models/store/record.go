package store

import (
	"database/sql"
	"time"
)

// Record is a documents row as the stores scan it. Amounts stay textual so
// no precision is lost between the database and decimal.Decimal.
type Record struct {
	ID              string
	Date            time.Time
	Amount          string
	VAT             sql.NullString
	VendorName      sql.NullString
	Status          string
	DocumentType    sql.NullString
	InvoiceNumber   sql.NullString
	PendingSteps    sql.NullInt64
	CurrentStep     sql.NullString
	ApprovalHistory sql.NullString
}
