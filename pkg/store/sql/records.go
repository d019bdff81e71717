package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/models/store"
	"github.com/rs/zerolog"
)

const DefaultTable = "documents"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

// RecordReader reads financial documents from a relational source.
type RecordReader interface {
	List(ctx context.Context, filter domain.RecordFilter) ([]store.Record, error)
}

type recordReader struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

func NewRecordReader(db *sql.DB, dialect Dialect, table string) (RecordReader, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &recordReader{db: db, dialect: dialect, table: table}, nil
}

func (r *recordReader) List(ctx context.Context, filter domain.RecordFilter) ([]store.Record, error) {
	logger := zerolog.Ctx(ctx)

	query, args := BuildListQuery(r.dialect, r.table, filter)
	logger.Debug().Str("dialect", r.dialect.Name).Int("args", len(args)).Msg("listing records")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close records query rows")
		}
	}(rows)

	records := make([]store.Record, 0)
	for rows.Next() {
		var rec store.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.Date,
			&rec.Amount,
			&rec.VAT,
			&rec.VendorName,
			&rec.Status,
			&rec.DocumentType,
			&rec.InvoiceNumber,
			&rec.PendingSteps,
			&rec.CurrentStep,
			&rec.ApprovalHistory,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// BuildListQuery renders the select for filter. Amounts are cast to text so
// they scan into strings on every engine.
func BuildListQuery(d Dialect, table string, filter domain.RecordFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	add := func(expr string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(expr, d.Placeholder(len(args))))
	}

	if filter.From != nil {
		add("doc_date >= %s", *filter.From)
	}
	// To is a calendar day; the bound stays inclusive for timestamp columns.
	if filter.To != nil {
		add("doc_date < %s", filter.To.AddDate(0, 0, 1))
	}
	if filter.Vendor != "" {
		add("vendor_name = %s", filter.Vendor)
	}
	if filter.Status != "" {
		add("status = %s", string(filter.Status))
	}
	if filter.MinAmount != nil {
		add("amount >= CAST(%s AS DECIMAL(18,2))", filter.MinAmount.String())
	}
	if filter.MaxAmount != nil {
		add("amount <= CAST(%s AS DECIMAL(18,2))", filter.MaxAmount.String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT id, doc_date, CAST(amount AS %[1]s), CAST(vat AS %[1]s), vendor_name, status,
	document_type, invoice_number, pending_steps, current_step, approval_history
FROM %[2]s`, d.TextType, table)
	if len(conditions) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString("\nORDER BY doc_date, id")
	return b.String(), args
}
