package records

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/models/store"
	"github.com/de-tools/doc-insights/pkg/store/duckdb"
	sqlstore "github.com/de-tools/doc-insights/pkg/store/sql"
	"github.com/google/uuid"
)

// Store keeps imported documents in the embedded database. Add joins the
// transaction carried on ctx when there is one.
type Store interface {
	Add(ctx context.Context, records []store.Record) ([]string, error)
	List(ctx context.Context, filter domain.RecordFilter) ([]store.Record, error)
	Count(ctx context.Context) (int64, error)
}

type recordStore struct {
	db     *sql.DB
	reader sqlstore.RecordReader
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	reader, err := sqlstore.NewRecordReader(db, sqlstore.DuckDB, sqlstore.DefaultTable)
	if err != nil {
		return nil, err
	}
	return &recordStore{db: db, reader: reader}, nil
}

// Add inserts records and returns their ids. Records without an id get a
// random one.
func (s *recordStore) Add(ctx context.Context, records []store.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO documents (
			id, doc_date, amount, vat, vendor_name, status, document_type,
			invoice_number, pending_steps, current_step, approval_history
		) VALUES (
			?, ?, CAST(? AS DECIMAL(18,2)), CAST(? AS DECIMAL(18,2)), ?, ?, ?, ?, ?, ?, ?
		)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(records))
	for _, record := range records {
		if record.ID == "" {
			record.ID = uuid.NewString()
		}

		_, err = stmt.ExecContext(ctx,
			record.ID,
			record.Date,
			record.Amount,
			record.VAT,
			record.VendorName,
			record.Status,
			record.DocumentType,
			record.InvoiceNumber,
			record.PendingSteps,
			record.CurrentStep,
			record.ApprovalHistory,
		)
		if err != nil {
			return ids, fmt.Errorf("insert record %s: %w", record.ID, err)
		}
		ids = append(ids, record.ID)
	}

	return ids, nil
}

func (s *recordStore) List(ctx context.Context, filter domain.RecordFilter) ([]store.Record, error) {
	return s.reader.List(ctx, filter)
}

func (s *recordStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return total, nil
}
