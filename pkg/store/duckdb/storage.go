package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const DocumentsTableSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		id VARCHAR NOT NULL PRIMARY KEY,
		doc_date DATE NOT NULL,
		amount DECIMAL(18,2) NOT NULL,
		vat DECIMAL(18,2),
		vendor_name VARCHAR,
		status VARCHAR NOT NULL DEFAULT 'pending',
		document_type VARCHAR,
		invoice_number VARCHAR,
		pending_steps INTEGER,
		current_step VARCHAR,
		approval_history VARCHAR,
		imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const DocumentsDateIndex = `CREATE INDEX IF NOT EXISTS documents_doc_date_idx ON documents (doc_date);`

var bootQueries = []string{
	DocumentsTableSchema,
	DocumentsDateIndex,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads < 1 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
