package source

import (
	"database/sql"
	"fmt"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/doc-insights/pkg/store/duckdb"
	sqlstore "github.com/de-tools/doc-insights/pkg/store/sql"
	"github.com/lib/pq"
	"github.com/snowflakedb/gosnowflake"
)

const defaultHttpPath = "/sql/1.0/warehouses"

// Open connects to the database described by p. No query is issued, so a
// bad host or credentials only surface on first use.
func Open(p Profile) (*sql.DB, sqlstore.Dialect, error) {
	dialect, err := sqlstore.DialectFor(p.Driver)
	if err != nil {
		return nil, sqlstore.Dialect{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}

	var db *sql.DB
	switch p.Driver {
	case "duckdb":
		if p.Path == "" {
			return nil, dialect, fmt.Errorf("profile %s: path is required for duckdb", p.Name)
		}
		db, err = duckdb.NewDB(duckdb.Settings{DbPath: p.Path})
	case "postgres":
		var connector *pq.Connector
		connector, err = pq.NewConnector(p.DSN)
		if err == nil {
			db = sql.OpenDB(connector)
		}
	default:
		var dsn string
		dsn, err = DSN(p)
		if err == nil {
			db, err = sql.Open(p.Driver, dsn)
		}
	}
	if err != nil {
		return nil, dialect, fmt.Errorf("open %s source %s: %w", p.Driver, p.Name, err)
	}
	return db, dialect, nil
}

// DSN builds the connection string for drivers that are opened by name.
// An explicit dsn in the profile wins.
func DSN(p Profile) (string, error) {
	if p.DSN != "" {
		return p.DSN, nil
	}

	switch p.Driver {
	case "snowflake":
		return gosnowflake.DSN(&gosnowflake.Config{
			Account:   p.Account,
			User:      p.User,
			Password:  p.Password,
			Database:  p.Database,
			Schema:    p.Schema,
			Warehouse: p.Warehouse,
			Role:      p.Role,
		})
	case "databricks":
		if p.Host == "" || p.Token == "" {
			return "", fmt.Errorf("host and token are required")
		}
		path := p.HTTPPath
		if path == "" {
			path = defaultHttpPath
		}
		return fmt.Sprintf("token:%s@%s%s", p.Token, p.Host, path), nil
	default:
		return "", fmt.Errorf("no dsn for driver %q", p.Driver)
	}
}
