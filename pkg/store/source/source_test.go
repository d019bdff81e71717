package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/de-tools/doc-insights/pkg/models/domain"
	sqlstore "github.com/de-tools/doc-insights/pkg/store/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesFixture = `
[local]
driver = duckdb
path   = %s

[finance]
driver = Postgres
dsn    = postgres://reader@localhost:5432/finance?sslmode=disable
table  = public.documents

[lakehouse]
driver    = databricks
host      = adb-123.azuredatabricks.net
token     = dapi-secret
http_path = /sql/1.0/warehouses/abc

[warehouse]
driver    = snowflake
account   = xy12345
user      = analyst
password  = secret
database  = FINANCE
warehouse = REPORTING

[broken]
dsn = nothing
`

func writeProfiles(t *testing.T) (string, string) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "docs.db")
	path := filepath.Join(dir, DefaultConfigFile)
	content := strings.Replace(profilesFixture, "%s", dbPath, 1)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path, dbPath
}

func TestProfileRegistry(t *testing.T) {
	// Given
	path, dbPath := writeProfiles(t)

	// When
	registry, err := NewProfileRegistry(path)
	require.NoError(t, err)

	// Then
	assert.Equal(t, []string{"local", "finance", "lakehouse", "warehouse", "broken"}, registry.Profiles())

	local, err := registry.Profile("local")
	require.NoError(t, err)
	assert.Equal(t, "duckdb", local.Driver)
	assert.Equal(t, dbPath, local.Path)

	finance, err := registry.Profile("finance")
	require.NoError(t, err)
	assert.Equal(t, "postgres", finance.Driver)
	assert.Equal(t, "public.documents", finance.Table)

	_, err = registry.Profile("missing")
	assert.ErrorIs(t, err, ErrUnknownProfile)

	_, err = registry.Profile("broken")
	assert.ErrorContains(t, err, "driver is required")
}

func TestNewProfileRegistry_MissingFile(t *testing.T) {
	_, err := NewProfileRegistry(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	path, _ := writeProfiles(t)
	registry, err := NewProfileRegistry(path)
	require.NoError(t, err)

	lakehouse, err := registry.Profile("lakehouse")
	require.NoError(t, err)
	dsn, err := DSN(lakehouse)
	require.NoError(t, err)
	assert.Equal(t, "token:dapi-secret@adb-123.azuredatabricks.net/sql/1.0/warehouses/abc", dsn)

	warehouse, err := registry.Profile("warehouse")
	require.NoError(t, err)
	dsn, err = DSN(warehouse)
	require.NoError(t, err)
	assert.Contains(t, dsn, "analyst")
	assert.Contains(t, dsn, "xy12345")

	_, err = DSN(Profile{Name: "x", Driver: "databricks"})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	path, _ := writeProfiles(t)
	registry, err := NewProfileRegistry(path)
	require.NoError(t, err)

	t.Run("duckdb boots the documents table", func(t *testing.T) {
		p, err := registry.Profile("local")
		require.NoError(t, err)

		db, dialect, err := Open(p)
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, sqlstore.DuckDB.Name, dialect.Name)
		reader, err := sqlstore.NewRecordReader(db, dialect, p.Table)
		require.NoError(t, err)
		records, err := reader.List(context.Background(), domain.RecordFilter{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("postgres opens lazily", func(t *testing.T) {
		p, err := registry.Profile("finance")
		require.NoError(t, err)

		db, dialect, err := Open(p)
		require.NoError(t, err)
		defer db.Close()
		assert.Equal(t, sqlstore.Postgres.Name, dialect.Name)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, _, err := Open(Profile{Name: "x", Driver: "oracle"})
		assert.Error(t, err)
	})
}
