package sql

import (
	"fmt"
	"strconv"
)

// Dialect captures the differences between the engines records are read from.
type Dialect struct {
	Name     string
	TextType string
	// Placeholder returns the bind marker for the n-th argument, 1-based.
	Placeholder func(n int) string
}

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

var (
	DuckDB     = Dialect{Name: "duckdb", TextType: "VARCHAR", Placeholder: questionMark}
	Postgres   = Dialect{Name: "postgres", TextType: "VARCHAR", Placeholder: dollar}
	Snowflake  = Dialect{Name: "snowflake", TextType: "VARCHAR", Placeholder: questionMark}
	Databricks = Dialect{Name: "databricks", TextType: "STRING", Placeholder: questionMark}
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "duckdb":
		return DuckDB, nil
	case "postgres":
		return Postgres, nil
	case "snowflake":
		return Snowflake, nil
	case "databricks":
		return Databricks, nil
	default:
		return Dialect{}, fmt.Errorf("no sql dialect for driver %q", driver)
	}
}
