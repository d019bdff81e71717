package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/doc-insights/pkg/adapters"
	"github.com/de-tools/doc-insights/pkg/models/api"
	"github.com/de-tools/doc-insights/pkg/models/domain"
	sqlstore "github.com/de-tools/doc-insights/pkg/store/sql"
	"github.com/de-tools/doc-insights/pkg/store/source"
	"github.com/shopspring/decimal"
)

// readRecords loads documents from a JSON file holding either a bare array
// or an object with a "records" array.
func readRecords(path string) ([]domain.FinancialRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var req api.AnalyzeRequest
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &req.Records)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}

	return adapters.MapRecordsApiToDomain(req.Records)
}

type filterFlags struct {
	from      string
	to        string
	vendor    string
	status    string
	minAmount string
	maxAmount string
}

func (f filterFlags) toFilter() (domain.RecordFilter, error) {
	var filter domain.RecordFilter

	if f.from != "" {
		t, err := time.Parse("2006-01-02", f.from)
		if err != nil {
			return filter, fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", f.from)
		}
		filter.From = &t
	}
	if f.to != "" {
		t, err := time.Parse("2006-01-02", f.to)
		if err != nil {
			return filter, fmt.Errorf("invalid --to date %q, expected YYYY-MM-DD", f.to)
		}
		filter.To = &t
	}
	if f.status != "" {
		filter.Status = domain.RecordStatus(f.status)
		if !filter.Status.Valid() {
			return filter, fmt.Errorf("invalid --status %q", f.status)
		}
	}
	filter.Vendor = f.vendor

	if f.minAmount != "" {
		d, err := decimal.NewFromString(f.minAmount)
		if err != nil {
			return filter, fmt.Errorf("invalid --min-amount: %w", err)
		}
		filter.MinAmount = &d
	}
	if f.maxAmount != "" {
		d, err := decimal.NewFromString(f.maxAmount)
		if err != nil {
			return filter, fmt.Errorf("invalid --max-amount: %w", err)
		}
		filter.MaxAmount = &d
	}
	return filter, nil
}

// openProfileReader opens the source behind a named profile. The returned
// func closes the connection.
func openProfileReader(profilesPath, name string) (sqlstore.RecordReader, func(), error) {
	if profilesPath == "" {
		var err error
		if profilesPath, err = source.DefaultConfigPath(); err != nil {
			return nil, nil, err
		}
	}

	profiles, err := source.NewProfileRegistry(profilesPath)
	if err != nil {
		return nil, nil, err
	}
	profile, err := profiles.Profile(name)
	if err != nil {
		return nil, nil, err
	}

	db, dialect, err := source.Open(profile)
	if err != nil {
		return nil, nil, err
	}
	reader, err := sqlstore.NewRecordReader(db, dialect, profile.Table)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return reader, func() { db.Close() }, nil
}
