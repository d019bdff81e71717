package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/doc-insights/pkg/adapters"
	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/models/store"
	"github.com/de-tools/doc-insights/pkg/store/duckdb"
	"github.com/de-tools/doc-insights/pkg/store/duckdb/records"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const DefaultDbPath = "insights.db"

type ImportCmd struct {
	inputPath    string
	profile      string
	profilesPath string
	dbPath       string
	filter       filterFlags
}

func NewImportCmd() *cobra.Command {
	ic := &ImportCmd{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy documents into the local DuckDB store",
		Long: "Copy documents from a JSON file (--input) or from a data-source profile (--profile)\n" +
			"into the local DuckDB store. The copy runs in a single transaction.",
		RunE: ic.run,
	}

	cmd.Flags().StringVar(&ic.inputPath, "input", "", "Path to a JSON file with documents")
	cmd.Flags().StringVar(&ic.profile, "profile", "", "Data-source profile to copy documents from")
	cmd.Flags().StringVar(&ic.profilesPath, "profiles-config", "", "Path to the profiles file (default is $HOME/.insightscfg)")
	cmd.Flags().StringVar(&ic.dbPath, "db", DefaultDbPath, "Path to the DuckDB database file")
	cmd.Flags().StringVar(&ic.filter.from, "from", "", "Only documents dated on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ic.filter.to, "to", "", "Only documents dated on or before (YYYY-MM-DD)")

	cmd.MarkFlagsMutuallyExclusive("input", "profile")
	cmd.MarkFlagsOneRequired("input", "profile")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	rows, err := ic.collect(ctx)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ic.dbPath})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	recordStore, err := records.NewStore(db)
	if err != nil {
		return err
	}

	var ids []string
	err = duckdb.InTransaction(ctx, db, func(ctx context.Context) error {
		ids, err = recordStore.Add(ctx, rows)
		return err
	})
	if err != nil {
		return fmt.Errorf("import documents: %w", err)
	}

	logger.Info().Int("records", len(ids)).Str("db", ic.dbPath).Msg("import finished")
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d documents into %s\n", len(ids), ic.dbPath)
	return nil
}

func (ic *ImportCmd) collect(ctx context.Context) ([]store.Record, error) {
	if ic.inputPath != "" {
		docs, err := readRecords(ic.inputPath)
		if err != nil {
			return nil, err
		}
		rows := make([]store.Record, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, adapters.MapDomainRecordToStore(d))
		}
		return rows, nil
	}

	filter, err := ic.filter.toFilter()
	if err != nil {
		return nil, err
	}
	reader, closeFn, err := openProfileReader(ic.profilesPath, ic.profile)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	rows, err := reader.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", ic.profile, err)
	}
	for i := range rows {
		if !domain.RecordStatus(rows[i].Status).Valid() {
			rows[i].Status = string(domain.StatusPending)
		}
	}
	return rows, nil
}
