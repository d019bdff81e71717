package commands

import (
	"fmt"

	"github.com/de-tools/doc-insights/pkg/services/insights"
	"github.com/de-tools/doc-insights/pkg/services/insights/analyzers"
	"github.com/spf13/cobra"
)

func NewReportTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report-types",
		Short: "List supported report types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := insights.NewDefaultEngine(analyzers.DefaultSettings())
			if err != nil {
				return err
			}
			for _, rt := range engine.ReportTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), rt)
			}
			return nil
		},
	}
}
