package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/doc-insights/pkg/adapters"
	"github.com/de-tools/doc-insights/pkg/metrics"
	"github.com/de-tools/doc-insights/pkg/models/api"
	"github.com/de-tools/doc-insights/pkg/models/domain"
	"github.com/de-tools/doc-insights/pkg/runtime/terminal/export"
	"github.com/de-tools/doc-insights/pkg/services/insights"
	"github.com/de-tools/doc-insights/pkg/services/insights/analyzers"
	"github.com/de-tools/doc-insights/pkg/services/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Archiver stores a rendered report and returns where it was put.
type Archiver interface {
	Archive(ctx context.Context, report api.InsightReport) (string, error)
}

// ArchiverFactory builds an Archiver for an AWS profile and bucket.
type ArchiverFactory func(ctx context.Context, awsProfile, bucket string) (Archiver, error)

type AnalyzeCmd struct {
	inputPath     string
	profile       string
	profilesPath  string
	settingsPath  string
	format        string
	archiveBucket string
	awsProfile    string
	timeout       time.Duration
	filter        filterFlags

	reporter   *export.Reporter
	newArchive ArchiverFactory
}

func NewAnalyzeCmd(reporter *export.Reporter, newArchive ArchiverFactory) *cobra.Command {
	ac := &AnalyzeCmd{reporter: reporter, newArchive: newArchive}
	cmd := &cobra.Command{
		Use:   "analyze <report-type>",
		Short: "Generate insights for a report type",
		Long: "Generate insights for one of the supported report types from a JSON file of documents\n" +
			"(--input) or from a data-source profile (--profile).",
		Args: cobra.ExactArgs(1),
		RunE: ac.run,
	}

	cmd.Flags().StringVar(&ac.inputPath, "input", "", "Path to a JSON file with documents")
	cmd.Flags().StringVar(&ac.profile, "profile", "", "Data-source profile to read documents from")
	cmd.Flags().StringVar(&ac.profilesPath, "profiles-config", "", "Path to the profiles file (default is $HOME/.insightscfg)")
	cmd.Flags().StringVar(&ac.settingsPath, "settings", "", "Path to an analysis settings file (yaml, json or toml)")
	cmd.Flags().StringVar(&ac.format, "format", string(export.FormatText), "Output format: text or json")
	cmd.Flags().StringVar(&ac.archiveBucket, "archive-bucket", "", "S3 bucket to archive the JSON report in")
	cmd.Flags().StringVar(&ac.awsProfile, "aws-profile", "", "AWS shared config profile used for archiving")
	cmd.Flags().DurationVar(&ac.timeout, "timeout", 60*time.Second, "Overall timeout")
	cmd.Flags().StringVar(&ac.filter.from, "from", "", "Only documents dated on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ac.filter.to, "to", "", "Only documents dated on or before (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ac.filter.vendor, "vendor", "", "Only documents from this vendor")
	cmd.Flags().StringVar(&ac.filter.status, "status", "", "Only documents in this status")
	cmd.Flags().StringVar(&ac.filter.minAmount, "min-amount", "", "Only documents with at least this amount")
	cmd.Flags().StringVar(&ac.filter.maxAmount, "max-amount", "", "Only documents with at most this amount")

	cmd.MarkFlagsMutuallyExclusive("input", "profile")
	cmd.MarkFlagsOneRequired("input", "profile")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), ac.timeout)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	reportType := domain.ReportType(args[0])
	format, err := export.ParseFormat(ac.format)
	if err != nil {
		return err
	}

	settings := analyzers.DefaultSettings()
	if ac.settingsPath != "" {
		if settings, err = analyzers.LoadSettings(ac.settingsPath); err != nil {
			return err
		}
	}

	engine, err := insights.NewDefaultEngine(settings, insights.WithRecorder(metrics.AnalyzerRecorder{}))
	if err != nil {
		return err
	}
	if !engine.Supports(reportType) {
		return fmt.Errorf("unsupported report type %q. Supported types: %v", reportType, engine.ReportTypes())
	}

	var analysis domain.Analysis
	if ac.inputPath != "" {
		records, err := readRecords(ac.inputPath)
		if err != nil {
			return err
		}
		analysis, err = report.NewService(engine, nil).Analyze(ctx, reportType, records)
		if err != nil {
			return err
		}
	} else {
		filter, err := ac.filter.toFilter()
		if err != nil {
			return err
		}
		reader, closeFn, err := openProfileReader(ac.profilesPath, ac.profile)
		if err != nil {
			return err
		}
		defer closeFn()

		analysis, err = report.NewService(engine, reader).AnalyzeSource(ctx, reportType, filter)
		if err != nil {
			return err
		}
	}

	out := adapters.MapAnalysisDomainToApi(analysis)
	if err := ac.reporter.Handle(out, format); err != nil {
		return err
	}

	if ac.archiveBucket != "" {
		archiver, err := ac.newArchive(ctx, ac.awsProfile, ac.archiveBucket)
		if err != nil {
			return err
		}
		key, err := archiver.Archive(ctx, out)
		if err != nil {
			return err
		}
		logger.Info().Str("key", key).Msg("report archived")
	}
	return nil
}
