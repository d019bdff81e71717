package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/doc-insights/pkg/export/archive"
	"github.com/de-tools/doc-insights/pkg/runtime/terminal/commands"
	"github.com/de-tools/doc-insights/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter   *export.Reporter
	newArchive commands.ArchiverFactory
	logger     zerolog.Logger
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logger *zerolog.Logger
	// NewArchiver defaults to an S3 archiver.
	NewArchiver commands.ArchiverFactory
}

func s3Archiver(ctx context.Context, awsProfile, bucket string) (commands.Archiver, error) {
	a, err := archive.NewS3Archiver(ctx, awsProfile, bucket)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.NewArchiver == nil {
		opts.NewArchiver = s3Archiver
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	cli := &CLI{
		reporter:   export.NewReporter(opts.Output),
		newArchive: opts.NewArchiver,
		logger:     logger,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx))
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "insights",
		Short:         "Statistical insights for financial documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.reporter, cli.newArchive))
	cmd.AddCommand(commands.NewImportCmd())
	cmd.AddCommand(commands.NewReportTypesCmd())

	return cmd
}
