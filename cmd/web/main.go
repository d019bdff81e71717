package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/doc-insights/pkg/metrics"
	"github.com/de-tools/doc-insights/pkg/server"
	"github.com/de-tools/doc-insights/pkg/services/insights"
	"github.com/de-tools/doc-insights/pkg/services/insights/analyzers"
	"github.com/de-tools/doc-insights/pkg/services/report"
	sqlstore "github.com/de-tools/doc-insights/pkg/store/sql"
	"github.com/de-tools/doc-insights/pkg/store/source"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profileName  string
	settingsPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for document insights",
		RunE:  runServer,
	}

	defaultPath, _ := source.DefaultConfigPath()

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultPath,
		"Path to the profiles file (default is $HOME/.insightscfg)")
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "",
		"Data-source profile served by GET /api/v1/insights/{reportType}")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Path to an analysis settings file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	settings := analyzers.DefaultSettings()
	if settingsPath != "" {
		var err error
		if settings, err = analyzers.LoadSettings(settingsPath); err != nil {
			return err
		}
		logger.Info().Msgf("Analysis settings loaded from `%s`", settingsPath)
	}

	engine, err := insights.NewDefaultEngine(settings, insights.WithRecorder(metrics.AnalyzerRecorder{}))
	if err != nil {
		return fmt.Errorf("failed to create insight engine: %w", err)
	}

	var recordSource report.RecordSource
	if profileName != "" {
		registry, err := source.NewProfileRegistry(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to create profile registry: %w", err)
		}
		profile, err := registry.Profile(profileName)
		if err != nil {
			return err
		}
		db, dialect, err := source.Open(profile)
		if err != nil {
			return err
		}
		defer db.Close()

		reader, err := sqlstore.NewRecordReader(db, dialect, profile.Table)
		if err != nil {
			return err
		}
		recordSource = reader
		logger.Info().Msgf("Serving documents from profile `%s` (%s)", profile.Name, profile.Driver)
	} else {
		logger.Warn().Msg("no --profile given, only POST /api/v1/insights/{reportType} is available")
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Reports: report.NewService(engine, recordSource),
			Logger:  logger,
		},
	})

	return api.Start()
}
