package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/eshaffer321/attachment-matcher/internal/adapters/fixtures"
	"github.com/eshaffer321/attachment-matcher/internal/application/reconcile"
	"github.com/eshaffer321/attachment-matcher/internal/cli"
	"github.com/eshaffer321/attachment-matcher/internal/domain/matcher"
	"github.com/eshaffer321/attachment-matcher/internal/infrastructure/config"
	"github.com/eshaffer321/attachment-matcher/internal/infrastructure/logging"
)

func main() {
	flags := cli.ParseReportFlags()

	// Load configuration, then let flags override it
	cfg, err := config.LoadOrEnv_WithPath(flags.ConfigPath)
	if err != nil {
		logging.NewLoggerWithSystem(config.Default().Observability.Logging, "report").
			Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	flags.Apply(cfg)

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "report")

	matcherCfg, err := cfg.Matching.ToMatcherConfig()
	if err != nil {
		logger.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	src, sourceName, err := openSource(cfg.Fixtures)
	if err != nil {
		logger.Error("Failed to open fixtures", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer src.Close()

	exp, err := reconcile.LoadExpectations(cfg.Fixtures.ExpectedPath)
	if err != nil {
		logger.Error("Failed to load expectations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m := matcher.NewMatcher(matcherCfg).WithLogger(logger.With("component", "matcher"))
	runner := reconcile.NewRunner(m, logger)

	report, err := runner.Run(context.Background(), src, exp)
	if err != nil {
		logger.Error("Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.PrintHeader(os.Stdout, report.RunID, sourceName)
	cli.PrintReport(os.Stdout, report)

	if cfg.Report.XLSXPath != "" {
		if err := cli.ExportReportXLSX(report, cfg.Report.XLSXPath); err != nil {
			logger.Error("Failed to export report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Report exported", slog.String("path", cfg.Report.XLSXPath))
	}

	if !report.Passed() {
		// defer does not run past os.Exit
		_ = src.Close()
		os.Exit(1)
	}
}

// openSource picks SQLite when a database path is configured, JSON otherwise
func openSource(cfg config.FixturesConfig) (fixtures.Source, string, error) {
	if cfg.DatabasePath != "" {
		src, err := fixtures.NewSQLiteSource(cfg.DatabasePath)
		if err != nil {
			return nil, "", err
		}
		return src, "sqlite " + cfg.DatabasePath, nil
	}
	return fixtures.NewJSONSource(cfg.TransactionsPath, cfg.AttachmentsPath), "json", nil
}
