package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/eshaffer321/attachment-matcher/internal/adapters/fixtures"
	"github.com/eshaffer321/attachment-matcher/internal/cli"
	"github.com/eshaffer321/attachment-matcher/internal/infrastructure/config"
	"github.com/eshaffer321/attachment-matcher/internal/infrastructure/logging"
)

func main() {
	flags := cli.ParseImportFlags()

	logCfg := config.LoggingConfig{Level: "info", Format: "text"}
	if flags.Verbose {
		logCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(logCfg, "import")

	if err := run(context.Background(), flags, logger); err != nil {
		logger.Error("Import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, flags cli.ImportFlags, logger *slog.Logger) error {
	src := fixtures.NewJSONSource(flags.TransactionsPath, flags.AttachmentsPath)
	defer src.Close()

	txs, err := src.Transactions(ctx)
	if err != nil {
		return err
	}
	atts, err := src.Attachments(ctx)
	if err != nil {
		return err
	}

	// Reject duplicate ids before they silently overwrite each other
	if _, err := fixtures.IndexTransactions(txs); err != nil {
		return err
	}
	if _, err := fixtures.IndexAttachments(atts); err != nil {
		return err
	}

	db, err := fixtures.NewSQLiteSource(flags.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveTransactions(ctx, txs); err != nil {
		return err
	}
	if err := db.SaveAttachments(ctx, atts); err != nil {
		return err
	}

	logger.Info("Fixtures imported",
		slog.Int("transactions", len(txs)),
		slog.Int("attachments", len(atts)),
		slog.String("db", flags.DatabasePath))
	fmt.Printf("Imported %d transactions and %d attachments into %s\n", len(txs), len(atts), flags.DatabasePath)
	return nil
}
