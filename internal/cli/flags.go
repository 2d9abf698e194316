package cli

import (
	"flag"
	"io"
	"os"

	"github.com/eshaffer321/attachment-matcher/internal/infrastructure/config"
)

// ReportFlags are the flags of the match-report command
type ReportFlags struct {
	ConfigPath       string
	TransactionsPath string
	AttachmentsPath  string
	DatabasePath     string
	ExpectedPath     string
	XLSXPath         string
	Verbose          bool
}

// ParseReportFlags parses match-report flags from the command line
func ParseReportFlags() ReportFlags {
	// flag.CommandLine exits on parse errors
	flags, _ := parseReportFlags(flag.CommandLine, os.Args[1:])
	return flags
}

func parseReportFlags(fs *flag.FlagSet, args []string) (ReportFlags, error) {
	var flags ReportFlags
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to config file (falls back to env when missing)")
	fs.StringVar(&flags.TransactionsPath, "transactions", "", "Transactions JSON file (overrides config)")
	fs.StringVar(&flags.AttachmentsPath, "attachments", "", "Attachments JSON file (overrides config)")
	fs.StringVar(&flags.DatabasePath, "db", "", "Read records from this SQLite fixture database instead of JSON")
	fs.StringVar(&flags.ExpectedPath, "expected", "", "Expectations YAML file (overrides config)")
	fs.StringVar(&flags.XLSXPath, "xlsx", "", "Also write the report to this XLSX file")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	err := fs.Parse(args)
	return flags, err
}

// Apply overrides config values with the flags that were set
func (f ReportFlags) Apply(cfg *config.Config) {
	if f.TransactionsPath != "" {
		cfg.Fixtures.TransactionsPath = f.TransactionsPath
	}
	if f.AttachmentsPath != "" {
		cfg.Fixtures.AttachmentsPath = f.AttachmentsPath
	}
	if f.DatabasePath != "" {
		cfg.Fixtures.DatabasePath = f.DatabasePath
	}
	if f.ExpectedPath != "" {
		cfg.Fixtures.ExpectedPath = f.ExpectedPath
	}
	if f.XLSXPath != "" {
		cfg.Report.XLSXPath = f.XLSXPath
	}
	if f.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
}

// ImportFlags are the flags of the import-fixtures command
type ImportFlags struct {
	TransactionsPath string
	AttachmentsPath  string
	DatabasePath     string
	Verbose          bool
}

// ParseImportFlags parses import-fixtures flags from the command line
func ParseImportFlags() ImportFlags {
	flags, _ := parseImportFlags(flag.CommandLine, os.Args[1:])
	return flags
}

func parseImportFlags(fs *flag.FlagSet, args []string) (ImportFlags, error) {
	var flags ImportFlags
	fs.StringVar(&flags.TransactionsPath, "transactions", "fixtures/transactions.json", "Transactions JSON file")
	fs.StringVar(&flags.AttachmentsPath, "attachments", "fixtures/attachments.json", "Attachments JSON file")
	fs.StringVar(&flags.DatabasePath, "db", "fixtures/fixtures.db", "SQLite database to write")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	err := fs.Parse(args)
	return flags, err
}

// newFlagSet returns a quiet flag set for tests
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
