// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback), including a local .env file
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv()
//	matcherCfg, err := cfg.Matching.ToMatcherConfig()
//	txPath := cfg.Fixtures.TransactionsPath
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/attachment-matcher/internal/domain/matcher"
)

// Config represents the entire application configuration
type Config struct {
	Matching      MatchingConfig      `yaml:"matching"`
	Fixtures      FixturesConfig      `yaml:"fixtures"`
	Report        ReportConfig        `yaml:"report"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatchingConfig holds the scoring thresholds
type MatchingConfig struct {
	AmountTolerance        string `yaml:"amount_tolerance"` // Decimal string, e.g. "0.01"
	DateToleranceDays      int    `yaml:"date_tolerance_days"`
	MinCommonWords         int    `yaml:"min_common_words"`
	AmountPoints           int    `yaml:"amount_points"`
	DatePoints             int    `yaml:"date_points"`
	NamePoints             int    `yaml:"name_points"`
	MinScoreWithContact    int    `yaml:"min_score_with_contact"`
	MinScoreWithoutContact int    `yaml:"min_score_without_contact"`
}

// FixturesConfig says where records and expectations come from
type FixturesConfig struct {
	TransactionsPath string `yaml:"transactions_path"`
	AttachmentsPath  string `yaml:"attachments_path"`
	DatabasePath     string `yaml:"database_path"` // When set, read records from SQLite instead of JSON
	ExpectedPath     string `yaml:"expected_path"`
}

// ReportConfig holds report output settings
type ReportConfig struct {
	XLSXPath string `yaml:"xlsx_path"` // Empty = no spreadsheet
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	m := matcher.DefaultConfig()
	return &Config{
		Matching: MatchingConfig{
			AmountTolerance:        m.AmountTolerance.String(),
			DateToleranceDays:      m.DateToleranceDays,
			MinCommonWords:         m.MinCommonWords,
			AmountPoints:           m.AmountPoints,
			DatePoints:             m.DatePoints,
			NamePoints:             m.NamePoints,
			MinScoreWithContact:    m.MinScoreWithContact,
			MinScoreWithoutContact: m.MinScoreWithoutContact,
		},
		Fixtures: FixturesConfig{
			TransactionsPath: "fixtures/transactions.json",
			AttachmentsPath:  "fixtures/attachments.json",
			ExpectedPath:     "fixtures/expected.yaml",
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Load reads and parses the config file. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${FIXTURE_DB})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	d := Default()
	return &Config{
		Matching: MatchingConfig{
			AmountTolerance:        getEnv("MATCH_AMOUNT_TOLERANCE", d.Matching.AmountTolerance),
			DateToleranceDays:      getEnvInt("MATCH_DATE_TOLERANCE_DAYS", d.Matching.DateToleranceDays),
			MinCommonWords:         getEnvInt("MATCH_MIN_COMMON_WORDS", d.Matching.MinCommonWords),
			AmountPoints:           getEnvInt("MATCH_AMOUNT_POINTS", d.Matching.AmountPoints),
			DatePoints:             getEnvInt("MATCH_DATE_POINTS", d.Matching.DatePoints),
			NamePoints:             getEnvInt("MATCH_NAME_POINTS", d.Matching.NamePoints),
			MinScoreWithContact:    getEnvInt("MATCH_MIN_SCORE_WITH_CONTACT", d.Matching.MinScoreWithContact),
			MinScoreWithoutContact: getEnvInt("MATCH_MIN_SCORE_WITHOUT_CONTACT", d.Matching.MinScoreWithoutContact),
		},
		Fixtures: FixturesConfig{
			TransactionsPath: getEnv("FIXTURE_TRANSACTIONS", d.Fixtures.TransactionsPath),
			AttachmentsPath:  getEnv("FIXTURE_ATTACHMENTS", d.Fixtures.AttachmentsPath),
			DatabasePath:     os.Getenv("FIXTURE_DB"),
			ExpectedPath:     getEnv("FIXTURE_EXPECTED", d.Fixtures.ExpectedPath),
		},
		Report: ReportConfig{
			XLSXPath: os.Getenv("REPORT_XLSX"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", d.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", d.Observability.Logging.Format),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() (*Config, error) {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment
// variables only when the file does not exist. A .env file in the working
// directory is applied first; it never overrides variables that are already set.
func LoadOrEnv_WithPath(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return LoadFromEnv(), nil
	}
	return nil, fmt.Errorf("failed to load config %s: %w", path, err)
}

// ToMatcherConfig converts the YAML settings into a validated matcher.Config
func (m MatchingConfig) ToMatcherConfig() (matcher.Config, error) {
	tolerance, err := decimal.NewFromString(m.AmountTolerance)
	if err != nil {
		return matcher.Config{}, fmt.Errorf("invalid amount_tolerance %q: %w", m.AmountTolerance, err)
	}

	cfg := matcher.Config{
		AmountTolerance:        tolerance,
		DateToleranceDays:      m.DateToleranceDays,
		MinCommonWords:         m.MinCommonWords,
		AmountPoints:           m.AmountPoints,
		DatePoints:             m.DatePoints,
		NamePoints:             m.NamePoints,
		MinScoreWithContact:    m.MinScoreWithContact,
		MinScoreWithoutContact: m.MinScoreWithoutContact,
	}
	if err := cfg.Validate(); err != nil {
		return matcher.Config{}, fmt.Errorf("invalid matching config: %w", err)
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
