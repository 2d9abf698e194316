package matcher

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// ErrMissingField is returned when a record lacks a field the matcher cannot
// work without (amount on any scored record, date on a primary transaction).
var ErrMissingField = errors.New("missing mandatory field")

// Config holds matcher configuration
type Config struct {
	AmountTolerance   decimal.Decimal // Default: 0.01; a difference equal to it already fails
	DateToleranceDays int             // Default: 15

	// Two multi-word names match when they share at least this many words
	MinCommonWords int

	AmountPoints int
	DatePoints   int
	NamePoints   int

	MinScoreWithContact    int // Default: 3 (amount + date + name)
	MinScoreWithoutContact int // Default: 2 (amount + date)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		AmountTolerance:        decimal.New(1, -2),
		DateToleranceDays:      15,
		MinCommonWords:         2,
		AmountPoints:           1,
		DatePoints:             1,
		NamePoints:             1,
		MinScoreWithContact:    3,
		MinScoreWithoutContact: 2,
	}
}

// MaxScore is the best score a candidate can reach
func (c Config) MaxScore() int {
	return c.AmountPoints + c.DatePoints + c.NamePoints
}

// Validate checks the configuration for values the finders cannot honour
func (c Config) Validate() error {
	if !c.AmountTolerance.IsPositive() {
		return fmt.Errorf("amount tolerance must be positive: %s", c.AmountTolerance)
	}
	if c.DateToleranceDays < 0 {
		return fmt.Errorf("date tolerance days cannot be negative: %d", c.DateToleranceDays)
	}
	if c.MinCommonWords < 1 {
		return fmt.Errorf("min common words must be at least 1: %d", c.MinCommonWords)
	}
	if c.AmountPoints < 0 || c.DatePoints < 0 || c.NamePoints < 0 {
		return fmt.Errorf("points cannot be negative: amount=%d date=%d name=%d",
			c.AmountPoints, c.DatePoints, c.NamePoints)
	}
	if err := checkThreshold("min score with contact", c.MinScoreWithContact, c.MaxScore()); err != nil {
		return err
	}
	return checkThreshold("min score without contact", c.MinScoreWithoutContact, c.MaxScore())
}

func checkThreshold(name string, v, max int) error {
	if v < 1 || v > max {
		return fmt.Errorf("%s must be between 1 and %d: %d", name, max, v)
	}
	return nil
}

// Reason says which phase produced a match
type Reason string

const (
	ReasonReference Reason = "reference"
	ReasonScore     Reason = "score"
)

// Score breaks a candidate's confidence down by signal
type Score struct {
	Total  int
	Amount bool // Amount within tolerance; false means the candidate was gated out
	Date   bool
	Name   bool
}

// AttachmentMatch contains match information for a transaction lookup
type AttachmentMatch struct {
	Attachment records.Attachment
	Reason     Reason
	Score      Score // Zero for reference matches
}

// TransactionMatch contains match information for an attachment lookup
type TransactionMatch struct {
	Transaction records.Transaction
	Reason      Reason
	Score       Score // Zero for reference matches
}
