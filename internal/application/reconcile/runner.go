// Package reconcile runs the matcher over a fixture set and checks every
// lookup against an expected mapping.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/eshaffer321/attachment-matcher/internal/adapters/fixtures"
	"github.com/eshaffer321/attachment-matcher/internal/domain/matcher"
	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// Runner checks expectations against a matcher
type Runner struct {
	matcher *matcher.Matcher
	logger  *slog.Logger
}

// NewRunner creates a runner; a nil logger discards output
func NewRunner(m *matcher.Matcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		matcher: m,
		logger:  logger,
	}
}

// Run loads records from src and evaluates both expectation maps.
// Candidates are passed to the matcher in source order.
func (r *Runner) Run(ctx context.Context, src fixtures.Source, exp *Expectations) (*Report, error) {
	txs, err := src.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	atts, err := src.Attachments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}

	txByID, err := fixtures.IndexTransactions(txs)
	if err != nil {
		return nil, err
	}
	attByID, err := fixtures.IndexAttachments(atts)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString()}
	logger := r.logger.With("run_id", report.RunID)
	logger.Info("Starting run",
		"transactions", len(txs), "attachments", len(atts),
		"expectations", len(exp.TransactionToAttachment)+len(exp.AttachmentToTransaction))

	for _, c := range matcher.TransactionReferenceConflicts(txs) {
		logger.Warn("Transactions share a reference; first in order wins", "reference", c.Reference, "ids", c.IDs)
		report.Conflicts = append(report.Conflicts, Conflict{Kind: "transaction", ReferenceConflict: c})
	}
	for _, c := range matcher.AttachmentReferenceConflicts(atts) {
		logger.Warn("Attachments share a reference; first in order wins", "reference", c.Reference, "ids", c.IDs)
		report.Conflicts = append(report.Conflicts, Conflict{Kind: "attachment", ReferenceConflict: c})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Transaction -> attachment
	txIDs := sortedKeys(exp.TransactionToAttachment)
	primaryTxs := make([]records.Transaction, 0, len(txIDs))
	for _, txID := range txIDs {
		tx, ok := txByID[txID]
		if !ok {
			return nil, fmt.Errorf("expectation references unknown transaction %d", txID)
		}
		if expected := exp.TransactionToAttachment[txID]; expected != nil {
			if _, ok := attByID[*expected]; !ok {
				return nil, fmt.Errorf("transaction %d expects unknown attachment %d", txID, *expected)
			}
		}
		primaryTxs = append(primaryTxs, tx)
	}

	attOutcomes, err := r.matcher.MatchTransactions(primaryTxs, atts)
	if err != nil {
		return nil, err
	}
	for _, outcome := range attOutcomes {
		row := Row{PrimaryID: outcome.Transaction.ID, ExpectedID: exp.TransactionToAttachment[outcome.Transaction.ID]}
		if outcome.Match != nil {
			id := outcome.Match.Attachment.ID
			row.FoundID = &id
			row.Reason = outcome.Match.Reason
			row.Score = outcome.Match.Score
		}
		row.Passed = sameID(row.ExpectedID, row.FoundID)
		r.logRow(logger, FindAttachment, row)
		report.AttachmentRows = append(report.AttachmentRows, row)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Attachment -> transaction
	attIDs := sortedKeys(exp.AttachmentToTransaction)
	primaryAtts := make([]records.Attachment, 0, len(attIDs))
	for _, attID := range attIDs {
		att, ok := attByID[attID]
		if !ok {
			return nil, fmt.Errorf("expectation references unknown attachment %d", attID)
		}
		if expected := exp.AttachmentToTransaction[attID]; expected != nil {
			if _, ok := txByID[*expected]; !ok {
				return nil, fmt.Errorf("attachment %d expects unknown transaction %d", attID, *expected)
			}
		}
		primaryAtts = append(primaryAtts, att)
	}

	txOutcomes, err := r.matcher.MatchAttachments(primaryAtts, txs)
	if err != nil {
		return nil, err
	}
	for _, outcome := range txOutcomes {
		row := Row{PrimaryID: outcome.Attachment.ID, ExpectedID: exp.AttachmentToTransaction[outcome.Attachment.ID]}
		if outcome.Match != nil {
			id := outcome.Match.Transaction.ID
			row.FoundID = &id
			row.Reason = outcome.Match.Reason
			row.Score = outcome.Match.Score
		}
		row.Passed = sameID(row.ExpectedID, row.FoundID)
		r.logRow(logger, FindTransaction, row)
		report.TransactionRows = append(report.TransactionRows, row)
	}

	summary := report.Summary()
	logger.Info("Run complete", "total", summary.Total, "passed", summary.Passed, "failed", summary.Failed)
	return report, nil
}

func (r *Runner) logRow(logger *slog.Logger, dir Direction, row Row) {
	if row.Passed {
		logger.Debug("Expectation held", "direction", string(dir), "id", row.PrimaryID, "reason", string(row.Reason))
		return
	}
	logger.Warn("Expectation failed",
		"direction", string(dir),
		"id", row.PrimaryID,
		"expected", FormatID(row.ExpectedID),
		"found", FormatID(row.FoundID))
}

// FormatID renders an optional id, using ∅ for none
func FormatID(id *int64) string {
	if id == nil {
		return "∅"
	}
	return fmt.Sprintf("%d", *id)
}
