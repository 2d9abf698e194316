// Package matcher pairs bank transactions with supporting attachments
// (invoices, receipts) and vice versa.
//
// Matching happens in two phases:
//  1. Reference number: the first candidate whose normalized reference
//     equals the item's wins outright, regardless of other fields.
//  2. Scoring: amount must agree within 1 cent, then one point each for a
//     date within 15 days and a matching counterparty name. A contact on the
//     transaction side raises the bar from 2 to 3 points. Equal scores go to
//     the lowest id.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	result, err := m.FindAttachment(tx, attachments)
//	if err != nil {
//		return err
//	}
//	if result != nil {
//		// Found a match!
//		attachment := result.Attachment
//	}
package matcher

import (
	"fmt"
	"log/slog"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// Matcher matches transactions with attachments. It holds no mutable state
// and is safe for concurrent use.
type Matcher struct {
	config Config
	logger *slog.Logger
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger returns a copy of the matcher that logs candidate decisions at
// debug level
func (m *Matcher) WithLogger(logger *slog.Logger) *Matcher {
	if logger == nil {
		return m
	}
	clone := *m
	clone.logger = logger
	return &clone
}

// Config returns the matcher configuration
func (m *Matcher) Config() Config {
	return m.config
}

// FindAttachment finds the best matching attachment for a transaction.
// Returns nil if no confident match found.
func (m *Matcher) FindAttachment(tx records.Transaction, attachments []records.Attachment) (*AttachmentMatch, error) {
	// Priority 1: reference number (trusted 1:1)
	if ref, ok := NormalizeReference(tx.Reference); ok {
		for _, att := range attachments {
			if attRef, ok := NormalizeReference(att.Reference); ok && attRef == ref {
				m.logger.Debug("Reference match",
					"transaction_id", tx.ID, "attachment_id", att.ID, "reference", ref)
				return &AttachmentMatch{Attachment: att, Reason: ReasonReference}, nil
			}
		}
	}

	// Priority 2: amount + date + name
	if !tx.Amount.Valid {
		return nil, fmt.Errorf("transaction %d: %w: amount", tx.ID, ErrMissingField)
	}
	if tx.Date.IsZero() {
		return nil, fmt.Errorf("transaction %d: %w: date", tx.ID, ErrMissingField)
	}

	amount := tx.Amount.Decimal.Abs()
	contact := tx.ContactName()
	minScore := m.minScore(tx.HasContact())

	var best *AttachmentMatch
	for _, att := range attachments {
		if !att.TotalAmount.Valid {
			return nil, fmt.Errorf("attachment %d: %w: total_amount", att.ID, ErrMissingField)
		}

		score := m.signals(amount, att.TotalAmount.Decimal, &tx.Date, att.DueDate, contact, att.Names())
		if !score.Amount {
			continue
		}
		if score.Total < minScore {
			m.logger.Debug("Candidate below minimum score",
				"transaction_id", tx.ID, "attachment_id", att.ID, "score", score.Total, "min_score", minScore)
			continue
		}

		// Prefer higher score, then lower ID for determinism
		if best == nil ||
			score.Total > best.Score.Total ||
			(score.Total == best.Score.Total && att.ID < best.Attachment.ID) {
			best = &AttachmentMatch{Attachment: att, Reason: ReasonScore, Score: score}
		}
	}

	if best != nil {
		m.logger.Debug("Scored match",
			"transaction_id", tx.ID, "attachment_id", best.Attachment.ID, "score", best.Score.Total)
	}
	return best, nil
}

// FindTransaction finds the best matching transaction for an attachment.
// Returns nil if no confident match found.
//
// The minimum score follows each candidate's contact: a transaction that
// names a counterparty must agree with the attachment on it.
func (m *Matcher) FindTransaction(att records.Attachment, transactions []records.Transaction) (*TransactionMatch, error) {
	// Priority 1: reference number (trusted 1:1)
	if ref, ok := NormalizeReference(att.Reference); ok {
		for _, tx := range transactions {
			if txRef, ok := NormalizeReference(tx.Reference); ok && txRef == ref {
				m.logger.Debug("Reference match",
					"attachment_id", att.ID, "transaction_id", tx.ID, "reference", ref)
				return &TransactionMatch{Transaction: tx, Reason: ReasonReference}, nil
			}
		}
	}

	// Priority 2: amount + date + name
	if !att.TotalAmount.Valid {
		return nil, fmt.Errorf("attachment %d: %w: total_amount", att.ID, ErrMissingField)
	}

	amount := att.TotalAmount.Decimal.Abs()
	names := att.Names()

	var best *TransactionMatch
	for _, tx := range transactions {
		if !tx.Amount.Valid {
			return nil, fmt.Errorf("transaction %d: %w: amount", tx.ID, ErrMissingField)
		}
		if att.DueDate != nil && tx.Date.IsZero() {
			return nil, fmt.Errorf("transaction %d: %w: date", tx.ID, ErrMissingField)
		}

		score := m.signals(amount, tx.Amount.Decimal, att.DueDate, &tx.Date, tx.ContactName(), names)
		if !score.Amount {
			continue
		}
		minScore := m.minScore(tx.HasContact())
		if score.Total < minScore {
			m.logger.Debug("Candidate below minimum score",
				"attachment_id", att.ID, "transaction_id", tx.ID, "score", score.Total, "min_score", minScore)
			continue
		}

		if best == nil ||
			score.Total > best.Score.Total ||
			(score.Total == best.Score.Total && tx.ID < best.Transaction.ID) {
			best = &TransactionMatch{Transaction: tx, Reason: ReasonScore, Score: score}
		}
	}

	if best != nil {
		m.logger.Debug("Scored match",
			"attachment_id", att.ID, "transaction_id", best.Transaction.ID, "score", best.Score.Total)
	}
	return best, nil
}
