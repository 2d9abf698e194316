package matcher

import (
	"fmt"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// AttachmentOutcome pairs a transaction with its lookup result (nil = no match)
type AttachmentOutcome struct {
	Transaction records.Transaction
	Match       *AttachmentMatch
}

// TransactionOutcome pairs an attachment with its lookup result (nil = no match)
type TransactionOutcome struct {
	Attachment records.Attachment
	Match      *TransactionMatch
}

// MatchTransactions runs FindAttachment for every transaction, in input order.
// Lookups are independent: one attachment may be the answer for several
// transactions.
func (m *Matcher) MatchTransactions(
	transactions []records.Transaction,
	attachments []records.Attachment,
) ([]AttachmentOutcome, error) {
	outcomes := make([]AttachmentOutcome, 0, len(transactions))
	for i, tx := range transactions {
		match, err := m.FindAttachment(tx, attachments)
		if err != nil {
			return nil, fmt.Errorf("transaction at index %d: %w", i, err)
		}
		outcomes = append(outcomes, AttachmentOutcome{Transaction: tx, Match: match})
	}
	return outcomes, nil
}

// MatchAttachments runs FindTransaction for every attachment, in input order
func (m *Matcher) MatchAttachments(
	attachments []records.Attachment,
	transactions []records.Transaction,
) ([]TransactionOutcome, error) {
	outcomes := make([]TransactionOutcome, 0, len(attachments))
	for i, att := range attachments {
		match, err := m.FindTransaction(att, transactions)
		if err != nil {
			return nil, fmt.Errorf("attachment at index %d: %w", i, err)
		}
		outcomes = append(outcomes, TransactionOutcome{Attachment: att, Match: match})
	}
	return outcomes, nil
}
