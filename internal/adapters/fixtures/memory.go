package fixtures

import (
	"context"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// MemorySource is an in-memory Source. Callers that already hold records
// (tests, other pipelines) pass them straight through.
type MemorySource struct {
	TransactionList []records.Transaction
	AttachmentList  []records.Attachment

	// Hooks for test assertions
	Closed bool

	// Error injection for testing error paths
	TransactionsErr error
	AttachmentsErr  error
}

// Compile-time check that MemorySource implements Source
var _ Source = (*MemorySource)(nil)

// NewMemorySource creates a source over the given records
func NewMemorySource(transactions []records.Transaction, attachments []records.Attachment) *MemorySource {
	return &MemorySource{
		TransactionList: transactions,
		AttachmentList:  attachments,
	}
}

// Transactions returns a copy of the stored transactions
func (s *MemorySource) Transactions(ctx context.Context) ([]records.Transaction, error) {
	if s.TransactionsErr != nil {
		return nil, s.TransactionsErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]records.Transaction(nil), s.TransactionList...), nil
}

// Attachments returns a copy of the stored attachments
func (s *MemorySource) Attachments(ctx context.Context) ([]records.Attachment, error) {
	if s.AttachmentsErr != nil {
		return nil, s.AttachmentsErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]records.Attachment(nil), s.AttachmentList...), nil
}

// Close marks the source closed
func (s *MemorySource) Close() error {
	s.Closed = true
	return nil
}
