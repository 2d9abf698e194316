// Package fixtures loads transactions and attachments for the matcher from
// JSON files or a SQLite fixture database.
//
// Every source hands out records in their stored order: the reference phase
// of the matcher returns the first hit, so order is part of the contract.
package fixtures

import (
	"context"
	"fmt"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// Source is implemented by every fixture backend
type Source interface {
	Transactions(ctx context.Context) ([]records.Transaction, error)
	Attachments(ctx context.Context) ([]records.Attachment, error)
	Close() error
}

// IndexTransactions keys transactions by id
func IndexTransactions(transactions []records.Transaction) (map[int64]records.Transaction, error) {
	byID := make(map[int64]records.Transaction, len(transactions))
	for _, tx := range transactions {
		if _, dup := byID[tx.ID]; dup {
			return nil, fmt.Errorf("duplicate transaction id %d", tx.ID)
		}
		byID[tx.ID] = tx
	}
	return byID, nil
}

// IndexAttachments keys attachments by id
func IndexAttachments(attachments []records.Attachment) (map[int64]records.Attachment, error) {
	byID := make(map[int64]records.Attachment, len(attachments))
	for _, att := range attachments {
		if _, dup := byID[att.ID]; dup {
			return nil, fmt.Errorf("duplicate attachment id %d", att.ID)
		}
		byID[att.ID] = att
	}
	return byID, nil
}
