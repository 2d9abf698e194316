package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// JSONSource reads fixture arrays from two files
type JSONSource struct {
	TransactionsPath string
	AttachmentsPath  string
}

// Compile-time check that JSONSource implements Source
var _ Source = (*JSONSource)(nil)

// NewJSONSource creates a source over the given files
func NewJSONSource(transactionsPath, attachmentsPath string) *JSONSource {
	return &JSONSource{
		TransactionsPath: transactionsPath,
		AttachmentsPath:  attachmentsPath,
	}
}

// Transactions loads the transactions file
func (s *JSONSource) Transactions(ctx context.Context) ([]records.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.TransactionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer f.Close()

	txs, err := DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.TransactionsPath, err)
	}
	return txs, nil
}

// Attachments loads the attachments file
func (s *JSONSource) Attachments(ctx context.Context) ([]records.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.AttachmentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachments file: %w", err)
	}
	defer f.Close()

	atts, err := DecodeAttachments(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.AttachmentsPath, err)
	}
	return atts, nil
}

// Close is a no-op; files are closed after each read
func (s *JSONSource) Close() error {
	return nil
}

type transactionJSON struct {
	ID        int64               `json:"id"`
	Amount    decimal.NullDecimal `json:"amount"`
	Date      records.Date        `json:"date"`
	Contact   *string             `json:"contact"`
	Reference json.RawMessage     `json:"reference"`
}

// attachmentFieldsJSON is the document payload, found either under "data"
// or directly on the record
type attachmentFieldsJSON struct {
	TotalAmount decimal.NullDecimal `json:"total_amount"`
	DueDate     *records.Date       `json:"due_date"`
	Issuer      *string             `json:"issuer"`
	Recipient   *string             `json:"recipient"`
	Supplier    *string             `json:"supplier"`
	Reference   json.RawMessage     `json:"reference"`
}

type attachmentJSON struct {
	ID   int64                 `json:"id"`
	Data *attachmentFieldsJSON `json:"data"`
	attachmentFieldsJSON
}

// DecodeTransactions decodes a JSON array of transactions
func DecodeTransactions(r io.Reader) ([]records.Transaction, error) {
	var raw []transactionJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txs := make([]records.Transaction, 0, len(raw))
	for _, t := range raw {
		txs = append(txs, records.Transaction{
			ID:        t.ID,
			Amount:    t.Amount,
			Date:      t.Date,
			Contact:   t.Contact,
			Reference: decodeReference(t.Reference),
		})
	}
	return txs, nil
}

// DecodeAttachments decodes a JSON array of attachments, accepting both the
// nested {"id", "data": {...}} and the flat shape
func DecodeAttachments(r io.Reader) ([]records.Attachment, error) {
	var raw []attachmentJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}

	atts := make([]records.Attachment, 0, len(raw))
	for _, a := range raw {
		fields := a.attachmentFieldsJSON
		if a.Data != nil {
			fields = *a.Data
		}

		due := fields.DueDate
		if due != nil && due.IsZero() {
			due = nil
		}

		atts = append(atts, records.Attachment{
			ID:          a.ID,
			TotalAmount: fields.TotalAmount,
			DueDate:     due,
			Issuer:      fields.Issuer,
			Recipient:   fields.Recipient,
			Supplier:    fields.Supplier,
			Reference:   decodeReference(fields.Reference),
		})
	}
	return atts, nil
}

// decodeReference keeps strings, keeps numbers as their literal text and
// drops anything else (bool, object, array) as unusable
func decodeReference(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		s = n.String()
		return &s
	}

	return nil
}
