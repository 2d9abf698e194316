// Package records defines the transaction and attachment shapes the matcher
// reads. Loaders build these once at the boundary; the matcher never mutates
// them.
package records

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is a bank feed entry
type Transaction struct {
	ID        int64
	Amount    decimal.NullDecimal // Mandatory; Valid=false means the source omitted it
	Date      Date                // Mandatory; zero means the source omitted it
	Contact   *string             // Counterparty name
	Reference *string
}

// ContactName returns the trimmed contact or "" when absent
func (t Transaction) ContactName() string {
	if t.Contact == nil {
		return ""
	}
	return strings.TrimSpace(*t.Contact)
}

// HasContact reports whether the transaction carries a non-empty contact.
// A whitespace-only contact still counts: it raises the bar but can never
// earn the name point.
func (t Transaction) HasContact() bool {
	return t.Contact != nil && *t.Contact != ""
}

// Attachment is a supporting document (invoice, receipt, credit note).
// Sources that wrap the fields in a nested "data" object are flattened
// into this shape by the loader.
type Attachment struct {
	ID          int64
	TotalAmount decimal.NullDecimal // Mandatory
	DueDate     *Date
	Issuer      *string
	Recipient   *string
	Supplier    *string
	Reference   *string
}

// Names returns the counterparty names present on the document, in
// issuer, recipient, supplier order
func (a Attachment) Names() []string {
	names := make([]string, 0, 3)
	for _, n := range []*string{a.Issuer, a.Recipient, a.Supplier} {
		if n != nil && strings.TrimSpace(*n) != "" {
			names = append(names, *n)
		}
	}
	return names
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Amount builds a valid NullDecimal from a decimal string.
// It panics on malformed input and is meant for literals.
func Amount(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}
