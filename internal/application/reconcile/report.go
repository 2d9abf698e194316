package reconcile

import (
	"fmt"

	"github.com/eshaffer321/attachment-matcher/internal/domain/matcher"
)

// Direction names which finder produced a row
type Direction string

const (
	FindAttachment  Direction = "find_attachment"
	FindTransaction Direction = "find_transaction"
)

// Row is one expectation checked against the matcher
type Row struct {
	PrimaryID  int64
	ExpectedID *int64 // nil = no match expected
	FoundID    *int64 // nil = no match found
	Reason     matcher.Reason
	Score      matcher.Score
	Passed     bool
}

// Conflict is a reference shared by several records of one kind
type Conflict struct {
	Kind string // "transaction" or "attachment"
	matcher.ReferenceConflict
}

// Report holds the outcome of one run
type Report struct {
	RunID           string
	AttachmentRows  []Row // Transaction -> attachment lookups
	TransactionRows []Row // Attachment -> transaction lookups
	Conflicts       []Conflict
}

// Summary counts rows across both directions
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// Summary totals the report
func (r *Report) Summary() Summary {
	var s Summary
	for _, rows := range [][]Row{r.AttachmentRows, r.TransactionRows} {
		for _, row := range rows {
			s.Total++
			if row.Passed {
				s.Passed++
			} else {
				s.Failed++
			}
		}
	}
	return s
}

// Passed reports whether every expectation held
func (r *Report) Passed() bool {
	return r.Summary().Failed == 0
}

// String renders the summary for logs
func (s Summary) String() string {
	return fmt.Sprintf("Total=%d Passed=%d Failed=%d", s.Total, s.Passed, s.Failed)
}

// sameID compares two optional ids; two nils are equal
func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
