package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/attachment-matcher/internal/adapters/fixtures"
	"github.com/eshaffer321/attachment-matcher/internal/domain/matcher"
	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

func id(v int64) *int64 { return &v }

func sampleSource() *fixtures.MemorySource {
	return fixtures.NewMemorySource(
		[]records.Transaction{
			{ID: 1, Amount: records.Amount("100.00"), Date: records.MustParseDate("2024-03-01"), Contact: records.StringPtr("Acme Supplies")},
			{ID: 2, Amount: records.Amount("55.10"), Date: records.MustParseDate("2024-03-02"), Reference: records.StringPtr("INV-7")},
			{ID: 3, Amount: records.Amount("9.99"), Date: records.MustParseDate("2024-03-03")},
		},
		[]records.Attachment{
			{ID: 10, TotalAmount: records.Amount("100.00"), DueDate: datePtr("2024-03-05"), Issuer: records.StringPtr("supplies acme")},
			{ID: 11, TotalAmount: records.Amount("1.00"), Reference: records.StringPtr("inv-7")},
		},
	)
}

func datePtr(s string) *records.Date {
	d := records.MustParseDate(s)
	return &d
}

func TestRunner_Run_AllExpectationsHold(t *testing.T) {
	// Arrange
	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)
	exp := &Expectations{
		TransactionToAttachment: map[int64]*int64{3: nil, 1: id(10), 2: id(11)},
		AttachmentToTransaction: map[int64]*int64{10: id(1), 11: id(2)},
	}

	// Act
	report, err := runner.Run(context.Background(), sampleSource(), exp)

	// Assert
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.NotEmpty(t, report.RunID)

	require.Len(t, report.AttachmentRows, 3)
	assert.Equal(t, int64(1), report.AttachmentRows[0].PrimaryID, "rows sorted by primary id")
	assert.Equal(t, matcher.ReasonScore, report.AttachmentRows[0].Reason)
	assert.Equal(t, 3, report.AttachmentRows[0].Score.Total)
	assert.Equal(t, matcher.ReasonReference, report.AttachmentRows[1].Reason)
	assert.Nil(t, report.AttachmentRows[2].FoundID)

	assert.Equal(t, Summary{Total: 5, Passed: 5}, report.Summary())
}

func TestRunner_Run_RecordsFailures(t *testing.T) {
	// Arrange
	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)
	exp := &Expectations{
		TransactionToAttachment: map[int64]*int64{3: id(10)},
	}

	// Act
	report, err := runner.Run(context.Background(), sampleSource(), exp)

	// Assert
	require.NoError(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.AttachmentRows, 1)
	row := report.AttachmentRows[0]
	assert.False(t, row.Passed)
	assert.Equal(t, int64(10), *row.ExpectedID)
	assert.Nil(t, row.FoundID)
	assert.Equal(t, "Total=1 Passed=0 Failed=1", report.Summary().String())
}

func TestRunner_Run_UnknownIDs(t *testing.T) {
	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)

	tests := []struct {
		name    string
		exp     *Expectations
		wantErr string
	}{
		{
			name:    "unknown transaction",
			exp:     &Expectations{TransactionToAttachment: map[int64]*int64{99: nil}},
			wantErr: "unknown transaction 99",
		},
		{
			name:    "unknown expected attachment",
			exp:     &Expectations{TransactionToAttachment: map[int64]*int64{1: id(99)}},
			wantErr: "unknown attachment 99",
		},
		{
			name:    "unknown attachment",
			exp:     &Expectations{AttachmentToTransaction: map[int64]*int64{99: nil}},
			wantErr: "unknown attachment 99",
		},
		{
			name:    "unknown expected transaction",
			exp:     &Expectations{AttachmentToTransaction: map[int64]*int64{10: id(99)}},
			wantErr: "unknown transaction 99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Run(context.Background(), sampleSource(), tt.exp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunner_Run_SourceErrors(t *testing.T) {
	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)
	boom := errors.New("boom")

	t.Run("transactions", func(t *testing.T) {
		src := sampleSource()
		src.TransactionsErr = boom

		_, err := runner.Run(context.Background(), src, &Expectations{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("attachments", func(t *testing.T) {
		src := sampleSource()
		src.AttachmentsErr = boom

		_, err := runner.Run(context.Background(), src, &Expectations{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		src := sampleSource()
		src.TransactionList = append(src.TransactionList, src.TransactionList[0])

		_, err := runner.Run(context.Background(), src, &Expectations{})
		assert.Error(t, err)
	})
}

func TestRunner_Run_MissingAmountIsError(t *testing.T) {
	// Arrange
	src := sampleSource()
	src.AttachmentList = append(src.AttachmentList, records.Attachment{ID: 12})
	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)
	exp := &Expectations{TransactionToAttachment: map[int64]*int64{1: id(10)}}

	// Act
	_, err := runner.Run(context.Background(), src, exp)

	// Assert
	assert.ErrorIs(t, err, matcher.ErrMissingField)
	assert.Contains(t, err.Error(), "transaction at index 0")
}

func TestRunner_Run_ReportsReferenceConflicts(t *testing.T) {
	// Arrange
	src := sampleSource()
	src.AttachmentList = append(src.AttachmentList, records.Attachment{
		ID: 12, TotalAmount: records.Amount("2.00"), Reference: records.StringPtr("inv -7"),
	})
	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)
	exp := &Expectations{TransactionToAttachment: map[int64]*int64{2: id(11)}}

	// Act
	report, err := runner.Run(context.Background(), src, exp)

	// Assert
	require.NoError(t, err)
	assert.True(t, report.Passed(), "first attachment in order wins")
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "attachment", report.Conflicts[0].Kind)
	assert.Equal(t, "INV-7", report.Conflicts[0].Reference)
	assert.Equal(t, []int64{11, 12}, report.Conflicts[0].IDs)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)
	_, err := runner.Run(ctx, sampleSource(), &Expectations{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Run_Fixtures(t *testing.T) {
	// Arrange
	dir := filepath.Join("..", "..", "..", "fixtures")
	src := fixtures.NewJSONSource(filepath.Join(dir, "transactions.json"), filepath.Join(dir, "attachments.json"))
	defer src.Close()

	exp, err := LoadExpectations(filepath.Join(dir, "expected.yaml"))
	require.NoError(t, err)

	runner := NewRunner(matcher.NewMatcher(matcher.DefaultConfig()), nil)

	// Act
	report, err := runner.Run(context.Background(), src, exp)

	// Assert
	require.NoError(t, err)
	for _, row := range append(report.AttachmentRows, report.TransactionRows...) {
		assert.True(t, row.Passed, "id %d: expected %s, found %s",
			row.PrimaryID, FormatID(row.ExpectedID), FormatID(row.FoundID))
	}
	assert.Len(t, report.AttachmentRows, 12)
	assert.Len(t, report.TransactionRows, 9)
}

func TestDecodeExpectations(t *testing.T) {
	input := `
transaction_to_attachment:
  1: 10
  2: null
attachment_to_transaction:
  10: 1
`
	exp, err := DecodeExpectations(strings.NewReader(input))
	require.NoError(t, err)

	require.Contains(t, exp.TransactionToAttachment, int64(2))
	assert.Nil(t, exp.TransactionToAttachment[2])
	assert.Equal(t, int64(10), *exp.TransactionToAttachment[1])
	assert.Equal(t, int64(1), *exp.AttachmentToTransaction[10])
	assert.Equal(t, []int64{1, 2}, sortedKeys(exp.TransactionToAttachment))
}

func TestDecodeExpectations_Invalid(t *testing.T) {
	_, err := DecodeExpectations(strings.NewReader("transaction_to_attachment: [1, 2]"))
	assert.Error(t, err)
}

func TestLoadExpectations_MissingFile(t *testing.T) {
	_, err := LoadExpectations(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "∅", FormatID(nil))
	assert.Equal(t, "42", FormatID(id(42)))
}
