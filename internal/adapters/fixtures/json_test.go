package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

func TestDecodeAttachments_NestedAndFlatAreEquivalent(t *testing.T) {
	nested := `[{"id": 1, "data": {"total_amount": 10.5, "due_date": "2024-01-02",
		"issuer": "Acme", "recipient": "Me", "supplier": "Sup", "reference": "R1"}}]`
	flat := `[{"id": 1, "total_amount": 10.5, "due_date": "2024-01-02",
		"issuer": "Acme", "recipient": "Me", "supplier": "Sup", "reference": "R1"}]`

	a, err := DecodeAttachments(strings.NewReader(nested))
	require.NoError(t, err)
	b, err := DecodeAttachments(strings.NewReader(flat))
	require.NoError(t, err)

	require.Len(t, a, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, "10.5", a[0].TotalAmount.Decimal.String())
	require.NotNil(t, a[0].DueDate)
	assert.Equal(t, "2024-01-02", a[0].DueDate.String())
	assert.Equal(t, []string{"Acme", "Me", "Sup"}, a[0].Names())
}

func TestDecodeAttachments_OptionalFields(t *testing.T) {
	input := `[
		{"id": 1, "data": {"total_amount": "7.00", "due_date": null}},
		{"id": 2, "data": {"total_amount": 7, "due_date": ""}},
		{"id": 3, "data": {}}
	]`

	atts, err := DecodeAttachments(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, atts, 3)

	assert.True(t, atts[0].TotalAmount.Valid)
	assert.Nil(t, atts[0].DueDate)
	assert.Nil(t, atts[1].DueDate)
	assert.False(t, atts[2].TotalAmount.Valid)
	assert.Nil(t, atts[2].Reference)
	assert.Nil(t, atts[2].Issuer)
}

func TestDecodeReference(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *string
	}{
		{"string", `"INV 01"`, records.StringPtr("INV 01")},
		{"integer", `987`, records.StringPtr("987")},
		{"float", `12.50`, records.StringPtr("12.50")},
		{"null", `null`, nil},
		{"bool", `true`, nil},
		{"object", `{"a": 1}`, nil},
		{"array", `["x"]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeReference([]byte(tt.raw)))
		})
	}
}

func TestDecodeTransactions(t *testing.T) {
	input := `[
		{"id": 2001, "amount": -12.30, "date": "2024-02-01", "contact": "Acme", "reference": 55},
		{"id": 2002, "amount": "4.10", "date": "2024-02-02"},
		{"id": 2003, "date": "2024-02-03", "reference": false}
	]`

	txs, err := DecodeTransactions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, "-12.3", txs[0].Amount.Decimal.String())
	assert.Equal(t, records.NewDate(2024, 2, 1), txs[0].Date)
	assert.Equal(t, "Acme", txs[0].ContactName())
	assert.Equal(t, records.StringPtr("55"), txs[0].Reference)

	assert.Equal(t, "4.1", txs[1].Amount.Decimal.String())
	assert.Nil(t, txs[1].Contact)

	assert.False(t, txs[2].Amount.Valid)
	assert.Nil(t, txs[2].Reference)
}

func TestDecodeTransactions_Errors(t *testing.T) {
	_, err := DecodeTransactions(strings.NewReader(`[{"id": 1, "date": "01/02/2024"}]`))
	assert.Error(t, err)

	_, err = DecodeTransactions(strings.NewReader(`{"id": 1}`))
	assert.Error(t, err)

	_, err = DecodeAttachments(strings.NewReader(`[{"id": 1, "total_amount": "abc"}]`))
	assert.Error(t, err)
}

func TestJSONSource(t *testing.T) {
	dir := t.TempDir()
	txPath := filepath.Join(dir, "transactions.json")
	attPath := filepath.Join(dir, "attachments.json")
	require.NoError(t, os.WriteFile(txPath, []byte(`[{"id": 1, "amount": 5, "date": "2024-01-01"}]`), 0644))
	require.NoError(t, os.WriteFile(attPath, []byte(`[{"id": 9, "data": {"total_amount": 5}}]`), 0644))

	src := NewJSONSource(txPath, attPath)
	defer src.Close()

	txs, err := src.Transactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	atts, err := src.Attachments(context.Background())
	require.NoError(t, err)
	require.Len(t, atts, 1)
	assert.Equal(t, int64(9), atts[0].ID)

	t.Run("missing file", func(t *testing.T) {
		_, err := NewJSONSource(filepath.Join(dir, "nope.json"), attPath).Transactions(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open transactions file")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := src.Attachments(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIndex_DuplicateIDs(t *testing.T) {
	_, err := IndexTransactions([]records.Transaction{{ID: 1}, {ID: 1}})
	assert.ErrorContains(t, err, "duplicate transaction id 1")

	_, err = IndexAttachments([]records.Attachment{{ID: 2}, {ID: 2}})
	assert.ErrorContains(t, err, "duplicate attachment id 2")

	byID, err := IndexAttachments([]records.Attachment{{ID: 2}, {ID: 3}})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
}
