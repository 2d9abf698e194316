package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

func TestMatcher_MatchTransactions(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	transactions := []records.Transaction{
		makeTransaction(2001, "-10.00", "2024-01-01", "", "A1"),
		makeTransaction(2002, "-20.00", "2024-01-05", "", ""),
		makeTransaction(2003, "-30.00", "2024-01-05", "", ""),
	}
	attachments := []records.Attachment{
		makeAttachment(3001, "99.00", "", "", "a1"),
		makeAttachment(3002, "20.00", "2024-01-06", "", ""),
	}

	t.Run("one outcome per transaction in order", func(t *testing.T) {
		outcomes, err := m.MatchTransactions(transactions, attachments)
		require.NoError(t, err)

		require.Len(t, outcomes, 3)
		assert.Equal(t, int64(2001), outcomes[0].Transaction.ID)
		require.NotNil(t, outcomes[0].Match)
		assert.Equal(t, int64(3001), outcomes[0].Match.Attachment.ID)
		require.NotNil(t, outcomes[1].Match)
		assert.Equal(t, int64(3002), outcomes[1].Match.Attachment.ID)
		assert.Nil(t, outcomes[2].Match)
	})

	t.Run("stops at first error", func(t *testing.T) {
		broken := append([]records.Transaction{}, transactions...)
		broken = append(broken, records.Transaction{ID: 2099})

		_, err := m.MatchTransactions(broken, attachments)

		require.ErrorIs(t, err, ErrMissingField)
		assert.Contains(t, err.Error(), "index 3")
	})
}

func TestMatcher_MatchAttachments(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	transactions := []records.Transaction{
		makeTransaction(2002, "-20.00", "2024-01-05", "Acme", ""),
	}
	attachments := []records.Attachment{
		makeAttachment(3002, "20.00", "2024-01-06", "Acme Ltd", ""),
		makeAttachment(3009, "20.00", "2024-01-06", "Globex", ""),
	}

	outcomes, err := m.MatchAttachments(attachments, transactions)

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.NotNil(t, outcomes[0].Match)
	assert.Equal(t, int64(2002), outcomes[0].Match.Transaction.ID)
	assert.Nil(t, outcomes[1].Match)
}

func TestReferenceConflicts(t *testing.T) {
	attachments := []records.Attachment{
		makeAttachment(3, "1", "", "", "inv 7"),
		makeAttachment(1, "1", "", "", "INV7"),
		makeAttachment(2, "1", "", "", "0inv7"),
		makeAttachment(4, "1", "", "", "B2"),
		makeAttachment(5, "1", "", "", "b 2"),
		makeAttachment(6, "1", "", "", "None"),
		makeAttachment(7, "1", "", "", "None"),
		makeAttachment(8, "1", "", "", "unique"),
	}

	conflicts := AttachmentReferenceConflicts(attachments)

	assert.Equal(t, []ReferenceConflict{
		{Reference: "B2", IDs: []int64{4, 5}},
		{Reference: "INV7", IDs: []int64{3, 1, 2}},
	}, conflicts)

	assert.Empty(t, TransactionReferenceConflicts([]records.Transaction{
		makeTransaction(1, "1", "2024-01-01", "", "X"),
		makeTransaction(2, "1", "2024-01-01", "", "Y"),
	}))
}
