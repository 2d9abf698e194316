package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// Score rates an attachment against a transaction's amount, date and contact.
//
// Scoring:
//   - Amount within tolerance [REQUIRED]: otherwise the score is zero
//   - Due date within DateToleranceDays: +DatePoints
//   - Contact matches issuer, recipient or supplier: +NamePoints (once)
func (m *Matcher) Score(amount decimal.Decimal, date records.Date, contact string, att records.Attachment) (Score, error) {
	if date.IsZero() {
		return Score{}, fmt.Errorf("reference date: %w", ErrMissingField)
	}
	if !att.TotalAmount.Valid {
		return Score{}, fmt.Errorf("attachment %d: %w: total_amount", att.ID, ErrMissingField)
	}
	return m.signals(amount, att.TotalAmount.Decimal, &date, att.DueDate, contact, att.Names()), nil
}

// signals scores one pair. Amounts are compared sign-insensitively; a
// missing date on either side contributes nothing.
func (m *Matcher) signals(
	refAmount, candAmount decimal.Decimal,
	refDate, candDate *records.Date,
	contact string,
	names []string,
) Score {
	var score Score

	diff := refAmount.Abs().Sub(candAmount.Abs()).Abs()
	if !diff.LessThan(m.config.AmountTolerance) {
		return score
	}
	score.Amount = true
	score.Total += m.config.AmountPoints

	if refDate != nil && candDate != nil && !refDate.IsZero() && !candDate.IsZero() {
		if refDate.DaysBetween(*candDate) <= m.config.DateToleranceDays {
			score.Date = true
			score.Total += m.config.DatePoints
		}
	}

	for _, name := range names {
		if m.NamesMatch(contact, name) {
			score.Name = true
			score.Total += m.config.NamePoints
			break
		}
	}

	return score
}

// minScore is the bar a candidate must clear. Without a contact the name
// signal cannot be evaluated, so amount and date suffice.
func (m *Matcher) minScore(hasContact bool) int {
	if hasContact {
		return m.config.MinScoreWithContact
	}
	return m.config.MinScoreWithoutContact
}
