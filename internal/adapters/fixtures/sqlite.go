package fixtures

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// Amounts are stored as TEXT so decimals survive the round trip exactly
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id        INTEGER PRIMARY KEY,
	amount    TEXT,
	date      TEXT,
	contact   TEXT,
	reference TEXT
);

CREATE TABLE IF NOT EXISTS attachments (
	id           INTEGER PRIMARY KEY,
	total_amount TEXT,
	due_date     TEXT,
	issuer       TEXT,
	recipient    TEXT,
	supplier     TEXT,
	reference    TEXT
);
`

// SQLiteSource reads fixtures from a SQLite database
type SQLiteSource struct {
	db *sql.DB
}

// Compile-time check that SQLiteSource implements Source
var _ Source = (*SQLiteSource)(nil)

// NewSQLiteSource opens the database and creates the fixture tables if needed
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create fixture schema: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Transactions returns all transactions ordered by id
func (s *SQLiteSource) Transactions(ctx context.Context) ([]records.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, amount, date, contact, reference
	FROM transactions ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []records.Transaction
	for rows.Next() {
		var (
			tx                 records.Transaction
			amount, date       sql.NullString
			contact, reference sql.NullString
		)
		if err := rows.Scan(&tx.ID, &amount, &date, &contact, &reference); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if tx.Amount, err = parseAmount(amount); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
		if date.Valid && date.String != "" {
			if tx.Date, err = records.ParseDate(date.String); err != nil {
				return nil, fmt.Errorf("transaction %d: %w", tx.ID, err)
			}
		}
		tx.Contact = stringOrNil(contact)
		tx.Reference = stringOrNil(reference)

		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Attachments returns all attachments ordered by id
func (s *SQLiteSource) Attachments(ctx context.Context) ([]records.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, total_amount, due_date, issuer, recipient, supplier, reference
	FROM attachments ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var atts []records.Attachment
	for rows.Next() {
		var (
			att                         records.Attachment
			amount, due                 sql.NullString
			issuer, recipient, supplier sql.NullString
			reference                   sql.NullString
		)
		if err := rows.Scan(&att.ID, &amount, &due, &issuer, &recipient, &supplier, &reference); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}

		if att.TotalAmount, err = parseAmount(amount); err != nil {
			return nil, fmt.Errorf("attachment %d: %w", att.ID, err)
		}
		if due.Valid && due.String != "" {
			d, err := records.ParseDate(due.String)
			if err != nil {
				return nil, fmt.Errorf("attachment %d: %w", att.ID, err)
			}
			att.DueDate = &d
		}
		att.Issuer = stringOrNil(issuer)
		att.Recipient = stringOrNil(recipient)
		att.Supplier = stringOrNil(supplier)
		att.Reference = stringOrNil(reference)

		atts = append(atts, att)
	}
	return atts, rows.Err()
}

// SaveTransactions inserts or replaces transactions in one database transaction
func (s *SQLiteSource) SaveTransactions(ctx context.Context, txs []records.Transaction) error {
	return s.inTx(ctx, func(dbtx *sql.Tx) error {
		stmt, err := dbtx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO transactions (id, amount, date, contact, reference)
		VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, tx := range txs {
			_, err := stmt.ExecContext(ctx,
				tx.ID,
				amountValue(tx.Amount),
				dateValue(tx.Date),
				stringValue(tx.Contact),
				stringValue(tx.Reference),
			)
			if err != nil {
				return fmt.Errorf("failed to save transaction %d: %w", tx.ID, err)
			}
		}
		return nil
	})
}

// SaveAttachments inserts or replaces attachments in one database transaction
func (s *SQLiteSource) SaveAttachments(ctx context.Context, atts []records.Attachment) error {
	return s.inTx(ctx, func(dbtx *sql.Tx) error {
		stmt, err := dbtx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO attachments
		(id, total_amount, due_date, issuer, recipient, supplier, reference)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, att := range atts {
			var due sql.NullString
			if att.DueDate != nil {
				due = dateValue(*att.DueDate)
			}
			_, err := stmt.ExecContext(ctx,
				att.ID,
				amountValue(att.TotalAmount),
				due,
				stringValue(att.Issuer),
				stringValue(att.Recipient),
				stringValue(att.Supplier),
				stringValue(att.Reference),
			)
			if err != nil {
				return fmt.Errorf("failed to save attachment %d: %w", att.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteSource) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(dbtx); err != nil {
		_ = dbtx.Rollback()
		return err
	}
	return dbtx.Commit()
}

func parseAmount(v sql.NullString) (decimal.NullDecimal, error) {
	if !v.Valid || v.String == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", v.String, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func stringOrNil(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func stringValue(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func amountValue(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

func dateValue(d records.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
