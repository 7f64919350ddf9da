package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
)

// TransactionRepository provides data access methods for the transaction table.
// Every query is scoped to a single user's ledger.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetTransactions retrieves all transactions in the given user's ledger,
// sorted by date ascending with ties broken by insertion time and then ID so
// the order is stable across calls.
func (s *TransactionRepository) GetTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := `
		SELECT id, user_id, date, usd_cents, btc_price_cents, btc_sats, created_at
		FROM "transaction"
		WHERE user_id = ?
		ORDER BY date ASC, created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction by ID within the user's ledger.
// Returns apperrors.ErrTransactionNotFound if no such row exists.
func (s *TransactionRepository) GetTransaction(ctx context.Context, userID, transactionID string) (model.Transaction, error) {
	query := `
		SELECT id, user_id, date, usd_cents, btc_price_cents, btc_sats, created_at
		FROM "transaction"
		WHERE user_id = ? AND id = ?
	`

	row := s.db.QueryRowContext(ctx, query, userID, transactionID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// InsertTransaction appends a transaction to the user's ledger.
func (s *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, user_id, date, usd_cents, btc_price_cents, btc_sats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Date.Format("2006-01-02"),
		int64(t.UsdCents),
		int64(t.BtcPriceCents),
		int64(t.BtcSats),
		t.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction from the user's ledger.
// Returns apperrors.ErrTransactionNotFound if the ID does not exist for this user.
func (s *TransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM "transaction" WHERE user_id = ? AND id = ?`, userID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// SumTransactions returns the integer aggregates over the user's ledger
// straight from SQLite. Summation stays in integer subunits end to end, so
// the result is exact regardless of ledger size.
func (s *TransactionRepository) SumTransactions(ctx context.Context, userID string) (count int64, usdCents int64, priceCents int64, sats int64, err error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(usd_cents), 0),
		       COALESCE(SUM(btc_price_cents), 0),
		       COALESCE(SUM(btc_sats), 0)
		FROM "transaction"
		WHERE user_id = ?
	`

	err = s.db.QueryRowContext(ctx, query, userID).Scan(&count, &usdCents, &priceCents, &sats)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to sum transaction table: %w", err)
	}
	return count, usdCents, priceCents, sats, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var dateStr, createdAtStr string
	var usdCents, priceCents, sats int64

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&dateStr,
		&usdCents,
		&priceCents,
		&sats,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Transaction{}, err
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	t.UsdCents = money.Cents(usdCents)
	t.BtcPriceCents = money.Cents(priceCents)
	t.BtcSats = money.Sats(sats)

	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}

	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil || t.CreatedAt.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}

	return t, nil
}
