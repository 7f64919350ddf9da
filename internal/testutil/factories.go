package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithEmail("satoshi@example.com").
//	    WithUsername("satoshi").
//	    Build(t, db)
type UserBuilder struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	suffix := randomAlphanumeric(6)
	return &UserBuilder{
		ID:           MakeID(),
		Email:        "user-" + suffix + "@example.com",
		Username:     "user-" + suffix,
		PasswordHash: "not-a-real-hash",
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithPasswordHash sets a custom password hash.
func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.PasswordHash = hash
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	query := `
		INSERT INTO users (id, email, username, password_hash)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Email, b.Username, b.PasswordHash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		Email:        b.Email,
		Username:     b.Username,
		PasswordHash: b.PasswordHash,
	}
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction(user.ID).
//	    WithDate("2024-01-15").
//	    WithUsdCents(10000).
//	    WithBtcPriceCents(5000000).
//	    WithBtcSats(200000).
//	    Build(t, db)
type TransactionBuilder struct {
	ID            string
	UserID        string
	Date          time.Time
	UsdCents      money.Cents
	BtcPriceCents money.Cents
	BtcSats       money.Sats
	CreatedAt     time.Time
}

// NewTransaction creates a TransactionBuilder with sensible defaults:
// a 100.00 purchase at a 50,000.00 price yielding 200,000 satoshi.
func NewTransaction(userID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:            MakeID(),
		UserID:        userID,
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		UsdCents:      10000,
		BtcPriceCents: 5000000,
		BtcSats:       200000,
		CreatedAt:     time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithDate sets the purchase date from a YYYY-MM-DD string.
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("testutil: invalid date " + date)
	}
	b.Date = parsed
	return b
}

// WithUsdCents sets the amount spent, in cents.
func (b *TransactionBuilder) WithUsdCents(cents money.Cents) *TransactionBuilder {
	b.UsdCents = cents
	return b
}

// WithBtcPriceCents sets the purchase price, in cents per BTC.
func (b *TransactionBuilder) WithBtcPriceCents(cents money.Cents) *TransactionBuilder {
	b.BtcPriceCents = cents
	return b
}

// WithBtcSats sets the quantity bought, in satoshi.
func (b *TransactionBuilder) WithBtcSats(sats money.Sats) *TransactionBuilder {
	b.BtcSats = sats
	return b
}

// WithCreatedAt sets the creation timestamp, which breaks ties in sort order.
func (b *TransactionBuilder) WithCreatedAt(ts time.Time) *TransactionBuilder {
	b.CreatedAt = ts
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, user_id, date, usd_cents, btc_price_cents, btc_sats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.Date.Format("2006-01-02"),
		int64(b.UsdCents), int64(b.BtcPriceCents), int64(b.BtcSats),
		b.CreatedAt.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:            b.ID,
		UserID:        b.UserID,
		Date:          b.Date,
		UsdCents:      b.UsdCents,
		BtcPriceCents: b.BtcPriceCents,
		BtcSats:       b.BtcSats,
		CreatedAt:     b.CreatedAt,
	}
}

// Convenience functions

// CreateUser creates a user with default values.
//
// Example usage:
//
//	user := testutil.CreateUser(t, db)
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// CreateTransaction creates a transaction for the user with default values.
//
// Example usage:
//
//	tx := testutil.CreateTransaction(t, db, user.ID)
func CreateTransaction(t *testing.T, db *sql.DB, userID string) model.Transaction {
	t.Helper()
	return NewTransaction(userID).Build(t, db)
}

// CreateTransactions creates multiple transactions on consecutive dates.
//
// Example usage:
//
//	txs := testutil.CreateTransactions(t, db, user.ID, 5)
func CreateTransactions(t *testing.T, db *sql.DB, userID string, count int) []model.Transaction {
	t.Helper()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	transactions := make([]model.Transaction, count)
	for i := 0; i < count; i++ {
		transactions[i] = NewTransaction(userID).
			WithDate(base.AddDate(0, 0, i).Format("2006-01-02")).
			Build(t, db)
	}
	return transactions
}
