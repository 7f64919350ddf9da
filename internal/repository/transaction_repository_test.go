package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/repository"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/testutil"
)

func TestTransactionRepository_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	user := testutil.CreateUser(t, db)

	transaction := &model.Transaction{
		ID:            testutil.MakeID(),
		UserID:        user.ID,
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		UsdCents:      10000,
		BtcPriceCents: 5000000,
		BtcSats:       200000,
		CreatedAt:     time.Now(),
	}

	if err := repo.InsertTransaction(context.Background(), transaction); err != nil {
		t.Fatalf("InsertTransaction returned error: %v", err)
	}

	got, err := repo.GetTransaction(context.Background(), user.ID, transaction.ID)
	if err != nil {
		t.Fatalf("GetTransaction returned error: %v", err)
	}

	if got.ID != transaction.ID {
		t.Errorf("Expected ID %s, got %s", transaction.ID, got.ID)
	}
	if !got.Date.Equal(transaction.Date) {
		t.Errorf("Expected date %s, got %s", transaction.Date, got.Date)
	}
	if got.UsdCents != 10000 || got.BtcPriceCents != 5000000 || got.BtcSats != 200000 {
		t.Errorf("Stored amounts differ: %+v", got)
	}
}

func TestTransactionRepository_GetTransaction(t *testing.T) {
	t.Run("unknown ID yields not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)

		_, err := repo.GetTransaction(context.Background(), user.ID, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("other user's ID yields not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)
		other := testutil.CreateUser(t, db)
		foreign := testutil.CreateTransaction(t, db, other.ID)

		_, err := repo.GetTransaction(context.Background(), user.ID, foreign.ID)
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}

func TestTransactionRepository_GetTransactions(t *testing.T) {
	t.Run("ordered by date then insertion time", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)

		base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
		late := testutil.NewTransaction(user.ID).WithDate("2024-02-01").WithCreatedAt(base).Build(t, db)
		early := testutil.NewTransaction(user.ID).WithDate("2024-01-01").WithCreatedAt(base.Add(time.Second)).Build(t, db)
		tied := testutil.NewTransaction(user.ID).WithDate("2024-01-01").WithCreatedAt(base.Add(2 * time.Second)).Build(t, db)

		transactions, err := repo.GetTransactions(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("GetTransactions returned error: %v", err)
		}

		if len(transactions) != 3 {
			t.Fatalf("Expected 3 transactions, got %d", len(transactions))
		}
		wantOrder := []string{early.ID, tied.ID, late.ID}
		for i, want := range wantOrder {
			if transactions[i].ID != want {
				t.Errorf("Position %d: expected %s, got %s", i, want, transactions[i].ID)
			}
		}
	})

	t.Run("empty ledger yields empty slice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)

		transactions, err := repo.GetTransactions(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("GetTransactions returned error: %v", err)
		}
		if transactions == nil {
			t.Error("Expected non-nil slice")
		}
		if len(transactions) != 0 {
			t.Errorf("Expected empty slice, got %d", len(transactions))
		}
	})
}

func TestTransactionRepository_DeleteTransaction(t *testing.T) {
	t.Run("deletes the row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)
		tx := testutil.CreateTransaction(t, db, user.ID)

		if err := repo.DeleteTransaction(context.Background(), user.ID, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction returned error: %v", err)
		}

		_, err := repo.GetTransaction(context.Background(), user.ID, tx.ID)
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected the row to be gone, got %v", err)
		}
	})

	t.Run("unknown ID yields not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)

		err := repo.DeleteTransaction(context.Background(), user.ID, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}

func TestTransactionRepository_SumTransactions(t *testing.T) {
	t.Run("sums integer subunits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)

		testutil.NewTransaction(user.ID).WithUsdCents(10000).WithBtcPriceCents(5000000).WithBtcSats(200000).Build(t, db)
		testutil.NewTransaction(user.ID).WithUsdCents(333).WithBtcPriceCents(4000000).WithBtcSats(money.Sats(1)).Build(t, db)

		count, usdCents, priceCents, sats, err := repo.SumTransactions(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("SumTransactions returned error: %v", err)
		}

		if count != 2 {
			t.Errorf("Expected count 2, got %d", count)
		}
		if usdCents != 10333 {
			t.Errorf("Expected 10333 cents, got %d", usdCents)
		}
		if priceCents != 9000000 {
			t.Errorf("Expected 9000000 price cents, got %d", priceCents)
		}
		if sats != 200001 {
			t.Errorf("Expected 200001 satoshis, got %d", sats)
		}
	})

	t.Run("empty ledger yields zeros", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		user := testutil.CreateUser(t, db)

		count, usdCents, priceCents, sats, err := repo.SumTransactions(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("SumTransactions returned error: %v", err)
		}
		if count != 0 || usdCents != 0 || priceCents != 0 || sats != 0 {
			t.Errorf("Expected all zeros, got %d/%d/%d/%d", count, usdCents, priceCents, sats)
		}
	})
}
