package service_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/testutil"
)

func setupImport(t *testing.T) (*service.ImportService, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return testutil.NewTestImportService(t, db), db
}

func TestImportService_ImportCSV(t *testing.T) {
	t.Run("imports valid rows", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		csv := strings.Join([]string{
			"date,usd_spent,btc_price,btc_bought",
			"2024-01-01,100.00,50000.00,0.002",
			"2024-02-01,200.00,40000.00,0.005",
		}, "\n")

		result, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV returned error: %v", err)
		}

		if result.Imported != 2 || result.Failed != 0 || result.Total != 2 {
			t.Errorf("Expected 2/0/2, got %d/%d/%d", result.Imported, result.Failed, result.Total)
		}
		if result.Summary.Count != 2 {
			t.Errorf("Expected summary count 2, got %d", result.Summary.Count)
		}
		if result.Summary.TotalBtcSats != 700000 {
			t.Errorf("Expected 700000 total satoshis, got %d", result.Summary.TotalBtcSats)
		}
	})

	t.Run("invalid rows fail individually with 1-based indexes", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		csv := strings.Join([]string{
			"date,usd_spent,btc_price,btc_bought",
			"2024-01-01,100.00,50000.00,0.002",
			"2024-02-01,-5,40000.00,0.005",
			"2024-03-01,300.00,30000.00,0.01",
		}, "\n")

		result, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV returned error: %v", err)
		}

		if result.Imported != 2 || result.Failed != 1 || result.Total != 3 {
			t.Errorf("Expected 2/1/3, got %d/%d/%d", result.Imported, result.Failed, result.Total)
		}
		if len(result.Errors) != 1 {
			t.Fatalf("Expected 1 row error, got %d", len(result.Errors))
		}
		if result.Errors[0].Row != 2 {
			t.Errorf("Expected failure on row 2, got row %d", result.Errors[0].Row)
		}
		if result.Errors[0].Reason != "usd_spent must be positive" {
			t.Errorf("Unexpected reason: %q", result.Errors[0].Reason)
		}

		// The valid rows were persisted despite the failure.
		if result.Summary.Count != 2 {
			t.Errorf("Expected summary count 2, got %d", result.Summary.Count)
		}
	})

	t.Run("header order does not matter", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		csv := strings.Join([]string{
			"btc_bought,date,btc_price,usd_spent",
			"0.002,2024-01-01,50000.00,100.00",
		}, "\n")

		result, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV returned error: %v", err)
		}
		if result.Imported != 1 {
			t.Errorf("Expected 1 imported, got %d", result.Imported)
		}
	})

	t.Run("header matching is case-insensitive and ignores extra columns", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		csv := strings.Join([]string{
			"Date,USD_Spent,btc_price,btc_bought,notes",
			"2024-01-01,100.00,50000.00,0.002,first buy",
		}, "\n")

		result, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV returned error: %v", err)
		}
		if result.Imported != 1 {
			t.Errorf("Expected 1 imported, got %d", result.Imported)
		}
	})

	t.Run("rejects file with missing columns", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		csv := strings.Join([]string{
			"date,usd_spent,btc_price",
			"2024-01-01,100.00,50000.00",
		}, "\n")

		_, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(csv))
		if !errors.Is(err, apperrors.ErrInvalidCSVHeaders) {
			t.Errorf("Expected ErrInvalidCSVHeaders, got %v", err)
		}
	})

	t.Run("rejects empty file", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		_, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(""))
		if !errors.Is(err, apperrors.ErrInvalidCSVHeaders) {
			t.Errorf("Expected ErrInvalidCSVHeaders, got %v", err)
		}
	})

	t.Run("multiple invalid fields in one row produce one combined reason", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		csv := strings.Join([]string{
			"date,usd_spent,btc_price,btc_bought",
			"not-a-date,-5,50000.00,0.002",
		}, "\n")

		result, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV returned error: %v", err)
		}

		if len(result.Errors) != 1 {
			t.Fatalf("Expected 1 row error, got %d", len(result.Errors))
		}
		if !strings.Contains(result.Errors[0].Reason, "usd_spent must be positive") {
			t.Errorf("Expected the usd_spent message in %q", result.Errors[0].Reason)
		}
	})

	t.Run("BTC quantities round half away from zero", func(t *testing.T) {
		svc, db := setupImport(t)
		user := testutil.CreateUser(t, db)

		csv := strings.Join([]string{
			"date,usd_spent,btc_price,btc_bought",
			"2024-01-01,100.00,50000.00,0.000000015",
		}, "\n")

		result, err := svc.ImportCSV(context.Background(), user.ID, strings.NewReader(csv))
		if err != nil {
			t.Fatalf("ImportCSV returned error: %v", err)
		}
		if result.Imported != 1 {
			t.Fatalf("Expected 1 imported, got %d", result.Imported)
		}
		if result.Summary.TotalBtcSats != 2 {
			t.Errorf("Expected 2 satoshis stored, got %d", result.Summary.TotalBtcSats)
		}
	})
}
