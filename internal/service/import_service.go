package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/repository"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/validation"
)

// importHeaders are the required CSV column names. Column order is free and
// unknown extra columns are ignored.
var importHeaders = []string{"date", "usd_spent", "btc_price", "btc_bought"}

// ImportService reconciles a CSV file of purchase rows into a user's ledger.
// Rows are validated independently: valid rows are persisted even when other
// rows in the same file fail, and the caller receives a per-row report.
type ImportService struct {
	transactionRepo *repository.TransactionRepository
	ledgerService   *LedgerService
}

// NewImportService creates a new ImportService with the provided dependencies.
func NewImportService(transactionRepo *repository.TransactionRepository, ledgerService *LedgerService) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
		ledgerService:   ledgerService,
	}
}

// ImportCSV parses, validates and persists the rows of a CSV stream.
//
// The header row must contain date, usd_spent, btc_price and btc_bought (any
// order); otherwise the whole file is rejected with ErrInvalidCSVHeaders.
// BTC quantities are decimal in the file and converted to satoshis, rounding
// half away from zero at the eighth digit. Row indexes in the report are
// 1-based over data rows.
//
// The batch is not atomic. Valid rows are inserted concurrently; the Summary
// in the result is recomputed once, after every insert has finished.
func (s *ImportService) ImportCSV(ctx context.Context, userID string, r io.Reader) (model.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSVHeaders, err)
	}

	columns, err := mapHeaders(header)
	if err != nil {
		return model.ImportResult{}, err
	}

	result := model.ImportResult{Errors: []model.RowError{}}
	pending := []importedRow{}

	for rowIndex := 1; ; rowIndex++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Total++
			result.Failed++
			result.Errors = append(result.Errors, model.RowError{Row: rowIndex, Reason: err.Error()})
			continue
		}

		result.Total++
		transaction, err := parseImportRow(userID, columns, record)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, model.RowError{Row: rowIndex, Reason: rowReason(err)})
			continue
		}
		pending = append(pending, importedRow{row: rowIndex, transaction: transaction})
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, item := range pending {
		rowIndex := item.row
		transaction := item.transaction
		g.Go(func() error {
			err := s.transactionRepo.InsertTransaction(gctx, transaction)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, model.RowError{Row: rowIndex, Reason: err.Error()})
				return nil
			}
			result.Imported++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.ImportResult{}, err
	}

	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Row < result.Errors[j].Row
	})

	summary, err := s.ledgerService.Summarize(ctx, userID)
	if err != nil {
		return model.ImportResult{}, err
	}
	result.Summary = summary

	return result, nil
}

// importedRow pairs a parsed transaction with its 1-based data row index so
// insert failures can still be reported against the right row.
type importedRow struct {
	row         int
	transaction *model.Transaction
}

// mapHeaders resolves each required column name to its index in the header
// row, case-insensitively.
func mapHeaders(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range importHeaders {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", apperrors.ErrInvalidCSVHeaders, required)
		}
	}
	return columns, nil
}

func parseImportRow(userID string, columns map[string]int, record []string) (*model.Transaction, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	errors := make(map[string]string)

	dateStr := field("date")
	var date time.Time
	if dateStr == "" {
		errors["date"] = "date is required"
	} else {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			errors["date"] = err.Error()
		}
	}

	usdCents := parseFiatField(field("usd_spent"), "usd_spent", errors)
	priceCents := parseFiatField(field("btc_price"), "btc_price", errors)

	var sats money.Sats
	btcStr := field("btc_bought")
	if btcStr == "" {
		errors["btc_bought"] = "btc_bought is required"
	} else {
		var err error
		sats, err = money.ParseBTC(btcStr)
		if err != nil {
			errors["btc_bought"] = err.Error()
		} else if sats <= 0 {
			errors["btc_bought"] = "btc_bought must be positive"
		}
	}

	if len(errors) > 0 {
		return nil, &validation.Error{Fields: errors}
	}

	return &model.Transaction{
		ID:            uuid.New().String(),
		UserID:        userID,
		Date:          date,
		UsdCents:      usdCents,
		BtcPriceCents: priceCents,
		BtcSats:       sats,
		CreatedAt:     time.Now(),
	}, nil
}

func parseFiatField(value, name string, errors map[string]string) money.Cents {
	if value == "" {
		errors[name] = name + " is required"
		return 0
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		errors[name] = fmt.Sprintf("invalid amount %q", value)
		return 0
	}
	if !d.IsPositive() {
		errors[name] = name + " must be positive"
		return 0
	}
	cents, err := money.USDToCents(d)
	if err != nil {
		errors[name] = err.Error()
		return 0
	}
	return cents
}

// rowReason flattens a validation error into the report string for one row.
// Field names are already part of each message.
func rowReason(err error) string {
	verr, ok := err.(*validation.Error)
	if !ok {
		return err.Error()
	}

	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, verr.Fields[field])
	}
	return strings.Join(msgs, "; ")
}
