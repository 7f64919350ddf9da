package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/request"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/repository"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/validation"
)

// bulkConcurrency bounds how many delete sub-operations run at once.
const bulkConcurrency = 8

// LedgerService owns the transaction ledger of each user: creation, deletion
// and aggregation. Every mutating operation returns the authoritative
// post-mutation Summary so callers never need a follow-up read.
type LedgerService struct {
	transactionRepo *repository.TransactionRepository
}

// NewLedgerService creates a new LedgerService with the provided repository dependency.
func NewLedgerService(transactionRepo *repository.TransactionRepository) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
	}
}

// CreateTransaction validates the request, appends the transaction to the
// user's ledger and returns it together with the updated Summary.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID string, req request.CreateTransactionRequest) (*model.Transaction, model.Summary, error) {
	if err := validation.ValidateCreateTransaction(req); err != nil {
		return nil, model.Summary{}, err
	}

	transactionDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, model.Summary{}, err
	}

	// Cannot fail after validation.
	usdCents, _ := money.USDToCents(req.UsdSpent)
	priceCents, _ := money.USDToCents(req.BtcPrice)

	transaction := &model.Transaction{
		ID:            uuid.New().String(),
		UserID:        userID,
		Date:          transactionDate,
		UsdCents:      usdCents,
		BtcPriceCents: priceCents,
		BtcSats:       money.Sats(req.BtcSats),
		CreatedAt:     time.Now(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, model.Summary{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	summary, err := s.Summarize(ctx, userID)
	if err != nil {
		return nil, model.Summary{}, err
	}

	return transaction, summary, nil
}

// GetTransactions retrieves the user's ledger sorted by date ascending.
func (s *LedgerService) GetTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions(ctx, userID)
}

// DeleteTransaction removes a single transaction and returns the updated
// Summary. Returns apperrors.ErrTransactionNotFound for an unknown ID.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, transactionID string) (model.Summary, error) {
	if err := s.transactionRepo.DeleteTransaction(ctx, userID, transactionID); err != nil {
		return model.Summary{}, err
	}
	return s.Summarize(ctx, userID)
}

// DeleteTransactions removes a set of transactions. Every ID is attempted
// independently; failures are collected per ID and never abort the rest.
// The returned Summary is computed strictly after all deletes have finished.
func (s *LedgerService) DeleteTransactions(ctx context.Context, userID string, ids []string) (model.BulkDeleteResult, error) {
	var mu sync.Mutex
	result := model.BulkDeleteResult{
		Deleted: []string{},
		Failed:  []model.ItemError{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := s.transactionRepo.DeleteTransaction(gctx, userID, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, model.ItemError{ID: id, Reason: err.Error()})
			} else {
				result.Deleted = append(result.Deleted, id)
			}
			return nil
		})
	}

	// Sub-operations report their own failures; the group error is only the
	// context being cancelled.
	if err := g.Wait(); err != nil {
		return model.BulkDeleteResult{}, err
	}

	summary, err := s.Summarize(ctx, userID)
	if err != nil {
		return model.BulkDeleteResult{}, err
	}
	result.Summary = summary

	return result, nil
}

// Summarize recomputes the Summary over the user's current ledger from
// storage. The SQL sums run over integer subunit columns, so the result is
// identical to folding every transaction through an Accumulator.
func (s *LedgerService) Summarize(ctx context.Context, userID string) (model.Summary, error) {
	count, usdCents, priceCents, sats, err := s.transactionRepo.SumTransactions(ctx, userID)
	if err != nil {
		return model.Summary{}, err
	}
	return summaryFromTotals(count, usdCents, priceCents, sats), nil
}
