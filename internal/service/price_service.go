package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
)

// PriceFetcher is the upstream price source contract.
type PriceFetcher interface {
	GetPrice(ctx context.Context, currency string) (decimal.Decimal, error)
}

// PriceService serves current Bitcoin price quotes with a short-lived
// per-currency cache in front of the upstream fetcher. An optional cron
// schedule keeps the default currency's cache warm in the background.
type PriceService struct {
	fetcher  PriceFetcher
	cacheTTL time.Duration

	mu    sync.Mutex
	cache map[string]cachedQuote

	cron *cron.Cron
}

type cachedQuote struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// NewPriceService creates a PriceService over the given upstream fetcher.
func NewPriceService(fetcher PriceFetcher, cacheTTL time.Duration) *PriceService {
	return &PriceService{
		fetcher:  fetcher,
		cacheTTL: cacheTTL,
		cache:    make(map[string]cachedQuote),
	}
}

// GetPrice returns the current price of one Bitcoin in the given currency.
// Quotes younger than the cache TTL are served from cache and marked as such.
func (s *PriceService) GetPrice(ctx context.Context, currency string) (model.PriceQuote, error) {
	s.mu.Lock()
	entry, ok := s.cache[currency]
	s.mu.Unlock()

	if ok && time.Since(entry.fetchedAt) < s.cacheTTL {
		return model.PriceQuote{Currency: currency, Price: entry.price, Cached: true}, nil
	}

	price, err := s.fetcher.GetPrice(ctx, currency)
	if err != nil {
		return model.PriceQuote{}, err
	}

	s.mu.Lock()
	s.cache[currency] = cachedQuote{price: price, fetchedAt: time.Now()}
	s.mu.Unlock()

	return model.PriceQuote{Currency: currency, Price: price, Cached: false}, nil
}

// StartRefresh schedules a background refresh of the given currency on the
// provided cron spec. Refresh failures are logged and retried on the next
// tick; they never surface to request handling.
func (s *PriceService) StartRefresh(spec, currency string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		price, err := s.fetcher.GetPrice(ctx, currency)
		if err != nil {
			log.Printf("price refresh failed for %s: %v", currency, err)
			return
		}

		s.mu.Lock()
		s.cache[currency] = cachedQuote{price: price, fetchedAt: time.Now()}
		s.mu.Unlock()
	})
	if err != nil {
		return err
	}

	c.Start()
	s.cron = c
	return nil
}

// StopRefresh stops the background refresh schedule, if one was started.
func (s *PriceService) StopRefresh() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
