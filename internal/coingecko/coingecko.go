// Package coingecko provides a minimal client for the CoinGecko simple-price
// API, the upstream source of current Bitcoin prices.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
)

// DefaultBaseURL is the public CoinGecko API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client fetches Bitcoin price quotes from the CoinGecko API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a CoinGecko client. An empty baseURL selects the public
// API; tests point it at a local server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetPrice fetches the current price of one Bitcoin in the given fiat
// currency (lowercase ISO code, e.g. "usd").
//
// Any transport failure, non-200 status or unusable body is reported as
// apperrors.ErrPriceUnavailable so callers can treat every upstream problem
// uniformly: valuation figures degrade, ledger operations continue.
func (c *Client) GetPrice(ctx context.Context, currency string) (decimal.Decimal, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return decimal.Zero, fmt.Errorf("%w: currency is required", apperrors.ErrPriceUnavailable)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=bitcoin&vs_currencies=%s", c.baseURL, url.QueryEscape(currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: upstream returned status %d", apperrors.ErrPriceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}

	// Response shape: {"bitcoin": {"usd": 60000.12}}
	var parsed map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}

	price, ok := parsed["bitcoin"][currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no quote for currency %q", apperrors.ErrPriceUnavailable, currency)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive quote for currency %q", apperrors.ErrPriceUnavailable, currency)
	}

	return price, nil
}
