package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// BrapiClient fetches quotes from a brapi-compatible HTTP API.
type BrapiClient struct {
	baseURL string
	token   string
	http    *http.Client
	now     func() time.Time
}

// NewBrapiClient creates a client for baseURL (e.g. https://brapi.dev/api).
func NewBrapiClient(baseURL, token string, timeout time.Duration) *BrapiClient {
	return &BrapiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

type brapiResponse struct {
	Results []brapiResult `json:"results"`
}

type brapiResult struct {
	Symbol             string           `json:"symbol"`
	RegularMarketPrice *decimal.Decimal `json:"regularMarketPrice"`
	LogoURL            string           `json:"logourl"`
}

// GetQuote returns the current price of ticker. An empty result set yields
// usecase.ErrQuoteUnavailable.
func (c *BrapiClient) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	addr := fmt.Sprintf("%s/quote/%s", c.baseURL, url.PathEscape(ticker))
	if c.token != "" {
		addr += "?token=" + url.QueryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", usecase.ErrQuoteUnavailable, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote %s: http %d", ticker, resp.StatusCode)
	}

	var body brapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("quote %s: decode: %w", ticker, err)
	}

	if len(body.Results) == 0 || body.Results[0].RegularMarketPrice == nil {
		return nil, fmt.Errorf("%w: %s", usecase.ErrQuoteUnavailable, ticker)
	}

	result := body.Results[0]
	symbol := result.Symbol
	if symbol == "" {
		symbol = ticker
	}

	return &domain.Quote{
		Symbol:    symbol,
		Price:     *result.RegularMarketPrice,
		LogoURL:   result.LogoURL,
		FetchedAt: c.now().UTC(),
	}, nil
}
