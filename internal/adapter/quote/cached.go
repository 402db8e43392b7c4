package quote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// Lookup results reported to the Recorder.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
	ResultEmpty = "empty"
)

// Recorder receives quote lookup outcomes.
type Recorder interface {
	ObserveQuoteLookup(result string)
}

// CachedProvider serves quotes from a cache and falls through to an upstream
// provider on a miss. Only successful lookups are cached.
type CachedProvider struct {
	upstream usecase.QuoteProvider
	cache    usecase.Cache
	ttl      time.Duration
	recorder Recorder
	logger   zerolog.Logger
}

// NewCachedProvider wraps upstream with cache. recorder may be nil.
func NewCachedProvider(upstream usecase.QuoteProvider, cache usecase.Cache, ttl time.Duration, recorder Recorder, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger.With().Str("component", "quote_cache").Logger(),
	}
}

type cachedQuote struct {
	Symbol    string    `json:"symbol"`
	Price     string    `json:"price"`
	LogoURL   string    `json:"logo_url,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// GetQuote implements usecase.QuoteProvider.
func (p *CachedProvider) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	if q, ok := p.fromCache(ctx, ticker); ok {
		p.observe(ResultHit)
		return q, nil
	}

	q, err := p.upstream.GetQuote(ctx, ticker)
	if err != nil {
		if errors.Is(err, usecase.ErrQuoteUnavailable) {
			p.observe(ResultEmpty)
		} else {
			p.observe(ResultError)
		}
		return nil, err
	}
	p.observe(ResultMiss)

	payload, err := json.Marshal(cachedQuote{
		Symbol:    q.Symbol,
		Price:     q.Price.String(),
		LogoURL:   q.LogoURL,
		FetchedAt: q.FetchedAt,
	})
	if err == nil {
		err = p.cache.Set(ctx, ticker, payload, p.ttl)
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("ticker", ticker).Msg("failed to cache quote")
	}

	return q, nil
}

func (p *CachedProvider) fromCache(ctx context.Context, ticker string) (*domain.Quote, bool) {
	raw, err := p.cache.Get(ctx, ticker)
	if err != nil {
		if !errors.Is(err, usecase.ErrCacheMiss) {
			p.logger.Warn().Err(err).Str("ticker", ticker).Msg("quote cache unavailable")
		}
		return nil, false
	}

	var cq cachedQuote
	if err := json.Unmarshal(raw, &cq); err != nil {
		p.logger.Warn().Err(err).Str("ticker", ticker).Msg("discarding corrupt cached quote")
		return nil, false
	}

	price, err := decimal.NewFromString(cq.Price)
	if err != nil {
		return nil, false
	}

	return &domain.Quote{
		Symbol:    cq.Symbol,
		Price:     price,
		LogoURL:   cq.LogoURL,
		FetchedAt: cq.FetchedAt,
	}, true
}

func (p *CachedProvider) observe(result string) {
	if p.recorder != nil {
		p.recorder.ObserveQuoteLookup(result)
	}
}
