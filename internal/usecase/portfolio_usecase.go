package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gofinance/internal/domain"
)

// maxConcurrentQuotes bounds parallel quote lookups for one valuation.
const maxConcurrentQuotes = 4

// PortfolioUseCase handles assets, orders and portfolio valuation.
type PortfolioUseCase struct {
	txManager TransactionManager
	assetRepo AssetRepository
	quotes    QuoteProvider
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewPortfolioUseCase creates a new PortfolioUseCase. quotes may be nil, in
// which case every asset is valued at its last order price.
func NewPortfolioUseCase(
	txManager TransactionManager,
	assetRepo AssetRepository,
	quotes QuoteProvider,
	idGen IDGenerator,
	logger zerolog.Logger,
) *PortfolioUseCase {
	return &PortfolioUseCase{
		txManager: txManager,
		assetRepo: assetRepo,
		quotes:    quotes,
		idGen:     idGen,
		logger:    logger,
	}
}

// CreateAssetInput represents input for creating an asset.
type CreateAssetInput struct {
	UserID string
	Ticker string
}

// CreateAsset registers a ticker for the user.
func (uc *PortfolioUseCase) CreateAsset(ctx context.Context, input CreateAssetInput) (*domain.Asset, error) {
	ticker, err := domain.NormalizeTicker(input.Ticker)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = uc.assetRepo.GetByTicker(ctx, tx, input.UserID, ticker)
	switch {
	case err == nil:
		return nil, domain.ErrAssetExists
	case !errors.Is(err, domain.ErrAssetNotFound):
		return nil, err
	}

	asset := uc.newAsset(input.UserID, ticker)
	if err := uc.assetRepo.Create(ctx, tx, asset); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return asset, nil
}

// AddOrderInput represents a buy or sell of an asset.
type AddOrderInput struct {
	UserID   string
	AssetID  string
	Type     domain.OrderType
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Date     time.Time
}

// AddOrder records an order against one of the user's assets.
func (uc *PortfolioUseCase) AddOrder(ctx context.Context, input AddOrderInput) (*domain.Order, error) {
	asset, err := uc.assetRepo.GetByID(ctx, input.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.UserID != input.UserID {
		return nil, domain.ErrAssetNotFound
	}

	order := uc.newOrder(asset.ID, input.Type, input.Quantity, input.Price, input.Date)
	if err := order.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.assetRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// ListAssets lists the user's assets with their orders.
func (uc *PortfolioUseCase) ListAssets(ctx context.Context, userID string) ([]*domain.Asset, error) {
	return uc.assetRepo.ListByUser(ctx, userID)
}

// Valuate values every asset the user holds. Quote failures never fail
// the valuation; the affected asset falls back to its last order price.
func (uc *PortfolioUseCase) Valuate(ctx context.Context, userID string) (*domain.Portfolio, error) {
	assets, err := uc.assetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings := make([]domain.Holding, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			holdings[i] = domain.Valuate(asset, uc.quote(gctx, asset.Ticker))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.NewPortfolio(holdings), nil
}

func (uc *PortfolioUseCase) quote(ctx context.Context, ticker string) *domain.Quote {
	if uc.quotes == nil {
		return nil
	}

	q, err := uc.quotes.GetQuote(ctx, ticker)
	if err != nil {
		if !errors.Is(err, ErrQuoteUnavailable) {
			uc.logger.Warn().Err(err).Str("ticker", ticker).Msg("quote lookup failed")
		}
		return nil
	}

	return q
}

func (uc *PortfolioUseCase) newAsset(userID, ticker string) *domain.Asset {
	return &domain.Asset{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Ticker:    ticker,
		Type:      domain.AssetTypeStock,
		CreatedAt: time.Now().UTC(),
	}
}

func (uc *PortfolioUseCase) newOrder(assetID string, orderType domain.OrderType, quantity, price decimal.Decimal, date time.Time) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:        uc.idGen.Generate(),
		AssetID:   assetID,
		Type:      orderType,
		Quantity:  quantity,
		Price:     price,
		Date:      dateOrNow(date, now),
		CreatedAt: now,
	}
}
