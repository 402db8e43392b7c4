package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
	"github.com/iho/gofinance/internal/usecase/mocks"
)

func seededAsset(id, userID, ticker string, orders ...*domain.Order) *domain.Asset {
	for _, o := range orders {
		o.AssetID = id
	}
	return &domain.Asset{ID: id, UserID: userID, Ticker: ticker, Type: domain.AssetTypeStock, Orders: orders}
}

func buy(qty, price int64, day int) *domain.Order {
	return &domain.Order{
		Type:     domain.OrderTypeBuy,
		Quantity: decimal.NewFromInt(qty),
		Price:    decimal.NewFromInt(price),
		Date:     time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestPortfolioUseCase_CreateAsset(t *testing.T) {
	repo := mocks.NewMockAssetRepository()
	uc := usecase.NewPortfolioUseCase(mocks.NewMockTransactionManager(), repo, nil, mocks.NewMockIDGenerator(), zerolog.Nop())
	ctx := context.Background()

	asset, err := uc.CreateAsset(ctx, usecase.CreateAssetInput{UserID: "user-1", Ticker: " petr4 "})
	require.NoError(t, err)
	assert.Equal(t, "PETR4", asset.Ticker)
	assert.Equal(t, domain.AssetTypeStock, asset.Type)

	_, err = uc.CreateAsset(ctx, usecase.CreateAssetInput{UserID: "user-1", Ticker: "PETR4"})
	assert.ErrorIs(t, err, domain.ErrAssetExists)

	_, err = uc.CreateAsset(ctx, usecase.CreateAssetInput{UserID: "user-2", Ticker: "PETR4"})
	assert.NoError(t, err, "tickers are unique per owner only")

	_, err = uc.CreateAsset(ctx, usecase.CreateAssetInput{UserID: "user-1", Ticker: "PE TR"})
	assert.ErrorIs(t, err, domain.ErrInvalidTicker)
}

func TestPortfolioUseCase_AddOrder(t *testing.T) {
	repo := mocks.NewMockAssetRepository(seededAsset("asset-1", "user-1", "VALE3"))
	uc := usecase.NewPortfolioUseCase(mocks.NewMockTransactionManager(), repo, nil, mocks.NewMockIDGenerator(), zerolog.Nop())
	ctx := context.Background()

	order, err := uc.AddOrder(ctx, usecase.AddOrderInput{
		UserID:   "user-1",
		AssetID:  "asset-1",
		Type:     domain.OrderTypeBuy,
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "asset-1", order.AssetID)
	assert.False(t, order.Date.IsZero())

	asset, err := repo.GetByID(ctx, "asset-1")
	require.NoError(t, err)
	assert.Len(t, asset.Orders, 1)

	_, err = uc.AddOrder(ctx, usecase.AddOrderInput{UserID: "user-2", AssetID: "asset-1", Type: domain.OrderTypeBuy, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)

	_, err = uc.AddOrder(ctx, usecase.AddOrderInput{UserID: "user-1", AssetID: "asset-1", Type: domain.OrderTypeSell, Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestPortfolioUseCase_Valuate(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := mocks.NewMockQuoteProvider(ctrl)

	repo := mocks.NewMockAssetRepository(
		seededAsset("a1", "user-1", "ITSA4", buy(100, 10, 1)),
		seededAsset("a2", "user-1", "PETR4", buy(10, 30, 1), buy(10, 34, 5)),
		seededAsset("a3", "user-1", "XPTO3", buy(5, 20, 2)),
	)

	quotes.EXPECT().GetQuote(gomock.Any(), "ITSA4").Return(&domain.Quote{Symbol: "ITSA4", Price: decimal.NewFromInt(12)}, nil)
	quotes.EXPECT().GetQuote(gomock.Any(), "PETR4").Return(nil, errors.New("upstream 502"))
	quotes.EXPECT().GetQuote(gomock.Any(), "XPTO3").Return(nil, usecase.ErrQuoteUnavailable)

	uc := usecase.NewPortfolioUseCase(mocks.NewMockTransactionManager(), repo, quotes, mocks.NewMockIDGenerator(), zerolog.Nop())

	p, err := uc.Valuate(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, p.Holdings, 3)

	byTicker := map[string]domain.Holding{}
	for _, h := range p.Holdings {
		byTicker[h.Asset.Ticker] = h
	}

	assert.Equal(t, domain.PriceSourceQuote, byTicker["ITSA4"].PriceSource)
	assert.True(t, byTicker["ITSA4"].Value.Equal(decimal.NewFromInt(1200)))

	// Failed and empty quotes fall back to the most recent order price.
	assert.Equal(t, domain.PriceSourceLastOrder, byTicker["PETR4"].PriceSource)
	assert.True(t, byTicker["PETR4"].Value.Equal(decimal.NewFromInt(680)))
	assert.Equal(t, domain.PriceSourceLastOrder, byTicker["XPTO3"].PriceSource)

	// 1000 + 640 + 100 invested, 1200 + 680 + 100 value
	assert.True(t, p.TotalInvested.Equal(decimal.NewFromInt(1740)), "invested %s", p.TotalInvested)
	assert.True(t, p.TotalValue.Equal(decimal.NewFromInt(1980)), "value %s", p.TotalValue)
	assert.True(t, p.TotalProfit.Equal(decimal.NewFromInt(240)), "profit %s", p.TotalProfit)
}

func TestPortfolioUseCase_Valuate_RepositoryError(t *testing.T) {
	repo := mocks.NewMockAssetRepository()
	repo.ListByUserFunc = func(context.Context, string) ([]*domain.Asset, error) {
		return nil, errPersist
	}
	uc := usecase.NewPortfolioUseCase(mocks.NewMockTransactionManager(), repo, nil, mocks.NewMockIDGenerator(), zerolog.Nop())

	_, err := uc.Valuate(context.Background(), "user-1")
	assert.ErrorIs(t, err, errPersist)
}
