package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// PortfolioService defines the behavior needed by PortfolioHandler.
type PortfolioService interface {
	CreateAsset(ctx context.Context, input usecase.CreateAssetInput) (*domain.Asset, error)
	AddOrder(ctx context.Context, input usecase.AddOrderInput) (*domain.Order, error)
	ListAssets(ctx context.Context, userID string) ([]*domain.Asset, error)
	Valuate(ctx context.Context, userID string) (*domain.Portfolio, error)
}

// PortfolioHandler handles assets, orders and valuation.
type PortfolioHandler struct {
	portfolioUC PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioUC PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

// CreateAsset starts tracking a ticker.
func (h *PortfolioHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateAssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	asset, err := h.portfolioUC.CreateAsset(r.Context(), usecase.CreateAssetInput{
		UserID: userID,
		Ticker: req.Ticker,
	})
	if err != nil {
		writeDomainError(w, err, "failed to create asset")
		return
	}

	writeJSON(w, http.StatusCreated, dto.AssetFromDomain(asset))
}

// ListAssets lists the user's assets with their orders.
func (h *PortfolioHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	assets, err := h.portfolioUC.ListAssets(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to list assets")
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetsFromDomain(assets))
}

// AddOrder records a buy or sell of an asset.
func (h *PortfolioHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.AddOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "invalid order")
		return
	}

	order, err := h.portfolioUC.AddOrder(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to add order")
		return
	}

	writeJSON(w, http.StatusCreated, dto.OrderFromDomain(order))
}

// Valuate values every holding at current prices.
func (h *PortfolioHandler) Valuate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	portfolio, err := h.portfolioUC.Valuate(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to value portfolio")
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfolioFromDomain(portfolio))
}
