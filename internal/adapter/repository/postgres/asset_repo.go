package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

const (
	assetColumns = `id, user_id, ticker, type, created_at`
	orderColumns = `id, asset_id, type, quantity, price, date, created_at`
)

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	db DBTX
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db DBTX) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create inserts an asset. A second asset with the same ticker for the same
// user yields domain.ErrAssetExists.
func (r *AssetRepository) Create(ctx context.Context, tx usecase.Transaction, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, user_id, ticker, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := txDB(tx).Exec(ctx, query,
		asset.ID,
		asset.UserID,
		asset.Ticker,
		string(asset.Type),
		asset.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAssetExists
	}

	return err
}

// CreateOrder inserts an order for an existing asset.
func (r *AssetRepository) CreateOrder(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, asset_id, type, quantity, price, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := txDB(tx).Exec(ctx, query,
		order.ID,
		order.AssetID,
		string(order.Type),
		order.Quantity,
		order.Price,
		order.Date,
		order.CreatedAt,
	)

	return err
}

// GetByID loads an asset with its orders.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	orders, err := r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE asset_id = $1 ORDER BY date, created_at`, id)
	if err != nil {
		return nil, err
	}
	asset.Orders = orders

	return asset, nil
}

// GetByTicker finds an asset by ticker inside a transaction, without orders.
func (r *AssetRepository) GetByTicker(ctx context.Context, tx usecase.Transaction, userID, ticker string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE user_id = $1 AND ticker = $2`
	return scanAsset(txDB(tx).QueryRow(ctx, query, userID, ticker))
}

// ListByUser loads every asset of a user with its orders using two queries.
func (r *AssetRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Asset, error) {
	rows, err := r.db.Query(ctx, `SELECT `+assetColumns+` FROM assets WHERE user_id = $1 ORDER BY ticker`, userID)
	if err != nil {
		return nil, err
	}

	assets := make([]*domain.Asset, 0)
	byID := make(map[string]*domain.Asset)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		assets = append(assets, asset)
		byID[asset.ID] = asset
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return assets, nil
	}

	orders, err := r.listOrders(ctx, `
		SELECT o.id, o.asset_id, o.type, o.quantity, o.price, o.date, o.created_at
		FROM orders o
		JOIN assets a ON a.id = o.asset_id
		WHERE a.user_id = $1
		ORDER BY o.date, o.created_at
	`, userID)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		if asset, ok := byID[o.AssetID]; ok {
			asset.Orders = append(asset.Orders, o)
		}
	}

	return assets, nil
}

func (r *AssetRepository) listOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var (
			order     domain.Order
			orderType string
		)
		if err := rows.Scan(
			&order.ID,
			&order.AssetID,
			&orderType,
			&order.Quantity,
			&order.Price,
			&order.Date,
			&order.CreatedAt,
		); err != nil {
			return nil, err
		}
		order.Type = domain.OrderType(orderType)
		orders = append(orders, &order)
	}

	return orders, rows.Err()
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var (
		asset     domain.Asset
		assetType string
	)

	err := row.Scan(
		&asset.ID,
		&asset.UserID,
		&asset.Ticker,
		&assetType,
		&asset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}

	asset.Type = domain.AssetType(assetType)
	return &asset, nil
}
