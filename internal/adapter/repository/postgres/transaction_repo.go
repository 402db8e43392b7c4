package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

const transactionColumns = `t.id, t.user_id, t.account_id, t.description, t.amount, t.type, t.category, t.date, t.created_at, t.updated_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, account_id, description, amount, type, category, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := txDB(tx).Exec(ctx, query,
		t.ID,
		t.UserID,
		t.AccountID,
		t.Description,
		t.Amount,
		string(t.Type),
		t.Category,
		t.Date,
		t.CreatedAt,
		t.UpdatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1`
	return scanTransaction(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1 FOR UPDATE`
	return scanTransaction(txDB(tx).QueryRow(ctx, query, id))
}

// Update rewrites the mutable fields of a transaction. The account link is
// never changed.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $2, amount = $3, type = $4, category = $5, date = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := txDB(tx).Exec(ctx, query,
		t.ID,
		t.Description,
		t.Amount,
		string(t.Type),
		t.Category,
		t.Date,
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txDB(tx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByUser lists every transaction the user owns within the filter, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1
		  AND ($2::timestamptz IS NULL OR t.date >= $2)
		  AND ($3::timestamptz IS NULL OR t.date < $3)
		ORDER BY t.date DESC, t.created_at DESC
	`

	return r.list(ctx, query, userID, filter)
}

// ListByAccountOwner lists transactions linked to any of the user's accounts.
func (r *TransactionRepository) ListByAccountOwner(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		  AND ($2::timestamptz IS NULL OR t.date >= $2)
		  AND ($3::timestamptz IS NULL OR t.date < $3)
		ORDER BY t.date DESC, t.created_at DESC
	`

	return r.list(ctx, query, userID, filter)
}

// SumByAccount returns the signed sum of the transactions linked to an account.
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN -amount ELSE amount END), 0)
		FROM transactions
		WHERE account_id = $1
	`

	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}

func (r *TransactionRepository) list(ctx context.Context, query, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, userID, nullableTime(filter.From), nullableTime(filter.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}

	return txs, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		txType string
	)

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.Description,
		&t.Amount,
		&txType,
		&t.Category,
		&t.Date,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	t.Type = domain.TransactionType(txType)
	t.Date = t.Date.UTC()
	return &t, nil
}
