package postgres

import (
	"context"

	"github.com/iho/gofinance/internal/domain"
)

// CreditCardRepository implements usecase.CreditCardRepository.
type CreditCardRepository struct {
	db DBTX
}

// NewCreditCardRepository creates a new CreditCardRepository.
func NewCreditCardRepository(db DBTX) *CreditCardRepository {
	return &CreditCardRepository{db: db}
}

// Create inserts a credit card.
func (r *CreditCardRepository) Create(ctx context.Context, card *domain.CreditCard) error {
	query := `
		INSERT INTO credit_cards (id, user_id, name, credit_limit, closing_day, due_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		card.ID,
		card.UserID,
		card.Name,
		card.Limit,
		card.ClosingDay,
		card.DueDay,
		card.CreatedAt,
		card.UpdatedAt,
	)

	return err
}

// ListByUser lists a user's cards by name.
func (r *CreditCardRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CreditCard, error) {
	query := `
		SELECT id, user_id, name, credit_limit, closing_day, due_day, created_at, updated_at
		FROM credit_cards
		WHERE user_id = $1
		ORDER BY name, created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]*domain.CreditCard, 0)
	for rows.Next() {
		var card domain.CreditCard
		if err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.Name,
			&card.Limit,
			&card.ClosingDay,
			&card.DueDay,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cards = append(cards, &card)
	}

	return cards, rows.Err()
}
