package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, created_at, updated_at`

// GoalRepository implements usecase.GoalRepository.
type GoalRepository struct {
	db DBTX
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(db DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a goal.
func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	query := `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

// GetByID retrieves a goal by ID.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	return scanGoal(r.db.QueryRow(ctx, query, id))
}

// ListByUser lists a user's goals by deadline, open-ended goals last.
func (r *GoalRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY deadline ASC NULLS LAST, created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

// AddToCurrentAmount increments current_amount in a single statement so
// concurrent deposits never lose updates.
func (r *GoalRepository) AddToCurrentAmount(ctx context.Context, userID, goalID string, amount decimal.Decimal, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, goalID, userID, amount, updatedAt)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var goal domain.Goal
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.Deadline,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}

	return &goal, nil
}
