package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

// GoalUseCase handles savings goals.
type GoalUseCase struct {
	goalRepo GoalRepository
	idGen    IDGenerator
	recorder Recorder
}

// NewGoalUseCase creates a new GoalUseCase. recorder may be nil.
func NewGoalUseCase(goalRepo GoalRepository, idGen IDGenerator, recorder Recorder) *GoalUseCase {
	return &GoalUseCase{
		goalRepo: goalRepo,
		idGen:    idGen,
		recorder: recorderOrNop(recorder),
	}
}

// CreateGoalInput represents input for creating a goal.
type CreateGoalInput struct {
	UserID        string
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
}

// CreateGoal creates a savings goal.
func (uc *GoalUseCase) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	now := time.Now().UTC()

	goal := &domain.Goal{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		Name:          input.Name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if err := uc.goalRepo.Create(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

// ListGoals lists the user's goals by deadline, goals without one last.
func (uc *GoalUseCase) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	goals, err := uc.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(goals, func(i, j int) bool {
		a, b := goals[i].Deadline, goals[j].Deadline
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return goals, nil
}

// AddToGoalInput represents a deposit into a goal.
type AddToGoalInput struct {
	UserID string
	GoalID string
	Amount decimal.Decimal
}

// AddToGoal increases a goal's current amount. Deposits into a goal that
// does not exist or belongs to someone else are silently ignored.
func (uc *GoalUseCase) AddToGoal(ctx context.Context, input AddToGoalInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}

	applied, err := uc.goalRepo.AddToCurrentAmount(ctx, input.UserID, input.GoalID, input.Amount, time.Now().UTC())
	if err != nil {
		return err
	}

	uc.recorder.ObserveGoalDeposit(applied)
	return nil
}
