package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gofinance/internal/domain"
)

// UserUseCase handles registration and login.
type UserUseCase struct {
	txManager   TransactionManager
	userRepo    UserRepository
	accountRepo AccountRepository
	idGen       IDGenerator
	bcryptCost  int
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(txManager TransactionManager, userRepo UserRepository, accountRepo AccountRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		txManager:   txManager,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the password hashing cost.
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.bcryptCost = cost
	return uc
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a user together with a default wallet account.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := uc.newUser(input)
	if err != nil {
		return nil, err
	}

	wallet, err := newAccount(uc.idGen, user.ID, DefaultAccountName, domain.AccountTypeChecking, decimal.Zero)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.userRepo.Create(ctx, tx, user); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.CreateTx(ctx, tx, wallet); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return withoutPassword(user), nil
}

// LoginInput represents authentication input
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies user credentials.
func (uc *UserUseCase) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return withoutPassword(user), nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return withoutPassword(user), nil
}

// newUser validates registration input and hashes the password.
func (uc *UserUseCase) newUser(input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.User{
		ID:           uc.idGen.Generate(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func withoutPassword(user *domain.User) *domain.User {
	u := *user
	u.PasswordHash = ""
	return &u
}
