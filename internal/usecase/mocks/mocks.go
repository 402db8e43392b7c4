package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// stored rounds an amount the way a NUMERIC(20,2) column does on write.
func stored(d decimal.Decimal) decimal.Decimal {
	return d.Round(domain.AmountScale)
}

// MockAccountRepository is an in-memory AccountRepository. Balances are
// kept at column scale.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListByUserFunc       func(ctx context.Context, userID string) ([]*domain.Account, error)
}

func NewMockAccountRepository(accounts ...*domain.Account) *MockAccountRepository {
	m := &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	cp.Balance = stored(cp.Balance)
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = stored(balance)
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0)
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// Balance returns the stored balance of an account, or zero.
func (m *MockAccountRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc.Balance
	}
	return decimal.Zero
}

// MockTransactionRepository is an in-memory TransactionRepository. Amounts
// are kept at column scale.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateFunc             func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	DeleteFunc             func(ctx context.Context, tx usecase.Transaction, id string) error
	ListByUserFunc         func(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	ListByAccountOwnerFunc func(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	SumByAccountFunc       func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockTransactionRepository(txs ...*domain.Transaction) *MockTransactionRepository {
	m := &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
	for _, t := range txs {
		m.transactions[t.ID] = t
	}
	return m
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.Amount = stored(cp.Amount)
	m.transactions[t.ID] = &cp
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[t.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	cp := *t
	cp.Amount = stored(cp.Amount)
	m.transactions[t.ID] = &cp
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, filter)
	}
	return m.list(func(t *domain.Transaction) bool {
		return t.UserID == userID && inFilter(t, filter)
	}), nil
}

func (m *MockTransactionRepository) ListByAccountOwner(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListByAccountOwnerFunc != nil {
		return m.ListByAccountOwnerFunc(ctx, userID, filter)
	}
	return m.list(func(t *domain.Transaction) bool {
		return t.UserID == userID && t.IsLinked() && inFilter(t, filter)
	}), nil
}

func (m *MockTransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	sum := decimal.Zero
	for _, t := range m.list(func(t *domain.Transaction) bool {
		return t.IsLinked() && *t.AccountID == accountID
	}) {
		sum = sum.Add(t.Effect())
	}
	return sum, nil
}

// Len returns the number of stored transactions.
func (m *MockTransactionRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions)
}

func (m *MockTransactionRepository) list(match func(*domain.Transaction) bool) []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txs := make([]*domain.Transaction, 0)
	for _, t := range m.transactions {
		if match(t) {
			cp := *t
			txs = append(txs, &cp)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs
}

func inFilter(t *domain.Transaction, filter domain.TransactionFilter) bool {
	if !filter.From.IsZero() && t.Date.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && !t.Date.Before(filter.To) {
		return false
	}
	return true
}

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc func(ctx context.Context, tx usecase.Transaction, user *domain.User) error
}

func NewMockUserRepository(users ...*domain.User) *MockUserRepository {
	m := &MockUserRepository{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Len returns the number of stored users.
func (m *MockUserRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// MockGoalRepository is an in-memory GoalRepository.
type MockGoalRepository struct {
	mu    sync.RWMutex
	goals map[string]*domain.Goal

	AddToCurrentAmountFunc func(ctx context.Context, userID, goalID string, amount decimal.Decimal, updatedAt time.Time) (bool, error)
}

func NewMockGoalRepository(goals ...*domain.Goal) *MockGoalRepository {
	m := &MockGoalRepository{goals: make(map[string]*domain.Goal)}
	for _, g := range goals {
		m.goals[g.ID] = g
	}
	return m
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *goal
	m.goals[goal.ID] = &cp
	return nil
}

func (m *MockGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.goals[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, domain.ErrGoalNotFound
}

func (m *MockGoalRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	goals := make([]*domain.Goal, 0)
	for _, g := range m.goals {
		if g.UserID == userID {
			cp := *g
			goals = append(goals, &cp)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (m *MockGoalRepository) AddToCurrentAmount(ctx context.Context, userID, goalID string, amount decimal.Decimal, updatedAt time.Time) (bool, error) {
	if m.AddToCurrentAmountFunc != nil {
		return m.AddToCurrentAmountFunc(ctx, userID, goalID, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.goals[goalID]
	if !ok || g.UserID != userID {
		return false, nil
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.UpdatedAt = updatedAt
	return true, nil
}

// Len returns the number of stored goals.
func (m *MockGoalRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.goals)
}

// MockCreditCardRepository is an in-memory CreditCardRepository.
type MockCreditCardRepository struct {
	mu    sync.RWMutex
	cards []*domain.CreditCard

	CreateFunc func(ctx context.Context, card *domain.CreditCard) error
}

func NewMockCreditCardRepository() *MockCreditCardRepository {
	return &MockCreditCardRepository{}
}

func (m *MockCreditCardRepository) Create(ctx context.Context, card *domain.CreditCard) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *card
	m.cards = append(m.cards, &cp)
	return nil
}

func (m *MockCreditCardRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cards := make([]*domain.CreditCard, 0)
	for _, c := range m.cards {
		if c.UserID == userID {
			cp := *c
			cards = append(cards, &cp)
		}
	}
	return cards, nil
}

// MockAssetRepository is an in-memory AssetRepository.
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.Asset

	ListByUserFunc func(ctx context.Context, userID string) ([]*domain.Asset, error)
}

func NewMockAssetRepository(assets ...*domain.Asset) *MockAssetRepository {
	m := &MockAssetRepository{assets: make(map[string]*domain.Asset)}
	for _, a := range assets {
		m.assets[a.ID] = a
	}
	return m
}

func (m *MockAssetRepository) Create(ctx context.Context, tx usecase.Transaction, asset *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assets {
		if a.UserID == asset.UserID && a.Ticker == asset.Ticker {
			return domain.ErrAssetExists
		}
	}
	cp := *asset
	cp.Orders = nil
	m.assets[asset.ID] = &cp
	return nil
}

func (m *MockAssetRepository) CreateOrder(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[order.AssetID]
	if !ok {
		return domain.ErrAssetNotFound
	}
	cp := *order
	a.Orders = append(a.Orders, &cp)
	return nil
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assets[id]; ok {
		return copyAsset(a), nil
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) GetByTicker(ctx context.Context, tx usecase.Transaction, userID, ticker string) (*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.assets {
		if a.UserID == userID && a.Ticker == ticker {
			return copyAsset(a), nil
		}
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Asset, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	assets := make([]*domain.Asset, 0)
	for _, a := range m.assets {
		if a.UserID == userID {
			assets = append(assets, copyAsset(a))
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Ticker < assets[j].Ticker })
	return assets, nil
}

func copyAsset(a *domain.Asset) *domain.Asset {
	cp := *a
	cp.Orders = append([]*domain.Order(nil), a.Orders...)
	return &cp
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu      sync.Mutex
	commits int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{
		CommitFunc: func(context.Context) error {
			m.mu.Lock()
			m.commits++
			m.mu.Unlock()
			return nil
		},
	}, nil
}

// Commits returns how many transactions begun by the manager were committed.
func (m *MockTransactionManager) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier runs the operation up to Attempts times while it fails.
type MockRetrier struct {
	Attempts int
	calls    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		m.calls++
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}

// Calls returns how many times the operation was run.
func (m *MockRetrier) Calls() int {
	return m.calls
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Has reports whether key is stored.
func (m *MockIdempotencyStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// MockRecorder counts observed business metrics.
type MockRecorder struct {
	mu                sync.Mutex
	LedgerOperations  map[string]int
	GoalDeposits      map[bool]int
	Reconciled        int
	DiscrepanciesSeen int
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		LedgerOperations: make(map[string]int),
		GoalDeposits:     make(map[bool]int),
	}
}

func (m *MockRecorder) ObserveLedgerOperation(operation, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LedgerOperations[operation+"/"+outcome]++
}

func (m *MockRecorder) ObserveGoalDeposit(applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GoalDeposits[applied]++
}

func (m *MockRecorder) ObserveReconciliation(checked, discrepancies int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reconciled += checked
	m.DiscrepanciesSeen += discrepancies
}
