package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID       map[uuid.UUID]*domain.User
	ByUsername map[string]*domain.User
	CreateErr  error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:       make(map[uuid.UUID]*domain.User),
		ByUsername: make(map[string]*domain.User),
	}
}

// AddUser seeds a user into the mock store
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByUsername[user.Username] = user
}

// Create stores a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.AddUser(user)
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username
func (m *MockUserRepository) GetByUsername(username string) (*domain.User, error) {
	if user, ok := m.ByUsername[username]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateErr    error
	GetErr       error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction seeds a transaction into the mock store
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	m.Transactions[tx.ID] = tx
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(tx *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	m.Transactions[tx.ID] = tx
	return tx, nil
}

// CreateBatch stores multiple transactions
func (m *MockTransactionRepository) CreateBatch(txs []*domain.Transaction) ([]*domain.Transaction, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	for _, tx := range txs {
		if _, err := m.Create(tx); err != nil {
			return nil, err
		}
	}
	return txs, nil
}

// GetByID retrieves a transaction by ID scoped to a user
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if tx, ok := m.Transactions[id]; ok && tx.UserID == userID {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser retrieves transactions for a user with filters and pagination
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	matched := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID != userID {
			continue
		}
		if filters != nil && filters.Window != nil && !filters.Window.Contains(tx.Date) {
			continue
		}
		if filters != nil && filters.Category != nil && !strings.EqualFold(tx.Category, *filters.Category) {
			continue
		}
		matched = append(matched, tx)
	}

	// Newest first, ID as tiebreak for deterministic paging
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	total := int64(len(matched))
	totalPages := int32((total + int64(pageSize) - 1) / int64(pageSize))
	start := int64(page-1) * int64(pageSize)
	if start > total {
		start = total
	}
	end := start + int64(pageSize)
	if end > total {
		end = total
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// GetByWindow retrieves all transactions for a user inside a window, oldest first
func (m *MockTransactionRepository) GetByWindow(userID uuid.UUID, window domain.Window) ([]*domain.Transaction, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	matched := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID == userID && window.Contains(tx.Date) {
			matched = append(matched, tx)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return matched, nil
}

// Delete removes a transaction scoped to a user
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	if tx, ok := m.Transactions[id]; ok && tx.UserID == userID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets   map[string]*domain.BudgetConfig
	UpsertErr error
	GetErr    error
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[string]*domain.BudgetConfig),
	}
}

func budgetKey(userID uuid.UUID, category string, period domain.BudgetPeriod) string {
	return userID.String() + "|" + strings.ToLower(category) + "|" + string(period)
}

// AddBudget seeds a budget into the mock store
func (m *MockBudgetRepository) AddBudget(budget *domain.BudgetConfig) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	m.Budgets[budgetKey(budget.UserID, budget.Category, budget.Period)] = budget
}

// Upsert creates or replaces a budget config
func (m *MockBudgetRepository) Upsert(budget *domain.BudgetConfig) (*domain.BudgetConfig, error) {
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}
	key := budgetKey(budget.UserID, budget.Category, budget.Period)
	if existing, ok := m.Budgets[key]; ok {
		budget.ID = existing.ID
		budget.CreatedAt = existing.CreatedAt
	} else if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
		budget.CreatedAt = time.Now().UTC()
	}
	budget.UpdatedAt = time.Now().UTC()
	m.Budgets[key] = budget
	return budget, nil
}

// GetAllByUser retrieves all budgets for a user ordered by category
func (m *MockBudgetRepository) GetAllByUser(userID uuid.UUID) ([]*domain.BudgetConfig, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	budgets := make([]*domain.BudgetConfig, 0)
	for _, budget := range m.Budgets {
		if budget.UserID == userID {
			budgets = append(budgets, budget)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

// GetByCategory retrieves one budget config
func (m *MockBudgetRepository) GetByCategory(userID uuid.UUID, category string, period domain.BudgetPeriod) (*domain.BudgetConfig, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if budget, ok := m.Budgets[budgetKey(userID, category, period)]; ok {
		return budget, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// Delete removes a budget config
func (m *MockBudgetRepository) Delete(userID uuid.UUID, category string, period domain.BudgetPeriod) error {
	key := budgetKey(userID, category, period)
	if _, ok := m.Budgets[key]; !ok {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, key)
	return nil
}
