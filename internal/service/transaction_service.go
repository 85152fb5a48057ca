package service

import (
	"strings"
	"time"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// CreateTransactionInput holds the input for creating a transaction.
// Amount is signed: negative for expenses, positive for income.
type CreateTransactionInput struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
	Note     *string
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	tx, err := s.buildTransaction(userID, input)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.Create(tx)
}

// ImportTransactions validates a batch of rows and stores them all under a
// shared import batch ID. The whole batch is rejected if any row is invalid.
func (s *TransactionService) ImportTransactions(userID uuid.UUID, inputs []CreateTransactionInput) ([]*domain.Transaction, error) {
	batchID := uuid.New()

	transactions := make([]*domain.Transaction, len(inputs))
	for i, input := range inputs {
		tx, err := s.buildTransaction(userID, input)
		if err != nil {
			return nil, err
		}
		tx.ImportBatchID = &batchID
		transactions[i] = tx
	}

	return s.transactionRepo.CreateBatch(transactions)
}

// GetTransactions retrieves transactions for a user with optional filters and pagination
func (s *TransactionService) GetTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	if filters.Window != nil {
		if err := filters.Window.Validate(); err != nil {
			return nil, err
		}
	}
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves a transaction by ID for a user
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// DeleteTransaction permanently removes a transaction
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id uuid.UUID) error {
	return s.transactionRepo.Delete(userID, id)
}

func (s *TransactionService) buildTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.IsZero() {
		return nil, domain.ErrZeroAmount
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	date := input.Date
	if date.IsZero() {
		date = today
	}
	date = time.Date(date.UTC().Year(), date.UTC().Month(), date.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return nil, domain.ErrFutureDate
	}

	var note *string
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if trimmed != "" {
			if len(trimmed) > domain.MaxNoteLength {
				return nil, domain.ErrNoteTooLong
			}
			note = &trimmed
		}
	}

	return &domain.Transaction{
		UserID:   userID,
		Date:     date,
		Amount:   input.Amount,
		Category: category,
		Note:     note,
	}, nil
}
