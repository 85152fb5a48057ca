package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger entry. Negative amounts are expenses,
// positive amounts are income; a zero amount is never stored.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Note          *string         `json:"note,omitempty"`
	ImportBatchID *uuid.UUID      `json:"importBatchId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// IsExpense reports whether the transaction is an expense (negative amount).
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction is income (positive amount).
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

type TransactionFilters struct {
	Window   *Window
	Category *string
	Page     int32
	PageSize int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	CreateBatch(transactions []*Transaction) ([]*Transaction, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Transaction, error)
	GetByUser(userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	GetByWindow(userID uuid.UUID, window Window) ([]*Transaction, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
}
