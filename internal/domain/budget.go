package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// BudgetConfig is a per-category spending limit. There is at most one config
// per (user, category, period). Changes apply prospectively only.
type BudgetConfig struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Category  string          `json:"category"`
	Period    BudgetPeriod    `json:"period"`
	Limit     decimal.Decimal `json:"limit"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type BudgetRepository interface {
	Upsert(budget *BudgetConfig) (*BudgetConfig, error)
	GetAllByUser(userID uuid.UUID) ([]*BudgetConfig, error)
	GetByCategory(userID uuid.UUID, category string, period BudgetPeriod) (*BudgetConfig, error)
	Delete(userID uuid.UUID, category string, period BudgetPeriod) error
}
