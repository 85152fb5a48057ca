package service

import (
	"strings"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget configuration logic
type BudgetService struct {
	budgetRepo domain.BudgetRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// SetBudget creates or replaces the budget for (user, category, period).
// The change applies prospectively: past evaluations are never re-flagged.
func (s *BudgetService) SetBudget(userID uuid.UUID, category string, period domain.BudgetPeriod, limit decimal.Decimal) (*domain.BudgetConfig, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	period, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}

	if !limit.IsPositive() {
		return nil, domain.ErrInvalidLimit
	}

	return s.budgetRepo.Upsert(&domain.BudgetConfig{
		UserID:   userID,
		Category: category,
		Period:   period,
		Limit:    limit,
	})
}

// GetBudgets retrieves all budget configs for a user
func (s *BudgetService) GetBudgets(userID uuid.UUID) ([]*domain.BudgetConfig, error) {
	return s.budgetRepo.GetAllByUser(userID)
}

// DeleteBudget removes the budget for (user, category, period)
func (s *BudgetService) DeleteBudget(userID uuid.UUID, category string, period domain.BudgetPeriod) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.ErrCategoryRequired
	}
	period, err := normalizePeriod(period)
	if err != nil {
		return err
	}
	return s.budgetRepo.Delete(userID, category, period)
}

func normalizePeriod(period domain.BudgetPeriod) (domain.BudgetPeriod, error) {
	if period == "" {
		return domain.BudgetPeriodMonthly, nil
	}
	if period != domain.BudgetPeriodMonthly {
		return "", domain.ErrInvalidPeriod
	}
	return period, nil
}
