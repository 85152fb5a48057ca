// Package engine implements the budget evaluation, health scoring, and
// insight generation core. Every function is a pure computation over the
// snapshot it is given: no repositories, no clock, no shared state. Calls
// with identical inputs produce identical outputs, and concurrent calls
// need no coordination.
package engine

import (
	"sort"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// EvaluateBudgets computes budget-exceedance alerts for every configured
// budget against expense spend inside the window. A category without a
// configured budget produces no alert. The result is sorted by descending
// overBy with ties broken by category name ascending.
func EvaluateBudgets(transactions []*domain.Transaction, budgets []*domain.BudgetConfig, window domain.Window) ([]*domain.Alert, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := validateBudgets(budgets); err != nil {
		return nil, err
	}

	spend := expenseByCategory(transactions, window)

	alerts := make([]*domain.Alert, 0)
	for _, budget := range budgets {
		spent, ok := spend[budget.Category]
		if !ok {
			continue
		}
		if spent.GreaterThan(budget.Limit) {
			alerts = append(alerts, &domain.Alert{
				UserID:   budget.UserID,
				Category: budget.Category,
				Period:   budget.Period,
				Spent:    spent,
				Limit:    budget.Limit,
				OverBy:   spent.Sub(budget.Limit),
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		cmp := alerts[i].OverBy.Cmp(alerts[j].OverBy)
		if cmp != 0 {
			return cmp > 0
		}
		return alerts[i].Category < alerts[j].Category
	})

	return alerts, nil
}

func validateBudgets(budgets []*domain.BudgetConfig) error {
	for _, budget := range budgets {
		if !budget.Limit.IsPositive() {
			return domain.ErrInvalidLimit
		}
	}
	return nil
}

// expenseByCategory sums the absolute value of expense transactions per
// category within the window.
func expenseByCategory(transactions []*domain.Transaction, window domain.Window) map[string]decimal.Decimal {
	spend := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if !tx.IsExpense() || !window.Contains(tx.Date) {
			continue
		}
		spend[tx.Category] = spend[tx.Category].Add(tx.Amount.Abs())
	}
	return spend
}
