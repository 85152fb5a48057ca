package engine

import (
	"math"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Factor names as reported in HealthScore.Factors
const (
	FactorSavingsRate       = "savings_rate"
	FactorBudgetAdherence   = "budget_adherence"
	FactorExpenseVolatility = "expense_volatility"
	FactorCategoryDiversity = "category_diversity"
)

// Factor weights
const (
	WeightSavingsRate       = 40
	WeightBudgetAdherence   = 30
	WeightExpenseVolatility = 20
	WeightCategoryDiversity = 10
)

const totalWeight = WeightSavingsRate + WeightBudgetAdherence + WeightExpenseVolatility + WeightCategoryDiversity

// ComputeHealthScore produces a 0-100 composite from four interpretable
// factors, each normalized to [-1,1] before weighting:
//
//	savings rate       (income - expenses) / income
//	budget adherence   1 - overBudgetCategories / budgetedCategories
//	expense volatility 1 - min(1, stddev/mean of daily expense totals)
//	category diversity 1 - maxCategorySpend / totalSpend
//
// An empty window yields the neutral score 50 with all factors zero.
func ComputeHealthScore(transactions []*domain.Transaction, budgets []*domain.BudgetConfig, window domain.Window) (*domain.HealthScore, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := validateBudgets(budgets); err != nil {
		return nil, err
	}

	inWindow := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if window.Contains(tx.Date) {
			inWindow = append(inWindow, tx)
		}
	}

	// No data, no judgment.
	if len(inWindow) == 0 {
		return neutralScore(), nil
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range inWindow {
		if tx.IsIncome() {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Abs())
		}
	}

	factors := []domain.Factor{
		newFactor(FactorSavingsRate, WeightSavingsRate, savingsRate(income, expenses)),
		newFactor(FactorBudgetAdherence, WeightBudgetAdherence, budgetAdherence(inWindow, budgets, window)),
		newFactor(FactorExpenseVolatility, WeightExpenseVolatility, expenseVolatility(inWindow, window, expenses)),
		newFactor(FactorCategoryDiversity, WeightCategoryDiversity, categoryDiversity(inWindow, window)),
	}

	weighted := 0.0
	for _, f := range factors {
		weighted += f.Contribution
	}

	value := int(math.Round(50 + 50*weighted/totalWeight))
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	return &domain.HealthScore{Value: value, Factors: factors}, nil
}

func newFactor(name string, weight int, value float64) domain.Factor {
	return domain.Factor{
		Name:         name,
		Value:        value,
		Weight:       weight,
		Contribution: float64(weight) * value,
	}
}

func neutralScore() *domain.HealthScore {
	return &domain.HealthScore{
		Value: 50,
		Factors: []domain.Factor{
			{Name: FactorSavingsRate, Weight: WeightSavingsRate},
			{Name: FactorBudgetAdherence, Weight: WeightBudgetAdherence},
			{Name: FactorExpenseVolatility, Weight: WeightExpenseVolatility},
			{Name: FactorCategoryDiversity, Weight: WeightCategoryDiversity},
		},
	}
}

// savingsRate is (income - expenses) / income clamped to [-1,1]. With no
// income at all, any spending pins the factor at -1.
func savingsRate(income, expenses decimal.Decimal) float64 {
	if !income.IsPositive() {
		if expenses.IsPositive() {
			return -1
		}
		return 0
	}
	rate := income.Sub(expenses).Div(income).InexactFloat64()
	return clamp(rate, -1, 1)
}

// budgetAdherence is 1 - (categories over budget / categories with a budget),
// defaulting to 1 when no budgets are configured.
func budgetAdherence(transactions []*domain.Transaction, budgets []*domain.BudgetConfig, window domain.Window) float64 {
	if len(budgets) == 0 {
		return 1
	}
	spend := expenseByCategory(transactions, window)
	over := 0
	for _, budget := range budgets {
		if spent, ok := spend[budget.Category]; ok && spent.GreaterThan(budget.Limit) {
			over++
		}
	}
	return 1 - float64(over)/float64(len(budgets))
}

// expenseVolatility is 1 - min(1, stddev/mean) of daily expense totals over
// every calendar day in the window, defaulting to 1 when expenses are zero.
func expenseVolatility(transactions []*domain.Transaction, window domain.Window, expenses decimal.Decimal) float64 {
	if !expenses.IsPositive() {
		return 1
	}

	byDay := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		key := tx.Date.UTC().Format("2006-01-02")
		byDay[key] = byDay[key].Add(tx.Amount.Abs())
	}

	days := window.Days()
	totals := make([]float64, 0, days)
	for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
		totals = append(totals, byDay[d.Format("2006-01-02")].InexactFloat64())
	}

	mean := 0.0
	for _, v := range totals {
		mean += v
	}
	mean /= float64(len(totals))
	if mean == 0 {
		return 1
	}

	variance := 0.0
	for _, v := range totals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(totals))
	stddev := math.Sqrt(variance)

	return 1 - math.Min(1, stddev/mean)
}

// categoryDiversity is 1 - (max category spend / total spend), defaulting to
// 1 when total spend is zero.
func categoryDiversity(transactions []*domain.Transaction, window domain.Window) float64 {
	spend := expenseByCategory(transactions, window)

	total := decimal.Zero
	max := decimal.Zero
	for _, amount := range spend {
		total = total.Add(amount)
		if amount.GreaterThan(max) {
			max = amount
		}
	}
	if !total.IsPositive() {
		return 1
	}
	return 1 - max.Div(total).InexactFloat64()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
