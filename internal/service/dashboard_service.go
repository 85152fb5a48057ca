package service

import (
	"sort"
	"time"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/finsightapp/finsight-backend/internal/engine"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardService assembles the dashboard view: totals, health score,
// alerts, insights, and the aggregates the presentation layer charts.
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository, budgetRepo domain.BudgetRepository) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
	}
}

// GetSummary returns the dashboard summary for the current calendar month
func (s *DashboardService) GetSummary(userID uuid.UUID) (*domain.DashboardSummary, error) {
	return s.GetSummaryForWindow(userID, domain.CurrentMonthWindow(time.Now()))
}

// GetSummaryForWindow returns the dashboard summary for an arbitrary window
func (s *DashboardService) GetSummaryForWindow(userID uuid.UUID, window domain.Window) (*domain.DashboardSummary, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByWindow(userID, window)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	alerts, err := engine.EvaluateBudgets(transactions, budgets, window)
	if err != nil {
		return nil, err
	}
	score, err := engine.ComputeHealthScore(transactions, budgets, window)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range transactions {
		if tx.IsIncome() {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Abs())
		}
	}

	return &domain.DashboardSummary{
		Window:             window,
		TotalIncome:        income,
		TotalExpenses:      expenses,
		Savings:            income.Sub(expenses),
		Score:              score,
		Alerts:             alerts,
		Insights:           engine.GenerateInsights(alerts, score),
		ExpensesByCategory: expensesByCategory(transactions),
		MonthlyExpenses:    monthlyExpenses(transactions),
		SavingsTrend:       savingsTrend(transactions),
		WeekdaySpending:    weekdaySpending(transactions),
	}, nil
}

// EvaluateCurrentBudgets recomputes alerts for the current calendar month.
// Used after writes to push fresh alerts to connected clients.
func (s *DashboardService) EvaluateCurrentBudgets(userID uuid.UUID) ([]*domain.Alert, error) {
	window := domain.CurrentMonthWindow(time.Now())

	transactions, err := s.transactionRepo.GetByWindow(userID, window)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	return engine.EvaluateBudgets(transactions, budgets, window)
}

// expensesByCategory aggregates expense totals per category, largest first
func expensesByCategory(transactions []*domain.Transaction) []domain.CategorySpend {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.IsExpense() {
			totals[tx.Category] = totals[tx.Category].Add(tx.Amount.Abs())
		}
	}

	result := make([]domain.CategorySpend, 0, len(totals))
	for category, amount := range totals {
		result = append(result, domain.CategorySpend{Category: category, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		cmp := result[i].Amount.Cmp(result[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// monthlyExpenses aggregates expense totals per calendar month, oldest first
func monthlyExpenses(transactions []*domain.Transaction) []domain.MonthTotal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.IsExpense() {
			key := tx.Date.UTC().Format("2006-01")
			totals[key] = totals[key].Add(tx.Amount.Abs())
		}
	}

	result := make([]domain.MonthTotal, 0, len(totals))
	for month, amount := range totals {
		result = append(result, domain.MonthTotal{Month: month, Expenses: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})
	return result
}

// savingsTrend produces the cumulative daily net curve, oldest first
func savingsTrend(transactions []*domain.Transaction) []domain.TrendPoint {
	nets := make(map[time.Time]decimal.Decimal)
	for _, tx := range transactions {
		day := time.Date(tx.Date.UTC().Year(), tx.Date.UTC().Month(), tx.Date.UTC().Day(), 0, 0, 0, 0, time.UTC)
		nets[day] = nets[day].Add(tx.Amount)
	}

	days := make([]time.Time, 0, len(nets))
	for day := range nets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	result := make([]domain.TrendPoint, 0, len(days))
	cumulative := decimal.Zero
	for _, day := range days {
		cumulative = cumulative.Add(nets[day])
		result = append(result, domain.TrendPoint{
			Date:       day,
			Net:        nets[day],
			Cumulative: cumulative,
		})
	}
	return result
}

// weekdaySpending aggregates expense totals per weekday, Monday through Sunday
func weekdaySpending(transactions []*domain.Transaction) []domain.WeekdaySpend {
	totals := make(map[time.Weekday]decimal.Decimal)
	for _, tx := range transactions {
		if tx.IsExpense() {
			totals[tx.Date.UTC().Weekday()] = totals[tx.Date.UTC().Weekday()].Add(tx.Amount.Abs())
		}
	}

	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	result := make([]domain.WeekdaySpend, 0, len(order))
	for _, weekday := range order {
		result = append(result, domain.WeekdaySpend{
			Weekday: weekday.String(),
			Amount:  totals[weekday],
		})
	}
	return result
}
