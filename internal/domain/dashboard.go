package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpend represents total expense amount for a category
type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthTotal represents total expenses for a calendar month ("2006-01")
type MonthTotal struct {
	Month    string          `json:"month"`
	Expenses decimal.Decimal `json:"expenses"`
}

// TrendPoint is one day on the cumulative savings curve
type TrendPoint struct {
	Date       time.Time       `json:"date"`
	Net        decimal.Decimal `json:"net"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// WeekdaySpend represents total expenses attributed to a weekday
type WeekdaySpend struct {
	Weekday string          `json:"weekday"`
	Amount  decimal.Decimal `json:"amount"`
}

// DashboardSummary contains the main dashboard metrics plus the data feeds
// the presentation layer renders as charts
type DashboardSummary struct {
	Window             Window          `json:"window"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	Savings            decimal.Decimal `json:"savings"`
	Score              *HealthScore    `json:"score"`
	Alerts             []*Alert        `json:"alerts"`
	Insights           []string        `json:"insights"`
	ExpensesByCategory []CategorySpend `json:"expensesByCategory"`
	MonthlyExpenses    []MonthTotal    `json:"monthlyExpenses"`
	SavingsTrend       []TrendPoint    `json:"savingsTrend"`
	WeekdaySpending    []WeekdaySpend  `json:"weekdaySpending"`
}
