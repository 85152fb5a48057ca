package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportSnapshot bundles everything an exporter needs to render a report.
// Export formatting (CSV columns, PDF layout) is the exporter's concern.
type ReportSnapshot struct {
	GeneratedAt   time.Time       `json:"generatedAt"`
	User          *User           `json:"user"`
	Window        Window          `json:"window"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Savings       decimal.Decimal `json:"savings"`
	Score         *HealthScore    `json:"score"`
	Alerts        []*Alert        `json:"alerts"`
	Transactions  []*Transaction  `json:"transactions"`
}
