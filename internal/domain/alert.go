package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Alert is a derived notice that spend in a category exceeded its configured
// budget within a window. Alerts are computed fresh on each evaluation and
// never persisted.
type Alert struct {
	UserID   uuid.UUID       `json:"userId"`
	Category string          `json:"category"`
	Period   BudgetPeriod    `json:"period"`
	Spent    decimal.Decimal `json:"spent"`
	Limit    decimal.Decimal `json:"limit"`
	OverBy   decimal.Decimal `json:"overBy"`
}
