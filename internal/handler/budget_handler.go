package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/finsightapp/finsight-backend/internal/middleware"
	"github.com/finsightapp/finsight-backend/internal/notify"
	"github.com/finsightapp/finsight-backend/internal/service"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService    *service.BudgetService
	dashboardService *service.DashboardService
	publisher        notify.EventPublisher
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, dashboardService *service.DashboardService, publisher notify.EventPublisher) *BudgetHandler {
	return &BudgetHandler{
		budgetService:    budgetService,
		dashboardService: dashboardService,
		publisher:        publisher,
	}
}

// SetBudgetRequest represents the set budget request body
type SetBudgetRequest struct {
	Category string `json:"category"`
	Period   string `json:"period,omitempty"`
	Limit    string `json:"limit"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Category  string `json:"category"`
	Period    string `json:"period"`
	Limit     string `json:"limit"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SetBudget handles PUT /api/v1/budgets. Creates or replaces the budget for
// the (category, period) pair.
func (h *BudgetHandler) SetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	limit, err := decimal.NewFromString(req.Limit)
	if err != nil {
		return NewValidationError(c, "Invalid limit", []ValidationError{
			{Field: "limit", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.SetBudget(userID, req.Category, domain.BudgetPeriod(req.Period), limit)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category is required"},
			})
		}
		if errors.Is(err, domain.ErrCategoryTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category must be 100 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidLimit) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "limit", Message: "Limit must be positive"},
			})
		}
		if errors.Is(err, domain.ErrInvalidPeriod) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "period", Message: "Period must be 'monthly'"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("category", req.Category).Msg("Failed to set budget")
		return NewInternalError(c, "Failed to set budget")
	}

	log.Info().Str("user_id", userID.String()).Str("category", budget.Category).Str("limit", budget.Limit.String()).Msg("Budget set")

	h.publisher.Publish(userID, notify.BudgetUpdated(toBudgetResponse(budget)))
	h.pushBudgetAlerts(userID)

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgets, err := h.budgetService.GetBudgets(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, budget := range budgets {
		response[i] = toBudgetResponse(budget)
	}

	return c.JSON(http.StatusOK, response)
}

// DeleteBudget handles DELETE /api/v1/budgets/:category
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	category := c.Param("category")
	period := domain.BudgetPeriod(c.QueryParam("period"))

	if err := h.budgetService.DeleteBudget(userID, category, period); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if errors.Is(err, domain.ErrInvalidPeriod) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "period", Message: "Period must be 'monthly'"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("category", category).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Str("category", category).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}

func (h *BudgetHandler) pushBudgetAlerts(userID uuid.UUID) {
	if h.dashboardService == nil {
		return
	}
	alerts, err := h.dashboardService.EvaluateCurrentBudgets(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Budget evaluation after write failed")
		return
	}
	for _, alert := range alerts {
		h.publisher.Publish(userID, notify.AlertRaised(alert))
	}
}

func toBudgetResponse(budget *domain.BudgetConfig) BudgetResponse {
	return BudgetResponse{
		ID:        budget.ID.String(),
		UserID:    budget.UserID.String(),
		Category:  budget.Category,
		Period:    string(budget.Period),
		Limit:     budget.Limit.StringFixed(2),
		CreatedAt: budget.CreatedAt.Format(time.RFC3339),
		UpdatedAt: budget.UpdatedAt.Format(time.RFC3339),
	}
}
