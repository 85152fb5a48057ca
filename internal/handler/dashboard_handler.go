package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/finsightapp/finsight-backend/internal/middleware"
	"github.com/finsightapp/finsight-backend/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles GET /api/v1/dashboard/summary. Without query params the
// summary covers the current calendar month; from/to select a custom window.
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	fromStr := c.QueryParam("from")
	toStr := c.QueryParam("to")

	var summary *domain.DashboardSummary
	var err error
	if fromStr == "" && toStr == "" {
		summary, err = h.dashboardService.GetSummary(userID)
	} else {
		window, werr := parseWindowParams(fromStr, toStr)
		if werr != nil {
			return NewValidationError(c, "Invalid date range (use YYYY-MM-DD, from <= to)", nil)
		}
		summary, err = h.dashboardService.GetSummaryForWindow(userID, *window)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWindow) {
			return NewValidationError(c, "Invalid date range", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetAlerts handles GET /api/v1/dashboard/alerts. Returns the current month's
// budget alerts without the rest of the summary.
func (h *DashboardHandler) GetAlerts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	alerts, err := h.dashboardService.EvaluateCurrentBudgets(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to evaluate budgets")
		return NewInternalError(c, "Failed to evaluate budgets")
	}

	return c.JSON(http.StatusOK, alerts)
}
