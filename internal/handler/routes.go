package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/finsightapp/finsight-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, identity *middleware.IdentityMiddleware, rateLimiter *middleware.RateLimiter, userHandler *UserHandler, transactionHandler *TransactionHandler, budgetHandler *BudgetHandler, dashboardHandler *DashboardHandler, reportHandler *ReportHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Registration is the only endpoint without an identity
	api.POST("/users", userHandler.Register)

	// User routes (protected)
	users := api.Group("/users")
	users.Use(identity.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	users.GET("/me", userHandler.GetMe)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(identity.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(identity.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	budgets.PUT("", budgetHandler.SetBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.DELETE("/:category", budgetHandler.DeleteBudget)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(identity.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/alerts", dashboardHandler.GetAlerts)

	// Report routes (protected)
	reports := api.Group("/reports")
	reports.Use(identity.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	reports.GET("/snapshot", reportHandler.GetSnapshot)
	reports.GET("/export", reportHandler.ExportCSV)
	reports.POST("/import", reportHandler.ImportCSV)

	// WebSocket endpoint does its own identity check during the upgrade
	e.GET("/ws", wsHandler.HandleWS)
}
