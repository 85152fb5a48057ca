package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/finsightapp/finsight-backend/internal/middleware"
	"github.com/finsightapp/finsight-backend/internal/notify"
	"github.com/finsightapp/finsight-backend/internal/service"
)

// ReportHandler handles report and CSV import/export HTTP requests
type ReportHandler struct {
	reportService      *service.ReportService
	transactionService *service.TransactionService
	dashboardService   *service.DashboardService
	publisher          notify.EventPublisher
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, transactionService *service.TransactionService, dashboardService *service.DashboardService, publisher notify.EventPublisher) *ReportHandler {
	return &ReportHandler{
		reportService:      reportService,
		transactionService: transactionService,
		dashboardService:   dashboardService,
		publisher:          publisher,
	}
}

// GetSnapshot handles GET /api/v1/reports/snapshot
func (h *ReportHandler) GetSnapshot(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	window, err := parseWindowParams(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return NewValidationError(c, "Invalid date range (use YYYY-MM-DD, from <= to)", nil)
	}

	snapshot, err := h.reportService.Snapshot(userID, *window)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build report snapshot")
		return NewInternalError(c, "Failed to build report")
	}

	return c.JSON(http.StatusOK, snapshot)
}

// ExportCSV handles GET /api/v1/reports/export. Streams the window's
// transactions as a CSV attachment.
func (h *ReportHandler) ExportCSV(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	window, err := parseWindowParams(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return NewValidationError(c, "Invalid date range (use YYYY-MM-DD, from <= to)", nil)
	}

	snapshot, err := h.reportService.Snapshot(userID, *window)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build report snapshot")
		return NewInternalError(c, "Failed to build report")
	}

	csv, err := h.reportService.RenderCSV(snapshot)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to render CSV")
		return NewInternalError(c, "Failed to render CSV")
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv",
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv", []byte(csv))
}

// ImportResponse represents the result of a CSV import
type ImportResponse struct {
	Imported      int     `json:"imported"`
	ImportBatchID *string `json:"importBatchId,omitempty"`
}

// ImportCSV handles POST /api/v1/reports/import. The request body is a CSV
// with a date,amount,category,note header. The import is all-or-nothing.
func (h *ReportHandler) ImportCSV(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	inputs, err := h.reportService.ParseTransactionsCSV(c.Request().Body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCSV) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to read CSV body")
		return NewInternalError(c, "Failed to read CSV")
	}
	if len(inputs) == 0 {
		return NewValidationError(c, "CSV contains no transactions", nil)
	}

	transactions, err := h.transactionService.ImportTransactions(userID, inputs)
	if err != nil {
		if resp := transactionValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("rows", len(inputs)).Msg("Failed to import transactions")
		return NewInternalError(c, "Failed to import transactions")
	}

	log.Info().Str("user_id", userID.String()).Int("imported", len(transactions)).Msg("Transactions imported")

	response := ImportResponse{Imported: len(transactions)}
	if len(transactions) > 0 && transactions[0].ImportBatchID != nil {
		batchID := transactions[0].ImportBatchID.String()
		response.ImportBatchID = &batchID
	}

	h.publisher.Publish(userID, notify.TransactionsImported(response))
	h.pushBudgetAlerts(userID)

	return c.JSON(http.StatusCreated, response)
}

func (h *ReportHandler) pushBudgetAlerts(userID uuid.UUID) {
	if h.dashboardService == nil {
		return
	}
	alerts, err := h.dashboardService.EvaluateCurrentBudgets(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Budget evaluation after import failed")
		return
	}
	for _, alert := range alerts {
		h.publisher.Publish(userID, notify.AlertRaised(alert))
	}
}
