package handler

import (
	"errors"
	"net/http"
	"strconv"
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

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	dashboardService   *service.DashboardService
	publisher          notify.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, dashboardService *service.DashboardService, publisher notify.EventPublisher) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		dashboardService:   dashboardService,
		publisher:          publisher,
	}
}

// CreateTransactionRequest represents the create transaction request body.
// Amount is signed: negative for expenses, positive for income.
type CreateTransactionRequest struct {
	Date     *string `json:"date,omitempty"`
	Amount   string  `json:"amount"`
	Category string  `json:"category"`
	Note     *string `json:"note,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Date          string  `json:"date"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Note          *string `json:"note,omitempty"`
	ImportBatchID *string `json:"importBatchId,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// PaginatedTransactionsResponse represents paginated transactions in API responses
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = parsed
	}

	input := service.CreateTransactionInput{
		Date:     date,
		Amount:   amount,
		Category: req.Category,
		Note:     req.Note,
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if resp := transactionValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Str("category", transaction.Category).Msg("Transaction created")

	h.publisher.Publish(userID, notify.TransactionCreated(toTransactionResponse(transaction)))
	h.pushBudgetAlerts(userID)

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{
		Page:     1,
		PageSize: domain.DefaultPageSize,
	}

	fromStr := c.QueryParam("from")
	toStr := c.QueryParam("to")
	if fromStr != "" || toStr != "" {
		window, err := parseWindowParams(fromStr, toStr)
		if err != nil {
			return NewValidationError(c, "Invalid date range (use YYYY-MM-DD, from <= to)", nil)
		}
		filters.Window = window
	}

	if category := c.QueryParam("category"); category != "" {
		filters.Category = &category
	}

	if pageStr := c.QueryParam("page"); pageStr != "" {
		page, err := strconv.ParseInt(pageStr, 10, 32)
		if err != nil || page < 1 {
			return NewValidationError(c, "Invalid page (must be positive integer)", nil)
		}
		filters.Page = int32(page)
	}

	if pageSizeStr := c.QueryParam("pageSize"); pageSizeStr != "" {
		pageSize, err := strconv.ParseInt(pageSizeStr, 10, 32)
		if err != nil || pageSize < 1 {
			return NewValidationError(c, "Invalid pageSize (must be positive integer)", nil)
		}
		filters.PageSize = int32(pageSize)
	}

	result, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWindow) {
			return NewValidationError(c, "Invalid date range", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	response := PaginatedTransactionsResponse{
		Data:       make([]TransactionResponse, len(result.Data)),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
	for i, transaction := range result.Data {
		response.Data[i] = toTransactionResponse(transaction)
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction deleted")

	h.publisher.Publish(userID, notify.TransactionDeleted(map[string]string{"id": id.String()}))
	h.pushBudgetAlerts(userID)

	return c.NoContent(http.StatusNoContent)
}

// pushBudgetAlerts re-evaluates the current month's budgets after a write and
// pushes any alerts to the user's connected clients. Failures are logged, not
// surfaced: the write already succeeded.
func (h *TransactionHandler) pushBudgetAlerts(userID uuid.UUID) {
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

// transactionValidationResponse maps transaction validation errors to a 400
// response, or returns nil when the error is not a validation error.
func transactionValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrZeroAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must not be zero"},
		})
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrCategoryTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrNoteTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "note", Message: "Note must be 500 characters or less"},
		})
	case errors.Is(err, domain.ErrFutureDate):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Date must not be in the future"},
		})
	}
	return nil
}

// parseWindowParams builds a window from from/to query params. Both are
// required once either is present.
func parseWindowParams(fromStr, toStr string) (*domain.Window, error) {
	if fromStr == "" || toStr == "" {
		return nil, domain.ErrInvalidWindow
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return nil, err
	}
	window, err := domain.NewWindow(from, to)
	if err != nil {
		return nil, err
	}
	return &window, nil
}

// Helper function to convert domain.Transaction to TransactionResponse
func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        transaction.ID.String(),
		UserID:    transaction.UserID.String(),
		Date:      transaction.Date.Format("2006-01-02"),
		Amount:    transaction.Amount.StringFixed(2),
		Category:  transaction.Category,
		CreatedAt: transaction.CreatedAt.Format(time.RFC3339),
	}
	if transaction.Note != nil {
		resp.Note = transaction.Note
	}
	if transaction.ImportBatchID != nil {
		batchID := transaction.ImportBatchID.String()
		resp.ImportBatchID = &batchID
	}
	return resp
}
