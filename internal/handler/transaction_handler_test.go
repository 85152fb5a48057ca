package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/finsightapp/finsight-backend/internal/notify"
	"github.com/finsightapp/finsight-backend/internal/service"
	"github.com/finsightapp/finsight-backend/internal/testutil"
)

func newTransactionHandler() (*TransactionHandler, *testutil.MockTransactionRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionService := service.NewTransactionService(transactionRepo)
	dashboardService := service.NewDashboardService(transactionRepo, budgetRepo)
	return NewTransactionHandler(transactionService, dashboardService, &notify.NoOpPublisher{}), transactionRepo
}

func TestCreateTransaction_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()
	userID := uuid.New()

	body := `{"date":"2026-06-05","amount":"-12.30","category":"food","note":"lunch"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/transactions", body)
	setUserContext(c, userID)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Amount != "-12.30" {
		t.Errorf("Expected amount '-12.30', got %s", resp.Amount)
	}
	if resp.Category != "food" {
		t.Errorf("Expected category 'food', got %s", resp.Category)
	}
	if resp.Date != "2026-06-05" {
		t.Errorf("Expected date '2026-06-05', got %s", resp.Date)
	}
}

func TestCreateTransaction_ZeroAmount(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	body := `{"date":"2026-06-05","amount":"0","category":"food"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/transactions", body)
	setUserContext(c, uuid.New())

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateTransaction_BadAmount(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	body := `{"date":"2026-06-05","amount":"abc","category":"food"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/transactions", body)
	setUserContext(c, uuid.New())

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateTransaction_FutureDate(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	future := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	body := `{"date":"` + future + `","amount":"-5.00","category":"food"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/transactions", body)
	setUserContext(c, uuid.New())

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactions_Pagination(t *testing.T) {
	e := echo.New()
	handler, transactionRepo := newTransactionHandler()
	userID := uuid.New()

	for i := 0; i < 25; i++ {
		transactionRepo.AddTransaction(&domain.Transaction{
			ID:        uuid.New(),
			UserID:    userID,
			Date:      time.Date(2026, 6, 1+i%28, 0, 0, 0, 0, time.UTC),
			Amount:    decimal.NewFromInt(-10),
			Category:  "food",
			CreatedAt: time.Now(),
		})
	}

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/transactions?page=2&pageSize=10", "")
	setUserContext(c, userID)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp PaginatedTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.TotalItems != 25 {
		t.Errorf("Expected 25 total items, got %d", resp.TotalItems)
	}
	if resp.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", resp.TotalPages)
	}
	if len(resp.Data) != 10 {
		t.Errorf("Expected 10 items on page 2, got %d", len(resp.Data))
	}
}

func TestGetTransactions_InvalidRange(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/transactions?from=2026-06-30&to=2026-06-01", "")
	setUserContext(c, uuid.New())

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteTransaction_Success(t *testing.T) {
	e := echo.New()
	handler, transactionRepo := newTransactionHandler()
	userID := uuid.New()

	txID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:        txID,
		UserID:    userID,
		Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(-10),
		Category:  "food",
		CreatedAt: time.Now(),
	})

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/transactions/"+txID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(txID.String())
	setUserContext(c, userID)

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	id := uuid.New()
	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/transactions/"+id.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	setUserContext(c, uuid.New())

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteTransaction_OtherUsersTransaction(t *testing.T) {
	e := echo.New()
	handler, transactionRepo := newTransactionHandler()

	owner := uuid.New()
	txID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:        txID,
		UserID:    owner,
		Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(-10),
		Category:  "food",
		CreatedAt: time.Now(),
	})

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/transactions/"+txID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(txID.String())
	setUserContext(c, uuid.New()) // different user

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
