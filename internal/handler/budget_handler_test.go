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

func newBudgetHandler() (*BudgetHandler, *testutil.MockBudgetRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	budgetService := service.NewBudgetService(budgetRepo)
	dashboardService := service.NewDashboardService(transactionRepo, budgetRepo)
	return NewBudgetHandler(budgetService, dashboardService, &notify.NoOpPublisher{}), budgetRepo
}

func TestSetBudget_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newBudgetHandler()

	body := `{"category":"food","limit":"500.00"}`
	c, rec := newJSONContext(e, http.MethodPut, "/api/v1/budgets", body)
	setUserContext(c, uuid.New())

	if err := handler.SetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Category != "food" {
		t.Errorf("Expected category 'food', got %s", resp.Category)
	}
	if resp.Limit != "500.00" {
		t.Errorf("Expected limit '500.00', got %s", resp.Limit)
	}
	if resp.Period != "monthly" {
		t.Errorf("Expected period 'monthly', got %s", resp.Period)
	}
}

func TestSetBudget_ReplacesExisting(t *testing.T) {
	e := echo.New()
	handler, _ := newBudgetHandler()
	userID := uuid.New()

	for _, limit := range []string{"500.00", "750.00"} {
		body := `{"category":"food","limit":"` + limit + `"}`
		c, rec := newJSONContext(e, http.MethodPut, "/api/v1/budgets", body)
		setUserContext(c, userID)
		if err := handler.SetBudget(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
	}

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/budgets", "")
	setUserContext(c, userID)
	if err := handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var budgets []BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &budgets); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("Expected 1 budget after replace, got %d", len(budgets))
	}
	if budgets[0].Limit != "750.00" {
		t.Errorf("Expected limit '750.00', got %s", budgets[0].Limit)
	}
}

func TestSetBudget_InvalidLimit(t *testing.T) {
	e := echo.New()
	handler, _ := newBudgetHandler()

	tests := []struct {
		name string
		body string
	}{
		{"zero limit", `{"category":"food","limit":"0"}`},
		{"negative limit", `{"category":"food","limit":"-100"}`},
		{"non-numeric limit", `{"category":"food","limit":"abc"}`},
		{"missing category", `{"category":"","limit":"100"}`},
		{"bad period", `{"category":"food","period":"weekly","limit":"100"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(e, http.MethodPut, "/api/v1/budgets", tt.body)
			setUserContext(c, uuid.New())

			if err := handler.SetBudget(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestDeleteBudget_Success(t *testing.T) {
	e := echo.New()
	handler, budgetRepo := newBudgetHandler()
	userID := uuid.New()

	budgetRepo.AddBudget(&domain.BudgetConfig{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  "food",
		Period:    domain.BudgetPeriodMonthly,
		Limit:     decimal.NewFromInt(500),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/budgets/food", "")
	c.SetParamNames("category")
	c.SetParamValues("food")
	setUserContext(c, userID)

	if err := handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestDeleteBudget_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newBudgetHandler()

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/budgets/food", "")
	c.SetParamNames("category")
	c.SetParamValues("food")
	setUserContext(c, uuid.New())

	if err := handler.DeleteBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
