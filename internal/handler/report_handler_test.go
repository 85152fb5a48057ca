package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

func newReportHandler() (*ReportHandler, *testutil.MockUserRepository, *testutil.MockTransactionRepository) {
	userRepo := testutil.NewMockUserRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	reportService := service.NewReportService(userRepo, transactionRepo, budgetRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	dashboardService := service.NewDashboardService(transactionRepo, budgetRepo)
	return NewReportHandler(reportService, transactionService, dashboardService, &notify.NoOpPublisher{}), userRepo, transactionRepo
}

func TestExportCSV(t *testing.T) {
	e := echo.New()
	handler, userRepo, transactionRepo := newReportHandler()
	userID := seedUser(t, userRepo)

	note := "lunch"
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("-12.30"),
		Category:  "food",
		Note:      &note,
		CreatedAt: time.Now(),
	})

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/reports/export?from=2026-06-01&to=2026-06-30", "")
	setUserContext(c, userID)

	if err := handler.ExportCSV(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "transactions_2026-06-01_2026-06-30.csv") {
		t.Errorf("Unexpected Content-Disposition: %s", got)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "date,amount,category,note") {
		t.Errorf("Expected CSV header, got %q", body)
	}
	if !strings.Contains(body, "2026-06-05,-12.30,food,lunch") {
		t.Errorf("Expected transaction row in CSV, got %q", body)
	}
}

func TestExportCSV_MissingRange(t *testing.T) {
	e := echo.New()
	handler, userRepo, _ := newReportHandler()
	userID := seedUser(t, userRepo)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/reports/export", "")
	setUserContext(c, userID)

	if err := handler.ExportCSV(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetSnapshot(t *testing.T) {
	e := echo.New()
	handler, userRepo, transactionRepo := newReportHandler()
	userID := seedUser(t, userRepo)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(2000),
		Category:  "salary",
		CreatedAt: time.Now(),
	})

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/reports/snapshot?from=2026-06-01&to=2026-06-30", "")
	setUserContext(c, userID)

	if err := handler.GetSnapshot(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var snapshot domain.ReportSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if snapshot.User == nil || snapshot.User.ID != userID {
		t.Error("Expected snapshot to include the user")
	}
	if !snapshot.TotalIncome.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected total income 2000, got %s", snapshot.TotalIncome)
	}
	if len(snapshot.Transactions) != 1 {
		t.Errorf("Expected 1 transaction in snapshot, got %d", len(snapshot.Transactions))
	}
}

func TestImportCSV(t *testing.T) {
	e := echo.New()
	handler, userRepo, transactionRepo := newReportHandler()
	userID := seedUser(t, userRepo)

	csv := "date,amount,category,note\n" +
		"2026-06-05,-12.30,food,lunch\n" +
		"2026-06-06,2000.00,salary,\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/import", strings.NewReader(csv))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, userID)

	if err := handler.ImportCSV(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", resp.Imported)
	}
	if resp.ImportBatchID == nil {
		t.Error("Expected an import batch ID")
	}

	// Both rows share the same batch ID
	stored, err := transactionRepo.GetByWindow(userID, domain.MonthWindow(2026, time.June))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("Expected 2 stored transactions, got %d", len(stored))
	}
	if stored[0].ImportBatchID == nil || stored[1].ImportBatchID == nil ||
		*stored[0].ImportBatchID != *stored[1].ImportBatchID {
		t.Error("Expected both transactions to share one import batch ID")
	}
}

func TestImportCSV_BadRow(t *testing.T) {
	e := echo.New()
	handler, userRepo, transactionRepo := newReportHandler()
	userID := seedUser(t, userRepo)

	csv := "date,amount,category,note\n" +
		"2026-06-05,-12.30,food,lunch\n" +
		"2026-06-06,not-a-number,salary,\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/import", strings.NewReader(csv))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, userID)

	if err := handler.ImportCSV(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	// Nothing was written
	stored, err := transactionRepo.GetByWindow(userID, domain.MonthWindow(2026, time.June))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("Expected no stored transactions after failed import, got %d", len(stored))
	}
}

func TestImportCSV_Empty(t *testing.T) {
	e := echo.New()
	handler, userRepo, _ := newReportHandler()
	userID := seedUser(t, userRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/import", strings.NewReader("date,amount,category,note\n"))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, userID)

	if err := handler.ImportCSV(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
