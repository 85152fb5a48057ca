package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/finsightapp/finsight-backend/internal/domain"
	"github.com/finsightapp/finsight-backend/internal/engine"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// csvHeader is the column layout for transaction CSV import and export
var csvHeader = []string{"date", "amount", "category", "note"}

const csvDateLayout = "2006-01-02"

// ReportService assembles export snapshots and handles the transaction CSV
// format. Rendering beyond CSV (PDF layout etc.) belongs to the exporter.
type ReportService struct {
	userRepo        domain.UserRepository
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
}

// NewReportService creates a new ReportService
func NewReportService(userRepo domain.UserRepository, transactionRepo domain.TransactionRepository, budgetRepo domain.BudgetRepository) *ReportService {
	return &ReportService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
	}
}

// Snapshot bundles transactions, totals, score, and alerts for one window
func (s *ReportService) Snapshot(userID uuid.UUID, window domain.Window) (*domain.ReportSnapshot, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetByWindow(userID, window)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	alerts, err := engine.EvaluateBudgets(transactions, budgets, window)
	if err != nil {
		return nil, err
	}
	score, err := engine.ComputeHealthScore(transactions, budgets, window)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range transactions {
		if tx.IsIncome() {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Abs())
		}
	}

	return &domain.ReportSnapshot{
		GeneratedAt:   time.Now().UTC(),
		User:          user,
		Window:        window,
		TotalIncome:   income,
		TotalExpenses: expenses,
		Savings:       income.Sub(expenses),
		Score:         score,
		Alerts:        alerts,
		Transactions:  transactions,
	}, nil
}

// RenderCSV renders the snapshot's transactions as CSV
func (s *ReportService) RenderCSV(snapshot *domain.ReportSnapshot) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(csvHeader); err != nil {
		return "", err
	}
	for _, tx := range snapshot.Transactions {
		note := ""
		if tx.Note != nil {
			note = *tx.Note
		}
		row := []string{
			tx.Date.UTC().Format(csvDateLayout),
			tx.Amount.StringFixed(2),
			tx.Category,
			note,
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseTransactionsCSV parses an import file into transaction inputs.
// Expected header: date,amount,category[,note]. Amounts are signed the same
// way transactions are: negative for expenses, positive for income.
func (s *ReportService) ParseTransactionsCSV(r io.Reader) ([]CreateTransactionInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header", domain.ErrInvalidCSV)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "amount", "category"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidCSV, required)
		}
	}

	inputs := make([]CreateTransactionInput, 0)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidCSV, line, err)
		}

		date, err := time.Parse(csvDateLayout, strings.TrimSpace(record[columns["date"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid date", domain.ErrInvalidCSV, line)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[columns["amount"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid amount", domain.ErrInvalidCSV, line)
		}

		input := CreateTransactionInput{
			Date:     date,
			Amount:   amount,
			Category: record[columns["category"]],
		}
		if i, ok := columns["note"]; ok && i < len(record) {
			if note := strings.TrimSpace(record[i]); note != "" {
				input.Note = &note
			}
		}
		inputs = append(inputs, input)
	}

	return inputs, nil
}
